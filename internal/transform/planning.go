package transform

import (
	"fmt"
	"sort"
	"time"

	"propdash/internal/logger"
	"propdash/internal/models"

	"github.com/tidwall/gjson"
)

const monthKeyLayout = "2006-01"

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParsePlanning reads the dated applications from a planning payload.
// Records without a parseable date_received are skipped; a missing or null
// data list yields no applications.
func ParsePlanning(raw []byte) ([]models.PlanningApplication, error) {
	doc, err := parse(models.DatasetPlanning, raw)
	if err != nil {
		return nil, err
	}

	data := doc.Get("data")
	if !data.Exists() || data.Type == gjson.Null {
		return nil, nil
	}
	if !data.IsArray() {
		return nil, fmt.Errorf("%w: planning data is not a list", ErrMalformedShape)
	}

	var apps []models.PlanningApplication
	data.ForEach(func(_, record gjson.Result) bool {
		received, ok := parseDate(record.Get("date_received").String())
		if !ok {
			return true
		}
		apps = append(apps, models.PlanningApplication{
			Reference:    record.Get("reference").String(),
			DateReceived: received,
		})
		return true
	})
	return apps, nil
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Planning turns a planning payload into application counts per month
func (t *Transformer) Planning(raw []byte) (models.Series, error) {
	apps, err := ParsePlanning(raw)
	if err != nil {
		return models.Series{}, err
	}
	return t.PlanningTrend(apps), nil
}

// PlanningTrend counts applications per calendar month (YYYY-MM), sorted by
// month and capped to the most recent months. With no applications it
// synthesizes the trailing months ending now, when enabled.
func (t *Transformer) PlanningTrend(apps []models.PlanningApplication) models.Series {
	counts := make(map[string]int)
	for _, app := range apps {
		counts[app.DateReceived.Format(monthKeyLayout)]++
	}

	if len(counts) == 0 {
		if !t.opts.SynthesizeEmpty {
			return models.Series{Labels: []string{}, Values: []float64{}}
		}
		t.log.Warn("No dated planning applications, using synthetic months", logger.Fields{
			"months": t.opts.TrendMonths,
		})
		counts = t.syntheticMonths()
	}

	months := make([]string, 0, len(counts))
	for month := range counts {
		months = append(months, month)
	}
	sort.Strings(months)
	if len(months) > t.opts.TrendMonths {
		months = months[len(months)-t.opts.TrendMonths:]
	}

	pairs := make([]models.Pair, len(months))
	for i, month := range months {
		pairs[i] = models.Pair{Name: month, Value: float64(counts[month])}
	}
	return models.NewSeries(pairs)
}

// syntheticMonths returns a count in [1,10] for each of the trailing months
// ending with the current one.
func (t *Transformer) syntheticMonths() map[string]int {
	now := t.now()
	counts := make(map[string]int, t.opts.TrendMonths)
	for i := t.opts.TrendMonths - 1; i >= 0; i-- {
		month := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, now.Location())
		counts[month.Format(monthKeyLayout)] = t.intN(10) + 1
	}
	return counts
}
