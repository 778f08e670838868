// Package transform reshapes raw PropertyData payloads into chart series.
package transform

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"propdash/internal/logger"
	"propdash/internal/models"

	"github.com/tidwall/gjson"
)

// ErrMalformedShape is returned when a payload lacks the structure a dataset needs
var ErrMalformedShape = errors.New("malformed response shape")

// Options controls dataset-specific transformation behaviour
type Options struct {
	// SynthesizeEmpty fills the planning chart with placeholder months when
	// no dated applications are available.
	SynthesizeEmpty bool
	// TrendMonths caps the planning trend to the most recent months.
	TrendMonths int
}

// DefaultOptions returns the options the dashboard runs with
func DefaultOptions() Options {
	return Options{
		SynthesizeEmpty: true,
		TrendMonths:     12,
	}
}

// Transformer converts raw payloads into Series. It is safe for concurrent use
// as long as its Now and IntN functions are.
type Transformer struct {
	opts Options
	now  func() time.Time
	intN func(n int) int
	log  *logger.Logger
}

// Option customises a Transformer
type Option func(*Transformer)

// WithClock replaces the clock used to place synthesized months
func WithClock(now func() time.Time) Option {
	return func(t *Transformer) { t.now = now }
}

// WithRandom replaces the random source used for synthesized counts
func WithRandom(intN func(n int) int) Option {
	return func(t *Transformer) { t.intN = intN }
}

// New creates a Transformer
func New(opts Options, options ...Option) *Transformer {
	if opts.TrendMonths <= 0 {
		opts.TrendMonths = DefaultOptions().TrendMonths
	}
	t := &Transformer{
		opts: opts,
		now:  time.Now,
		intN: rand.IntN,
		log:  logger.Component("transform"),
	}
	for _, o := range options {
		o(t)
	}
	return t
}

// Transform dispatches raw to the transformer for dataset
func (t *Transformer) Transform(dataset models.Dataset, raw []byte) (models.Series, error) {
	switch dataset {
	case models.DatasetPlanning:
		return t.Planning(raw)
	case models.DatasetSchools:
		return t.Schools(raw)
	case models.DatasetCrime:
		return t.Crime(raw)
	case models.DatasetRestaurants:
		return t.Restaurants(raw)
	default:
		return models.Series{}, fmt.Errorf("no transformer for dataset %q", dataset)
	}
}

func parse(dataset models.Dataset, raw []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, fmt.Errorf("%w: %s payload is not valid JSON", ErrMalformedShape, dataset)
	}
	return gjson.ParseBytes(raw), nil
}

// numeric reads a finite JSON number, or a string holding one
func numeric(r gjson.Result) (float64, bool) {
	var f float64
	switch r.Type {
	case gjson.Number:
		f = r.Num
	case gjson.String:
		var err error
		if f, err = strconv.ParseFloat(strings.TrimSpace(r.Str), 64); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
