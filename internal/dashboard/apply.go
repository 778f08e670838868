package dashboard

import (
	"encoding/json"
	"fmt"
	"time"

	"propdash/internal/charts"
	"propdash/internal/logger"
	"propdash/internal/models"
)

// Apply renders chart onto handle and reports whether it did. A nil handle
// is a no-op. Errors and panics while building the option are logged, never
// propagated, and leave the previous render in place.
func Apply(handle *Handle, chart charts.Chart, series models.Series) (applied bool) {
	if handle == nil {
		return false
	}

	defer func() {
		if rec := recover(); rec != nil {
			logger.Component("dashboard").Error("Failed to set chart option",
				fmt.Errorf("%v", rec), logger.Fields{"element": handle.ElementID()})
			applied = false
		}
	}()

	if chart == nil {
		logger.Component("dashboard").Error("Failed to set chart option",
			fmt.Errorf("no chart"), logger.Fields{"element": handle.ElementID()})
		return false
	}

	chart.Validate()
	option, err := json.Marshal(chart.JSON())
	if err != nil {
		logger.Component("dashboard").Error("Failed to set chart option", err,
			logger.Fields{"element": handle.ElementID()})
		return false
	}

	handle.setOption(option, series, time.Now().UTC())
	return true
}
