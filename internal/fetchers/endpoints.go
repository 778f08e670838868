package fetchers

import (
	"net/url"
	"strconv"

	"propdash/internal/config"
	"propdash/internal/models"
)

// Endpoint is one PropertyData resource and the query that selects its area
type Endpoint struct {
	Path   string
	Params url.Values
}

// Endpoints maps each dataset to its endpoint. Datasets do not share a
// postcode: each one queries its own area.
type Endpoints map[models.Dataset]Endpoint

// EndpointsFromConfig builds the endpoint table from configuration
func EndpointsFromConfig(cfg *config.Config) Endpoints {
	return Endpoints{
		models.DatasetPlanning: {
			Path: "/planning",
			Params: url.Values{
				"postcode":        {cfg.PlanningPostcode},
				"decision_rating": {cfg.PlanningDecisionRating},
				"category":        {cfg.PlanningCategory},
				"max_age_update":  {strconv.Itoa(cfg.PlanningMaxAgeUpdate)},
				"results":         {strconv.Itoa(cfg.PlanningResults)},
			},
		},
		models.DatasetSchools: {
			Path:   "/schools",
			Params: url.Values{"postcode": {cfg.SchoolsPostcode}},
		},
		models.DatasetCrime: {
			Path:   "/crime",
			Params: url.Values{"postcode": {cfg.CrimePostcode}},
		},
		models.DatasetRestaurants: {
			Path:   "/restaurants",
			Params: url.Values{"postcode": {cfg.RestaurantsPostcode}},
		},
	}
}
