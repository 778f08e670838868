package models

import "fmt"

// Dataset identifies one PropertyData feed and the pipeline that renders it
type Dataset string

const (
	DatasetPlanning    Dataset = "planning"
	DatasetSchools     Dataset = "schools"
	DatasetCrime       Dataset = "crime"
	DatasetRestaurants Dataset = "restaurants"
)

// AllDatasets lists the datasets in page order
func AllDatasets() []Dataset {
	return []Dataset{DatasetPlanning, DatasetSchools, DatasetCrime, DatasetRestaurants}
}

// ParseDataset converts a name into a known Dataset
func ParseDataset(name string) (Dataset, error) {
	for _, d := range AllDatasets() {
		if string(d) == name {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown dataset %q", name)
}

// String implements fmt.Stringer
func (d Dataset) String() string {
	return string(d)
}
