package dashboard

import "propdash/internal/models"

// DOM element ids of the dashboard page
const (
	ElementPlanning    = "populationChart"
	ElementSchools     = "areaChart"
	ElementCrime       = "barChart"
	ElementRestaurants = "barChart3D"
	ElementMap         = "map"
)

// ElementKind tells chart targets from the map target
type ElementKind string

const (
	KindChart ElementKind = "chart"
	KindMap   ElementKind = "map"
)

// Element is one rendering target declared by the page
type Element struct {
	ID      string
	Kind    ElementKind
	Dataset models.Dataset
	// WidthFraction is the share of the viewport width the element spans
	WidthFraction float64
	Height        int
}

// SizeFor returns the element's size in the given viewport
func (e Element) SizeFor(viewport models.Size) models.Size {
	return models.Size{
		Width:  int(float64(viewport.Width) * e.WidthFraction),
		Height: e.Height,
	}
}

// Layout is the set of rendering targets the page declares, in page order
type Layout struct {
	elements []Element
	byID     map[string]Element
}

// NewLayout creates a layout from elements
func NewLayout(elements ...Element) *Layout {
	l := &Layout{byID: make(map[string]Element, len(elements))}
	for _, e := range elements {
		if _, dup := l.byID[e.ID]; dup {
			continue
		}
		l.elements = append(l.elements, e)
		l.byID[e.ID] = e
	}
	return l
}

// DefaultLayout is the dashboard page: four half-width charts and a
// full-width map
func DefaultLayout() *Layout {
	return NewLayout(
		Element{ID: ElementPlanning, Kind: KindChart, Dataset: models.DatasetPlanning, WidthFraction: 0.5, Height: 400},
		Element{ID: ElementSchools, Kind: KindChart, Dataset: models.DatasetSchools, WidthFraction: 0.5, Height: 400},
		Element{ID: ElementCrime, Kind: KindChart, Dataset: models.DatasetCrime, WidthFraction: 0.5, Height: 400},
		Element{ID: ElementRestaurants, Kind: KindChart, Dataset: models.DatasetRestaurants, WidthFraction: 0.5, Height: 400},
		Element{ID: ElementMap, Kind: KindMap, WidthFraction: 1, Height: 500},
	)
}

// Lookup finds an element by id
func (l *Layout) Lookup(id string) (Element, bool) {
	e, ok := l.byID[id]
	return e, ok
}

// Elements returns the elements in page order
func (l *Layout) Elements() []Element {
	out := make([]Element, len(l.elements))
	copy(out, l.elements)
	return out
}

// Charts returns the chart elements in page order
func (l *Layout) Charts() []Element {
	var out []Element
	for _, e := range l.elements {
		if e.Kind == KindChart {
			out = append(out, e)
		}
	}
	return out
}

// ElementFor returns the chart element bound to a dataset
func (l *Layout) ElementFor(dataset models.Dataset) (Element, bool) {
	for _, e := range l.elements {
		if e.Kind == KindChart && e.Dataset == dataset {
			return e, true
		}
	}
	return Element{}, false
}
