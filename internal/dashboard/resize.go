package dashboard

import (
	"propdash/internal/logger"
	"propdash/internal/models"
)

// Resize relayouts every chart that has a handle and invalidates the map
// size. Slots still empty are skipped. It returns the number of charts
// relayouted.
func (d *Dashboard) Resize(viewport models.Size) int {
	d.registry.setViewport(viewport)
	layout := d.registry.Layout()

	n := 0
	for _, dataset := range d.order {
		h := d.Handle(dataset)
		if h == nil {
			continue
		}
		element, ok := layout.Lookup(h.ElementID())
		if !ok {
			continue
		}
		h.Relayout(element.SizeFor(viewport))
		n++
	}

	if d.mapView != nil {
		size := viewport
		if element, ok := layout.Lookup(d.mapView.ElementID()); ok {
			size = element.SizeFor(viewport)
		}
		d.mapView.InvalidateSize(size)
	}

	d.log.Debug("Dashboard resized", logger.Fields{
		"width":  viewport.Width,
		"height": viewport.Height,
		"charts": n,
	})
	return n
}
