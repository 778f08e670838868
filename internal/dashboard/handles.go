package dashboard

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"propdash/internal/logger"
	"propdash/internal/models"
)

// Handle is the server-side state of one chart surface. It is bound to a
// single element id for the life of the process.
type Handle struct {
	elementID string

	mu            sync.RWMutex
	option        []byte
	series        models.Series
	version       uint64
	size          models.Size
	layoutVersion uint64
	updatedAt     time.Time
}

// HandleState is a point-in-time copy of a Handle
type HandleState struct {
	ElementID     string          `json:"element_id"`
	Option        json.RawMessage `json:"option,omitempty"`
	Series        models.Series   `json:"series"`
	Version       uint64          `json:"version"`
	Size          models.Size     `json:"size"`
	LayoutVersion uint64          `json:"layout_version"`
	UpdatedAt     *time.Time      `json:"updated_at,omitempty"`
}

func newHandle(elementID string, size models.Size) *Handle {
	return &Handle{elementID: elementID, size: size}
}

// ElementID returns the element the handle draws into
func (h *Handle) ElementID() string {
	return h.elementID
}

// Snapshot copies the handle's current state
func (h *Handle) Snapshot() HandleState {
	h.mu.RLock()
	defer h.mu.RUnlock()

	state := HandleState{
		ElementID:     h.elementID,
		Series:        h.series,
		Version:       h.version,
		Size:          h.size,
		LayoutVersion: h.layoutVersion,
	}
	if h.option != nil {
		state.Option = append(json.RawMessage(nil), h.option...)
	}
	if !h.updatedAt.IsZero() {
		at := h.updatedAt
		state.UpdatedAt = &at
	}
	return state
}

// Relayout resizes the surface. Every call counts, even with an unchanged size.
func (h *Handle) Relayout(size models.Size) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.size = size
	h.layoutVersion++
}

func (h *Handle) setOption(option []byte, series models.Series, at time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.option = option
	h.series = series
	h.version++
	h.updatedAt = at
}

// EngineFactory initializes a rendering surface for an element
type EngineFactory func(element Element, viewport models.Size) (*Handle, error)

// DefaultEngine creates an in-memory surface sized for the element
func DefaultEngine(element Element, viewport models.Size) (*Handle, error) {
	if element.Kind != KindChart {
		return nil, fmt.Errorf("element %s is not a chart target", element.ID)
	}
	return newHandle(element.ID, element.SizeFor(viewport)), nil
}

// DefaultViewport is assumed until the page reports its size
var DefaultViewport = models.Size{Width: 1280, Height: 800}

// Registry owns the chart handles, one per element id
type Registry struct {
	layout *Layout
	engine EngineFactory
	log    *logger.Logger

	mu       sync.Mutex
	handles  map[string]*Handle
	viewport models.Size
}

// NewRegistry creates a registry over layout. A nil engine uses DefaultEngine.
func NewRegistry(layout *Layout, engine EngineFactory) *Registry {
	if engine == nil {
		engine = DefaultEngine
	}
	return &Registry{
		layout:   layout,
		engine:   engine,
		log:      logger.Component("dashboard"),
		handles:  make(map[string]*Handle),
		viewport: DefaultViewport,
	}
}

// Layout returns the registry's layout
func (r *Registry) Layout() *Layout {
	return r.layout
}

// GetOrCreate returns the handle for elementID, creating it on first use.
// It returns nil when the page has no such element or the engine fails to
// initialize; a later call tries again.
func (r *Registry) GetOrCreate(elementID string) *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.handles[elementID]; ok {
		return h
	}

	element, ok := r.layout.Lookup(elementID)
	if !ok {
		r.log.Error(fmt.Sprintf("Element %s not found", elementID), nil)
		return nil
	}

	h, err := r.initEngine(element)
	if err != nil {
		r.log.Error("Failed to initialize chart", err, logger.Fields{"element": elementID})
		return nil
	}
	if h == nil {
		r.log.Error("Chart engine returned no surface", nil, logger.Fields{"element": elementID})
		return nil
	}

	r.handles[elementID] = h
	return h
}

func (r *Registry) initEngine(element Element) (h *Handle, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			h, err = nil, fmt.Errorf("engine panic: %v", rec)
		}
	}()
	return r.engine(element, r.viewport)
}

// Lookup returns an existing handle without creating one
func (r *Registry) Lookup(elementID string) *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handles[elementID]
}

// Handles returns the created handles in page order
func (r *Registry) Handles() []*Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Handle
	for _, e := range r.layout.Elements() {
		if h, ok := r.handles[e.ID]; ok {
			out = append(out, h)
		}
	}
	return out
}

// Viewport returns the last known viewport size
func (r *Registry) Viewport() models.Size {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.viewport
}

func (r *Registry) setViewport(v models.Size) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.viewport = v
}
