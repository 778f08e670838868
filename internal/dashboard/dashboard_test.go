package dashboard

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"propdash/internal/charts"
	"propdash/internal/logger"
	"propdash/internal/mocks"
	"propdash/internal/models"
	"propdash/internal/transform"
)

const crimePayload = `{"types":{"Burglary":12,"Robbery":5}}`

type funcSource func(ctx context.Context, dataset models.Dataset) ([]byte, error)

func (f funcSource) Fetch(ctx context.Context, dataset models.Dataset) ([]byte, error) {
	return f(ctx, dataset)
}

type fakeMap struct {
	mu    sync.Mutex
	sizes []models.Size
}

func (m *fakeMap) ElementID() string { return ElementMap }

func (m *fakeMap) InvalidateSize(size models.Size) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sizes = append(m.sizes, size)
}

type panickyChart struct{}

func (panickyChart) Validate() { panic("renderer exploded") }
func (panickyChart) JSON() map[string]interface{} { return nil }

type unencodableChart struct{}

func (unencodableChart) Validate() {}
func (unencodableChart) JSON() map[string]interface{} {
	return map[string]interface{}{"bad": make(chan int)}
}

func newTestDashboard(source funcSource, mapView MapSurface) *Dashboard {
	layout := DefaultLayout()
	pipelines := DefaultPipelines(layout, source, transform.New(transform.DefaultOptions()), charts.NewChartGenerator(""))
	return New(NewRegistry(layout, nil), pipelines, mapView)
}

func mockSource() funcSource {
	return mocks.NewMockService().Fetch
}

func TestRegistryGetOrCreate(t *testing.T) {
	r := NewRegistry(DefaultLayout(), nil)

	first := r.GetOrCreate(ElementCrime)
	if first == nil {
		t.Fatal("Expected handle for barChart")
	}
	if again := r.GetOrCreate(ElementCrime); again != first {
		t.Error("Expected the same handle on repeated calls")
	}
	if first.Snapshot().Size.Width != DefaultViewport.Width/2 {
		t.Errorf("Expected half viewport width, got %d", first.Snapshot().Size.Width)
	}
	if h := r.GetOrCreate("missingChart"); h != nil {
		t.Error("Expected nil handle for missing element")
	}
	if h := r.GetOrCreate(ElementMap); h != nil {
		t.Error("Expected nil handle for map element")
	}
	if got := len(r.Handles()); got != 1 {
		t.Errorf("Expected 1 handle, got %d", got)
	}
}

func TestRegistryRetriesFailedEngine(t *testing.T) {
	calls := 0
	r := NewRegistry(DefaultLayout(), func(e Element, v models.Size) (*Handle, error) {
		calls++
		switch calls {
		case 1:
			return nil, errors.New("no canvas")
		case 2:
			panic("engine crashed")
		default:
			return DefaultEngine(e, v)
		}
	})

	if r.GetOrCreate(ElementSchools) != nil {
		t.Error("Expected nil on engine error")
	}
	if r.GetOrCreate(ElementSchools) != nil {
		t.Error("Expected nil on engine panic")
	}
	if r.GetOrCreate(ElementSchools) == nil {
		t.Error("Expected handle once the engine recovers")
	}
	if calls != 3 {
		t.Errorf("Expected 3 engine calls, got %d", calls)
	}
}

func TestApply(t *testing.T) {
	h := newHandle(ElementCrime, models.Size{})
	series := models.Series{Labels: []string{"Burglary"}, Values: []float64{12}}
	chart, err := charts.NewChartGenerator("").Build(models.DatasetCrime, series)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if !Apply(h, chart, series) {
		t.Fatal("Expected Apply to succeed")
	}
	state := h.Snapshot()
	if state.Version != 1 || state.UpdatedAt == nil {
		t.Errorf("Expected version 1 with timestamp, got %+v", state)
	}
	if !strings.Contains(string(state.Option), charts.CrimeTitle) {
		t.Errorf("Expected option to carry the title, got %s", state.Option)
	}
}

func TestApplyNeverPropagates(t *testing.T) {
	if Apply(nil, panickyChart{}, models.Series{}) {
		t.Error("Expected nil handle to be a no-op")
	}

	h := newHandle(ElementCrime, models.Size{})
	for name, chart := range map[string]charts.Chart{
		"panic":       panickyChart{},
		"unencodable": unencodableChart{},
		"nil chart":   nil,
	} {
		t.Run(name, func(t *testing.T) {
			if Apply(h, chart, models.Series{}) {
				t.Error("Expected Apply to report failure")
			}
		})
	}
	if v := h.Snapshot().Version; v != 0 {
		t.Errorf("Expected previous render untouched, got version %d", v)
	}
}

func TestRefreshAllRendersEveryChart(t *testing.T) {
	d := newTestDashboard(mockSource(), nil)

	if err := d.RefreshAll(context.Background()); err != nil {
		t.Fatalf("RefreshAll failed: %v", err)
	}

	for _, status := range d.Status() {
		if status.Phase != models.PhaseRendered || status.Renders != 1 {
			t.Errorf("%s: expected one render, got %+v", status.Dataset, status)
		}
		h := d.Handle(status.Dataset)
		if h == nil {
			t.Fatalf("%s: expected handle", status.Dataset)
		}
		if h.ElementID() != status.ElementID {
			t.Errorf("%s: handle bound to %s, expected %s", status.Dataset, h.ElementID(), status.ElementID)
		}
		if h.Snapshot().Version != 1 {
			t.Errorf("%s: expected version 1", status.Dataset)
		}
	}
	if d.HandleByElement(ElementRestaurants) != d.Handle(models.DatasetRestaurants) {
		t.Error("Expected element lookup to match dataset slot")
	}
}

func TestFailureIsIsolated(t *testing.T) {
	mock := mocks.NewMockService()
	d := newTestDashboard(func(ctx context.Context, dataset models.Dataset) ([]byte, error) {
		if dataset == models.DatasetCrime {
			return nil, errors.New("crime API returned status 500")
		}
		return mock.Fetch(ctx, dataset)
	}, nil)

	err := d.RefreshAll(context.Background())
	if err == nil || !strings.Contains(err.Error(), "status 500") {
		t.Errorf("Expected crime failure to surface, got %v", err)
	}

	for _, status := range d.Status() {
		switch status.Dataset {
		case models.DatasetCrime:
			if status.Phase != models.PhaseFailed || status.LastError == "" {
				t.Errorf("Expected crime to fail, got %+v", status)
			}
			if v := d.Handle(models.DatasetCrime).Snapshot().Version; v != 0 {
				t.Errorf("Expected crime chart untouched, got version %d", v)
			}
		default:
			if status.Phase != models.PhaseRendered {
				t.Errorf("%s: expected render despite crime failure, got %+v", status.Dataset, status)
			}
		}
	}
}

func TestFailedRefreshKeepsPreviousChart(t *testing.T) {
	mock := mocks.NewMockService()
	var crimeDown atomic.Bool
	d := newTestDashboard(func(ctx context.Context, dataset models.Dataset) ([]byte, error) {
		if dataset == models.DatasetCrime && crimeDown.Load() {
			return nil, errors.New("crime API returned status 503")
		}
		return mock.Fetch(ctx, dataset)
	}, nil)

	if err := d.RefreshAll(context.Background()); err != nil {
		t.Fatalf("First refresh failed: %v", err)
	}
	before := d.Handle(models.DatasetCrime).Snapshot()

	crimeDown.Store(true)
	if err := d.RefreshAll(context.Background()); err == nil {
		t.Fatal("Expected second refresh to report the crime failure")
	}

	after := d.Handle(models.DatasetCrime).Snapshot()
	if after.Version != 1 {
		t.Errorf("Expected crime chart to stay at version 1, got %d", after.Version)
	}
	if string(after.Option) != string(before.Option) {
		t.Error("Expected crime option to be left as previously drawn")
	}
	if !reflect.DeepEqual(after.Series, before.Series) || after.Series.Len() == 0 {
		t.Errorf("Expected crime series kept, got %v", after.Series)
	}

	for _, status := range d.Status() {
		if status.Dataset == models.DatasetCrime {
			if status.Phase != models.PhaseFailed || status.Renders != 1 {
				t.Errorf("Expected crime failed after one render, got %+v", status)
			}
			continue
		}
		if v := d.Handle(status.Dataset).Snapshot().Version; v != 2 {
			t.Errorf("%s: expected version 2, got %d", status.Dataset, v)
		}
	}
}

func TestSupersededRunIsDropped(t *testing.T) {
	entered := make(chan struct{})
	gate := make(chan struct{})
	var calls int32

	d := newTestDashboard(func(ctx context.Context, dataset models.Dataset) ([]byte, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(entered)
			<-gate
			return []byte(`{"types":{"Stale":1}}`), nil
		}
		return []byte(crimePayload), nil
	}, nil)

	first := make(chan error, 1)
	go func() { first <- d.Run(context.Background(), models.DatasetCrime) }()
	<-entered

	if err := d.Run(context.Background(), models.DatasetCrime); err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	close(gate)

	if err := <-first; !errors.Is(err, ErrSuperseded) {
		t.Errorf("Expected first run to be superseded, got %v", err)
	}

	state := d.Handle(models.DatasetCrime).Snapshot()
	if state.Version != 1 || state.Series.Labels[0] != "Burglary" {
		t.Errorf("Expected only the newest result drawn, got %+v", state)
	}
	status := d.Status()[2]
	if status.Superseded != 1 || status.Renders != 1 {
		t.Errorf("Expected 1 render and 1 superseded, got %+v", status)
	}
}

func TestSupersededFailureIsLogged(t *testing.T) {
	entered := make(chan struct{})
	gate := make(chan struct{})
	var calls int32

	d := newTestDashboard(func(ctx context.Context, dataset models.Dataset) ([]byte, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(entered)
			<-gate
			return nil, errors.New("crime API timed out")
		}
		return []byte(crimePayload), nil
	}, nil)
	var buf bytes.Buffer
	d.log = logger.New(logger.Config{Level: logger.DEBUG, Format: logger.JSONFormat, Output: &buf})

	first := make(chan error, 1)
	go func() { first <- d.Run(context.Background(), models.DatasetCrime) }()
	<-entered

	if err := d.Run(context.Background(), models.DatasetCrime); err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	close(gate)

	if err := <-first; !errors.Is(err, ErrSuperseded) {
		t.Errorf("Expected first run to be superseded, got %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Error fetching crime data") || !strings.Contains(out, "crime API timed out") {
		t.Errorf("Expected superseded failure to be logged, got %s", out)
	}
	if v := d.Handle(models.DatasetCrime).Snapshot().Version; v != 1 {
		t.Errorf("Expected only the newest result drawn, got version %d", v)
	}
}

func TestRunWithoutSurfaceSkipsFetch(t *testing.T) {
	fetched := false
	layout := NewLayout(Element{ID: ElementMap, Kind: KindMap, WidthFraction: 1, Height: 500})
	pipelines := []Pipeline{{
		Dataset:   models.DatasetCrime,
		ElementID: ElementCrime,
		Source: funcSource(func(context.Context, models.Dataset) ([]byte, error) {
			fetched = true
			return []byte(crimePayload), nil
		}),
		Transform: transform.New(transform.DefaultOptions()),
		Charts:    charts.NewChartGenerator(""),
	}}
	d := New(NewRegistry(layout, nil), pipelines, nil)

	if err := d.Run(context.Background(), models.DatasetCrime); !errors.Is(err, ErrNoSurface) {
		t.Errorf("Expected ErrNoSurface, got %v", err)
	}
	if fetched {
		t.Error("Expected no fetch without a surface")
	}
	if d.Handle(models.DatasetCrime) != nil {
		t.Error("Expected empty handle slot")
	}
}

func TestRunUnknownPipeline(t *testing.T) {
	d := newTestDashboard(mockSource(), nil)
	if err := d.Run(context.Background(), models.Dataset("weather")); !errors.Is(err, ErrUnknownPipeline) {
		t.Errorf("Expected ErrUnknownPipeline, got %v", err)
	}
}

func TestResize(t *testing.T) {
	m := &fakeMap{}
	d := newTestDashboard(mockSource(), m)
	viewport := models.Size{Width: 1000, Height: 700}

	if n := d.Resize(viewport); n != 0 {
		t.Errorf("Expected no charts before first refresh, got %d", n)
	}
	if len(m.sizes) != 1 || m.sizes[0].Width != 1000 {
		t.Errorf("Expected map invalidated at full width, got %v", m.sizes)
	}

	if err := d.RefreshAll(context.Background()); err != nil {
		t.Fatalf("RefreshAll failed: %v", err)
	}
	if n := d.Resize(viewport); n != 4 {
		t.Errorf("Expected 4 charts relayouted, got %d", n)
	}
	d.Resize(viewport)

	state := d.Handle(models.DatasetSchools).Snapshot()
	if state.LayoutVersion != 2 || state.Size.Width != 500 {
		t.Errorf("Expected two relayouts at width 500, got %+v", state)
	}
	if len(m.sizes) != 3 {
		t.Errorf("Expected map invalidated on every resize, got %d", len(m.sizes))
	}
	if d.Registry().Viewport() != viewport {
		t.Errorf("Expected viewport to be remembered")
	}
}

func TestDriverRefreshesOnStartAndTick(t *testing.T) {
	fetches := make(chan models.Dataset, 64)
	mock := mocks.NewMockService()
	d := newTestDashboard(func(ctx context.Context, dataset models.Dataset) ([]byte, error) {
		fetches <- dataset
		return mock.Fetch(ctx, dataset)
	}, nil)

	ticks := make(chan time.Time)
	dr := NewDriver(d, time.Hour)
	dr.newTicker = func(time.Duration) (<-chan time.Time, func()) {
		return ticks, func() {}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		dr.Run(ctx)
		close(done)
	}()

	expectFetches := func(n int) {
		t.Helper()
		for i := 0; i < n; i++ {
			select {
			case <-fetches:
			case <-time.After(5 * time.Second):
				t.Fatalf("Timed out waiting for fetch %d of %d", i+1, n)
			}
		}
	}

	expectFetches(4)
	ticks <- time.Now()
	expectFetches(4)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Driver did not stop on cancel")
	}
	dr.Wait()

	if dr.Interval() != time.Hour {
		t.Errorf("Expected interval 1h, got %s", dr.Interval())
	}
}
