package model

import (
	"sync"
	"sync/atomic"

	"mapengine/tile/manager"
	"mapengine/tile/source"
)

// State is a Scene's position in its lifecycle (spec §3, §4.9):
// loading → ready → cancelled/disposed.
type State int32

const (
	StateLoading State = iota
	StateReady
	StateCancelled
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateCancelled:
		return "cancelled"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Scene is the assembled, ready-to-render state (spec §3). Exactly one
// Scene is the Map's "current" scene; at most one additional scene may be
// transiently referenced by an in-flight async load task (scene/lifecycle
// enforces that cardinality — this type only tracks its own state).
type Scene struct {
	id uint64

	state      atomic.Int32
	cancelFlag atomic.Bool
	cancelOnce sync.Once
	cancelCh   chan struct{}
	// refs counts outstanding holders beyond the Map's own pointer: the
	// importer's goroutine and any in-flight tile callbacks that captured
	// this Scene. Dispose expects this to reach zero once load/cancel
	// settles; a non-zero count at dispose time is an invariant violation
	// (spec §9's leak-warning note), not a fatal error.
	refs atomic.Int32

	mu              sync.RWMutex
	styles          []any
	tileSourcesByID map[string]*source.Source
	tileManager     *manager.Manager
	markers         *MarkerManager
	labelManager    any
	fontContext     any
	errs            []SceneError
	prefetch        func()
}

// New builds an empty Scene in the loading state, owned by its single
// initial reference (the caller).
func New(id uint64, tileManager *manager.Manager) *Scene {
	s := &Scene{
		id:              id,
		tileSourcesByID: make(map[string]*source.Source),
		tileManager:     tileManager,
		markers:         NewMarkerManager(),
		cancelCh:        make(chan struct{}),
	}
	s.state.Store(int32(StateLoading))
	return s
}

// ID returns the scene's monotonically unique identifier.
func (s *Scene) ID() uint64 { return s.id }

// State returns the scene's current lifecycle state.
func (s *Scene) State() State { return State(s.state.Load()) }

// MarkReady transitions the scene to ready, unless it was already
// cancelled.
func (s *Scene) MarkReady() {
	s.state.CompareAndSwap(int32(StateLoading), int32(StateReady))
}

// MarkDisposed transitions the scene to disposed.
func (s *Scene) MarkDisposed() { s.state.Store(int32(StateDisposed)) }

// Cancel flips the atomic cancel flag the importer's loop and outstanding
// tile requests observe (spec §5), and moves a scene that is still loading
// to StateCancelled; a scene already ready keeps its State.
func (s *Scene) Cancel() {
	s.cancelFlag.Store(true)
	s.state.CompareAndSwap(int32(StateLoading), int32(StateCancelled))
	s.cancelOnce.Do(func() { close(s.cancelCh) })
}

// Cancelled reports whether Cancel has been called.
func (s *Scene) Cancelled() bool { return s.cancelFlag.Load() }

// CancelSignal returns a channel closed exactly once, when Cancel is
// called — the condition-variable-style wakeup spec §5 describes, wired
// as a channel so scene/importer's Run can select on it directly instead
// of polling the cancel flag.
func (s *Scene) CancelSignal() <-chan struct{} { return s.cancelCh }

// Retain records an additional outstanding holder of this Scene (an
// importer goroutine, an in-flight tile callback). Pair with Release.
func (s *Scene) Retain() { s.refs.Add(1) }

// Release drops an outstanding holder recorded by Retain.
func (s *Scene) Release() { s.refs.Add(-1) }

// OutstandingRefs reports the current count of holders recorded via Retain
// that have not yet Release'd. scene/lifecycle checks this at dispose time;
// a non-zero count is logged as an invariant violation, not treated as
// fatal.
func (s *Scene) OutstandingRefs() int32 { return s.refs.Load() }

// TileManager returns the scene's Tile Manager.
func (s *Scene) TileManager() *manager.Manager { return s.tileManager }

// Markers returns the scene's marker store.
func (s *Scene) Markers() *MarkerManager { return s.markers }

// SetStyles replaces the scene's opaque style-definition list. Called once
// by the importer/builder during load.
func (s *Scene) SetStyles(styles []any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.styles = styles
}

// Styles returns the scene's style definitions.
func (s *Scene) Styles() []any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.styles
}

// SetLabelManager/SetFontContext install the opaque external-collaborator
// handles for label layout and glyph packing — both explicit spec
// Non-goals here, so this package only carries the handles through.
func (s *Scene) SetLabelManager(lm any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.labelManager = lm
}

func (s *Scene) LabelManager() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.labelManager
}

func (s *Scene) SetFontContext(fc any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fontContext = fc
}

func (s *Scene) FontContext() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fontContext
}

// RegisterTileSource adds src to the scene's tile-source-by-id map and
// stages it with the tile manager.
func (s *Scene) RegisterTileSource(src *source.Source) {
	s.mu.Lock()
	s.tileSourcesByID[src.ID()] = src
	s.mu.Unlock()
	s.tileManager.StageAddSource(src)
}

// UnregisterAllTileSources removes every tile source this scene owns and
// releases their tiles from the tile manager; called during dispose.
func (s *Scene) UnregisterAllTileSources() {
	s.mu.Lock()
	ids := make([]string, 0, len(s.tileSourcesByID))
	for id := range s.tileSourcesByID {
		ids = append(ids, id)
	}
	s.tileSourcesByID = make(map[string]*source.Source)
	s.mu.Unlock()

	for _, id := range ids {
		s.tileManager.StageRemoveSource(id)
	}
	// A disposed scene's manager gets no further frame updates, so apply
	// the staged removals now.
	s.tileManager.Update(manager.View{})
}

// TileSource looks up a registered tile source by id.
func (s *Scene) TileSource(id string) (*source.Source, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src, ok := s.tileSourcesByID[id]
	return src, ok
}

// SetPrefetchCallback installs the callback scene/lifecycle invokes once
// this scene's tile sources are registered during build, so tile
// fetching for the incoming scene can start immediately instead of
// waiting for the scene to reach StateReady (spec §4.9 step 2).
func (s *Scene) SetPrefetchCallback(fn func()) {
	s.mu.Lock()
	s.prefetch = fn
	s.mu.Unlock()
}

// TriggerPrefetch invokes the registered prefetch callback, if any.
func (s *Scene) TriggerPrefetch() {
	s.mu.RLock()
	fn := s.prefetch
	s.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// TileSourceIDs returns the ids of every tile source currently registered
// on the scene, for diagnostics (the debug CLI, the debug server).
func (s *Scene) TileSourceIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.tileSourcesByID))
	for id := range s.tileSourcesByID {
		ids = append(ids, id)
	}
	return ids
}

// AddError appends a load-time error to the scene's error list.
func (s *Scene) AddError(e SceneError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, e)
}

// Errors returns the scene's accumulated load-time errors.
func (s *Scene) Errors() []SceneError {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SceneError, len(s.errs))
	copy(out, s.errs)
	return out
}
