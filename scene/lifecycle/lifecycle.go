package lifecycle

import (
	"sync"
	"sync/atomic"
	"time"

	"mapengine/platform"
	"mapengine/scene/importer"
	"mapengine/scene/model"
	"mapengine/telemetry"
	"mapengine/tile/cache"
	"mapengine/tile/manager"
	"mapengine/tile/source"
	"mapengine/workpool"

	"go.uber.org/zap"
)

// OnSceneReady is invoked once a scene finishes loading (successfully or
// with recorded errors), carrying the scene id so callers can discard
// stale results from a since-superseded load (spec §4.9).
type OnSceneReady func(id uint64, errs []model.SceneError)

// Lifecycle owns the current Scene and serializes its swap transitions
// through a single ordered worker (spec §4.9). Tile caching is shared
// across scenes: a Lifecycle holds one *cache.Cache reused by every
// scene's Tile Manager, so a reload can rehydrate tiles the cache still
// holds from the previous scene instead of refetching everything cold.
type Lifecycle struct {
	requester  platform.Requester
	decodePool *workpool.Pool
	worker     *workpool.OrderedWorker
	importer   *importer.Importer
	cache      *cache.Cache
	managerCfg manager.Config
	telemetry  *telemetry.Store
	logger     *zap.Logger

	nextID atomic.Uint64

	mu           sync.RWMutex
	current      *model.Scene
	onSceneReady OnSceneReady
	viewProvider func() manager.View
}

// New builds a Lifecycle. worker sequences load/dispose tasks; decodePool
// backs both the importer's zip decompression and every scene's tile
// decoding; sharedCache backs every scene's Tile Manager. store is the
// optional telemetry store (spec §12.1); a nil store makes every
// recorded event a no-op.
func New(
	requester platform.Requester,
	decodePool *workpool.Pool,
	worker *workpool.OrderedWorker,
	imp *importer.Importer,
	sharedCache *cache.Cache,
	managerCfg manager.Config,
	store *telemetry.Store,
	logger *zap.Logger,
) *Lifecycle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Lifecycle{
		requester:  requester,
		decodePool: decodePool,
		worker:     worker,
		importer:   imp,
		cache:      sharedCache,
		managerCfg: managerCfg,
		telemetry:  store,
		logger:     logger,
	}
}

// SetOnSceneReady registers the scene-ready listener.
func (l *Lifecycle) SetOnSceneReady(fn OnSceneReady) {
	l.mu.Lock()
	l.onSceneReady = fn
	l.mu.Unlock()
}

// SetViewProvider registers the callback used to obtain the live camera
// view for tile prefetch during scene build (spec §4.9 step 2). Until
// set, prefetch is a no-op — as is the case for headless callers (the
// debug CLI) that have no camera.
func (l *Lifecycle) SetViewProvider(fn func() manager.View) {
	l.mu.Lock()
	l.viewProvider = fn
	l.mu.Unlock()
}

// Current returns the lifecycle's current scene — the last one submitted
// by LoadSync or LoadAsync, regardless of whether it has finished loading
// (spec §4.9: "the 'current' pointer is the last submitted new scene").
func (l *Lifecycle) Current() *model.Scene {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// Cache returns the shared Tile Cache backing every scene's Tile
// Manager, for the debug server's cache-stats endpoint (spec §12.3).
func (l *Lifecycle) Cache() *cache.Cache {
	return l.cache
}

func (l *Lifecycle) newScene() *model.Scene {
	id := l.nextID.Add(1)
	mgr := manager.New(l.cache, l.managerCfg)
	return model.New(id, mgr)
}

// LoadSync replaces the current scene with a new one built from opts on
// the calling goroutine; the outgoing scene is destroyed inline once the
// new one is ready (spec §4.9's synchronous load path).
func (l *Lifecycle) LoadSync(opts model.SceneOptions) *model.Scene {
	old := l.swapCurrent(nil)

	s := l.newScene()
	l.mu.Lock()
	l.current = s
	l.mu.Unlock()

	errs := l.build(s, opts)
	s.MarkReady()

	if old != nil {
		old.Cancel()
		old.UnregisterAllTileSources()
		l.checkLeak(old)
	}

	l.notifyReady(s.ID(), errs)
	return s
}

// LoadAsync constructs a new scene, makes it current immediately, cancels
// the outgoing scene, and enqueues its load followed by the outgoing
// scene's dispose on the ordered worker — in that order, so dispose of
// scene N always runs before load of scene N+2 can begin (spec §4.9).
// It returns the new scene's id right away; the scene transitions to
// ready asynchronously, reported through the OnSceneReady listener.
func (l *Lifecycle) LoadAsync(opts model.SceneOptions) uint64 {
	s := l.newScene()

	old := l.swapCurrent(s)
	if old != nil {
		old.Cancel()
	}

	l.worker.Post(func() {
		errs := l.build(s, opts)
		s.MarkReady()
		l.notifyReady(s.ID(), errs)
		l.requester.RequestRender()
	})

	l.worker.Post(func() {
		if old == nil {
			return
		}
		old.UnregisterAllTileSources()
		l.checkLeak(old)
	})

	return s.ID()
}

func (l *Lifecycle) swapCurrent(next *model.Scene) *model.Scene {
	l.mu.Lock()
	defer l.mu.Unlock()
	old := l.current
	l.current = next
	return old
}

// build runs the importer against opts and assembles styles and tile
// sources onto s. s is Retain()'d for the duration so a concurrent dispose
// elsewhere can detect it's still in use via OutstandingRefs.
func (l *Lifecycle) build(s *model.Scene, opts model.SceneOptions) []model.SceneError {
	s.Retain()
	defer s.Release()

	startedAt := time.Now()
	eventID, _ := l.telemetry.RecordSceneLoadStart(s.ID(), opts.RootURL.String(), startedAt)

	merged, errs := l.importer.Run(opts, s.CancelSignal())
	for _, e := range errs {
		s.AddError(e)
	}
	if s.Cancelled() {
		errsOut := s.Errors()
		_ = l.telemetry.RecordSceneLoadFinish(eventID, time.Now(), len(errsOut))
		return errsOut
	}

	s.SetStyles(extractStyles(merged))

	cfgs, serrs := parseTileSources(merged)
	for _, e := range serrs {
		s.AddError(e)
	}

	decoder := opaqueDecoder()
	for _, cfg := range cfgs {
		if override, ok := opts.SourceOverrides[cfg.ID]; ok {
			cfg.URLTemplate = override
		}
		src := source.New(cfg, l.requester, l.decodePool, decoder)
		src.SetTelemetry(l.telemetry)
		s.RegisterTileSource(src)
	}

	// Give the incoming scene a chance to start fetching its now-registered
	// tile sources against the live view immediately, instead of waiting
	// for it to reach StateReady (spec §4.9 step 2): this lets tile fetch
	// overlap whatever build work remains, and — for LoadAsync — overlap
	// the outgoing scene's dispose task queued right behind this one.
	s.SetPrefetchCallback(func() {
		l.mu.RLock()
		provider := l.viewProvider
		l.mu.RUnlock()
		if provider == nil {
			return
		}
		l.worker.Post(func() {
			s.TileManager().Update(provider())
		})
	})
	s.TriggerPrefetch()

	errsOut := s.Errors()
	_ = l.telemetry.RecordSceneLoadFinish(eventID, time.Now(), len(errsOut))
	return errsOut
}

func (l *Lifecycle) checkLeak(old *model.Scene) {
	if refs := old.OutstandingRefs(); refs != 0 {
		old.AddError(model.SceneError{
			Kind:    model.ErrInvariantViolation,
			Message: "dispose observed outstanding references to the outgoing scene",
		})
		l.logger.Warn("lifecycle: leaked scene reference at dispose",
			zap.Uint64("scene_id", old.ID()),
			zap.Int32("outstanding_refs", refs))
	}
}

func (l *Lifecycle) notifyReady(id uint64, errs []model.SceneError) {
	l.mu.RLock()
	fn := l.onSceneReady
	l.mu.RUnlock()
	if fn != nil {
		fn(id, errs)
	}
}
