package manager

import (
	"sort"
	"sync"

	"mapengine/tile/cache"
	"mapengine/tile/source"
	"mapengine/tile/tileid"
)

// State is a TileID's position in the per-source state machine:
// idle → loading → ready → (evicted → idle); loading → canceled when the
// fetch or decode fails. An entry removed while loading has its fetch
// cancelled and is dropped from the tileset rather than kept as canceled.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateProxy
	StateCanceled
)

// String renders the lowercase state name the debug server exposes
// (spec §12.3: "idle|loading|ready|proxy|canceled").
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateProxy:
		return "proxy"
	case StateCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

type tileEntry struct {
	state              State
	tile               *cache.Tile
	unreferencedFrames int
}

type sourceState struct {
	src      *source.Source
	mu       sync.Mutex
	tiles    map[tileid.ID]*tileEntry
	inFlight int
}

type clientOpKind int

const (
	opAdd clientOpKind = iota
	opRemove
	opClear
)

type clientOp struct {
	kind     clientOpKind
	sourceID string
	src      *source.Source
}

// Manager is the Tile Manager (spec §4.8). One Manager serves one Scene.
type Manager struct {
	cache *cache.Cache
	cfg   Config

	mu      sync.RWMutex
	sources map[string]*sourceState

	batchMu sync.Mutex
	batch   []clientOp

	frame uint64
}

// New builds a Manager backed by the given shared Tile Cache.
func New(c *cache.Cache, cfg Config) *Manager {
	return &Manager{
		cache:   c,
		cfg:     cfg,
		sources: make(map[string]*sourceState),
	}
}

// StageAddSource queues src for registration at the head of the next
// Update call.
func (m *Manager) StageAddSource(src *source.Source) {
	m.batchMu.Lock()
	m.batch = append(m.batch, clientOp{kind: opAdd, src: src})
	m.batchMu.Unlock()
}

// StageRemoveSource queues sourceID for unregistration and release of all
// its tiles at the head of the next Update call.
func (m *Manager) StageRemoveSource(sourceID string) {
	m.batchMu.Lock()
	m.batch = append(m.batch, clientOp{kind: opRemove, sourceID: sourceID})
	m.batchMu.Unlock()
}

// StageClearSource queues sourceID's tileset to be dropped (but the
// source stays registered) at the head of the next Update call.
func (m *Manager) StageClearSource(sourceID string) {
	m.batchMu.Lock()
	m.batch = append(m.batch, clientOp{kind: opClear, sourceID: sourceID})
	m.batchMu.Unlock()
}

func (m *Manager) applyBatch() {
	m.batchMu.Lock()
	ops := m.batch
	m.batch = nil
	m.batchMu.Unlock()

	for _, op := range ops {
		switch op.kind {
		case opAdd:
			m.mu.Lock()
			m.sources[op.src.ID()] = &sourceState{src: op.src, tiles: make(map[tileid.ID]*tileEntry)}
			m.mu.Unlock()
		case opRemove:
			m.mu.Lock()
			ss, ok := m.sources[op.sourceID]
			delete(m.sources, op.sourceID)
			m.mu.Unlock()
			if ok {
				m.releaseAllTiles(ss)
			}
		case opClear:
			m.mu.RLock()
			ss, ok := m.sources[op.sourceID]
			m.mu.RUnlock()
			if ok {
				m.releaseAllTiles(ss)
				ss.src.ClearData()
			}
		}
	}
}

func (m *Manager) releaseAllTiles(ss *sourceState) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	for id, e := range ss.tiles {
		if e.state == StateReady || e.state == StateProxy {
			m.cache.Unpin(cache.Key{SourceID: ss.src.ID(), ID: id})
		} else if e.state == StateLoading {
			ss.src.CancelTile(id)
		}
	}
	ss.tiles = make(map[tileid.ID]*tileEntry)
}

// Update runs one scheduling pass: it drains the staged client tile
// source batch, then for every registered source computes the visible
// set, services misses, attaches proxies, issues prefetch, and evicts
// anything unreferenced past the configured horizon.
func (m *Manager) Update(view View) {
	m.applyBatch()
	m.frame++

	m.mu.RLock()
	snapshot := make([]*sourceState, 0, len(m.sources))
	for _, ss := range m.sources {
		snapshot = append(snapshot, ss)
	}
	m.mu.RUnlock()

	for _, ss := range snapshot {
		m.updateSource(ss, view)
	}
}

func (m *Manager) updateSource(ss *sourceState, view View) {
	visible := view.visibleTiles(ss.src.MaxZoom(), 0)
	sort.Slice(visible, func(i, j int) bool { return visible[i].distance < visible[j].distance })

	ss.mu.Lock()
	defer ss.mu.Unlock()

	referenced := make(map[tileid.ID]bool, len(visible)*2)

	for _, vt := range visible {
		referenced[vt.id] = true
		m.serviceTile(ss, vt.id)
	}

	for _, vt := range visible {
		entry := ss.tiles[vt.id]
		if entry != nil && entry.state == StateReady {
			continue
		}
		m.attachProxy(ss, vt.id, referenced)
	}

	if m.cfg.PrefetchRadiusTiles > 0 {
		prefetch := view.visibleTiles(ss.src.MaxZoom(), m.cfg.PrefetchRadiusTiles)
		for _, pt := range prefetch {
			if referenced[pt.id] {
				continue
			}
			referenced[pt.id] = true
			m.serviceTile(ss, pt.id)
		}
	}

	m.evictUnreferenced(ss, referenced)
}

// serviceTile ensures id has a tileset entry: promotes an already-ready
// entry, leaves a loading entry alone, or starts a new load (subject to
// the per-source in-flight cap; visible-now calls win that cap over
// prefetch because updateSource services the visible set first).
func (m *Manager) serviceTile(ss *sourceState, id tileid.ID) {
	key := cache.Key{SourceID: ss.src.ID(), ID: id}

	if entry, ok := ss.tiles[id]; ok {
		switch entry.state {
		case StateReady:
			m.cache.Get(key)
			entry.unreferencedFrames = 0
		case StateProxy, StateLoading:
			entry.unreferencedFrames = 0
		}
		return
	}

	if tile, found := m.cache.Get(key); found {
		m.cache.Pin(key)
		ss.tiles[id] = &tileEntry{state: StateReady, tile: tile}
		return
	}

	if ss.inFlight >= m.cfg.MaxInFlightPerSource {
		return
	}
	ss.tiles[id] = &tileEntry{state: StateLoading}
	ss.inFlight++
	ss.src.LoadTile(id, func(tile *cache.Tile, err error) {
		m.onTileLoaded(ss, id, tile, err)
	})
}

func (m *Manager) onTileLoaded(ss *sourceState, id tileid.ID, tile *cache.Tile, err error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	ss.inFlight--
	entry, ok := ss.tiles[id]
	if !ok {
		// Removed (scrolled away, source cleared) while the fetch was
		// in flight; nobody references this tile anymore.
		return
	}
	if err != nil {
		entry.state = StateCanceled
		return
	}

	key := cache.Key{SourceID: ss.src.ID(), ID: id}
	m.cache.Put(key, tile)
	m.cache.Pin(key)
	entry.state = StateReady
	entry.tile = tile
	entry.unreferencedFrames = 0
}

// attachProxy seeks a ready ancestor (coarser zoom) and ready descendants
// (finer zoom) of id, up to cfg.ProxyDepth levels each direction, and
// pins whichever are found in the cache as proxy entries for this frame.
func (m *Manager) attachProxy(ss *sourceState, id tileid.ID, referenced map[tileid.ID]bool) {
	for depth := uint8(1); depth <= m.cfg.ProxyDepth; depth++ {
		if id.Z < depth {
			break
		}
		ancestor, ok := id.AncestorAt(id.Z - depth)
		if !ok {
			continue
		}
		if m.attachIfReady(ss, ancestor, referenced) {
			break
		}
	}

	m.attachDescendants(ss, id, 1, referenced)
}

func (m *Manager) attachDescendants(ss *sourceState, id tileid.ID, depth uint8, referenced map[tileid.ID]bool) {
	if depth > m.cfg.ProxyDepth {
		return
	}
	for _, child := range id.Children() {
		if m.attachIfReady(ss, child, referenced) {
			continue
		}
		m.attachDescendants(ss, child, depth+1, referenced)
	}
}

// attachIfReady pins candidate as a proxy entry if it is already ready
// (either tracked in the tileset or sitting in the cache), marking it
// referenced so eviction bookkeeping leaves it alone this frame.
func (m *Manager) attachIfReady(ss *sourceState, candidate tileid.ID, referenced map[tileid.ID]bool) bool {
	if entry, ok := ss.tiles[candidate]; ok {
		if entry.state == StateReady || entry.state == StateProxy {
			referenced[candidate] = true
			entry.unreferencedFrames = 0
			return true
		}
		return false
	}

	key := cache.Key{SourceID: ss.src.ID(), ID: candidate}
	tile, found := m.cache.Get(key)
	if !found {
		return false
	}
	m.cache.Pin(key)
	ss.tiles[candidate] = &tileEntry{state: StateProxy, tile: tile}
	referenced[candidate] = true
	return true
}

func (m *Manager) evictUnreferenced(ss *sourceState, referenced map[tileid.ID]bool) {
	for id, entry := range ss.tiles {
		if referenced[id] {
			continue
		}
		entry.unreferencedFrames++
		if entry.unreferencedFrames < m.cfg.EvictionHorizonFrames {
			continue
		}
		switch entry.state {
		case StateReady, StateProxy:
			m.cache.Unpin(cache.Key{SourceID: ss.src.ID(), ID: id})
		case StateLoading:
			ss.src.CancelTile(id)
		}
		delete(ss.tiles, id)
	}
}

// TileSetSnapshot returns a copy of sourceID's current per-TileID state,
// for the debug server and tests.
func (m *Manager) TileSetSnapshot(sourceID string) map[tileid.ID]State {
	m.mu.RLock()
	ss, ok := m.sources[sourceID]
	m.mu.RUnlock()
	if !ok {
		return nil
	}

	ss.mu.Lock()
	defer ss.mu.Unlock()
	out := make(map[tileid.ID]State, len(ss.tiles))
	for id, e := range ss.tiles {
		out[id] = e.state
	}
	return out
}
