package source

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"mapengine/platform"
	"mapengine/telemetry"
	"mapengine/tile/cache"
	"mapengine/tile/tileid"
	"mapengine/urladdr"
	"mapengine/workpool"

	"golang.org/x/sync/singleflight"
)

// Decoder turns a fetched payload into the opaque geometry Data a
// cache.Tile carries.
type Decoder interface {
	Decode(sourceID string, id tileid.ID, raw []byte) (any, error)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(sourceID string, id tileid.ID, raw []byte) (any, error)

func (f DecoderFunc) Decode(sourceID string, id tileid.ID, raw []byte) (any, error) {
	return f(sourceID, id, raw)
}

// Source is a per-layer tile fetcher. LoadTile guarantees at most one
// in-flight fetch per TileID via singleflight, matching the cache-wide
// invariant of at most one in-flight fetch per (source id, TileID).
type Source struct {
	cfg        Config
	requester  platform.Requester
	decodePool *workpool.Pool
	decoder    Decoder
	telemetry  *telemetry.Store

	group singleflight.Group

	mu       sync.Mutex
	inFlight map[tileid.ID]platform.Handle
}

// New builds a Source. requester and decodePool are shared across all of
// a scene's tile sources; decoder is specific to cfg.Kind.
func New(cfg Config, requester platform.Requester, decodePool *workpool.Pool, decoder Decoder) *Source {
	return &Source{
		cfg:        cfg,
		requester:  requester,
		decodePool: decodePool,
		decoder:    decoder,
		inFlight:   make(map[tileid.ID]platform.Handle),
	}
}

// SetTelemetry installs the optional telemetry store tile fetch outcomes
// (spec §12.1) are recorded to. A nil store, or one never set, makes
// recording a no-op.
func (s *Source) SetTelemetry(store *telemetry.Store) {
	s.telemetry = store
}

// ID returns the source's identifier.
func (s *Source) ID() string { return s.cfg.ID }

// MaxZoom returns the source's configured maximum zoom.
func (s *Source) MaxZoom() uint8 { return s.cfg.MaxZoom }

// LoadTile resolves id's URL, fetches, and decodes it, delivering exactly
// one callback invocation. Concurrent LoadTile calls for the same id
// share one fetch+decode via singleflight; every caller still receives a
// callback.
func (s *Source) LoadTile(id tileid.ID, cb func(*cache.Tile, error)) {
	key := id.String()
	go func() {
		v, err, _ := s.group.Do(key, func() (any, error) {
			return s.fetchAndDecode(id)
		})
		if err != nil {
			cb(nil, err)
			return
		}
		cb(v.(*cache.Tile), nil)
	}()
}

func (s *Source) fetchAndDecode(id tileid.ID) (*cache.Tile, error) {
	started := time.Now()

	u, err := s.buildURL(id)
	if err != nil {
		s.recordFetch(id, "fetch_error", 0, started)
		return nil, fmt.Errorf("source %s: %w", s.cfg.ID, err)
	}

	resultCh := make(chan platform.Result, 1)
	handle := s.requester.StartURLRequest(u, func(r platform.Result) {
		resultCh <- r
	})
	s.mu.Lock()
	s.inFlight[id] = handle
	s.mu.Unlock()

	res := <-resultCh

	s.mu.Lock()
	delete(s.inFlight, id)
	s.mu.Unlock()

	if res.Err != nil {
		s.recordFetch(id, "fetch_error", 0, started)
		return nil, fmt.Errorf("source %s: fetch %s: %w", s.cfg.ID, id, res.Err)
	}

	type decoded struct {
		tile *cache.Tile
		err  error
	}
	doneCh := make(chan decoded, 1)
	s.decodePool.Submit(func() {
		data, err := s.decoder.Decode(s.cfg.ID, id, res.Bytes)
		if err != nil {
			doneCh <- decoded{err: fmt.Errorf("source %s: decode %s: %w", s.cfg.ID, id, err)}
			return
		}
		doneCh <- decoded{tile: &cache.Tile{
			SourceID:    s.cfg.ID,
			ID:          id,
			Data:        data,
			MemoryBytes: int64(len(res.Bytes)),
		}}
	})
	result := <-doneCh
	if result.err != nil {
		s.recordFetch(id, "decode_error", 0, started)
		return nil, result.err
	}
	s.recordFetch(id, "ok", len(res.Bytes), started)
	return result.tile, nil
}

// recordFetch logs one fetch outcome to the optional telemetry store
// (spec §12.1), measuring latency from started to now.
func (s *Source) recordFetch(id tileid.ID, outcome string, bytes int, started time.Time) {
	_ = s.telemetry.RecordTileFetch(s.cfg.ID, id, outcome, bytes, time.Since(started).Milliseconds(), time.Now())
}

// CancelTile advisably cancels id's in-flight fetch, if any.
func (s *Source) CancelTile(id tileid.ID) {
	s.mu.Lock()
	h, ok := s.inFlight[id]
	s.mu.Unlock()
	if ok {
		s.requester.CancelURLRequest(h)
	}
}

// ClearData drops all source-side bookkeeping: in-flight handle tracking
// and any singleflight state from prior fetches.
func (s *Source) ClearData() {
	s.mu.Lock()
	s.inFlight = make(map[tileid.ID]platform.Handle)
	s.mu.Unlock()
	s.group = singleflight.Group{}
}

func (s *Source) buildURL(id tileid.ID) (urladdr.URL, error) {
	raw := s.cfg.URLTemplate
	raw = strings.ReplaceAll(raw, "{z}", strconv.Itoa(int(id.Z)))
	raw = strings.ReplaceAll(raw, "{x}", strconv.Itoa(int(id.X)))
	raw = strings.ReplaceAll(raw, "{y}", strconv.Itoa(int(id.Y)))
	for name, value := range s.cfg.URLParams {
		raw = strings.ReplaceAll(raw, "{"+name+"}", value)
	}
	return urladdr.Parse(raw)
}
