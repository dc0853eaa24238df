package source_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"mapengine/platform"
	"mapengine/telemetry"
	"mapengine/tile/cache"
	"mapengine/tile/source"
	"mapengine/tile/tileid"
	"mapengine/urladdr"
	"mapengine/workpool"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type fakeRequester struct {
	mu          sync.Mutex
	nextHandle  uint64
	fetchCount  atomic.Int64
	cancelCount atomic.Int64
	delay       time.Duration
}

func (f *fakeRequester) StartURLRequest(u urladdr.URL, cb platform.Callback) platform.Handle {
	f.fetchCount.Add(1)
	f.mu.Lock()
	f.nextHandle++
	h := platform.Handle(f.nextHandle)
	f.mu.Unlock()

	go func() {
		if f.delay > 0 {
			time.Sleep(f.delay)
		}
		cb(platform.Result{Bytes: []byte(u.String())})
	}()
	return h
}

func (f *fakeRequester) CancelURLRequest(h platform.Handle) { f.cancelCount.Add(1) }
func (f *fakeRequester) RequestRender()                     {}
func (f *fakeRequester) SetContinuousRendering(bool)        {}
func (f *fakeRequester) Shutdown()                          {}

func echoDecoder() source.Decoder {
	return source.DecoderFunc(func(sourceID string, id tileid.ID, raw []byte) (any, error) {
		return string(raw), nil
	})
}

func TestSource_LoadTile(t *testing.T) {
	req := &fakeRequester{}
	pool := workpool.NewPool(2, 4)
	defer pool.Shutdown()

	src := source.New(source.Config{
		ID:          "osm",
		URLTemplate: "https://tiles.example/{z}/{x}/{y}.mvt",
		MaxZoom:     14,
	}, req, pool, echoDecoder())

	var wg sync.WaitGroup
	wg.Add(1)
	var gotTile *cache.Tile
	var gotErr error
	src.LoadTile(tileid.ID{Z: 3, X: 1, Y: 2}, func(tile *cache.Tile, err error) {
		gotTile, gotErr = tile, err
		wg.Done()
	})
	wg.Wait()

	require.NoError(t, gotErr)
	require.NotNil(t, gotTile)
	assert.Equal(t, "osm", gotTile.SourceID)
	assert.Equal(t, tileid.ID{Z: 3, X: 1, Y: 2}, gotTile.ID)
	assert.Equal(t, "https://tiles.example/3/1/2.mvt", gotTile.Data)
	assert.EqualValues(t, 1, req.fetchCount.Load())
}

func TestSource_URLParams(t *testing.T) {
	req := &fakeRequester{}
	pool := workpool.NewPool(1, 4)
	defer pool.Shutdown()

	src := source.New(source.Config{
		ID:          "vector",
		URLTemplate: "https://tiles.example/{z}/{x}/{y}.mvt?api_key={key}",
		URLParams:   map[string]string{"key": "abc123"},
	}, req, pool, echoDecoder())

	var wg sync.WaitGroup
	wg.Add(1)
	var gotTile *cache.Tile
	src.LoadTile(tileid.ID{Z: 1, X: 0, Y: 0}, func(tile *cache.Tile, err error) {
		gotTile = tile
		wg.Done()
	})
	wg.Wait()

	assert.Equal(t, "https://tiles.example/1/0/0.mvt?api_key=abc123", gotTile.Data)
}

func TestSource_ConcurrentLoadsCoalesce(t *testing.T) {
	req := &fakeRequester{delay: 30 * time.Millisecond}
	pool := workpool.NewPool(4, 8)
	defer pool.Shutdown()

	src := source.New(source.Config{
		ID:          "osm",
		URLTemplate: "https://tiles.example/{z}/{x}/{y}.mvt",
	}, req, pool, echoDecoder())

	const callers = 10
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		src.LoadTile(tileid.ID{Z: 5, X: 5, Y: 5}, func(tile *cache.Tile, err error) {
			wg.Done()
		})
	}
	wg.Wait()

	assert.EqualValues(t, 1, req.fetchCount.Load(), "concurrent loads of the same tile must coalesce into one fetch")
}

func TestSource_CancelTileIsAdvisory(t *testing.T) {
	req := &fakeRequester{delay: 20 * time.Millisecond}
	pool := workpool.NewPool(1, 4)
	defer pool.Shutdown()

	src := source.New(source.Config{
		ID:          "osm",
		URLTemplate: "https://tiles.example/{z}/{x}/{y}.mvt",
	}, req, pool, echoDecoder())

	var wg sync.WaitGroup
	wg.Add(1)
	src.LoadTile(tileid.ID{Z: 2, X: 1, Y: 1}, func(tile *cache.Tile, err error) {
		wg.Done()
	})
	src.CancelTile(tileid.ID{Z: 2, X: 1, Y: 1})
	wg.Wait()

	assert.EqualValues(t, 1, req.cancelCount.Load())
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestSource_RecordsSuccessfulFetchToTelemetry(t *testing.T) {
	db, mock := setupMockDB(t)
	store := telemetry.NewStore(db)

	req := &fakeRequester{}
	pool := workpool.NewPool(1, 4)
	defer pool.Shutdown()

	src := source.New(source.Config{
		ID:          "osm",
		URLTemplate: "https://tiles.example/{z}/{x}/{y}.mvt",
	}, req, pool, echoDecoder())
	src.SetTelemetry(store)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `tile_fetch_events`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	var wg sync.WaitGroup
	wg.Add(1)
	src.LoadTile(tileid.ID{Z: 1, X: 0, Y: 0}, func(tile *cache.Tile, err error) {
		wg.Done()
	})
	wg.Wait()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSource_NoTelemetryIsNoop(t *testing.T) {
	req := &fakeRequester{}
	pool := workpool.NewPool(1, 4)
	defer pool.Shutdown()

	src := source.New(source.Config{
		ID:          "osm",
		URLTemplate: "https://tiles.example/{z}/{x}/{y}.mvt",
	}, req, pool, echoDecoder())

	var wg sync.WaitGroup
	wg.Add(1)
	assert.NotPanics(t, func() {
		src.LoadTile(tileid.ID{Z: 1, X: 0, Y: 0}, func(tile *cache.Tile, err error) {
			wg.Done()
		})
	})
	wg.Wait()
}
