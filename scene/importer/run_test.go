package importer_test

import (
	"archive/zip"
	"bytes"
	"fmt"
	"sync"
	"testing"
	"time"

	"mapengine/platform"
	"mapengine/scene/importer"
	"mapengine/scene/model"
	"mapengine/urladdr"
	"mapengine/workpool"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRequester serves canned bytes per URL string, synchronously on a
// goroutine (so LoadTile-style callers never see a same-stack reentrant
// callback), matching platform.Requester.
type fakeRequester struct {
	mu        sync.Mutex
	documents map[string]string
	handle    uint64
	canceled  map[platform.Handle]bool
}

func newFakeRequester(docs map[string]string) *fakeRequester {
	return &fakeRequester{documents: docs, canceled: make(map[platform.Handle]bool)}
}

func (r *fakeRequester) StartURLRequest(u urladdr.URL, cb platform.Callback) platform.Handle {
	r.mu.Lock()
	r.handle++
	h := platform.Handle(r.handle)
	body, ok := r.documents[u.String()]
	r.mu.Unlock()

	go func() {
		if !ok {
			cb(platform.Result{Err: fmt.Errorf("fakeRequester: no document for %s", u.String())})
			return
		}
		cb(platform.Result{Bytes: []byte(body)})
	}()
	return h
}

func (r *fakeRequester) CancelURLRequest(h platform.Handle) {
	r.mu.Lock()
	r.canceled[h] = true
	r.mu.Unlock()
}
func (r *fakeRequester) RequestRender()              {}
func (r *fakeRequester) SetContinuousRendering(bool) {}
func (r *fakeRequester) Shutdown()                   {}

func mustParse(t *testing.T, s string) urladdr.URL {
	t.Helper()
	u, err := urladdr.Parse(s)
	require.NoError(t, err)
	return u
}

func newImporter(docs map[string]string) *importer.Importer {
	pool := workpool.NewPool(2, 8)
	return importer.New(newFakeRequester(docs), pool, nil)
}

func TestImporter_LinearImportChainMergesInOverrideOrder(t *testing.T) {
	docs := map[string]string{
		"https://x/root.yaml": "import: a.yaml\nroot_only: true\nshared: root\n",
		"https://x/a.yaml":    "import: b.yaml\nshared: a\na_only: true\n",
		"https://x/b.yaml":    "shared: b\nb_only: true\n",
	}
	im := newImporter(docs)
	opts := model.NewSceneOptions(mustParse(t, "https://x/root.yaml"))

	merged, errs := im.Run(opts, nil)
	require.Empty(t, errs)

	assert.Equal(t, true, merged["root_only"])
	assert.Equal(t, true, merged["a_only"])
	assert.Equal(t, true, merged["b_only"])
	assert.Equal(t, "root", merged["shared"], "root must win over a and b")
}

func TestImporter_Diamond(t *testing.T) {
	docs := map[string]string{
		"https://x/root.yaml": "import: [a.yaml, b.yaml]\n",
		"https://x/a.yaml":    "import: c.yaml\nfrom_a: true\n",
		"https://x/b.yaml":    "import: c.yaml\nfrom_b: true\n",
		"https://x/c.yaml":    "from_c: true\n",
	}
	im := newImporter(docs)
	opts := model.NewSceneOptions(mustParse(t, "https://x/root.yaml"))

	merged, errs := im.Run(opts, nil)
	require.Empty(t, errs)

	assert.Equal(t, true, merged["from_a"])
	assert.Equal(t, true, merged["from_b"])
	assert.Equal(t, true, merged["from_c"], "c must be merged exactly once, reachable via either a or b")
}

func TestImporter_CycleTerminates(t *testing.T) {
	docs := map[string]string{
		"https://x/root.yaml": "import: a.yaml\nroot_only: true\n",
		"https://x/a.yaml":    "import: root.yaml\na_only: true\n",
	}
	im := newImporter(docs)
	opts := model.NewSceneOptions(mustParse(t, "https://x/root.yaml"))

	done := make(chan struct{})
	var merged map[string]any
	var errs []model.SceneError
	go func() {
		merged, errs = im.Run(opts, nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("importer did not terminate on cyclic import graph")
	}

	require.Empty(t, errs)
	assert.Equal(t, true, merged["root_only"])
	assert.Equal(t, true, merged["a_only"])
}

func TestImporter_SelfImportTerminates(t *testing.T) {
	docs := map[string]string{
		"https://x/self.yaml": "import: self.yaml\nv: 1\n",
	}
	im := newImporter(docs)
	opts := model.NewSceneOptions(mustParse(t, "https://x/self.yaml"))

	merged, errs := im.Run(opts, nil)
	require.Empty(t, errs)
	assert.Equal(t, 1, merged["v"])
	_, hasImport := merged["import"]
	assert.False(t, hasImport)
}

func TestImporter_RootFailureIsFatal(t *testing.T) {
	im := newImporter(map[string]string{})
	opts := model.NewSceneOptions(mustParse(t, "https://x/missing.yaml"))

	merged, errs := im.Run(opts, nil)
	require.Len(t, errs, 1)
	assert.Equal(t, model.ErrFetch, errs[0].Kind)
	assert.Empty(t, merged)
}

func TestImporter_TextureNamedReferenceLeftUnchangedVsRewritten(t *testing.T) {
	docs := map[string]string{
		"https://x/root.yaml": `
textures:
  pois:
    url: img/pois.png
styles:
  markers:
    texture: pois
  ground:
    texture: img/ground.png
`,
	}
	im := newImporter(docs)
	opts := model.NewSceneOptions(mustParse(t, "https://x/root.yaml"))

	merged, errs := im.Run(opts, nil)
	require.Empty(t, errs)

	styles := merged["styles"].(map[string]any)
	markers := styles["markers"].(map[string]any)
	ground := styles["ground"].(map[string]any)

	assert.Equal(t, "pois", markers["texture"], "named texture reference must be left unchanged")
	assert.Equal(t, "https://x/img/ground.png", ground["texture"], "bare scalar must be rewritten to an absolute URL")
}

func TestImporter_ZipArchiveResolvesBaseDocumentAndTextures(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	writeEntry(t, zw, "scene.yaml", "styles:\n  ground:\n    texture: img/x.png\n")
	writeEntry(t, zw, "img/x.png", "fake-png-bytes")
	require.NoError(t, zw.Close())

	docs := map[string]string{
		"https://x/bundle.zip": buf.String(),
	}
	im := newImporter(docs)
	opts := model.NewSceneOptions(mustParse(t, "https://x/bundle.zip"))

	merged, errs := im.Run(opts, nil)
	require.Empty(t, errs)

	styles := merged["styles"].(map[string]any)
	ground := styles["ground"].(map[string]any)
	texURL := ground["texture"].(string)

	resolvedArchive, err := urladdr.ArchiveURLForEntry(mustParse(t, texURL))
	require.NoError(t, err)
	assert.Equal(t, "https://x/bundle.zip", resolvedArchive.String())
	assert.Equal(t, "img/x.png", mustParse(t, texURL).EntryPath())
}

func TestImporter_CancelReturnsEmptyTree(t *testing.T) {
	docs := map[string]string{
		"https://x/root.yaml": "import: a.yaml\n",
		"https://x/a.yaml":    "a: 1\n",
	}
	im := newImporter(docs)
	opts := model.NewSceneOptions(mustParse(t, "https://x/root.yaml"))

	cancel := make(chan struct{})
	close(cancel)

	merged, _ := im.Run(opts, cancel)
	assert.Empty(t, merged)
}

func TestImporter_InlineRootDocument(t *testing.T) {
	im := newImporter(map[string]string{
		"https://x/a.yaml": "a_only: true\n",
	})
	opts := model.NewSceneOptions(mustParse(t, "https://x/root.yaml"))
	opts.InlineDocument = "import: a.yaml\nroot_only: true\n"

	merged, errs := im.Run(opts, nil)
	require.Empty(t, errs)
	assert.Equal(t, true, merged["root_only"])
	assert.Equal(t, true, merged["a_only"])
}

func writeEntry(t *testing.T, zw *zip.Writer, name, content string) {
	t.Helper()
	w, err := zw.Create(name)
	require.NoError(t, err)
	_, err = w.Write([]byte(content))
	require.NoError(t, err)
}
