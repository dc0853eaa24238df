package importer

import (
	"fmt"
	"strings"
	"sync"

	"mapengine/archive"
	"mapengine/platform"
	"mapengine/scene/model"
	"mapengine/urladdr"
	"mapengine/workpool"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Importer runs one scene's import-graph fetch, merge, and texture-rewrite
// pass (spec §4.5). One Importer instance is reusable across Run calls;
// Run itself holds all per-run state, so concurrent Run calls from
// different scenes are safe.
type Importer struct {
	requester  platform.Requester
	decodePool *workpool.Pool
	logger     *zap.Logger
}

// New builds an Importer. requester serves http/file/s3 document fetches;
// decodePool runs zip-entry decompression (spec §4.3's "used for zip
// decode" unbounded pool — see DESIGN.md's Open Question decision
// reconciling spec §4.5's "ordered worker" wording with §4.3's explicit
// pool assignment).
func New(requester platform.Requester, decodePool *workpool.Pool, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{requester: requester, decodePool: decodePool, logger: logger}
}

type nodeSlot struct {
	node *model.SceneNode // nil while in flight, or if the fetch/parse failed
}

type runState struct {
	mu        sync.Mutex
	cond      *sync.Cond
	nodes     map[string]*nodeSlot
	archives  map[string]*archive.Index
	handles   map[string]platform.Handle
	inFlight  int
	cancelled bool
	errs      []model.SceneError
}

func (st *runState) recordError(e model.SceneError) {
	st.mu.Lock()
	st.errs = append(st.errs, e)
	st.mu.Unlock()
}

func (st *runState) errorsCopy() []model.SceneError {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]model.SceneError, len(st.errs))
	copy(out, st.errs)
	return out
}

// Run fetches and merges opts' import graph, blocking the calling
// goroutine until every fetch settles or cancelSignal fires. A closed
// cancelSignal is spec §5's cancel path: outstanding requests are issued
// cancel, Run wakes immediately, and an empty tree is returned.
func (im *Importer) Run(opts model.SceneOptions, cancelSignal <-chan struct{}) (map[string]any, []model.SceneError) {
	st := &runState{
		nodes:    make(map[string]*nodeSlot),
		archives: make(map[string]*archive.Index),
		handles:  make(map[string]platform.Handle),
	}
	st.cond = sync.NewCond(&st.mu)

	done := make(chan struct{})
	defer close(done)
	go im.watchCancel(st, cancelSignal, done)

	rootKey := opts.RootURL.String()
	st.mu.Lock()
	st.nodes[rootKey] = &nodeSlot{}
	st.mu.Unlock()

	if opts.HasInlineDocument() {
		im.parseAndStore(st, rootKey, opts.RootURL, []byte(opts.InlineDocument))
	} else {
		im.startFetch(st, rootKey, opts.RootURL)
	}

	st.mu.Lock()
	for st.inFlight > 0 && !st.cancelled {
		st.cond.Wait()
	}
	cancelled := st.cancelled
	st.mu.Unlock()

	if cancelled {
		return map[string]any{}, st.errorsCopy()
	}

	merged := im.mergeNode(st, rootKey, make(map[string]bool))
	if merged == nil {
		merged = map[string]any{}
	}
	im.rewriteTextures(st, rootKey, merged)
	return merged, st.errorsCopy()
}

func (im *Importer) watchCancel(st *runState, cancelSignal <-chan struct{}, done chan struct{}) {
	select {
	case <-cancelSignal:
	case <-done:
		return
	}

	st.mu.Lock()
	st.cancelled = true
	handles := make([]platform.Handle, 0, len(st.handles))
	for _, h := range st.handles {
		handles = append(handles, h)
	}
	st.mu.Unlock()

	for _, h := range handles {
		im.requester.CancelURLRequest(h)
	}

	st.mu.Lock()
	st.cond.Broadcast()
	st.mu.Unlock()
}

func (im *Importer) startFetch(st *runState, key string, u urladdr.URL) {
	st.mu.Lock()
	st.inFlight++
	st.mu.Unlock()

	if u.Scheme == "zip" {
		im.fetchZipEntry(st, key, u)
		return
	}

	handle := im.requester.StartURLRequest(u, func(res platform.Result) {
		im.onFetchResult(st, key, u, res.Bytes, res.Err)
	})
	st.mu.Lock()
	st.handles[key] = handle
	st.mu.Unlock()
}

func (im *Importer) fetchZipEntry(st *runState, key string, u urladdr.URL) {
	archiveURL, err := urladdr.ArchiveURLForEntry(u)
	if err != nil {
		im.onFetchResult(st, key, u, nil, err)
		return
	}
	st.mu.Lock()
	idx, ok := st.archives[archiveURL.String()]
	st.mu.Unlock()
	if !ok {
		im.onFetchResult(st, key, u, nil, fmt.Errorf("importer: archive %s not loaded for entry %s", archiveURL.String(), u.EntryPath()))
		return
	}

	im.decodePool.Submit(func() {
		buf, derr := idx.DecompressEntry(u.EntryPath())
		im.onFetchResult(st, key, u, buf, derr)
	})
}

func (im *Importer) onFetchResult(st *runState, key string, u urladdr.URL, raw []byte, ferr error) {
	defer func() {
		st.mu.Lock()
		st.inFlight--
		st.cond.Broadcast()
		st.mu.Unlock()
	}()

	st.mu.Lock()
	delete(st.handles, key)
	st.mu.Unlock()

	if ferr != nil {
		kind := model.ErrFetch
		if u.Scheme == "zip" {
			kind = model.ErrArchive
		}
		st.recordError(model.SceneError{Kind: kind, URL: u.String(), Message: "fetch", Err: ferr})
		return
	}

	if u.IsZipArchive() {
		im.processZipRoot(st, key, u, raw)
		return
	}

	im.parseAndStore(st, key, u, raw)
}

func (im *Importer) processZipRoot(st *runState, key string, archiveURL urladdr.URL, raw []byte) {
	idx, err := archive.NewIndex(raw)
	if err != nil {
		st.recordError(model.SceneError{Kind: model.ErrArchive, URL: archiveURL.String(), Message: "open archive", Err: err})
		return
	}
	st.mu.Lock()
	st.archives[archiveURL.String()] = idx
	st.mu.Unlock()

	basePath, ok := idx.BaseDocument()
	if !ok {
		st.recordError(model.SceneError{Kind: model.ErrArchive, URL: archiveURL.String(), Message: "no base yaml document at archive root"})
		return
	}
	buf, err := idx.DecompressEntry(basePath)
	if err != nil {
		st.recordError(model.SceneError{Kind: model.ErrArchive, URL: archiveURL.String(), Message: "decompress base document", Err: err})
		return
	}

	im.parseAndStore(st, key, urladdr.EntryURLFor(archiveURL, basePath), buf)
}

// parseAndStore parses raw as a document whose relative references resolve
// against base, records it under key, and enqueues fetches for any newly
// discovered import targets.
func (im *Importer) parseAndStore(st *runState, key string, base urladdr.URL, raw []byte) {
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		st.recordError(model.SceneError{Kind: model.ErrDocumentParse, URL: base.String(), Message: "parse document", Err: err})
		return
	}
	if doc == nil {
		doc = map[string]any{}
	}

	importURLs := im.resolveImports(st, doc, base)
	delete(doc, "import")

	node := &model.SceneNode{
		SourceURL:           base,
		Document:            doc,
		ImportURLs:          importURLs,
		TextureRewriteSites: scanTextureCandidates(doc),
	}

	st.mu.Lock()
	st.nodes[key] = &nodeSlot{node: node}
	st.mu.Unlock()

	for _, childURL := range importURLs {
		childKey := childURL.String()
		st.mu.Lock()
		_, known := st.nodes[childKey]
		if !known {
			st.nodes[childKey] = &nodeSlot{}
		}
		st.mu.Unlock()
		if !known {
			im.startFetch(st, childKey, childURL)
		}
	}
}

// resolveImports reads doc's "import" field (a scalar URL or a sequence of
// them per spec §6), resolves each against base, and returns them in
// declared order. Only the root-level "import" key is honored — nested
// "import" keys inside sub-maps are left untouched (DESIGN.md's Open
// Question decision on spec §9).
func (im *Importer) resolveImports(st *runState, doc map[string]any, base urladdr.URL) []urladdr.URL {
	raw, ok := doc["import"]
	if !ok {
		return nil
	}

	var scalars []string
	switch v := raw.(type) {
	case string:
		scalars = []string{v}
	case []any:
		for _, e := range v {
			if s, ok := e.(string); ok {
				scalars = append(scalars, s)
			}
		}
	}

	var out []urladdr.URL
	for _, s := range scalars {
		u, err := base.Resolve(s)
		if err != nil {
			st.recordError(model.SceneError{Kind: model.ErrDocumentParse, URL: base.String(), Message: fmt.Sprintf("resolve import %q", s), Err: err})
			continue
		}
		out = append(out, u)
	}
	return out
}

// mergeNode recursively merges key's subtree in depth-first post-order:
// children are merged into their own document first, then that result is
// merged into key's document with key's document winning conflicts (spec
// §4.5 step 3). visited guards cycles and diamonds — a URL already in
// visited contributes nothing further.
func (im *Importer) mergeNode(st *runState, key string, visited map[string]bool) map[string]any {
	if visited[key] {
		return nil
	}
	visited[key] = true

	st.mu.Lock()
	slot := st.nodes[key]
	st.mu.Unlock()
	if slot == nil || slot.node == nil {
		return nil
	}

	doc := slot.node.Document
	for _, childURL := range slot.node.ImportURLs {
		childTree := im.mergeNode(st, childURL.String(), visited)
		if childTree == nil {
			continue
		}
		mergeInto(doc, childTree, func(k string) {
			im.logger.Debug("importer: conflicting merge",
				zap.String("url", slot.node.SourceURL.String()),
				zap.String("key", k))
		})
	}
	return doc
}

type rewriteClaim struct {
	node *model.SceneNode
	path model.RewritePath
}

// rewriteTextures resolves every texture-candidate scalar recorded across
// the import graph against the final merged tree (spec §4.5 step 4). Sites
// are claimed root-first, depth-first: if two documents recorded a site at
// the same merged-tree path (one import provided a style the root also
// defines), the higher-priority document — the one whose value actually
// survived the merge — claims it, since walking root-first mirrors the
// same priority order the merge itself applied.
func (im *Importer) rewriteTextures(st *runState, rootKey string, merged map[string]any) {
	claims := make(map[string]rewriteClaim)
	im.collectRewriteSites(st, rootKey, make(map[string]bool), claims)

	textures, _ := merged["textures"].(map[string]any)

	for _, c := range claims {
		val, ok := getAt(merged, c.path)
		if !ok {
			continue // site's container was removed by a conflicting merge
		}
		s, ok := val.(string)
		if !ok {
			continue
		}
		if textures != nil {
			if _, named := textures[s]; named {
				continue // named reference into the merged textures map
			}
		}
		resolved, err := c.node.SourceURL.Resolve(s)
		if err != nil {
			st.recordError(model.SceneError{Kind: model.ErrSceneBuild, URL: c.node.SourceURL.String(), Message: fmt.Sprintf("resolve texture %q", s), Err: err})
			continue
		}
		setAt(merged, c.path, resolved.String())
	}
}

func (im *Importer) collectRewriteSites(st *runState, key string, visited map[string]bool, claims map[string]rewriteClaim) {
	if visited[key] {
		return
	}
	visited[key] = true

	st.mu.Lock()
	slot := st.nodes[key]
	st.mu.Unlock()
	if slot == nil || slot.node == nil {
		return
	}

	for _, path := range slot.node.TextureRewriteSites {
		pk := pathKey(path)
		if _, claimed := claims[pk]; !claimed {
			claims[pk] = rewriteClaim{node: slot.node, path: path}
		}
	}
	for _, childURL := range slot.node.ImportURLs {
		im.collectRewriteSites(st, childURL.String(), visited, claims)
	}
}

func pathKey(p model.RewritePath) string {
	var b strings.Builder
	for _, step := range p {
		if step.IsIndex {
			fmt.Fprintf(&b, "[%d]", step.Index)
		} else {
			b.WriteString(".")
			b.WriteString(step.Key)
		}
	}
	return b.String()
}
