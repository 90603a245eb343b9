package usdc

import (
	"fmt"
	"runtime"

	"stagecrate/internal/crate"
	"stagecrate/internal/diag"
	"stagecrate/internal/scene"
	"stagecrate/internal/spath"
)

// Config bounds one reconstruction run.
type Config struct {
	// NumThreads is handed to the byte decoder. -1 selects the host CPU
	// count; the effective value is clamped to [1, 1024].
	NumThreads int
	// MaxFieldValuePairs bounds the size of a single fieldset.
	MaxFieldValuePairs int
	// MaxElementSize bounds the elementSize attribute metadatum.
	MaxElementSize int
	// MaxPrimNestLevel bounds prim tree depth.
	MaxPrimNestLevel int
}

// DefaultConfig returns the stock limits.
func DefaultConfig() Config {
	return Config{
		NumThreads:         -1,
		MaxFieldValuePairs: 4096,
		MaxElementSize:     1024,
		MaxPrimNestLevel:   256,
	}
}

func (c Config) normalized() Config {
	if c.NumThreads == -1 {
		c.NumThreads = runtime.NumCPU()
	}
	if c.NumThreads < 1 {
		c.NumThreads = 1
	}
	if c.NumThreads > 1024 {
		c.NumThreads = 1024
	}
	if c.MaxFieldValuePairs <= 0 {
		c.MaxFieldValuePairs = DefaultConfig().MaxFieldValuePairs
	}
	if c.MaxElementSize <= 0 {
		c.MaxElementSize = DefaultConfig().MaxElementSize
	}
	if c.MaxPrimNestLevel <= 0 {
		c.MaxPrimNestLevel = DefaultConfig().MaxPrimNestLevel
	}
	return c
}

// pathToSpecMap maps a path index to its spec index. Path and node indices
// share one space.
type pathToSpecMap map[uint32]uint32

// Reader decodes one Crate buffer and reconstructs its Stage. A Reader is
// single-use and not safe for concurrent method calls.
type Reader struct {
	cr   *crate.Reader
	cfg  Config
	sink diag.Sink

	// Views over the byte decoder's tables, harvested once.
	nodes     []crate.Node
	specs     []crate.Spec
	fields    []crate.Field
	fsIndices []crate.Index
	paths     []spath.Path
	elemPaths []spath.Path
	live      map[crate.Index]crate.FieldValuePairs

	// primTable marks node indices reconstructed as prims, so their
	// Attribute/Relationship children are not re-processed as siblings.
	primTable map[int]struct{}
}

// NewReader wraps a Crate byte buffer.
func NewReader(data []byte, cfg Config) *Reader {
	cfg = cfg.normalized()
	return &Reader{
		cr:        crate.NewReader(data, crate.Config{NumThreads: cfg.NumThreads}),
		cfg:       cfg,
		primTable: make(map[int]struct{}),
	}
}

// ReadCrate drives the byte decoder through every wire section. It must
// succeed before ReconstructStage.
func (r *Reader) ReadCrate() error {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"bootstrap", r.cr.ReadBootstrap},
		{"toc", r.cr.ReadTOC},
		{"tokens", r.cr.ReadTokens},
		{"strings", r.cr.ReadStrings},
		{"fields", r.cr.ReadFields},
		{"fieldsets", r.cr.ReadFieldSets},
		{"paths", r.cr.ReadPaths},
		{"specs", r.cr.ReadSpecs},
		{"live fieldsets", r.cr.BuildLiveFieldSets},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			wrapped := fmt.Errorf("read crate: %s: %w", step.name, err)
			r.sink.PushError(diag.Errorf(diag.KindDecode, "%v", wrapped))
			return wrapped
		}
	}
	return nil
}

// ReconstructStage rebuilds the prim tree into stage. On failure the stage
// may hold partially reconstructed root prims; it is not rolled back.
func (r *Reader) ReconstructStage(stage *scene.Stage) error {
	r.harvest()

	if len(r.nodes) == 0 {
		r.sink.Warnf("empty scene")
		return nil
	}

	psmap := make(pathToSpecMap, len(r.specs))
	for i, spec := range r.specs {
		if spec.PathIndex == crate.InvalidIndex {
			continue
		}
		if _, dup := psmap[uint32(spec.PathIndex)]; dup {
			err := diag.Errorf(diag.KindDuplicatePathIndex, "path index %d claimed by multiple specs", spec.PathIndex)
			r.sink.PushError(err)
			return err
		}
		psmap[uint32(spec.PathIndex)] = uint32(i)
	}

	stage.RootPrims = stage.RootPrims[:0]

	if err := r.reconstructPrimRecursively(-1, 0, nil, 0, psmap, stage); err != nil {
		r.sink.PushError(err)
		return err
	}
	return nil
}

// harvest takes views over the byte decoder's tables. Tests inject tables
// directly and skip this.
func (r *Reader) harvest() {
	if r.cr == nil || r.nodes != nil {
		return
	}
	r.nodes = r.cr.Nodes()
	r.specs = r.cr.Specs()
	r.fields = r.cr.Fields()
	r.fsIndices = r.cr.FieldSetIndices()
	r.paths = r.cr.Paths()
	r.elemPaths = r.cr.ElemPaths()
	r.live = r.cr.LiveFieldSets()
}

// Error returns the accumulated error string.
func (r *Reader) Error() string { return r.sink.Error() }

// Warning returns the accumulated warning string.
func (r *Reader) Warning() string { return r.sink.Warning() }

// MemoryUsageMiB returns the advisory memory counter.
func (r *Reader) MemoryUsageMiB() uint64 { return r.sink.MemoryUsageMiB() }

// Diagnostics exposes the structured sink.
func (r *Reader) Diagnostics() *diag.Sink { return &r.sink }

// SpecCount reports the number of decoded spec records.
func (r *Reader) SpecCount() int {
	r.harvest()
	return len(r.specs)
}

// path resolves a path index with bounds validation.
func (r *Reader) path(idx uint32) (spath.Path, error) {
	if uint64(idx) >= uint64(len(r.paths)) {
		return spath.Path{}, diag.Errorf(diag.KindTableBounds, "path index %d out of range [0, %d)", idx, len(r.paths))
	}
	return r.paths[idx], nil
}

// elementPath resolves an element-path index with bounds validation.
func (r *Reader) elementPath(idx uint32) (spath.Path, error) {
	if uint64(idx) >= uint64(len(r.elemPaths)) {
		return spath.Path{}, diag.Errorf(diag.KindTableBounds, "element path index %d out of range [0, %d)", idx, len(r.elemPaths))
	}
	return r.elemPaths[idx], nil
}

// fieldSet resolves a live fieldset with size validation.
func (r *Reader) fieldSet(idx crate.Index) (crate.FieldValuePairs, error) {
	fvs, ok := r.live[idx]
	if !ok {
		return nil, diag.Errorf(diag.KindMissingFieldSet, "fieldset %d missing from live fieldsets", idx)
	}
	if len(fvs) > r.cfg.MaxFieldValuePairs {
		return nil, diag.Errorf(diag.KindOversizedFieldSet, "fieldset %d holds %d pairs, limit %d", idx, len(fvs), r.cfg.MaxFieldValuePairs)
	}
	return fvs, nil
}
