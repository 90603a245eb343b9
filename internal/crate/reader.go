package crate

import (
	"encoding/binary"
	"fmt"
	"math"

	"stagecrate/internal/spath"
)

// Config bounds the decoder.
type Config struct {
	// NumThreads is the worker count passed in by internal/usdc, which
	// resolves -1 and clamps it to [1, 1024]. The decoder runs
	// single-threaded and does not read it.
	NumThreads int
}

// Reader decodes one Crate byte buffer into its low-level tables. Methods
// must be called in wire order: ReadBootstrap, ReadTOC, ReadTokens,
// ReadStrings, ReadFields, ReadFieldSets, ReadPaths, ReadSpecs, then
// BuildLiveFieldSets. A Reader is not safe for concurrent use.
type Reader struct {
	data []byte
	cfg  Config

	version   [3]uint8
	tocOffset uint64
	sections  map[string]section

	tokens          []string
	stringIndices   []Index
	fields          []Field
	fieldSetIndices []Index
	paths           []spath.Path
	elemPaths       []spath.Path
	nodes           []Node
	specs           []Spec
	liveFieldSets   map[Index]FieldValuePairs
}

type section struct {
	start uint64
	size  uint64
}

// NewReader wraps a Crate byte buffer.
func NewReader(data []byte, cfg Config) *Reader {
	return &Reader{data: data, cfg: cfg}
}

// cursor walks the byte buffer with bounds checks.
type cursor struct {
	data []byte
	off  int
}

func (c *cursor) remaining() int { return len(c.data) - c.off }

func (c *cursor) bytes(n int) ([]byte, error) {
	if n < 0 || c.remaining() < n {
		return nil, fmt.Errorf("unexpected end of data at offset %d (want %d bytes)", c.off, n)
	}
	b := c.data[c.off : c.off+n]
	c.off += n
	return b, nil
}

func (c *cursor) u8() (uint8, error) {
	b, err := c.bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) u32() (uint32, error) {
	b, err := c.bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) u64() (uint64, error) {
	b, err := c.bytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (c *cursor) f32() (float32, error) {
	u, err := c.u32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(u), nil
}

func (c *cursor) f64() (float64, error) {
	u, err := c.u64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(u), nil
}

func (r *Reader) sectionCursor(name string) (*cursor, error) {
	sec, ok := r.sections[name]
	if !ok {
		return nil, fmt.Errorf("section %s missing from table of contents", name)
	}
	end := sec.start + sec.size
	if sec.start > uint64(len(r.data)) || end > uint64(len(r.data)) || end < sec.start {
		return nil, fmt.Errorf("section %s range [%d, %d) exceeds file size %d", name, sec.start, end, len(r.data))
	}
	return &cursor{data: r.data[:end], off: int(sec.start)}, nil
}

func (r *Reader) cursorAt(off uint64) (*cursor, error) {
	if off > uint64(len(r.data)) {
		return nil, fmt.Errorf("payload offset %d exceeds file size %d", off, len(r.data))
	}
	return &cursor{data: r.data, off: int(off)}, nil
}

// ReadBootstrap validates the magic and version and locates the TOC.
func (r *Reader) ReadBootstrap() error {
	c := &cursor{data: r.data}

	magic, err := c.bytes(8)
	if err != nil {
		return fmt.Errorf("read bootstrap: %w", err)
	}
	if string(magic) != crateMagic {
		return fmt.Errorf("read bootstrap: not a Crate file (magic %q)", magic)
	}

	version, err := c.bytes(8)
	if err != nil {
		return fmt.Errorf("read bootstrap: %w", err)
	}
	copy(r.version[:], version[:3])
	if r.version[0] == 0 && r.version[1] < 4 {
		return fmt.Errorf("read bootstrap: unsupported Crate version %d.%d.%d", r.version[0], r.version[1], r.version[2])
	}

	r.tocOffset, err = c.u64()
	if err != nil {
		return fmt.Errorf("read bootstrap: %w", err)
	}
	return nil
}

// ReadTOC decodes the section table.
func (r *Reader) ReadTOC() error {
	c, err := r.cursorAt(r.tocOffset)
	if err != nil {
		return fmt.Errorf("read toc: %w", err)
	}

	count, err := c.u64()
	if err != nil {
		return fmt.Errorf("read toc: %w", err)
	}
	if count > 64 {
		return fmt.Errorf("read toc: implausible section count %d", count)
	}

	r.sections = make(map[string]section, count)
	for i := uint64(0); i < count; i++ {
		nameBytes, err := c.bytes(sectionNameLen)
		if err != nil {
			return fmt.Errorf("read toc: section %d: %w", i, err)
		}
		name := string(trimNul(nameBytes))
		start, err := c.u64()
		if err != nil {
			return fmt.Errorf("read toc: section %d: %w", i, err)
		}
		size, err := c.u64()
		if err != nil {
			return fmt.Errorf("read toc: section %d: %w", i, err)
		}
		r.sections[name] = section{start: start, size: size}
	}
	return nil
}

func trimNul(b []byte) []byte {
	for i, ch := range b {
		if ch == 0 {
			return b[:i]
		}
	}
	return b
}

// ReadTokens decodes the interned token table.
func (r *Reader) ReadTokens() error {
	c, err := r.sectionCursor(sectionTokens)
	if err != nil {
		return fmt.Errorf("read tokens: %w", err)
	}

	numTokens, err := c.u64()
	if err != nil {
		return fmt.Errorf("read tokens: %w", err)
	}
	uncompressedSize, err := c.u64()
	if err != nil {
		return fmt.Errorf("read tokens: %w", err)
	}
	compressedSize, err := c.u64()
	if err != nil {
		return fmt.Errorf("read tokens: %w", err)
	}
	compressed, err := c.bytes(int(compressedSize))
	if err != nil {
		return fmt.Errorf("read tokens: %w", err)
	}

	raw, err := decompressLZ4(compressed, uncompressedSize)
	if err != nil {
		return fmt.Errorf("read tokens: %w", err)
	}

	r.tokens = make([]string, 0, numTokens)
	start := 0
	for i := range raw {
		if raw[i] == 0 {
			r.tokens = append(r.tokens, string(raw[start:i]))
			start = i + 1
		}
	}
	if uint64(len(r.tokens)) != numTokens {
		return fmt.Errorf("read tokens: decoded %d tokens, header says %d", len(r.tokens), numTokens)
	}
	return nil
}

// ReadStrings decodes the string-index table.
func (r *Reader) ReadStrings() error {
	c, err := r.sectionCursor(sectionStrings)
	if err != nil {
		return fmt.Errorf("read strings: %w", err)
	}

	count, err := c.u64()
	if err != nil {
		return fmt.Errorf("read strings: %w", err)
	}
	r.stringIndices = make([]Index, count)
	for i := range r.stringIndices {
		v, err := c.u32()
		if err != nil {
			return fmt.Errorf("read strings: index %d: %w", i, err)
		}
		r.stringIndices[i] = Index(v)
	}
	return nil
}

// readCompressedIndexes reads a compressed-size-prefixed, lz4-enveloped,
// integer-coded uint32 array of n values.
func readCompressedIndexes(c *cursor, n int) ([]Index, error) {
	if n == 0 {
		return nil, nil
	}
	compressedSize, err := c.u64()
	if err != nil {
		return nil, err
	}
	compressed, err := c.bytes(int(compressedSize))
	if err != nil {
		return nil, err
	}
	raw, err := decompressLZ4(compressed, uint64(encodedBufferSize32(n)))
	if err != nil {
		return nil, err
	}
	ints, err := decodeInts32(raw, n)
	if err != nil {
		return nil, err
	}
	out := make([]Index, n)
	for i, v := range ints {
		out[i] = Index(uint32(v))
	}
	return out, nil
}

func readCompressedInts32(c *cursor, n int) ([]int32, error) {
	if n == 0 {
		return nil, nil
	}
	compressedSize, err := c.u64()
	if err != nil {
		return nil, err
	}
	compressed, err := c.bytes(int(compressedSize))
	if err != nil {
		return nil, err
	}
	raw, err := decompressLZ4(compressed, uint64(encodedBufferSize32(n)))
	if err != nil {
		return nil, err
	}
	return decodeInts32(raw, n)
}

// ReadFields decodes the field table: token indices plus packed value reps.
func (r *Reader) ReadFields() error {
	c, err := r.sectionCursor(sectionFields)
	if err != nil {
		return fmt.Errorf("read fields: %w", err)
	}

	numFields, err := c.u64()
	if err != nil {
		return fmt.Errorf("read fields: %w", err)
	}

	tokenIndexes, err := readCompressedIndexes(c, int(numFields))
	if err != nil {
		return fmt.Errorf("read fields: token indexes: %w", err)
	}

	// Reps travel as a flat lz4-enveloped u64 array.
	repsCompressedSize, err := c.u64()
	if err != nil {
		return fmt.Errorf("read fields: %w", err)
	}
	compressed, err := c.bytes(int(repsCompressedSize))
	if err != nil {
		return fmt.Errorf("read fields: %w", err)
	}
	raw, err := decompressLZ4(compressed, numFields*8)
	if err != nil {
		return fmt.Errorf("read fields: reps: %w", err)
	}
	if uint64(len(raw)) < numFields*8 {
		return fmt.Errorf("read fields: reps buffer short: %d < %d", len(raw), numFields*8)
	}

	r.fields = make([]Field, numFields)
	for i := range r.fields {
		r.fields[i] = Field{
			TokenIndex: tokenIndexes[i],
			Rep:        ValueRep(binary.LittleEndian.Uint64(raw[i*8:])),
		}
	}
	return nil
}

// ReadFieldSets decodes the fieldset index list: runs of field indices,
// each run terminated by InvalidIndex.
func (r *Reader) ReadFieldSets() error {
	c, err := r.sectionCursor(sectionFieldSets)
	if err != nil {
		return fmt.Errorf("read fieldsets: %w", err)
	}

	count, err := c.u64()
	if err != nil {
		return fmt.Errorf("read fieldsets: %w", err)
	}
	indexes, err := readCompressedIndexes(c, int(count))
	if err != nil {
		return fmt.Errorf("read fieldsets: %w", err)
	}
	r.fieldSetIndices = indexes
	return nil
}

// ReadPaths decodes the compressed path table and builds the node
// hierarchy. Path index and node index share one space; node 0 is the
// pseudo-root.
func (r *Reader) ReadPaths() error {
	c, err := r.sectionCursor(sectionPaths)
	if err != nil {
		return fmt.Errorf("read paths: %w", err)
	}

	numPaths, err := c.u64()
	if err != nil {
		return fmt.Errorf("read paths: %w", err)
	}
	if numPaths == 0 {
		return nil
	}

	pathIndexes, err := readCompressedIndexes(c, int(numPaths))
	if err != nil {
		return fmt.Errorf("read paths: path indexes: %w", err)
	}
	elementTokenIndexes, err := readCompressedInts32(c, int(numPaths))
	if err != nil {
		return fmt.Errorf("read paths: element token indexes: %w", err)
	}
	jumps, err := readCompressedInts32(c, int(numPaths))
	if err != nil {
		return fmt.Errorf("read paths: jumps: %w", err)
	}

	r.paths = make([]spath.Path, numPaths)
	r.elemPaths = make([]spath.Path, numPaths)
	r.nodes = make([]Node, numPaths)
	for i := range r.nodes {
		r.nodes[i].Parent = -1
	}

	dec := &pathDecoder{
		r:                   r,
		pathIndexes:         pathIndexes,
		elementTokenIndexes: elementTokenIndexes,
		jumps:               jumps,
	}
	if err := dec.build(0, spath.Path{}, -1); err != nil {
		return fmt.Errorf("read paths: %w", err)
	}
	return nil
}

type pathDecoder struct {
	r                   *Reader
	pathIndexes         []Index
	elementTokenIndexes []int32
	jumps               []int32
}

// build walks the flattened pre-order encoding. A jump value > 0 points at
// the sibling subtree, -1 means child only, 0 means sibling only, -2 marks
// a leaf.
func (d *pathDecoder) build(curIndex int, parentPath spath.Path, parentNode int64) error {
	for curIndex < len(d.pathIndexes) {
		thisIndex := curIndex
		curIndex++

		pathIndex := d.pathIndexes[thisIndex]
		if uint64(pathIndex) >= uint64(len(d.r.paths)) {
			return fmt.Errorf("path index %d out of range [0, %d)", pathIndex, len(d.r.paths))
		}

		var thisPath spath.Path
		if !parentPath.IsValid() {
			// First entry is the absolute root.
			thisPath = spath.Root()
			d.r.paths[pathIndex] = thisPath
			d.r.elemPaths[pathIndex] = thisPath
			d.r.nodes[pathIndex] = Node{Path: thisPath, LocalPath: thisPath, Parent: -1}
		} else {
			tokenIndex := d.elementTokenIndexes[thisIndex]
			isPrimProperty := tokenIndex < 0
			if isPrimProperty {
				tokenIndex = -tokenIndex
			}
			if uint64(tokenIndex) >= uint64(len(d.r.tokens)) {
				return fmt.Errorf("element token index %d out of range [0, %d)", tokenIndex, len(d.r.tokens))
			}
			elem := d.r.tokens[tokenIndex]

			if isPrimProperty {
				thisPath = parentPath.AppendProperty(elem)
			} else {
				thisPath = parentPath.AppendElement(elem)
			}
			d.r.paths[pathIndex] = thisPath
			d.r.elemPaths[pathIndex] = spath.NewElementPath(elem)
			d.r.nodes[pathIndex] = Node{
				Path:      thisPath,
				LocalPath: spath.NewElementPath(elem),
				Parent:    parentNode,
			}
			if parentNode >= 0 {
				d.r.nodes[parentNode].Children = append(d.r.nodes[parentNode].Children, uint32(pathIndex))
			}
		}

		jump := d.jumps[thisIndex]
		hasChild := jump > 0 || jump == -1
		hasSibling := jump >= 0

		if hasChild {
			if hasSibling {
				siblingIndex := thisIndex + int(jump)
				if siblingIndex <= thisIndex || siblingIndex > len(d.pathIndexes) {
					return fmt.Errorf("path jump %d at entry %d escapes the table", jump, thisIndex)
				}
				if err := d.build(siblingIndex, parentPath, parentNode); err != nil {
					return err
				}
			}
			// Descend: the next entry is our first child.
			parentPath = thisPath
			parentNode = int64(pathIndex)
			continue
		}
		if hasSibling {
			// Next entry is our sibling under the same parent.
			continue
		}
		return nil
	}
	return nil
}

// ReadSpecs decodes the spec table.
func (r *Reader) ReadSpecs() error {
	c, err := r.sectionCursor(sectionSpecs)
	if err != nil {
		return fmt.Errorf("read specs: %w", err)
	}

	numSpecs, err := c.u64()
	if err != nil {
		return fmt.Errorf("read specs: %w", err)
	}

	pathIndexes, err := readCompressedIndexes(c, int(numSpecs))
	if err != nil {
		return fmt.Errorf("read specs: path indexes: %w", err)
	}
	fieldSetIndexes, err := readCompressedIndexes(c, int(numSpecs))
	if err != nil {
		return fmt.Errorf("read specs: fieldset indexes: %w", err)
	}
	specTypes, err := readCompressedIndexes(c, int(numSpecs))
	if err != nil {
		return fmt.Errorf("read specs: spec types: %w", err)
	}

	r.specs = make([]Spec, numSpecs)
	for i := range r.specs {
		ty := SpecType(specTypes[i])
		if ty >= SpecTypeInvalid {
			return fmt.Errorf("read specs: spec %d: invalid spec type %d", i, uint32(ty))
		}
		r.specs[i] = Spec{
			PathIndex:     pathIndexes[i],
			FieldSetIndex: fieldSetIndexes[i],
			Type:          ty,
		}
	}
	return nil
}

// BuildLiveFieldSets unpacks every fieldset run into decoded (name, value)
// pairs keyed by the run's starting index.
func (r *Reader) BuildLiveFieldSets() error {
	r.liveFieldSets = make(map[Index]FieldValuePairs)

	runStart := 0
	for i := 0; i <= len(r.fieldSetIndices); i++ {
		atEnd := i == len(r.fieldSetIndices)
		if !atEnd && r.fieldSetIndices[i] != InvalidIndex {
			continue
		}
		if i > runStart {
			pairs, err := r.decodeFieldRun(r.fieldSetIndices[runStart:i])
			if err != nil {
				return fmt.Errorf("build live fieldsets: run at %d: %w", runStart, err)
			}
			r.liveFieldSets[Index(runStart)] = pairs
		}
		runStart = i + 1
	}
	return nil
}

func (r *Reader) decodeFieldRun(run []Index) (FieldValuePairs, error) {
	pairs := make(FieldValuePairs, 0, len(run))
	for _, fieldIndex := range run {
		if uint64(fieldIndex) >= uint64(len(r.fields)) {
			return nil, fmt.Errorf("field index %d out of range [0, %d)", fieldIndex, len(r.fields))
		}
		field := r.fields[fieldIndex]
		name, err := r.token(field.TokenIndex)
		if err != nil {
			return nil, err
		}
		v, err := r.unpackValueRep(field.Rep)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		pairs = append(pairs, FieldValue{Name: name, Value: v})
	}
	return pairs, nil
}

func (r *Reader) token(idx Index) (string, error) {
	if uint64(idx) >= uint64(len(r.tokens)) {
		return "", fmt.Errorf("token index %d out of range [0, %d)", idx, len(r.tokens))
	}
	return r.tokens[idx], nil
}

func (r *Reader) stringValue(idx Index) (string, error) {
	if uint64(idx) >= uint64(len(r.stringIndices)) {
		return "", fmt.Errorf("string index %d out of range [0, %d)", idx, len(r.stringIndices))
	}
	return r.token(r.stringIndices[idx])
}

// Accessors. Slices are views into the reader's tables; callers treat them
// as read-only.

// Version returns the decoded file version.
func (r *Reader) Version() [3]uint8 { return r.version }

// NumNodes returns the node count.
func (r *Reader) NumNodes() int { return len(r.nodes) }

// NumPaths returns the path count.
func (r *Reader) NumPaths() int { return len(r.paths) }

// Nodes returns the node table.
func (r *Reader) Nodes() []Node { return r.nodes }

// Specs returns the spec table.
func (r *Reader) Specs() []Spec { return r.specs }

// Fields returns the field table.
func (r *Reader) Fields() []Field { return r.fields }

// FieldSetIndices returns the raw fieldset index list.
func (r *Reader) FieldSetIndices() []Index { return r.fieldSetIndices }

// Paths returns the full-path table.
func (r *Reader) Paths() []spath.Path { return r.paths }

// ElemPaths returns the element-path table.
func (r *Reader) ElemPaths() []spath.Path { return r.elemPaths }

// LiveFieldSets returns the decoded fieldsets keyed by fieldset index.
func (r *Reader) LiveFieldSets() map[Index]FieldValuePairs { return r.liveFieldSets }
