package world

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"sync"

	"github.com/klauspost/compress/flate"
	"golang.org/x/image/bmp"

	"github.com/ashfall-games/worldcore/internal/vec"
	"github.com/ashfall-games/worldcore/internal/world/block"
)

// ChunkMeta carries aggregate metadata for a Chunk: its vertical extent and
// biome hints, used by both the synthesizer and the streaming heuristic. A
// chunk is "shallow" when max_z - min_z <= ShallowMaxDepth.
type ChunkMeta struct {
	MinZ, MaxZ int32
	Biome      string
}

// ShallowMaxDepth is the threshold below which a chunk is "shallow" enough to
// try the lossy image-based encodings.
const ShallowMaxDepth = 128

// Chunk is a 3D volume of Blocks addressed by local (x, y, z), plus meta.
// Horizontal extent is fixed at vec.ChunkSize x vec.ChunkSize; vertical
// extent is dynamic per-chunk (Depth), matching a real world's varied
// altitude range without wasting memory on empty chunks.
type Chunk struct {
	Key   vec.ChunkKey
	Meta  ChunkMeta
	Depth int32 // number of Z-layers stored, blocks live at [0, Depth)

	blocks  []Block // length ChunkSize*ChunkSize*Depth, z-major
	mu      sync.RWMutex
	dirty   map[[3]int32]struct{} // changed local (x,y,z) since last ClearChanges
}

// NewChunk allocates an empty chunk spanning [minZ, maxZ).
func NewChunk(key vec.ChunkKey, minZ, maxZ int32) *Chunk {
	depth := maxZ - minZ
	if depth <= 0 {
		depth = 1
	}
	c := &Chunk{
		Key:   key,
		Meta:  ChunkMeta{MinZ: minZ, MaxZ: minZ + depth},
		Depth: depth,
		blocks: make([]Block, vec.ChunkSize*vec.ChunkSize*int(depth)),
		dirty:  make(map[[3]int32]struct{}),
	}
	for i := range c.blocks {
		c.blocks[i] = Air
	}
	return c
}

func (c *Chunk) index(lx, ly, lz int32) (int, bool) {
	if lx < 0 || ly < 0 || lx >= vec.ChunkSize || ly >= vec.ChunkSize || lz < 0 || lz >= c.Depth {
		return 0, false
	}
	return int(lz)*vec.ChunkSize*vec.ChunkSize + int(ly)*vec.ChunkSize + int(lx), true
}

// Get returns the block at local coordinates; out of range returns Air.
func (c *Chunk) Get(lx, ly, lz int32) Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.index(lx, ly, lz)
	if !ok {
		return Air
	}
	return c.blocks[i]
}

// Set writes the block at local coordinates. Writes are idempotent: setting
// the same value again produces no extra dirty entry.
func (c *Chunk) Set(lx, ly, lz int32, b Block) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.index(lx, ly, lz)
	if !ok {
		return
	}
	if c.blocks[i] == b {
		return
	}
	c.blocks[i] = b
	c.dirty[[3]int32{lx, ly, lz}] = struct{}{}
}

// HasChanges reports whether any block has been written since ClearChanges.
func (c *Chunk) HasChanges() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.dirty) > 0
}

// ClearChanges resets the dirty set.
func (c *Chunk) ClearChanges() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dirty = make(map[[3]int32]struct{})
}

// IsShallow reports whether the chunk's vertical extent fits the threshold
// for lossy image-based encoding.
func (c *Chunk) IsShallow() bool {
	return c.Meta.MaxZ-c.Meta.MinZ <= ShallowMaxDepth
}

// --- Serialization ---
//
// Two encodings: a deflate-compressed full form (always correct), and an
// image-based encoding that exploits height-map regularity for shallow
// chunks. Either can fall back to deflate on encoder failure.

// ChunkEncoding tags which wire encoding a serialized chunk used.
type ChunkEncoding uint8

const (
	EncodingDeflate ChunkEncoding = iota
	EncodingImagePNG
	EncodingImageBMP
)

// Encode serializes the chunk. If lossy is true and the chunk IsShallow, it
// tries the two image-based encodings in turn (PNG first, BMP as a second
// lossy attempt); on failure of both, or if not eligible, it falls back to
// deflate.
func (c *Chunk) Encode(lossy bool) (ChunkEncoding, []byte, error) {
	if lossy && c.IsShallow() {
		if data, err := c.encodeImage(); err == nil {
			return EncodingImagePNG, data, nil
		}
		if data, err := c.encodeImageBMP(); err == nil {
			return EncodingImageBMP, data, nil
		}
		// Both image encodings failed; fall through to deflate.
	}
	data, err := c.encodeDeflate()
	if err != nil {
		return 0, nil, fmt.Errorf("chunk deflate encode: %w", err)
	}
	return EncodingDeflate, data, nil
}

func (c *Chunk) encodeDeflate() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var raw bytes.Buffer
	header := struct {
		KeyX, KeyY   int32
		MinZ, MaxZ   int32
	}{c.Key.X, c.Key.Y, c.Meta.MinZ, c.Meta.MaxZ}
	if err := binary.Write(&raw, binary.LittleEndian, header); err != nil {
		return nil, err
	}
	for _, b := range c.blocks {
		if err := binary.Write(&raw, binary.LittleEndian, uint16(b.Kind)); err != nil {
			return nil, err
		}
		if err := binary.Write(&raw, binary.LittleEndian, b.Tint); err != nil {
			return nil, err
		}
	}

	var out bytes.Buffer
	w, err := flate.NewWriter(&out, flate.DefaultCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(raw.Bytes()); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// DecodeDeflate inflates a chunk previously produced by encodeDeflate.
func DecodeDeflate(data []byte) (*Chunk, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()

	var header struct {
		KeyX, KeyY int32
		MinZ, MaxZ int32
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("chunk header: %w", err)
	}
	c := NewChunk(vec.ChunkKey{X: header.KeyX, Y: header.KeyY}, header.MinZ, header.MaxZ)
	for i := range c.blocks {
		var kind uint16
		var tint block.RGB
		if err := binary.Read(r, binary.LittleEndian, &kind); err != nil {
			return nil, fmt.Errorf("chunk block %d: %w", i, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &tint); err != nil {
			return nil, fmt.Errorf("chunk tint %d: %w", i, err)
		}
		c.blocks[i] = Block{Kind: block.BlockID(kind), Tint: tint}
	}
	return c, nil
}

// encodeImage packs a shallow chunk's height-map and surface kind into a PNG:
// one column per (x, y), surface altitude in the red+green channels, surface
// block kind in blue, since shallow terrain columns are usually a single
// run of filled blocks topped by one surface kind.
func (c *Chunk) encodeImage() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	img := image.NewNRGBA64(image.Rect(0, 0, vec.ChunkSize, vec.ChunkSize))
	for ly := int32(0); ly < vec.ChunkSize; ly++ {
		for lx := int32(0); lx < vec.ChunkSize; lx++ {
			top, surface, ok := c.columnSurface(lx, ly)
			if !ok {
				return nil, fmt.Errorf("column (%d,%d) not representable as a single surface", lx, ly)
			}
			img.Set(int(lx), int(ly), surfaceColor(top, surface))
		}
	}
	var out bytes.Buffer
	if err := png.Encode(&out, img); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// columnSurface returns the topmost filled layer index and its kind, failing
// if the column's filled blocks do not form a single contiguous run (air
// below the run is accepted and not recorded). That's the
// common case for shallow terrain but not caves; caves reject the image
// encoding and fall back to deflate.
func (c *Chunk) columnSurface(lx, ly int32) (int32, block.BlockID, bool) {
	top := int32(-1)
	var kind block.BlockID
	seenGap := false
	for lz := int32(0); lz < c.Depth; lz++ {
		i, _ := c.index(lx, ly, lz)
		b := c.blocks[i]
		if b.Filled() {
			if seenGap {
				return 0, 0, false
			}
			top = lz
			kind = b.Kind
		} else if top >= 0 {
			seenGap = true
		}
	}
	if top < 0 {
		return 0, block.AirBlockID, true
	}
	return top, kind, true
}

func surfaceColor(top int32, kind block.BlockID) image.NRGBA64 {
	height := uint16(top)
	return image.NRGBA64{R: height, G: height, B: uint16(kind), A: 0xFFFF}
}

// encodeImageBMP is the second lossy encoding: the same per-column surface
// image as encodeImage, written as a BMP. Encode tries it only after
// encodeImage has returned an error.
func (c *Chunk) encodeImageBMP() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	img := image.NewNRGBA64(image.Rect(0, 0, vec.ChunkSize, vec.ChunkSize))
	for ly := int32(0); ly < vec.ChunkSize; ly++ {
		for lx := int32(0); lx < vec.ChunkSize; lx++ {
			top, surface, ok := c.columnSurface(lx, ly)
			if !ok {
				return nil, fmt.Errorf("column (%d,%d) not representable as a single surface", lx, ly)
			}
			img.Set(int(lx), int(ly), surfaceColor(top, surface))
		}
	}
	var out bytes.Buffer
	if err := bmp.Encode(&out, img); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
