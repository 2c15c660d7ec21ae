package imageio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/gogpu/aire/raster"
)

// The raster container stores samples losslessly:
//
//	magic    "ARAW"
//	version  uint8 (1)
//	channels uint8
//	width    uint32 little endian
//	height   uint32 little endian
//	payload  zstd frame of width*height*channels samples
const (
	rawMagic   = "ARAW"
	rawVersion = 1
	rawHeader  = len(rawMagic) + 2 + 8

	// maxRawSamples bounds the samples a container may declare and the
	// memory the payload decoder may use.
	maxRawSamples = 1 << 30
)

// ErrCorruptRaw is returned for malformed raster containers.
var ErrCorruptRaw = errors.New("imageio: corrupt raster container")

func newRawEncoder() *zstd.Encoder {
	enc, err := zstd.NewWriter(
		nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
	)
	if err != nil {
		panic(err)
	}
	return enc
}

func newRawDecoder() *zstd.Decoder {
	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(maxRawSamples),
	)
	if err != nil {
		panic(err)
	}
	return dec
}

var (
	rawEncPool = sync.Pool{New: func() any { return newRawEncoder() }}
	rawDecPool = sync.Pool{New: func() any { return newRawDecoder() }}
)

// EncodeRaw writes r as a raster container.
func EncodeRaw(w io.Writer, r *raster.Raster) error {
	var head [rawHeader]byte
	copy(head[:], rawMagic)
	head[4] = rawVersion
	head[5] = uint8(r.Channels())
	binary.LittleEndian.PutUint32(head[6:], uint32(r.Width()))
	binary.LittleEndian.PutUint32(head[10:], uint32(r.Height()))

	enc := rawEncPool.Get().(*zstd.Encoder)
	payload := enc.EncodeAll(r.Samples(), nil)
	rawEncPool.Put(enc)

	if _, err := w.Write(head[:]); err != nil {
		return fmt.Errorf("imageio: write raster header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("imageio: write raster payload: %w", err)
	}
	return nil
}

// DecodeRaw reads a raster container.
func DecodeRaw(rd io.Reader) (*raster.Raster, error) {
	var head [rawHeader]byte
	if _, err := io.ReadFull(rd, head[:]); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrCorruptRaw, err)
	}
	if string(head[:4]) != rawMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrCorruptRaw, head[:4])
	}
	if head[4] != rawVersion {
		return nil, fmt.Errorf("%w: version %d", ErrCorruptRaw, head[4])
	}
	c := uint64(head[5])
	w := uint64(binary.LittleEndian.Uint32(head[6:]))
	h := uint64(binary.LittleEndian.Uint32(head[10:]))
	if n := w * h * c; n > maxRawSamples {
		return nil, fmt.Errorf("%w: %dx%dx%d exceeds %d samples", ErrCorruptRaw, w, h, c, maxRawSamples)
	}
	if err := raster.CheckGeometry(int(w), int(h), int(c)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptRaw, err)
	}

	payload, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("imageio: read raster payload: %w", err)
	}
	dec := rawDecPool.Get().(*zstd.Decoder)
	samples, err := dec.DecodeAll(payload, nil)
	rawDecPool.Put(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptRaw, err)
	}
	r, err := raster.FromSamples(int(w), int(h), int(c), samples)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptRaw, err)
	}
	return r, nil
}
