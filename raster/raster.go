// Package raster provides the dense 8-bit pixel buffer shared by every aire
// operation.
//
// A Raster stores samples row-major and channel-interleaved: the sample for
// channel c of pixel (x, y) lives at index (y*width+x)*channels + c. Supported
// layouts are grayscale (1 channel), RGB (3) and RGBA (4).
package raster

import (
	"errors"
	"fmt"
)

// Common errors for raster operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive,
	// the channel count is unsupported, or sample data does not match the
	// declared geometry.
	ErrInvalidDimensions = errors.New("raster: invalid dimensions")

	// ErrOutOfBounds is returned when a coordinate or channel lies outside
	// the raster extent.
	ErrOutOfBounds = errors.New("raster: coordinates out of bounds")
)

// Raster is an 8-bit-per-sample image buffer.
//
// Thread safety: a Raster is safe for concurrent reads. Writers need
// exclusive access; aire operations never write to their input.
type Raster struct {
	samples  []uint8
	width    int
	height   int
	channels int
}

// ValidChannels reports whether c is a supported channel count.
func ValidChannels(c int) bool {
	return c == 1 || c == 3 || c == 4
}

// CheckGeometry validates raster dimensions without allocating.
func CheckGeometry(width, height, channels int) error {
	if width <= 0 || height <= 0 || !ValidChannels(channels) {
		return fmt.Errorf("%w: %dx%d with %d channels", ErrInvalidDimensions, width, height, channels)
	}
	return nil
}

// New creates a zero-initialized raster.
func New(width, height, channels int) (*Raster, error) {
	if err := CheckGeometry(width, height, channels); err != nil {
		return nil, err
	}
	return &Raster{
		samples:  make([]uint8, width*height*channels),
		width:    width,
		height:   height,
		channels: channels,
	}, nil
}

// FromSamples wraps existing sample data without copying.
// The caller must not modify samples while the raster is in use.
func FromSamples(width, height, channels int, samples []uint8) (*Raster, error) {
	if err := CheckGeometry(width, height, channels); err != nil {
		return nil, err
	}
	if len(samples) != width*height*channels {
		return nil, fmt.Errorf("%w: have %d samples, want %d",
			ErrInvalidDimensions, len(samples), width*height*channels)
	}
	return &Raster{
		samples:  samples,
		width:    width,
		height:   height,
		channels: channels,
	}, nil
}

// NewLike allocates a zeroed raster with the geometry of r.
func NewLike(r *Raster) *Raster {
	return &Raster{
		samples:  make([]uint8, len(r.samples)),
		width:    r.width,
		height:   r.height,
		channels: r.channels,
	}
}

// Clone creates a deep copy of the raster.
func (r *Raster) Clone() *Raster {
	out := NewLike(r)
	copy(out.samples, r.samples)
	return out
}

// Width returns the width in pixels.
func (r *Raster) Width() int { return r.width }

// Height returns the height in pixels.
func (r *Raster) Height() int { return r.height }

// Channels returns the number of interleaved channels per pixel.
func (r *Raster) Channels() int { return r.channels }

// Stride returns the number of samples per row.
func (r *Raster) Stride() int { return r.width * r.channels }

// HasAlpha reports whether the last channel is alpha.
func (r *Raster) HasAlpha() bool { return r.channels == 4 }

// Samples returns the backing sample slice.
func (r *Raster) Samples() []uint8 { return r.samples }

// Row returns the samples of row y, or nil if y is out of range.
func (r *Raster) Row(y int) []uint8 {
	if y < 0 || y >= r.height {
		return nil
	}
	stride := r.Stride()
	return r.samples[y*stride : (y+1)*stride]
}

// Offset returns the index of sample (x, y, c), or -1 when out of range.
func (r *Raster) Offset(x, y, c int) int {
	if x < 0 || x >= r.width || y < 0 || y >= r.height || c < 0 || c >= r.channels {
		return -1
	}
	return (y*r.width+x)*r.channels + c
}

// At returns the sample of channel c at (x, y).
func (r *Raster) At(x, y, c int) (uint8, error) {
	i := r.Offset(x, y, c)
	if i < 0 {
		return 0, fmt.Errorf("%w: (%d,%d,%d) in %dx%dx%d",
			ErrOutOfBounds, x, y, c, r.width, r.height, r.channels)
	}
	return r.samples[i], nil
}

// Set stores v as the sample of channel c at (x, y).
func (r *Raster) Set(x, y, c int, v uint8) error {
	i := r.Offset(x, y, c)
	if i < 0 {
		return fmt.Errorf("%w: (%d,%d,%d) in %dx%dx%d",
			ErrOutOfBounds, x, y, c, r.width, r.height, r.channels)
	}
	r.samples[i] = v
	return nil
}

// Pixel returns the samples of pixel (x, y), or nil when out of range.
// The returned slice aliases the raster.
func (r *Raster) Pixel(x, y int) []uint8 {
	i := r.Offset(x, y, 0)
	if i < 0 {
		return nil
	}
	return r.samples[i : i+r.channels]
}

// Fill sets every pixel to the given per-channel values. Missing values
// leave the corresponding channel untouched.
func (r *Raster) Fill(values ...uint8) {
	n := min(len(values), r.channels)
	for i := 0; i < len(r.samples); i += r.channels {
		copy(r.samples[i:i+n], values[:n])
	}
}

// SameGeometry reports whether r and o have identical dimensions and
// channel count.
func (r *Raster) SameGeometry(o *Raster) bool {
	return o != nil && r.width == o.width && r.height == o.height && r.channels == o.channels
}

// Equal reports whether r and o have the same geometry and samples.
func (r *Raster) Equal(o *Raster) bool {
	if !r.SameGeometry(o) {
		return false
	}
	for i, v := range r.samples {
		if o.samples[i] != v {
			return false
		}
	}
	return true
}

// String returns a short description such as "raster 640x480x4".
func (r *Raster) String() string {
	return fmt.Sprintf("raster %dx%dx%d", r.width, r.height, r.channels)
}
