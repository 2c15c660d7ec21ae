package raster

import "fmt"

// Channel extracts channel c as a single-channel raster.
func (r *Raster) Channel(c int) (*Raster, error) {
	if c < 0 || c >= r.channels {
		return nil, fmt.Errorf("%w: channel %d of %d", ErrOutOfBounds, c, r.channels)
	}
	out, _ := New(r.width, r.height, 1)
	for i := range out.samples {
		out.samples[i] = r.samples[i*r.channels+c]
	}
	return out, nil
}

// SetChannel overwrites channel c with the samples of a single-channel
// raster of the same width and height.
func (r *Raster) SetChannel(c int, plane *Raster) error {
	if c < 0 || c >= r.channels {
		return fmt.Errorf("%w: channel %d of %d", ErrOutOfBounds, c, r.channels)
	}
	if plane.channels != 1 || plane.width != r.width || plane.height != r.height {
		return fmt.Errorf("%w: plane %v does not match %v", ErrInvalidDimensions, plane, r)
	}
	for i, v := range plane.samples {
		r.samples[i*r.channels+c] = v
	}
	return nil
}

// ColorChannels returns the number of non-alpha channels.
func (r *Raster) ColorChannels() int {
	if r.channels == 4 {
		return 3
	}
	return r.channels
}
