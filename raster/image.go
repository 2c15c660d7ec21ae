package raster

import (
	"image"
	"image/color"
	"image/draw"
)

// FromImage converts img into a raster. Grayscale sources produce a single
// channel raster; fully opaque colour sources produce RGB unless forceAlpha
// is set; everything else produces non-premultiplied RGBA.
func FromImage(img image.Image, forceAlpha bool) (*Raster, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if err := CheckGeometry(w, h, 4); err != nil {
		return nil, err
	}

	switch src := img.(type) {
	case *image.Gray:
		if !forceAlpha {
			r, _ := New(w, h, 1)
			for y := 0; y < h; y++ {
				start := (y+b.Min.Y-src.Rect.Min.Y)*src.Stride + (b.Min.X - src.Rect.Min.X)
				copy(r.Row(y), src.Pix[start:start+w])
			}
			return r, nil
		}
	case *image.NRGBA:
		r, _ := New(w, h, 4)
		for y := 0; y < h; y++ {
			start := (y+b.Min.Y-src.Rect.Min.Y)*src.Stride + (b.Min.X-src.Rect.Min.X)*4
			copy(r.Row(y), src.Pix[start:start+w*4])
		}
		if !forceAlpha && r.opaque() {
			return r.dropAlpha(), nil
		}
		return r, nil
	}

	nrgba := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(nrgba, nrgba.Rect, img, b.Min, draw.Src)
	return FromImage(nrgba, forceAlpha)
}

// ToImage converts the raster into a standard library image. Single channel
// rasters become *image.Gray; RGB and RGBA rasters become *image.NRGBA.
func (r *Raster) ToImage() image.Image {
	rect := image.Rect(0, 0, r.width, r.height)
	switch r.channels {
	case 1:
		img := image.NewGray(rect)
		copy(img.Pix, r.samples)
		return img
	case 3:
		img := image.NewNRGBA(rect)
		for i, j := 0, 0; i < len(r.samples); i, j = i+3, j+4 {
			img.Pix[j] = r.samples[i]
			img.Pix[j+1] = r.samples[i+1]
			img.Pix[j+2] = r.samples[i+2]
			img.Pix[j+3] = 0xff
		}
		return img
	default:
		img := image.NewNRGBA(rect)
		copy(img.Pix, r.samples)
		return img
	}
}

// ColorModel returns the colour model matching the channel layout.
func (r *Raster) ColorModel() color.Model {
	if r.channels == 1 {
		return color.GrayModel
	}
	return color.NRGBAModel
}

// ToChannels converts the raster to the requested channel count.
// Grayscale expansion replicates the sample; colour reduction uses
// Rec. 601 luma; added alpha is opaque.
func (r *Raster) ToChannels(channels int) (*Raster, error) {
	if !ValidChannels(channels) {
		return nil, CheckGeometry(r.width, r.height, channels)
	}
	if channels == r.channels {
		return r.Clone(), nil
	}
	out, _ := New(r.width, r.height, channels)
	n := r.width * r.height
	for p := 0; p < n; p++ {
		src := r.samples[p*r.channels : (p+1)*r.channels]
		dst := out.samples[p*channels : (p+1)*channels]
		var cr, cg, cb, ca uint8 = src[0], src[0], src[0], 0xff
		if r.channels >= 3 {
			cg, cb = src[1], src[2]
		}
		if r.channels == 4 {
			ca = src[3]
		}
		switch channels {
		case 1:
			dst[0] = Luma(cr, cg, cb)
		case 3:
			dst[0], dst[1], dst[2] = cr, cg, cb
		case 4:
			dst[0], dst[1], dst[2], dst[3] = cr, cg, cb, ca
		}
	}
	return out, nil
}

// Luma returns the Rec. 601 luma of an RGB triple.
func Luma(r, g, b uint8) uint8 {
	return uint8((int(r)*299 + int(g)*587 + int(b)*114 + 500) / 1000)
}

func (r *Raster) opaque() bool {
	if r.channels != 4 {
		return true
	}
	for i := 3; i < len(r.samples); i += 4 {
		if r.samples[i] != 0xff {
			return false
		}
	}
	return true
}

func (r *Raster) dropAlpha() *Raster {
	out, _ := New(r.width, r.height, 3)
	for i, j := 0, 0; i < len(r.samples); i, j = i+4, j+3 {
		out.samples[j] = r.samples[i]
		out.samples[j+1] = r.samples[i+1]
		out.samples[j+2] = r.samples[i+2]
	}
	return out
}
