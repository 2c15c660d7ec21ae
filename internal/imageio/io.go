// Package imageio decodes files into rasters and encodes rasters back to
// disk. It stands in for the platform bitmap layer: everything the
// engines see is a raster.Raster.
package imageio

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/gogpu/aire/raster"
)

// I/O errors.
var (
	// ErrUnsupportedFormat is returned when a format cannot be encoded.
	ErrUnsupportedFormat = errors.New("imageio: unsupported format")

	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("imageio: empty data")
)

// Format identifies an output encoding.
type Format uint8

const (
	FormatPNG Format = iota
	FormatJPEG
	FormatBMP
	FormatTIFF
	// FormatRaw is the zstd-compressed raster container (.araw).
	FormatRaw
)

var formatNames = [...]string{
	FormatPNG:  "png",
	FormatJPEG: "jpeg",
	FormatBMP:  "bmp",
	FormatTIFF: "tiff",
	FormatRaw:  "araw",
}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// Ext returns the canonical file extension including the dot.
func (f Format) Ext() string {
	if f == FormatJPEG {
		return ".jpg"
	}
	return "." + f.String()
}

// FormatFromPath picks the output format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	case ".bmp":
		return FormatBMP, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	case ".araw":
		return FormatRaw, nil
	default:
		return 0, fmt.Errorf("%w: extension %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// DefaultJPEGQuality is used when no quality is given.
const DefaultJPEGQuality = 92

// Load reads and decodes the file at path.
func Load(path string) (*raster.Raster, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("imageio: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

// LoadFromBytes decodes an in-memory file.
func LoadFromBytes(data []byte) (*raster.Raster, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	return Decode(bytes.NewReader(data))
}

// Decode decodes PNG, JPEG, GIF, WebP, BMP, TIFF or the raster container,
// detecting the format from its content.
func Decode(r io.Reader) (*raster.Raster, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(rawMagic)); err == nil && string(head) == rawMagic {
		return DecodeRaw(br)
	}

	img, _, err := image.Decode(br)
	if err != nil {
		return nil, fmt.Errorf("imageio: decode: %w", err)
	}
	return raster.FromImage(img, false)
}

// Save encodes r into path using the format implied by its extension.
func Save(path string, r *raster.Raster, quality int) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("imageio: create file: %w", err)
	}
	w := bufio.NewWriter(f)
	if err := Encode(w, r, format, quality); err != nil {
		_ = f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("imageio: write file: %w", err)
	}
	return f.Close()
}

// Encode writes r to w. quality applies to JPEG only; values outside
// [1, 100] select DefaultJPEGQuality.
func Encode(w io.Writer, r *raster.Raster, format Format, quality int) error {
	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(w, r.ToImage())
	case FormatJPEG:
		if quality < 1 || quality > 100 {
			quality = DefaultJPEGQuality
		}
		err = jpeg.Encode(w, r.ToImage(), &jpeg.Options{Quality: quality})
	case FormatBMP:
		err = bmp.Encode(w, r.ToImage())
	case FormatTIFF:
		err = tiff.Encode(w, r.ToImage(), &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	case FormatRaw:
		return EncodeRaw(w, r)
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("imageio: encode %v: %w", format, err)
	}
	return nil
}
