// Package snapshot writes rendered frames to image files and compares them
// against reference images.
package snapshot

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/webp"

	"github.com/taigrr/irregularz/pkg/render"
)

var (
	// ErrUnsupportedFormat is returned for file extensions with no codec.
	ErrUnsupportedFormat = errors.New("snapshot: unsupported format")
	// ErrSizeMismatch is returned when comparing images of different sizes.
	ErrSizeMismatch = errors.New("snapshot: size mismatch")
)

// Save writes fb to path, picking the encoder from the extension: .png,
// .webp (lossless) or .bmp.
func Save(path string, fb *render.ColorBuffer) error {
	format := Format(path)
	switch format {
	case "png", "webp", "bmp":
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: create %s: %w", path, err)
	}
	if err := Encode(f, format, fb.ToImage()); err != nil {
		f.Close()
		return fmt.Errorf("snapshot: encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("snapshot: close %s: %w", path, err)
	}
	return nil
}

// Encode writes img to w in format ("png", "webp" or "bmp").
func Encode(w io.Writer, format string, img image.Image) error {
	switch format {
	case "png":
		return png.Encode(w, img)
	case "webp":
		return nativewebp.Encode(w, img, nil)
	case "bmp":
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// Format returns the lower-cased extension of path without the dot.
func Format(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// decoders maps a format to its decoder. TGA has no magic number, so
// formats are chosen by extension rather than sniffed.
var decoders = map[string]func(io.Reader) (image.Image, error){
	"png":  png.Decode,
	"webp": webp.Decode,
	"bmp":  bmp.Decode,
	"tga":  tga.Decode,
}

// Load decodes a png, webp, bmp or tga file into an RGBA image.
func Load(path string) (*image.RGBA, error) {
	decode, ok := decoders[Format(path)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open %s: %w", path, err)
	}
	defer f.Close()

	img, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("snapshot: decode %s: %w", path, err)
	}
	return toRGBA(img), nil
}

// ToColorBuffer copies img into a new color buffer.
func ToColorBuffer(img image.Image) *render.ColorBuffer {
	rgba := toRGBA(img)
	b := rgba.Bounds()
	fb := render.NewColorBuffer(b.Dx(), b.Dy())
	for i := range fb.Pixels {
		j := i * 4
		p := rgba.Pix[j : j+4 : j+4]
		fb.Pixels[i] = uint32(p[3])<<24 | uint32(p[2])<<16 | uint32(p[1])<<8 | uint32(p[0])
	}
	return fb
}

// Diff returns the mean absolute difference of the RGB channels of a and b,
// in [0, 255]. Alpha is ignored.
func Diff(a, b image.Image) (float64, error) {
	ra, rb := toRGBA(a), toRGBA(b)
	if ra.Bounds().Size() != rb.Bounds().Size() {
		return 0, fmt.Errorf("%w: %v vs %v", ErrSizeMismatch, ra.Bounds().Size(), rb.Bounds().Size())
	}
	if len(ra.Pix) == 0 {
		return 0, nil
	}

	var sum int64
	for i := 0; i < len(ra.Pix); i += 4 {
		for c := range 3 {
			d := int64(ra.Pix[i+c]) - int64(rb.Pix[i+c])
			if d < 0 {
				d = -d
			}
			sum += d
		}
	}
	return float64(sum) / float64(len(ra.Pix)/4*3), nil
}

// Scale resamples img to width x height with a Catmull-Rom filter.
func Scale(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// toRGBA converts img to a zero-origin RGBA image, reusing it when possible.
func toRGBA(img image.Image) *image.RGBA {
	if r, ok := img.(*image.RGBA); ok && r.Bounds().Min == (image.Point{}) && r.Stride == 4*r.Bounds().Dx() {
		return r
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
