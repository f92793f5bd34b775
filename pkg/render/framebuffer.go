package render

import (
	"image"
	"image/color"
)

// Pixels are packed as 0xAABBGGRR so that, in little-endian memory order, a
// row reads R, G, B, A. This matches image.RGBA and is the layout handed to
// presenters.

// Pack builds an opaque packed pixel from its channels.
func Pack(r, g, b uint8) uint32 {
	return 0xFF000000 | uint32(b)<<16 | uint32(g)<<8 | uint32(r)
}

// PackRGB converts a 0xRRGGBB value into an opaque packed pixel.
func PackRGB(rgb uint32) uint32 {
	return 0xFF000000 | (rgb<<16)&0xFF0000 | rgb&0xFF00 | (rgb>>16)&0xFF
}

// Unpack returns the channels of a packed pixel.
func Unpack(p uint32) color.RGBA {
	return color.RGBA{R: uint8(p), G: uint8(p >> 8), B: uint8(p >> 16), A: uint8(p >> 24)}
}

// ColorBuffer is a row-major buffer of packed pixels with a top-left origin.
type ColorBuffer struct {
	Width  int
	Height int
	Pixels []uint32
}

// NewColorBuffer creates a color buffer with the given dimensions.
func NewColorBuffer(width, height int) *ColorBuffer {
	return &ColorBuffer{
		Width:  width,
		Height: height,
		Pixels: make([]uint32, width*height),
	}
}

// Size returns the number of pixels.
func (fb *ColorBuffer) Size() int {
	return len(fb.Pixels)
}

// Fill sets every pixel to p.
func (fb *ColorBuffer) Fill(p uint32) {
	fill(fb.Pixels, p)
}

// At returns the pixel at (x, y), or 0 when out of bounds.
func (fb *ColorBuffer) At(x, y int) uint32 {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return 0
	}
	return fb.Pixels[y*fb.Width+x]
}

// Set writes the pixel at (x, y). Out of bounds writes are ignored.
func (fb *ColorBuffer) Set(x, y int, p uint32) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = p
}

// ToImage converts the buffer to an image.RGBA.
func (fb *ColorBuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	fb.CopyTo(img.Pix)
	return img
}

// CopyTo writes the buffer as R, G, B, A bytes into dst, which must hold at
// least 4*Size bytes.
func (fb *ColorBuffer) CopyTo(dst []byte) {
	for i, p := range fb.Pixels {
		j := i * 4
		dst[j+0] = uint8(p)
		dst[j+1] = uint8(p >> 8)
		dst[j+2] = uint8(p >> 16)
		dst[j+3] = uint8(p >> 24)
	}
}

// DepthBuffer stores normalized device depth per pixel; 0 is near, 1 is far.
type DepthBuffer struct {
	Width  int
	Height int
	Values []float64
}

// NewDepthBuffer creates a depth buffer cleared to the far plane.
func NewDepthBuffer(width, height int) *DepthBuffer {
	d := &DepthBuffer{
		Width:  width,
		Height: height,
		Values: make([]float64, width*height),
	}
	d.Fill(1)
	return d
}

// Size returns the number of samples.
func (d *DepthBuffer) Size() int {
	return len(d.Values)
}

// Fill sets every sample to v.
func (d *DepthBuffer) Fill(v float64) {
	fill(d.Values, v)
}

// At returns the depth at (x, y), or 1 when out of bounds.
func (d *DepthBuffer) At(x, y int) float64 {
	if x < 0 || x >= d.Width || y < 0 || y >= d.Height {
		return 1
	}
	return d.Values[y*d.Width+x]
}

// fill sets every element of s to v by copy-doubling.
func fill[T any](s []T, v T) {
	if len(s) == 0 {
		return
	}
	s[0] = v
	for i := 1; i < len(s); i *= 2 {
		copy(s[i:], s[:i])
	}
}
