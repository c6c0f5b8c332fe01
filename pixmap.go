package diffract

import (
	"fmt"
	"image"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"
)

// Pixmap represents a rectangular RGBA pixel buffer, 8 bits per channel,
// row-major.
type Pixmap struct {
	width  int
	height int
	data   []uint8 // RGBA format, 4 bytes per pixel
}

// NewPixmap creates a new pixmap with the given dimensions.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.height
}

// Data returns the raw pixel data (RGBA format).
func (p *Pixmap) Data() []uint8 {
	return p.data
}

// ToImage converts the pixmap to an image.RGBA.
func (p *Pixmap) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// FromImage creates a pixmap from an image.
func FromImage(img image.Image) *Pixmap {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pm := NewPixmap(width, height)

	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == width*4 {
		copy(pm.data, rgba.Pix)
		return pm
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			i := (y*width + x) * 4
			pm.data[i+0] = uint8(r >> 8)
			pm.data[i+1] = uint8(g >> 8)
			pm.data[i+2] = uint8(b >> 8)
			pm.data[i+3] = uint8(a >> 8)
		}
	}
	return pm
}

// LoadPNG reads a PNG file into a pixmap.
func LoadPNG(path string) (*Pixmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("diffract: load png: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("diffract: decode png: %w", err)
	}
	return FromImage(img), nil
}

// SavePNG writes the pixmap to a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("diffract: save png: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, p.ToImage()); err != nil {
		return fmt.Errorf("diffract: encode png: %w", err)
	}
	return nil
}

// Resized returns a copy scaled to the given dimensions with bilinear
// filtering. Returns the receiver when the size already matches.
func (p *Pixmap) Resized(width, height int) *Pixmap {
	if width == p.width && height == p.height {
		return p
	}
	src := p.ToImage()
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return FromImage(dst)
}

// channels splits the pixmap into planar float64 channels on the 0..1
// scale. The returned slices are freshly allocated and owned by the caller.
func (p *Pixmap) channels() (r, g, b, a []float64) {
	n := p.width * p.height
	r = make([]float64, n)
	g = make([]float64, n)
	b = make([]float64, n)
	a = make([]float64, n)
	for i := 0; i < n; i++ {
		r[i] = float64(p.data[i*4+0]) / 255
		g[i] = float64(p.data[i*4+1]) / 255
		b[i] = float64(p.data[i*4+2]) / 255
		a[i] = float64(p.data[i*4+3]) / 255
	}
	return r, g, b, a
}
