// Package identicon renders blockies-style avatars for Ethereum addresses.
package identicon

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"
)

// Defaults used when Options leaves a field zero: an 8x8 block grid drawn
// with 16 pixel blocks.
const (
	DefaultSize  = 8
	DefaultScale = 16
)

// Options controls the icon geometry.
type Options struct {
	// Size is the number of blocks per side.
	Size int
	// Scale is the pixel width of a single block.
	Scale int
}

// Icon is a generated avatar.
type Icon struct {
	Seed    string
	Size    int
	Scale   int
	Color   color.RGBA
	BG      color.RGBA
	Spot    color.RGBA
	pattern []int
}

// New builds the icon for seed. Seeds are lowercased so that checksummed and
// plain spellings of an address produce the same avatar.
func New(seed string, opts Options) *Icon {
	if opts.Size <= 0 {
		opts.Size = DefaultSize
	}
	if opts.Scale <= 0 {
		opts.Scale = DefaultScale
	}

	seed = strings.ToLower(seed)
	r := newPRNG(seed)

	icon := &Icon{Seed: seed, Size: opts.Size, Scale: opts.Scale}
	icon.Color = r.color()
	icon.BG = r.color()
	icon.Spot = r.color()
	icon.pattern = r.pattern(opts.Size)
	return icon
}

// Pattern returns the block values row by row: 0 background, 1 colour, 2 spot.
func (i *Icon) Pattern() []int {
	return append([]int(nil), i.pattern...)
}

// Image renders the icon.
func (i *Icon) Image() image.Image {
	side := i.Size * i.Scale
	img := image.NewRGBA(image.Rect(0, 0, side, side))

	for idx, v := range i.pattern {
		c := i.BG
		switch v {
		case 1:
			c = i.Color
		case 2:
			c = i.Spot
		}
		bx := (idx % i.Size) * i.Scale
		by := (idx / i.Size) * i.Scale
		for y := by; y < by+i.Scale; y++ {
			for x := bx; x < bx+i.Scale; x++ {
				img.SetRGBA(x, y, c)
			}
		}
	}
	return img
}

// PNG encodes the icon as a PNG image.
func (i *Icon) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, i.Image()); err != nil {
		return nil, fmt.Errorf("failed to encode identicon: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURL returns the icon as an inline image source.
func (i *Icon) DataURL() (string, error) {
	b, err := i.PNG()
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(b), nil
}

// prng is the xorshift generator used by blockies.
type prng struct {
	seed [4]int32
}

func newPRNG(seed string) *prng {
	p := &prng{}
	for i := 0; i < len(seed); i++ {
		j := i % 4
		p.seed[j] = (p.seed[j] << 5) - p.seed[j] + int32(seed[i])
	}
	return p
}

func (p *prng) next() float64 {
	t := p.seed[0] ^ (p.seed[0] << 11)
	p.seed[0], p.seed[1], p.seed[2] = p.seed[1], p.seed[2], p.seed[3]
	p.seed[3] = p.seed[3] ^ (p.seed[3] >> 19) ^ t ^ (t >> 8)
	return float64(uint32(p.seed[3])) / float64(uint32(1)<<31)
}

func (p *prng) color() color.RGBA {
	h := math.Floor(p.next() * 360)
	s := p.next()*60 + 40
	l := (p.next() + p.next() + p.next() + p.next()) * 25
	return hsl(h, s/100, l/100)
}

func (p *prng) pattern(size int) []int {
	dataWidth := (size + 1) / 2
	mirrorWidth := size - dataWidth

	out := make([]int, 0, size*size)
	for y := 0; y < size; y++ {
		row := make([]int, dataWidth, size)
		for x := range row {
			row[x] = int(math.Floor(p.next() * 2.3))
		}
		for x := mirrorWidth - 1; x >= 0; x-- {
			row = append(row, row[x])
		}
		out = append(out, row...)
	}
	return out
}

func hsl(h, s, l float64) color.RGBA {
	if l > 1 {
		l = 1
	}
	c := (1 - math.Abs(2*l-1)) * s
	hp := h / 60
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))

	var r, g, b float64
	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	m := l - c/2
	to8 := func(v float64) uint8 {
		v = math.Round((v + m) * 255)
		return uint8(math.Max(0, math.Min(255, v)))
	}
	return color.RGBA{R: to8(r), G: to8(g), B: to8(b), A: 0xff}
}
