package chart

import (
	"fmt"
	"math/rand"
	"time"
)

// Color is an RGBA colour with alpha in [0,1].
type Color struct {
	R, G, B uint8
	A       float64
}

// CSS renders the colour as an rgba() string.
func (c Color) CSS() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %g)", c.R, c.G, c.B, c.A)
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.CSS()), nil
}

// Fixed colours for the single-series charts.
var (
	BarColor     = Color{R: 75, G: 192, B: 192, A: 0.7}
	ScatterColor = Color{R: 255, G: 99, B: 132, A: 0.7}
)

// channelLimit keeps random colours away from near-white.
const channelLimit = 200

// Palette hands out series colours. No two calls are guaranteed to differ.
type Palette interface {
	Next() Color
}

// RandomPalette draws each channel uniformly from [0, 200) with alpha 0.7.
type RandomPalette struct {
	rng *rand.Rand
}

// NewRandomPalette seeds a palette; seed 0 means "seed from the clock".
func NewRandomPalette(seed int64) *RandomPalette {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomPalette{rng: rand.New(rand.NewSource(seed))}
}

func (p *RandomPalette) Next() Color {
	return Color{
		R: uint8(p.rng.Intn(channelLimit)),
		G: uint8(p.rng.Intn(channelLimit)),
		B: uint8(p.rng.Intn(channelLimit)),
		A: 0.7,
	}
}
