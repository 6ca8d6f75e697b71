// Package avatar generates random github style SVG identicons.
package avatar

import (
	"fmt"
	"html"
	"math"
	"math/rand/v2"
	"strings"
)

// ContentType of the generated avatars.
const ContentType = "image/svg+xml"

const (
	gridWidth  = 7
	gridHeight = 7
	cellCount  = 10
	cellSize   = 10

	// minColorDistance keeps the foreground readable against the background.
	minColorDistance = 0.7
)

type color [3]float64

func (c color) hex() string {
	return fmt.Sprintf("#%02x%02x%02x",
		int(255*c[0]), int(255*c[1]), int(255*c[2]))
}

func (c color) distance(other color) float64 {
	var sum float64
	for i := range c {
		d := c[i] - other[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func randomColor(rng *rand.Rand) color {
	return color{rng.Float64(), rng.Float64(), rng.Float64()}
}

func colorPair(rng *rand.Rand) (fg, bg string) {
	var a, b color
	for a.distance(b) < minColorDistance {
		a = randomColor(rng)
		b = randomColor(rng)
	}
	return a.hex(), b.hex()
}

// Generate renders a random avatar mirrored along its vertical axis. The
// title, when not empty, becomes the SVG title element.
func Generate(title string) string {
	return generate(title, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

func generate(title string, rng *rand.Rand) string {
	fg, bg := colorPair(rng)
	cells := rng.Perm(gridWidth * gridHeight)[:cellCount]

	var b strings.Builder
	fmt.Fprintf(&b, `<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`,
		cellSize*gridWidth, cellSize*gridHeight)
	if title != "" {
		fmt.Fprintf(&b, "<title>%s</title>", html.EscapeString(title))
	}
	fmt.Fprintf(&b, `<rect width="100%%" height="100%%" fill="%s" />`, bg)

	for _, cell := range cells {
		x, y := cell%gridWidth, cell/gridWidth
		writeCell(&b, x, y, fg)
		if mirror := gridWidth - x - 1; mirror != x {
			writeCell(&b, mirror, y, fg)
		}
	}
	b.WriteString("</svg>")
	return b.String()
}

func writeCell(b *strings.Builder, x, y int, fill string) {
	fmt.Fprintf(b, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s" />`,
		cellSize*x, cellSize*y, cellSize, cellSize, fill)
}
