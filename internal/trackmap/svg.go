package trackmap

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Point is one position sample in circuit coordinates.
type Point struct {
	X, Y float64
}

// Style controls how the outline is drawn.
type Style struct {
	DisplayWidth int
	Padding      float64 // fraction of the track extent added on each side
	Stroke       string
	Glow         string
	StrokeWidth  float64
}

var DefaultStyle = Style{
	DisplayWidth: 300,
	Padding:      0.01,
	Stroke:       "#e5d486",
	Glow:         "#ffffff",
	StrokeWidth:  40,
}

// Render draws points as a single polyline. The viewBox is the padded
// bounding box of the points, and the displayed height keeps its aspect
// ratio. Y is flipped so north is up.
func Render(points []Point, style Style) ([]byte, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrNoTelemetry, len(points))
	}
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	width, height := maxX-minX, maxY-minY
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: degenerate extent %gx%g", ErrNoTelemetry, width, height)
	}

	padX, padY := width*style.Padding, height*style.Padding
	viewW, viewH := width+2*padX, height+2*padY
	displayH := int(float64(style.DisplayWidth) * viewH / viewW)

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="utf-8" ?>` + "\n")
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%dpx" height="%dpx" viewBox="0 0 %s %s" preserveAspectRatio="xMidYMid meet">`,
		style.DisplayWidth, displayH, num(viewW), num(viewH))
	fmt.Fprintf(&b, `<defs><style>.track-line { fill: none; stroke: %s; stroke-width: %s; stroke-linejoin: round; filter: drop-shadow(0 0 40px %s) drop-shadow(0 0 70px %s); }</style></defs>`,
		style.Stroke, num(style.StrokeWidth), style.Glow, style.Stroke)
	b.WriteString(`<polyline class="track-line" fill="none" points="`)
	for i, p := range points {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(num(p.X - minX + padX))
		b.WriteByte(',')
		b.WriteString(num(maxY - p.Y + padY))
	}
	b.WriteString(`" /></svg>`)
	return []byte(b.String()), nil
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
