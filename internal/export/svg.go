// Package export renders stored frames and live canvases as SVG.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/bugsim/internal/dynamo"
	"github.com/san-kum/bugsim/internal/sim"
	"github.com/san-kum/bugsim/internal/viz"
)

// CanvasToSVG draws every lit braille dot of canvas as a filled circle,
// scale pixels apart.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.SubWidth()) * scale
	height := float64(canvas.SubHeight()) * scale

	var sb strings.Builder
	writeHeader(&sb, width, height)
	sb.WriteString("<g fill=\"#00ff00\">\n")

	dotRadius := scale * 0.4
	for y := 0; y < canvas.SubHeight(); y++ {
		for x := 0; x < canvas.SubWidth(); x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// FrameToDots renders a frame the way the terminal view does, on a cols x
// rows braille canvas, and returns the dots as SVG.
func FrameToDots(f sim.Frame, bounds dynamo.Bounds, radius float64, cols, rows int, scale float64) string {
	c := viz.NewCanvas(cols, rows)
	viz.RenderFrame(c, f, bounds, radius)
	return CanvasToSVG(c, scale)
}

// FrameToSVG draws every bug of a frame as an outlined circle inside the
// viewport, in world coordinates.
func FrameToSVG(f sim.Frame, bounds dynamo.Bounds, radius float64) string {
	var sb strings.Builder
	writeHeader(&sb, bounds.Width, bounds.Height)
	fmt.Fprintf(&sb, "<g fill=\"none\" stroke=\"#b4b4b4\" stroke-width=\"2\">\n")
	for _, p := range f.Positions {
		fmt.Fprintf(&sb, "<circle id=\"bug-%d\" cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", p.ID, p.X+radius, p.Y+radius, radius)
	}
	fmt.Fprintf(&sb, "</g>\n<text x=\"8\" y=\"20\" fill=\"#8c8c8c\" font-family=\"monospace\" font-size=\"14\">tick %d</text>\n", f.Tick)
	sb.WriteString("</svg>")
	return sb.String()
}

// TrackToSVG traces the center of one bug across frames. Frames without the
// bug are skipped; an empty string means fewer than two points were found.
func TrackToSVG(frames []sim.Frame, id dynamo.EntityID, bounds dynamo.Bounds, radius float64, strokeColor string) string {
	points := make([]dynamo.Vec2, 0, len(frames))
	for _, f := range frames {
		for _, p := range f.Positions {
			if p.ID == id {
				points = append(points, dynamo.Vec2{X: p.X + radius, Y: p.Y + radius})
				break
			}
		}
	}
	if len(points) < 2 {
		return ""
	}

	var sb strings.Builder
	writeHeader(&sb, bounds.Width, bounds.Height)
	fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"M", strokeColor)
	for i, p := range points {
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", p.X, p.Y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", p.X, p.Y)
		}
	}
	sb.WriteString("\"/>\n</svg>")
	return sb.String()
}

func writeHeader(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)
}
