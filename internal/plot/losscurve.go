package plot

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
)

const (
	curveWidth  = 640
	curveHeight = 400
	curveMargin = 20
)

// LossCurve renders per-iteration losses as a line chart PNG.
func LossCurve(path string, losses []float64) error {
	if len(losses) < 2 {
		return errors.New("plot: need at least two loss values")
	}

	lo, hi := losses[0], losses[0]
	for _, v := range losses {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, curveWidth, curveHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	axis := color.RGBA{R: 160, G: 160, B: 160, A: 255}
	for x := curveMargin; x < curveWidth-curveMargin; x++ {
		img.SetRGBA(x, curveHeight-curveMargin, axis)
	}
	for y := curveMargin; y < curveHeight-curveMargin; y++ {
		img.SetRGBA(curveMargin, y, axis)
	}

	line := color.RGBA{R: 30, G: 90, B: 200, A: 255}
	plotW := float64(curveWidth - 2*curveMargin)
	plotH := float64(curveHeight - 2*curveMargin)
	toXY := func(i int) (int, int) {
		x := curveMargin + int(plotW*float64(i)/float64(len(losses)-1))
		y := curveHeight - curveMargin - int(plotH*(losses[i]-lo)/span)
		return x, y
	}
	for i := 1; i < len(losses); i++ {
		x0, y0 := toXY(i - 1)
		x1, y1 := toXY(i)
		drawSegment(img, x0, y0, x1, y1, line)
	}
	return writePNG(path, img)
}

// drawSegment draws a line with the integer midpoint algorithm.
func drawSegment(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		img.SetRGBA(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
