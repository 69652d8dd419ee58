// Package plot renders run artifacts as PNG files: heatmaps of values on
// a square grid and a training loss curve. Everything is drawn with the
// standard image package; no plotting dependencies.
package plot

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
)

// cellPx is the rendered size of one grid cell.
const cellPx = 8

// Heatmap renders a row-major n×n field to a PNG at path, scaling the
// value range onto a blue→white→red diverging colormap.
func Heatmap(path string, values []float64, n int) error {
	if n <= 0 || len(values) != n*n {
		return fmt.Errorf("plot: %d values do not form an %d×%d grid", len(values), n, n)
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("plot: non-finite value")
		}
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

	img := image.NewRGBA(image.Rect(0, 0, n*cellPx, n*cellPx))
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			c := diverging((values[i*n+j] - lo) / span)
			for py := 0; py < cellPx; py++ {
				for px := 0; px < cellPx; px++ {
					img.SetRGBA(j*cellPx+px, i*cellPx+py, c)
				}
			}
		}
	}
	return writePNG(path, img)
}

// diverging maps t in [0,1] to blue (0) through white (0.5) to red (1).
func diverging(t float64) color.RGBA {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	if t < 0.5 {
		s := t * 2
		return color.RGBA{
			R: uint8(255 * s),
			G: uint8(255 * s),
			B: 255,
			A: 255,
		}
	}
	s := (t - 0.5) * 2
	return color.RGBA{
		R: 255,
		G: uint8(255 * (1 - s)),
		B: uint8(255 * (1 - s)),
		A: 255,
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("plot: encode %s: %w", path, err)
	}
	return f.Close()
}
