package utils

import (
	"image"
	"image/color"
	"log"
	"math"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

type PaletteMethod int

const (
	PaletteMethodDominantColor PaletteMethod = iota
	PaletteMethodKMeans
)

func (m PaletteMethod) String() string {
	switch m {
	case PaletteMethodKMeans:
		return "kmeans"
	default:
		return "dominantcolor"
	}
}

type WeightedColor struct {
	Col    colorful.Color
	Weight float64
}

// Keeps palette extraction tractable on large badges.
const maxSamples = 12000

// luminance is the Rec. 709 relative luminance of c.
func luminance(c colorful.Color) float64 {
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// SortPaletteByBrightness orders colors from darkest to brightest.
func SortPaletteByBrightness(palette []colorful.Color) {
	slices.SortFunc(palette, func(a, b colorful.Color) int {
		ya, yb := luminance(a), luminance(b)
		if ya < yb {
			return -1
		}
		if ya > yb {
			return 1
		}
		return 0
	})
}

// OpaqueSamples returns a subsample of the visible pixels of img, made fully
// opaque. Transparent background would otherwise dominate every palette.
func OpaqueSamples(img image.Image) []color.NRGBA {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	step := 1
	if width*height > maxSamples {
		step = int(math.Sqrt(float64(width*height)/float64(maxSamples))) + 1
	}
	samples := make([]color.NRGBA, 0, min(width*height, maxSamples))
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A == 0 {
				continue
			}
			c.A = 255
			samples = append(samples, c)
		}
	}
	return samples
}

// packSamples lays samples out row by row in a near-square image, repeating
// from the start to fill the last row.
func packSamples(samples []color.NRGBA) *image.NRGBA {
	n := len(samples)
	if n == 0 {
		return image.NewNRGBA(image.Rectangle{})
	}
	side := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + side - 1) / side
	img := image.NewNRGBA(image.Rect(0, 0, side, rows))
	for i := 0; i < side*rows; i++ {
		img.SetNRGBA(i%side, i/side, samples[i%n])
	}
	return img
}

func ExtractDominantPalette(img image.Image, k int) []WeightedColor {
	if k <= 0 {
		return nil
	}
	samples := OpaqueSamples(img)
	if len(samples) == 0 {
		return nil
	}
	candidates := dominantcolor.FindWeight(packSamples(samples), k)
	out := make([]WeightedColor, 0, len(candidates))
	for _, c := range candidates {
		col, _ := colorful.MakeColor(c.RGBA)
		w := c.Weight
		if w <= 0 {
			w = 1e-6
		}
		out = append(out, WeightedColor{Col: col.Clamped(), Weight: w})
	}
	return out
}

func ExtractKMeansPalette(img image.Image, k int) []WeightedColor {
	if k <= 0 {
		return nil
	}
	samples := OpaqueSamples(img)
	n := len(samples)
	if n == 0 {
		return nil
	}

	distinct := map[color.NRGBA]struct{}{}
	dataset := make(clusters.Observations, 0, n)
	for _, c := range samples {
		distinct[c] = struct{}{}
		dataset = append(dataset, clusters.Coordinates{
			float64(c.R) / 255.0,
			float64(c.G) / 255.0,
			float64(c.B) / 255.0,
		})
	}

	km := kmeans.New()
	cc, err := km.Partition(dataset, min(k, len(distinct)))
	if err != nil || len(cc) == 0 {
		return nil
	}

	// Partition skips recentering when its first pass moves no point, which
	// leaves the random seed as the center. Average the members instead.
	out := make([]WeightedColor, 0, len(cc))
	for _, c := range cc {
		if len(c.Observations) == 0 {
			continue
		}
		center, err := c.Observations.Center()
		if err != nil || len(center) < 3 {
			continue
		}
		col := colorful.Color{R: center[0], G: center[1], B: center[2]}.Clamped()
		out = append(out, WeightedColor{Col: col, Weight: float64(len(c.Observations)) / float64(n)})
	}
	slices.SortFunc(out, func(a, b WeightedColor) int {
		if a.Weight > b.Weight {
			return -1
		}
		if a.Weight < b.Weight {
			return 1
		}
		return 0
	})
	return out
}

func ExtractPalette(img image.Image, k int, method PaletteMethod) []WeightedColor {
	switch method {
	case PaletteMethodKMeans:
		p := ExtractKMeansPalette(img, k)
		if len(p) != 0 {
			return p
		}
		log.Println("palette warning: kmeans returned empty palette, falling back to dominantcolor")
		return ExtractDominantPalette(img, k)
	default:
		return ExtractDominantPalette(img, k)
	}
}

// Accent picks the heaviest color, preferring the brighter one on a tie.
// It returns the zero Color for an empty palette.
func Accent(palette []WeightedColor) colorful.Color {
	var best WeightedColor
	for i, wc := range palette {
		if i == 0 || wc.Weight > best.Weight ||
			(wc.Weight == best.Weight && luminance(wc.Col) > luminance(best.Col)) {
			best = wc
		}
	}
	return best.Col
}
