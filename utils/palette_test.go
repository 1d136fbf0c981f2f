package utils

import (
	"image"
	"image/color"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestPaletteMethodString(t *testing.T) {
	assert.Equal(t, "dominantcolor", PaletteMethodDominantColor.String())
	assert.Equal(t, "kmeans", PaletteMethodKMeans.String())
}

func TestSortPaletteByBrightness(t *testing.T) {
	white := colorful.Color{R: 1, G: 1, B: 1}
	black := colorful.Color{}
	red := colorful.Color{R: 1}
	green := colorful.Color{G: 1}
	p := []colorful.Color{white, green, black, red}
	SortPaletteByBrightness(p)
	assert.Equal(t, []colorful.Color{black, red, green, white}, p)
}

func TestOpaqueSamples(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	img.SetNRGBA(1, 0, color.NRGBA{R: 10, A: 255})
	img.SetNRGBA(3, 0, color.NRGBA{G: 20, A: 3})

	got := OpaqueSamples(img)
	assert.Equal(t, []color.NRGBA{{R: 10, A: 255}, {G: 20, A: 255}}, got)

	assert.Empty(t, OpaqueSamples(image.NewNRGBA(image.Rect(0, 0, 5, 5))))
}

func TestOpaqueSamplesSubsamples(t *testing.T) {
	got := OpaqueSamples(solid(400, 400, color.NRGBA{B: 255, A: 255}))
	assert.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), maxSamples)
}

func TestPackSamples(t *testing.T) {
	samples := []color.NRGBA{
		{R: 1, A: 255}, {R: 2, A: 255}, {R: 3, A: 255}, {R: 4, A: 255}, {R: 5, A: 255},
	}
	img := packSamples(samples)
	require.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())
	assert.Equal(t, samples[3], img.NRGBAAt(0, 1))
	assert.Equal(t, samples[0], img.NRGBAAt(2, 1))

	assert.True(t, packSamples(nil).Bounds().Empty())
}

func TestAccent(t *testing.T) {
	dark := colorful.Color{R: 0.1, G: 0.1, B: 0.1}
	bright := colorful.Color{R: 0.9, G: 0.9, B: 0.9}
	red := colorful.Color{R: 1}

	assert.Equal(t, red, Accent([]WeightedColor{{dark, 0.2}, {red, 0.5}, {bright, 0.3}}))
	assert.Equal(t, bright, Accent([]WeightedColor{{dark, 0.5}, {bright, 0.5}}))
	assert.Equal(t, colorful.Color{}, Accent(nil))
}

func TestExtractDominantPalette(t *testing.T) {
	img := solid(20, 20, color.NRGBA{R: 230, G: 20, B: 20, A: 255})
	// Transparent margin must not pull the palette towards black.
	framed := image.NewNRGBA(image.Rect(0, 0, 60, 60))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			framed.SetNRGBA(x+20, y+20, img.NRGBAAt(x, y))
		}
	}

	for name, src := range map[string]image.Image{"solid": img, "framed": framed} {
		p := ExtractPalette(src, 3, PaletteMethodDominantColor)
		require.NotEmpty(t, p, name)
		accent := Accent(p)
		assert.Greater(t, accent.R, 0.7, name)
		assert.Less(t, accent.G, 0.3, name)
		assert.Less(t, accent.B, 0.3, name)
	}
}

func TestExtractPaletteEmpty(t *testing.T) {
	blank := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	assert.Empty(t, ExtractPalette(blank, 3, PaletteMethodDominantColor))
	assert.Empty(t, ExtractPalette(blank, 3, PaletteMethodKMeans))
	assert.Empty(t, ExtractPalette(solid(2, 2, color.NRGBA{A: 255}), 0, PaletteMethodDominantColor))
}

func TestExtractKMeansPalette(t *testing.T) {
	crimson := color.NRGBA{R: 0xdc, G: 0x14, B: 0x14, A: 255}
	navy := color.NRGBA{R: 0x10, G: 0x20, B: 0x90, A: 255}
	want := func(c color.NRGBA) colorful.Color {
		col, _ := colorful.MakeColor(c)
		return col
	}
	near := func(t *testing.T, want, got colorful.Color) {
		t.Helper()
		assert.InDelta(t, want.R, got.R, 0.02)
		assert.InDelta(t, want.G, got.G, 0.02)
		assert.InDelta(t, want.B, got.B, 0.02)
	}

	t.Run("single pixel", func(t *testing.T) {
		img := image.NewNRGBA(image.Rect(0, 0, 5, 5))
		img.SetNRGBA(2, 3, crimson)
		for run := 0; run < 5; run++ {
			p := ExtractPalette(img, 4, PaletteMethodKMeans)
			require.Len(t, p, 1)
			near(t, want(crimson), Accent(p))
		}
	})

	t.Run("fewer colors than k", func(t *testing.T) {
		for run := 0; run < 3; run++ {
			p := ExtractKMeansPalette(solid(30, 30, crimson), 4)
			require.Len(t, p, 1)
			assert.InDelta(t, 1.0, p[0].Weight, 1e-9)
			near(t, want(crimson), Accent(p))
		}
	})

	t.Run("two colors", func(t *testing.T) {
		img := solid(40, 10, crimson)
		for y := 0; y < 10; y++ {
			for x := 30; x < 40; x++ {
				img.SetNRGBA(x, y, navy)
			}
		}
		for run := 0; run < 3; run++ {
			p := ExtractKMeansPalette(img, 2)
			require.Len(t, p, 2)
			near(t, want(crimson), p[0].Col)
			near(t, want(navy), p[1].Col)
			assert.Greater(t, p[0].Weight, p[1].Weight)
			near(t, want(crimson), Accent(p))
		}
	})
}
