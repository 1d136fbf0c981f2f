package badgesplit

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/setanarut/badgesplit/utils"
)

// BadgeCount is the number of badges laid out side by side in a composite.
const BadgeCount = 3

var ErrImageTooNarrow = errors.New("image too narrow for split search windows")

type Options struct {
	// Pixels whose R+G+B is at or below Threshold become fully transparent.
	Threshold int
	// Half width of the moving average applied to the column profile.
	// The window for column i is [i-SmoothRadius, i+SmoothRadius).
	SmoothRadius int
	// Split points are searched within +-SearchRadius of 1/3 and 2/3 width.
	SearchRadius int
	// Output file names, by badge index from left to right.
	Names []string
	// Palette extraction used for the per-badge report.
	PaletteMethod utils.PaletteMethod
	PaletteSize   int
}

func DefaultOptions() Options {
	return Options{
		Threshold:     40,
		SmoothRadius:  10,
		SearchRadius:  50,
		Names:         []string{"grammar_police.png", "sarcasm_mode.png", "fail_stamp.png"},
		PaletteMethod: utils.PaletteMethodDominantColor,
		PaletteSize:   4,
	}
}

func (o Options) validate() error {
	if len(o.Names) != BadgeCount {
		return fmt.Errorf("options: need %d output names, got %d", BadgeCount, len(o.Names))
	}
	if o.SmoothRadius < 1 {
		return fmt.Errorf("options: smooth radius must be positive, got %d", o.SmoothRadius)
	}
	if o.SearchRadius < 1 {
		return fmt.Errorf("options: search radius must be positive, got %d", o.SearchRadius)
	}
	return nil
}

// Badge is one vertical slice of the composite after trimming.
type Badge struct {
	Index int
	Name  string
	// Slice is the untrimmed column range, Bounds the trimmed content box.
	// Both are in composite coordinates.
	Slice  image.Rectangle
	Bounds image.Rectangle
	// Image is nil when the slice held no visible pixels.
	Image   *image.NRGBA
	Palette []colorful.Color
	Accent  colorful.Color
	Path    string
}

func (b Badge) Empty() bool {
	return b.Image == nil
}

func (b Badge) Size() image.Point {
	if b.Image == nil {
		return image.Point{}
	}
	return b.Image.Bounds().Size()
}

type Splitter struct {
	InputImage image.Image
	// Img is the normalized working copy; background removal mutates it.
	Img            *image.NRGBA
	ColumnSums     []float64
	Smoothed       []float64
	Split1, Split2 int

	opt Options
}

func NewSplitter(input image.Image) *Splitter {
	return &Splitter{InputImage: input}
}

// Build runs background removal, profiling and split location.
func (s *Splitter) Build(opt Options) error {
	if err := opt.validate(); err != nil {
		return err
	}
	s.opt = opt
	s.Img = Normalize(s.InputImage)
	s.removeBackground()
	s.Smoothed = SmoothProfile(s.ColumnSums, opt.SmoothRadius)
	split1, split2, err := LocateSplits(s.Smoothed, opt.SearchRadius)
	if err != nil {
		return err
	}
	s.Split1, s.Split2 = split1, split2
	return nil
}

// Normalize copies img into a non-premultiplied RGBA image anchored at (0,0).
func Normalize(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

func brightness(r, g, b uint8) int {
	return int(r) + int(g) + int(b)
}

func (s *Splitter) removeBackground() {
	w, h := s.Img.Rect.Dx(), s.Img.Rect.Dy()
	s.ColumnSums = make([]float64, w)
	for y := 0; y < h; y++ {
		row := s.Img.Pix[y*s.Img.Stride : y*s.Img.Stride+w*4]
		for x := 0; x < w; x++ {
			p := row[x*4 : x*4+4 : x*4+4]
			v := brightness(p[0], p[1], p[2])
			if v <= s.opt.Threshold {
				p[0], p[1], p[2], p[3] = 0, 0, 0, 0
				continue
			}
			s.ColumnSums[x] += float64(v)
		}
	}
}

// Slices returns the three full height column ranges cut at the split points.
func (s *Splitter) Slices() [BadgeCount]image.Rectangle {
	b := s.Img.Bounds()
	return [BadgeCount]image.Rectangle{
		image.Rect(b.Min.X, b.Min.Y, s.Split1, b.Max.Y),
		image.Rect(s.Split1, b.Min.Y, s.Split2, b.Max.Y),
		image.Rect(s.Split2, b.Min.Y, b.Max.X, b.Max.Y),
	}
}

// Badges crops and trims every slice. Slices without visible pixels come
// back with a nil Image.
func (s *Splitter) Badges() []Badge {
	out := make([]Badge, 0, BadgeCount)
	for i, r := range s.Slices() {
		badge := Badge{Index: i, Name: s.opt.Names[i], Slice: r}
		if bounds, ok := TrimBounds(s.Img, r); ok {
			badge.Bounds = bounds
			badge.Image = imaging.Crop(s.Img, bounds)
			badge.Palette, badge.Accent = describe(badge.Image, s.opt)
		}
		out = append(out, badge)
	}
	return out
}

func describe(img image.Image, opt Options) ([]colorful.Color, colorful.Color) {
	weighted := utils.ExtractPalette(img, opt.PaletteSize, opt.PaletteMethod)
	accent := utils.Accent(weighted)
	palette := make([]colorful.Color, 0, len(weighted))
	for _, wc := range weighted {
		palette = append(palette, wc.Col)
	}
	utils.SortPaletteByBrightness(palette)
	return palette, accent
}

// TrimBounds returns the smallest rectangle inside r holding every pixel of
// img with non-zero alpha. ok is false when there is none.
func TrimBounds(img *image.NRGBA, r image.Rectangle) (bounds image.Rectangle, ok bool) {
	r = r.Intersect(img.Bounds())
	minX, minY := r.Max.X, r.Max.Y
	maxX, maxY := r.Min.X-1, r.Min.Y-1
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.Pix[img.PixOffset(x, y)+3] == 0 {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if maxX < minX {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}
