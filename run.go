package badgesplit

import (
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"

	"github.com/setanarut/badgesplit/utils"
)

// ErrLoad marks failures to open or decode the composite. Nothing is written
// when Run returns it.
var ErrLoad = errors.New("load image")

type Result struct {
	Width, Height  int
	Split1, Split2 int
	Badges         []Badge
	Warnings       []string
}

// Saved returns the badges that were written to disk.
func (r *Result) Saved() []Badge {
	out := make([]Badge, 0, len(r.Badges))
	for _, b := range r.Badges {
		if b.Path != "" {
			out = append(out, b)
		}
	}
	return out
}

// Run splits the composite at inputPath and writes the trimmed badges into
// outputDir, creating it if needed. Existing files are overwritten.
func Run(inputPath, outputDir string, opt Options) (*Result, error) {
	img, err := utils.ReadImage(inputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return RunImage(img, outputDir, opt)
}

// RunImage is Run for an already decoded composite. Progress is logged as
// each stage completes.
func RunImage(img image.Image, outputDir string, opt Options) (*Result, error) {
	s := NewSplitter(img)
	if err := s.Build(opt); err != nil {
		return nil, err
	}
	size := s.Img.Bounds().Size()
	log.Printf("Image size: %dx%d", size.X, size.Y)
	log.Printf("Split points found at x=%d and x=%d", s.Split1, s.Split2)
	res := &Result{
		Width:  size.X,
		Height: size.Y,
		Split1: s.Split1,
		Split2: s.Split2,
		Badges: s.Badges(),
	}

	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return res, fmt.Errorf("mkdir %s: %w", outputDir, err)
	}
	for i := range res.Badges {
		b := &res.Badges[i]
		if b.Empty() {
			msg := fmt.Sprintf("crop %d (%s) was empty", b.Index, b.Name)
			log.Println("warning:", msg)
			res.Warnings = append(res.Warnings, msg)
			continue
		}
		path := filepath.Join(outputDir, b.Name)
		if err := utils.SaveImage(b.Image, path); err != nil {
			return res, fmt.Errorf("write %s: %w", path, err)
		}
		b.Path = path
		size := b.Size()
		log.Printf("Saved %s (Size: %dx%d, accent %s)", path, size.X, size.Y, b.Accent.Hex())
	}
	return res, nil
}
