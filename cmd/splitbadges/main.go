// splitbadges cuts the three-badge composite into one transparent PNG per badge.
// Usage: go run ./cmd/splitbadges
// Output: grammar_police.png, sarcasm_mode.png, fail_stamp.png in src/assets/images/.
package main

import (
	"errors"
	"log"
	"os"
	"path/filepath"

	"github.com/setanarut/badgesplit"
)

var (
	inputImage = filepath.Join("media", "badges.png")
	outputDir  = filepath.Join("src", "assets", "images")
)

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stdout)
}

func main() {
	log.Printf("Loading %s...", inputImage)
	_, err := badgesplit.Run(inputImage, outputDir, badgesplit.DefaultOptions())
	if errors.Is(err, badgesplit.ErrLoad) {
		log.Printf("Error loading image: %v", err)
		return
	}
	if err != nil {
		log.Fatal(err)
	}
}
