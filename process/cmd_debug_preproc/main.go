package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"boxscore/pkg/boxscore"

	"github.com/disintegration/imaging"
)

// Dumps the two conditioned variants of a screenshot next to the input so
// the thresholding can be eyeballed when a HUD refuses to parse.
func main() {
	in := flag.String("path", "public/shots/game1.png", "screenshot to condition")
	flag.Parse()

	data, err := os.ReadFile(*in)
	if err != nil {
		log.Fatalf("read: %v", err)
	}
	binarized, soft, err := boxscore.Prepare(data)
	if err != nil {
		log.Fatalf("prepare: %v", err)
	}
	base := strings.TrimSuffix(*in, ".png")
	binOut := base + ".binarized.png"
	softOut := base + ".grayscale.png"
	if err := imaging.Save(binarized, binOut); err != nil {
		log.Fatalf("save %s: %v", binOut, err)
	}
	if err := imaging.Save(soft, softOut); err != nil {
		log.Fatalf("save %s: %v", softOut, err)
	}
	fmt.Printf("wrote %s and %s (%dx%d)\n", binOut, softOut, binarized.Bounds().Dx(), binarized.Bounds().Dy())
}
