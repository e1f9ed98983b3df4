package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"boxscore/pkg/boxscore"
)

// Dumps the recognized tokens and the best-scoring candidate lines for a
// screenshot, for figuring out why a gamertag failed to locate.
func main() {
	path := flag.String("path", "", "image path")
	username := flag.String("username", "", "gamertag to score candidates against (optional)")
	flag.Parse()
	if *path == "" {
		log.Fatal("--path is required")
	}

	data, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("read: %v", err)
	}
	binarized, _, err := boxscore.Prepare(data)
	if err != nil {
		log.Fatalf("prepare: %v", err)
	}
	engine, err := boxscore.NewTesseractEngine()
	if err != nil {
		log.Fatalf("engine: %v", err)
	}
	doc, err := engine.RecognizeDocument(binarized, boxscore.Options{PreserveSpaces: true})
	if err != nil {
		log.Fatalf("ocr error: %v", err)
	}
	for _, tok := range doc {
		fmt.Printf("%d/%d/%d %v %q\n", tok.Line.Block, tok.Line.Par, tok.Line.Line, tok.Box, tok.Text)
	}
	if *username != "" {
		fmt.Println(strings.Repeat("-", 50))
		for _, c := range boxscore.TopCandidates(doc, *username, 10) {
			fmt.Printf("score=%.2f %q\n", c.Score, c.Text)
		}
	}
}
