package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"boxscore/pkg/boxscore"
)

func main() {
	path := flag.String("path", "tmp/test.png", "screenshot to interpret")
	username := flag.String("username", "", "gamertag to look for (required)")
	debug := flag.Bool("debug", false, "print intermediate diagnostics")
	flag.Parse()
	if *username == "" {
		log.Fatal("-username is required")
	}
	p, _ := filepath.Abs(*path)
	data, err := os.ReadFile(p)
	if err != nil {
		log.Fatalf("read %s: %v", p, err)
	}
	engine, err := boxscore.NewTesseractEngine()
	if err != nil {
		log.Fatalf("engine: %v", err)
	}
	pipe := boxscore.NewPipeline(engine)

	if *debug {
		rec, diag, err := pipe.ExtractPlayerStatsDebug(data, *username)
		printJSON("diagnostics", diag)
		if err != nil {
			log.Fatalf("extract: %v", err)
		}
		printJSON("record", rec)
		return
	}
	rec, err := pipe.ExtractPlayerStats(data, *username)
	if err != nil {
		log.Fatalf("extract: %v", err)
	}
	printJSON("record", rec)
}

func printJSON(label string, v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("marshal %s: %v", label, err)
	}
	fmt.Printf("%s:\n%s\n", label, b)
}
