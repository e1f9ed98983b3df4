package boxscore

import (
	"errors"
	"fmt"
	"image"
	"log"
)

// Pipeline wires the image conditioner, row locator, stats parser and the
// single re-scan fallback around one OCR engine. It holds no per-request
// state, so one Pipeline serves concurrent requests.
type Pipeline struct {
	Engine Engine
}

func NewPipeline(engine Engine) *Pipeline { return &Pipeline{Engine: engine} }

// Diagnostics carries the intermediate values of one extraction for the
// debug surface: the located row text, the re-scanned text, the variant that
// produced them and the top candidate lines by score.
type Diagnostics struct {
	Variant    string       `json:"variant"`
	Row        string       `json:"row"`
	Rescan     string       `json:"rescan"`
	Candidates []ScoredLine `json:"candidates"`
}

// ExtractPlayerStats runs the full pipeline over raw screenshot bytes.
func (p *Pipeline) ExtractPlayerStats(imageBytes []byte, username string) (Record, error) {
	rec, _, err := p.extract(imageBytes, username, false)
	return rec, err
}

// ExtractPlayerStatsDebug additionally reports the intermediate values.
// Success and failure semantics are identical to ExtractPlayerStats.
func (p *Pipeline) ExtractPlayerStatsDebug(imageBytes []byte, username string) (Record, Diagnostics, error) {
	return p.extract(imageBytes, username, true)
}

func (p *Pipeline) extract(imageBytes []byte, username string, debug bool) (Record, Diagnostics, error) {
	var diag Diagnostics
	binarized, soft, err := Prepare(imageBytes)
	if err != nil {
		return Record{}, diag, err
	}

	// Binarized first: crisper on high-contrast HUDs. Grayscale second:
	// binarization can erase thin glyphs the soft variant preserves.
	variants := []struct {
		name string
		img  *image.NRGBA
	}{
		{"binarized", binarized},
		{"grayscale", soft},
	}

	var cand RowCandidate
	var source image.Image
	located := false
	for _, v := range variants {
		doc, err := p.Engine.RecognizeDocument(v.img, Options{PreserveSpaces: true})
		if err != nil {
			return Record{}, diag, err
		}
		if debug {
			diag.Variant = v.name
			diag.Candidates = TopCandidates(doc, username, 10)
		}
		c, err := LocateRow(doc, username)
		if err != nil {
			if errors.Is(err, ErrUsernameNotFound) {
				continue
			}
			return Record{}, diag, err
		}
		cand = c
		source = v.img
		diag.Variant = v.name
		located = true
		break
	}
	if !located {
		return Record{}, diag, fmt.Errorf("%w: %q", ErrUsernameNotFound, username)
	}
	diag.Row = cand.Text

	rec, parseErr := ParseStats(cand.Text, username)
	if parseErr == nil {
		return rec, diag, nil
	}

	// One bounded recovery attempt against the located region. Later
	// failures never mask the original, actionable parse error.
	rescanned, rescanErr := Rescan(source, cand.Box, p.Engine)
	if rescanErr != nil {
		log.Printf("rescan failed: %v", rescanErr)
		return Record{}, diag, parseErr
	}
	diag.Rescan = rescanned
	if rescanned != "" {
		if rec2, err2 := ParseStats(rescanned, username); err2 == nil {
			return rec2, diag, nil
		}
	}
	return Record{}, diag, parseErr
}
