package boxscore

import (
	"fmt"
	"image"
	"log"
	"sort"
	"strings"
)

const (
	lineScoreFloor  = 0.55
	tokenScoreFloor = 0.50
	rowBandPx       = 12
	rowPadPx        = 6
)

// RowCandidate is the best-guess line for a username. The bounding box is
// padded beyond the tightest token union so a re-scan crop keeps full glyphs.
type RowCandidate struct {
	Text string
	Box  image.Rectangle
}

// ScoredLine is one candidate line with its similarity score, reported only
// in diagnostic mode.
type ScoredLine struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// LocateRow finds the token line most likely to belong to username. Two
// independent signals are tried in order: the engine's own line grouping,
// then a token-level match widened by a vertical band for engines that split
// one visual row across several line keys. Neither signal alone holds up
// across the observed HUD layouts.
func LocateRow(doc Document, username string) (RowCandidate, error) {
	if cand, ok := locateByLineGroup(doc, username); ok {
		return cand, nil
	}
	if cand, ok := locateByTokenBand(doc, username); ok {
		return cand, nil
	}
	return RowCandidate{}, fmt.Errorf("%w: %q", ErrUsernameNotFound, username)
}

type lineGroup struct {
	key    LineKey
	tokens []Token
}

// groupLines clusters tokens by line key, preserving first-seen order.
func groupLines(doc Document) []lineGroup {
	idx := map[LineKey]int{}
	var groups []lineGroup
	for _, tok := range doc {
		i, ok := idx[tok.Line]
		if !ok {
			i = len(groups)
			idx[tok.Line] = i
			groups = append(groups, lineGroup{key: tok.Line})
		}
		groups[i].tokens = append(groups[i].tokens, tok)
	}
	return groups
}

// rowFromTokens concatenates tokens left to right and pads the union box.
func rowFromTokens(tokens []Token) RowCandidate {
	sorted := make([]Token, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Box.Min.X < sorted[j].Box.Min.X })
	texts := make([]string, 0, len(sorted))
	box := sorted[0].Box
	for _, t := range sorted {
		texts = append(texts, t.Text)
		box = box.Union(t.Box)
	}
	return RowCandidate{
		Text: strings.Join(texts, " "),
		Box:  box.Inset(-rowPadPx),
	}
}

func locateByLineGroup(doc Document, username string) (RowCandidate, bool) {
	groups := groupLines(doc)
	bestScore := 0.0
	bestIdx := -1
	for i, g := range groups {
		score := Similarity(rowFromTokens(g.tokens).Text, username)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
		if score == 1.0 {
			break
		}
	}
	if bestIdx < 0 || bestScore < lineScoreFloor {
		return RowCandidate{}, false
	}
	cand := rowFromTokens(groups[bestIdx].tokens)
	log.Printf("row locate: line group score=%.2f text=%q", bestScore, snippet(cand.Text, 80))
	return cand, true
}

func locateByTokenBand(doc Document, username string) (RowCandidate, bool) {
	bestScore := 0.0
	bestIdx := -1
	for i, tok := range doc {
		score := Similarity(tok.Text, username)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
		if score == 1.0 {
			break
		}
	}
	if bestIdx < 0 || bestScore < tokenScoreFloor {
		return RowCandidate{}, false
	}
	anchor := doc[bestIdx]
	var row []Token
	for _, tok := range doc {
		dy := tok.Box.Min.Y - anchor.Box.Min.Y
		if dy < 0 {
			dy = -dy
		}
		if tok.Line == anchor.Line || dy <= rowBandPx {
			row = append(row, tok)
		}
	}
	cand := rowFromTokens(row)
	log.Printf("row locate: token fallback score=%.2f anchor=%q text=%q", bestScore, anchor.Text, snippet(cand.Text, 80))
	return cand, true
}

// TopCandidates reports the n best line-group candidates by similarity for
// operator troubleshooting. It never affects locating.
func TopCandidates(doc Document, username string, n int) []ScoredLine {
	groups := groupLines(doc)
	out := make([]ScoredLine, 0, len(groups))
	for _, g := range groups {
		text := rowFromTokens(g.tokens).Text
		out = append(out, ScoredLine{Text: text, Score: Similarity(text, username)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > n {
		out = out[:n]
	}
	return out
}
