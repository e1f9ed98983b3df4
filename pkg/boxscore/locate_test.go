package boxscore

import (
	"errors"
	"image"
	"testing"
)

func tk(text string, x, y int, line LineKey) Token {
	return Token{Text: text, Box: image.Rect(x, y, x+40, y+12), Line: line}
}

func statRow(name string, y int, line LineKey) []Token {
	cells := []string{name, "A", "10", "5", "3", "2", "1", "2", "1", "5/10", "2/5", "1/2"}
	out := make([]Token, 0, len(cells))
	for i, c := range cells {
		out = append(out, tk(c, i*100, y, line))
	}
	return out
}

func TestLocateRowByLineGroup(t *testing.T) {
	doc := Document{
		tk("PLAYER", 0, 0, LineKey{1, 1, 1}),
		tk("PTS", 100, 0, LineKey{1, 1, 1}),
		// the whole line is one corrupted username token
		tk("T3STUSER", 0, 40, LineKey{1, 1, 2}),
	}
	cand, err := LocateRow(doc, "TESTUSER")
	if err != nil {
		t.Fatalf("locate failed: %v", err)
	}
	if cand.Text != "T3STUSER" {
		t.Fatalf("expected corrupted username line, got %q", cand.Text)
	}
}

func TestLocateRowTokenFallbackPreservesOrder(t *testing.T) {
	doc := Document{tk("PLAYER", 0, 0, LineKey{1, 1, 1})}
	doc = append(doc, statRow("T3STUSER", 40, LineKey{1, 1, 2})...)
	cand, err := LocateRow(doc, "TESTUSER")
	if err != nil {
		t.Fatalf("locate failed: %v", err)
	}
	want := "T3STUSER A 10 5 3 2 1 2 1 5/10 2/5 1/2"
	if cand.Text != want {
		t.Fatalf("row text mismatch:\nwant %q\ngot  %q", want, cand.Text)
	}
}

func TestLocateRowBridgesSplitLineKeys(t *testing.T) {
	// The engine split one visual row across two line keys; the vertical
	// band must pull both halves in, while a distant row stays out.
	doc := Document{
		tk("AUSWEN", 0, 100, LineKey{1, 1, 3}),
		tk("A", 100, 100, LineKey{1, 1, 3}),
		tk("21", 200, 100, LineKey{1, 1, 3}),
		tk("5", 300, 100, LineKey{1, 1, 3}),
		tk("11", 400, 100, LineKey{1, 1, 3}),
		tk("2", 500, 100, LineKey{1, 1, 3}),
		tk("0", 600, 104, LineKey{1, 1, 4}),
		tk("9/16", 700, 104, LineKey{1, 1, 4}),
		tk("2/2", 800, 104, LineKey{1, 1, 4}),
		tk("1/2", 900, 104, LineKey{1, 1, 4}),
		tk("OTHERGUY", 0, 160, LineKey{1, 1, 5}),
	}
	cand, err := LocateRow(doc, "AUSWEN")
	if err != nil {
		t.Fatalf("locate failed: %v", err)
	}
	want := "AUSWEN A 21 5 11 2 0 9/16 2/2 1/2"
	if cand.Text != want {
		t.Fatalf("expected banded row %q, got %q", want, cand.Text)
	}
}

func TestLocateRowPadsBoundingBox(t *testing.T) {
	doc := Document{
		tk("AUSWEN", 10, 50, LineKey{1, 1, 1}),
		tk("21", 110, 50, LineKey{1, 1, 1}),
	}
	cand, err := LocateRow(doc, "AUSWEN")
	if err != nil {
		t.Fatalf("locate failed: %v", err)
	}
	union := image.Rect(10, 50, 150, 62)
	if cand.Box != union.Inset(-rowPadPx) {
		t.Fatalf("expected padded union %v, got %v", union.Inset(-rowPadPx), cand.Box)
	}
}

func TestLocateRowNotFound(t *testing.T) {
	doc := Document{
		tk("PLAYER", 0, 0, LineKey{1, 1, 1}),
		tk("PTS", 100, 0, LineKey{1, 1, 1}),
		tk("REB", 200, 0, LineKey{1, 1, 1}),
	}
	if _, err := LocateRow(doc, "AUSWEN"); !errors.Is(err, ErrUsernameNotFound) {
		t.Fatalf("expected ErrUsernameNotFound, got %v", err)
	}
	if _, err := LocateRow(Document{}, "AUSWEN"); !errors.Is(err, ErrUsernameNotFound) {
		t.Fatalf("expected ErrUsernameNotFound on empty document, got %v", err)
	}
}

func TestTopCandidatesSortedAndBounded(t *testing.T) {
	doc := Document{tk("AUSWEN", 0, 0, LineKey{1, 1, 1})}
	for i := 0; i < 15; i++ {
		doc = append(doc, tk("NOISE", 0, 20*(i+1), LineKey{1, 1, 2 + i}))
	}
	cands := TopCandidates(doc, "AUSWEN", 10)
	if len(cands) != 10 {
		t.Fatalf("expected 10 candidates, got %d", len(cands))
	}
	if cands[0].Text != "AUSWEN" || cands[0].Score != 1.0 {
		t.Fatalf("expected exact match first, got %+v", cands[0])
	}
	for i := 1; i < len(cands); i++ {
		if cands[i].Score > cands[i-1].Score {
			t.Fatalf("candidates not sorted by score: %+v", cands)
		}
	}
}
