package boxscore

import "testing"

func TestNormalizeIdempotent(t *testing.T) {
	for _, s := range []string{"AusWen", "T3STUSER", "b-ausw3n!", "Rp 0O0", ""} {
		once := Normalize(s)
		if twice := Normalize(once); twice != once {
			t.Fatalf("normalize not idempotent for %q: %q -> %q", s, once, twice)
		}
	}
}

func TestNormalizeCaseAndConfusions(t *testing.T) {
	if Normalize("auswen") != Normalize("AUSWEN") {
		t.Fatalf("normalize should be case-insensitive")
	}
	if Normalize("OO7") != Normalize("007") {
		t.Fatalf("normalize should fold O to 0")
	}
	if got := Normalize("a-b.c d!"); got != "ABCD" {
		t.Fatalf("normalize should strip punctuation, got %q", got)
	}
}

func TestSimilaritySelfIsOne(t *testing.T) {
	for _, s := range []string{"AUSWEN", "auswen", "T3STUSER", ""} {
		if got := Similarity(s, s); got != 1.0 {
			t.Fatalf("similarity of %q with itself = %f, want 1.0", s, got)
		}
	}
}

func TestSimilarityTolerantOfGlyphErrors(t *testing.T) {
	if got := Similarity("T3STUSER", "TESTUSER"); got < 0.8 {
		t.Fatalf("expected high similarity for single glyph error, got %f", got)
	}
	if got := Similarity("AUSWEN", "ZZZZZZ"); got > 0.2 {
		t.Fatalf("expected low similarity for unrelated strings, got %f", got)
	}
}
