package boxscore

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseStatsSplitShootingTokens(t *testing.T) {
	rec, err := ParseStats("AUSWEN A 21 5 11 2 0 4 0 9 16 2 2 1 2", "")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if rec.Username != "AUSWEN" || rec.Grade != "A" {
		t.Fatalf("identity mismatch: username=%q grade=%q", rec.Username, rec.Grade)
	}
	if rec.Points != 21 || rec.Rebounds != 5 || rec.Assists != 11 || rec.Steals != 2 ||
		rec.Blocks != 0 || rec.Fouls != 4 || rec.Turnovers != 0 {
		t.Fatalf("counting stats mismatch: %+v", rec)
	}
	if rec.FGM != 9 || rec.FGA != 16 || rec.TPM != 2 || rec.TPA != 2 || rec.FTM != 1 || rec.FTA != 2 {
		t.Fatalf("shooting stats mismatch: %+v", rec)
	}
}

func TestParseStatsExplicitPairs(t *testing.T) {
	rec, err := ParseStats("AUSWEN B+ 15 3 4 1 1 2 0 6/10 3/5 0/0", "")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if rec.Grade != "B+" || rec.Points != 15 {
		t.Fatalf("expected grade=B+ points=15 got grade=%q points=%d", rec.Grade, rec.Points)
	}
	if rec.FGM != 6 || rec.FGA != 10 || rec.TPM != 3 || rec.TPA != 5 || rec.FTM != 0 || rec.FTA != 0 {
		t.Fatalf("shooting stats mismatch: %+v", rec)
	}
}

func TestParseStatsFusedGradeAndName(t *testing.T) {
	rec, err := ParseStats("B-AUSWEN 8 2 1 0 0 1 0 3/5 1/3 1/2", "AUSWEN")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if rec.Username != "AUSWEN" {
		t.Fatalf("expected username AUSWEN got %q", rec.Username)
	}
	if rec.Grade != "B-" {
		t.Fatalf("expected grade B- got %q", rec.Grade)
	}
	if rec.Points != 8 {
		t.Fatalf("expected points 8 got %d", rec.Points)
	}
}

func TestParseStatsMissingFreeThrowPair(t *testing.T) {
	rec, err := ParseStats("AUSWEN A 10 5 3 2 1 2 3 5/10 2/5", "")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if rec.FGM != 5 || rec.FGA != 10 || rec.TPM != 2 || rec.TPA != 5 {
		t.Fatalf("shooting stats mismatch: %+v", rec)
	}
	if rec.FTM != 0 || rec.FTA != 0 {
		t.Fatalf("missing free-throw pair should default to 0/0, got %d/%d", rec.FTM, rec.FTA)
	}
}

func TestParseStatsPointsSanityBound(t *testing.T) {
	_, err := ParseStats("AUSWEN A 2500 5 11 2 0 4 0 9/16 2/2 1/2", "")
	if !errors.Is(err, ErrStatsParse) {
		t.Fatalf("expected ErrStatsParse for implausible points, got %v", err)
	}
}

func TestParseStatsTooFewFields(t *testing.T) {
	for _, row := range []string{"", "   ", "AUSWEN", "AUSWEN A 1 2 3", "AUSWEN A 1 2 3 4 5 6 7 8/9"} {
		if _, err := ParseStats(row, ""); !errors.Is(err, ErrStatsParse) {
			t.Fatalf("row %q: expected ErrStatsParse, got %v", row, err)
		}
	}
}

func TestParseStatsRoundTripWithNoise(t *testing.T) {
	rec, err := ParseStats("  AUSWEN   B+  15 3 4 1 1 2 0   6/10  3/5  0/0  ", "")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := []int{15, 3, 4, 1, 1, 2, 0, 6, 10, 3, 5, 0, 0}
	got := []int{rec.Points, rec.Rebounds, rec.Assists, rec.Steals, rec.Blocks, rec.Fouls,
		rec.Turnovers, rec.FGM, rec.FGA, rec.TPM, rec.TPA, rec.FTM, rec.FTA}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("round trip mismatch: want %v got %v", want, got)
	}
}

func TestParseStatsDigitScanFallback(t *testing.T) {
	// Slashes misread as pipes: pair and integer strategies cannot apply,
	// the raw digit scan still finds all 13 values.
	rec, err := ParseStats("AUSWEN A 21 5 11 2 0 4 0 9|16 2|2 1|2", "")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if rec.Points != 21 || rec.FGM != 9 || rec.FGA != 16 || rec.FTM != 1 || rec.FTA != 2 {
		t.Fatalf("digit scan mismatch: %+v", rec)
	}
}

func TestMergeFractionTokens(t *testing.T) {
	cases := []struct {
		in   []string
		want []string
	}{
		{[]string{"5", "/", "10"}, []string{"5/10"}},
		{[]string{"5/", "10"}, []string{"5/10"}},
		{[]string{"5", "/10"}, []string{"5/10"}},
		{[]string{"5/10"}, []string{"5/10"}},
		{[]string{"A", "21", "5", "/", "10", "2/2"}, []string{"A", "21", "5/10", "2/2"}},
	}
	for _, c := range cases {
		got := MergeFractionTokens(c.in)
		if !reflect.DeepEqual(got, c.want) {
			t.Fatalf("merge %v: want %v got %v", c.in, c.want, got)
		}
		again := MergeFractionTokens(got)
		if !reflect.DeepEqual(again, got) {
			t.Fatalf("merge not idempotent: %v -> %v", got, again)
		}
	}
}
