package boxscore

import "testing"

func TestLookupFindsRowCaseInsensitive(t *testing.T) {
	rows := []map[string]any{
		{"username": "OtherGuy", "pts": "10"},
		{"Username": "AusWen", "GRD": "A", "PTS": 21, "reb": "5", "ast": "11",
			"stl": "2", "blk": "0", "fouls": "4", "to": "0",
			"fgm/fga": "9/16", "3pm/3pa": "2/2", "ftm/fta": "1/2"},
	}
	rec, ok := Lookup(rows, "ausWEN")
	if !ok {
		t.Fatal("expected a match")
	}
	if rec.Username != "AusWen" || rec.Grade != "A" || rec.Points != 21 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Rebounds != 5 || rec.Assists != 11 || rec.Steals != 2 || rec.Blocks != 0 ||
		rec.Fouls != 4 || rec.Turnovers != 0 {
		t.Fatalf("unexpected counting stats: %+v", rec)
	}
	if rec.FGM != 9 || rec.FGA != 16 || rec.TPM != 2 || rec.TPA != 2 || rec.FTM != 1 || rec.FTA != 2 {
		t.Fatalf("unexpected shooting stats: %+v", rec)
	}
	if rec.Date == "" {
		t.Fatal("expected a capture date")
	}
}

func TestLookupMissingPlayer(t *testing.T) {
	rows := []map[string]any{{"username": "OtherGuy", "pts": "10"}}
	if _, ok := Lookup(rows, "AUSWEN"); ok {
		t.Fatal("expected no match")
	}
	if _, ok := Lookup(nil, "AUSWEN"); ok {
		t.Fatal("expected no match on empty input")
	}
}

func TestLookupSeparateMadeAttemptedKeys(t *testing.T) {
	rows := []map[string]any{
		{"player": "Auswen", "fgm": "9", "fga": "16", "tpm": "2", "tpa": "2", "ftm": 1, "fta": 2},
	}
	rec, ok := Lookup(rows, "auswen")
	if !ok {
		t.Fatal("expected a match")
	}
	if rec.FGM != 9 || rec.FGA != 16 || rec.TPM != 2 || rec.TPA != 2 || rec.FTM != 1 || rec.FTA != 2 {
		t.Fatalf("unexpected shooting stats: %+v", rec)
	}
}

func TestLookupBadValuesFallToZero(t *testing.T) {
	rows := []map[string]any{
		{"name": "Auswen", "pts": "n/a", "reb": nil, "fg": "916", "ft": "1/2"},
	}
	rec, ok := Lookup(rows, "Auswen")
	if !ok {
		t.Fatal("expected a match")
	}
	if rec.Points != 0 || rec.Rebounds != 0 {
		t.Fatalf("expected zero fallback, got %+v", rec)
	}
	// unsplittable combined field drops to 0/0, not a parse error
	if rec.FGM != 0 || rec.FGA != 0 {
		t.Fatalf("expected 0/0 for unsplittable pair, got %d/%d", rec.FGM, rec.FGA)
	}
	if rec.FTM != 1 || rec.FTA != 2 {
		t.Fatalf("expected 1/2 free throws, got %d/%d", rec.FTM, rec.FTA)
	}
}
