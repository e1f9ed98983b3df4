package boxscore

import (
	"fmt"
	"strings"
	"time"
)

// Synonym tables for pre-structured scrape rows: first key present wins.
// Keys are matched lower-cased and trimmed.
var (
	lookupUsernameKeys = []string{"username", "user", "player", "name"}
	lookupGradeKeys    = []string{"grd", "grade"}
	lookupPointsKeys   = []string{"pts", "points"}
	lookupReboundsKeys = []string{"reb", "rebounds"}
	lookupAssistsKeys  = []string{"ast", "assists"}
	lookupStealsKeys   = []string{"stl", "steals"}
	lookupBlocksKeys   = []string{"blk", "blocks"}
	lookupFoulsKeys    = []string{"fouls", "pf", "fls"}
	lookupTurnoverKeys = []string{"to", "tov", "turnovers"}
	lookupFGPairKeys   = []string{"fgm/fga", "fg"}
	lookupTPPairKeys   = []string{"3pm/3pa", "3pt"}
	lookupFTPairKeys   = []string{"ftm/fta", "ft"}
	lookupFGMadeKeys   = []string{"fgm"}
	lookupFGAttKeys    = []string{"fga"}
	lookupTPMadeKeys   = []string{"3pm", "tpm"}
	lookupTPAttKeys    = []string{"3pa", "tpa"}
	lookupFTMadeKeys   = []string{"ftm"}
	lookupFTAttKeys    = []string{"fta"}
)

// Lookup projects an already-structured list of row maps (e.g. from an
// upstream scrape) into a Record for username. Name comparison is
// case-insensitive; numeric coercion is best-effort with zero fallback, so a
// misread cell and a true zero come out the same.
func Lookup(rows []map[string]any, username string) (Record, bool) {
	target := strings.ToLower(strings.TrimSpace(username))
	for _, row := range rows {
		norm := make(map[string]string, len(row))
		for k, v := range row {
			norm[strings.ToLower(strings.TrimSpace(k))] = stringValue(v)
		}
		name := strings.TrimSpace(firstKey(norm, lookupUsernameKeys))
		if name == "" || strings.ToLower(name) != target {
			continue
		}
		rec := Record{
			Username:  name,
			Grade:     firstKey(norm, lookupGradeKeys),
			Points:    parseIntOrDefault(firstKey(norm, lookupPointsKeys), 0),
			Rebounds:  parseIntOrDefault(firstKey(norm, lookupReboundsKeys), 0),
			Assists:   parseIntOrDefault(firstKey(norm, lookupAssistsKeys), 0),
			Steals:    parseIntOrDefault(firstKey(norm, lookupStealsKeys), 0),
			Blocks:    parseIntOrDefault(firstKey(norm, lookupBlocksKeys), 0),
			Fouls:     parseIntOrDefault(firstKey(norm, lookupFoulsKeys), 0),
			Turnovers: parseIntOrDefault(firstKey(norm, lookupTurnoverKeys), 0),
			Date:      time.Now().Format("2006-01-02"),
		}
		rec.FGM, rec.FGA = madeAttempted(norm, lookupFGPairKeys, lookupFGMadeKeys, lookupFGAttKeys)
		rec.TPM, rec.TPA = madeAttempted(norm, lookupTPPairKeys, lookupTPMadeKeys, lookupTPAttKeys)
		rec.FTM, rec.FTA = madeAttempted(norm, lookupFTPairKeys, lookupFTMadeKeys, lookupFTAttKeys)
		return rec, true
	}
	return Record{}, false
}

func firstKey(row map[string]string, keys []string) string {
	for _, k := range keys {
		if v, ok := row[k]; ok {
			return v
		}
	}
	return ""
}

func stringValue(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// madeAttempted reads a combined "made/attempted" field or separately keyed
// made and attempted fields, whichever the row carries. An unsplittable
// combined value counts as 0/0.
func madeAttempted(row map[string]string, pairKeys, madeKeys, attKeys []string) (int, int) {
	if raw, ok := firstPresent(row, pairKeys); ok {
		parts := strings.SplitN(raw, "/", 2)
		if len(parts) == 2 {
			return parseIntOrDefault(parts[0], 0), parseIntOrDefault(parts[1], 0)
		}
		return 0, 0
	}
	return parseIntOrDefault(firstKey(row, madeKeys), 0), parseIntOrDefault(firstKey(row, attKeys), 0)
}

func firstPresent(row map[string]string, keys []string) (string, bool) {
	for _, k := range keys {
		if v, ok := row[k]; ok {
			return v, true
		}
	}
	return "", false
}
