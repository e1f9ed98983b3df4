package boxscore

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Record is one player's parsed box-score line. Counting fields are
// non-negative; Grade may be empty when the HUD row carried none. Date is
// the capture date, not read from the image.
type Record struct {
	Username  string `json:"username"`
	Grade     string `json:"grade"`
	Points    int    `json:"points"`
	Rebounds  int    `json:"rebounds"`
	Assists   int    `json:"assists"`
	Steals    int    `json:"steals"`
	Blocks    int    `json:"blocks"`
	Fouls     int    `json:"fouls"`
	Turnovers int    `json:"turnovers"`
	FGM       int    `json:"fgm"`
	FGA       int    `json:"fga"`
	TPM       int    `json:"tpm"`
	TPA       int    `json:"tpa"`
	FTM       int    `json:"ftm"`
	FTA       int    `json:"fta"`
	Date      string `json:"date"`
}

var (
	gradeRE  = regexp.MustCompile(`^[A-F][+-]?$`)
	pairRE   = regexp.MustCompile(`^([0-9]+)/([0-9]+)$`)
	intRE    = regexp.MustCompile(`^[0-9]+$`)
	digitsRE = regexp.MustCompile(`[0-9]+`)
)

const (
	usernameScoreFloor = 0.60
	// Guard against catastrophic misparses, not a domain-accurate ceiling.
	maxPlausiblePoints = 2000
)

// MergeFractionTokens re-joins made/attempted fractions that OCR split
// across whitespace ("5 / 10", "5/ 10", "5 /10") into single "5/10" tokens.
// Must run before numeric extraction so fraction halves are not mistaken for
// independent integers. Idempotent.
func MergeFractionTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case tok == "/" && len(out) > 0 && intRE.MatchString(out[len(out)-1]) &&
			i+1 < len(tokens) && intRE.MatchString(tokens[i+1]):
			out[len(out)-1] += "/" + tokens[i+1]
			i++
		case strings.HasSuffix(tok, "/") && intRE.MatchString(strings.TrimSuffix(tok, "/")) &&
			i+1 < len(tokens) && intRE.MatchString(tokens[i+1]):
			out = append(out, tok+tokens[i+1])
			i++
		case strings.HasPrefix(tok, "/") && intRE.MatchString(strings.TrimPrefix(tok, "/")) &&
			len(out) > 0 && intRE.MatchString(out[len(out)-1]):
			out[len(out)-1] += tok
		default:
			out = append(out, tok)
		}
	}
	return out
}

// ParseStats converts a located row's text into a Record. expectedUsername
// may be empty; when given it anchors the fuzzy username and grade
// resolution. Parsing is all-or-nothing: no partial records.
func ParseStats(rowText, expectedUsername string) (Record, error) {
	fields := strings.Fields(rowText)
	if len(fields) == 0 {
		return Record{}, fmt.Errorf("%w: empty row", ErrStatsParse)
	}
	tokens := MergeFractionTokens(fields)

	rec := Record{Date: time.Now().Format("2006-01-02")}
	usernameIdx := resolveIdentity(tokens, expectedUsername, &rec)
	if rec.Grade == "" {
		for i, tok := range tokens {
			if i == usernameIdx {
				continue
			}
			if gradeRE.MatchString(tok) {
				rec.Grade = tok
				break
			}
		}
	}

	if !parseExplicitPairs(tokens, &rec) && !parseIntegerRun(tokens, &rec) && !parseDigitScan(rowText, &rec) {
		return Record{}, fmt.Errorf("%w: could not resolve 13 numeric fields in %q", ErrStatsParse, snippet(rowText, 80))
	}
	if rec.Points > maxPlausiblePoints {
		return Record{}, fmt.Errorf("%w: implausible points value %d", ErrStatsParse, rec.Points)
	}
	return rec, nil
}

// resolveIdentity fills Username, and Grade when the two were fused into one
// glyph run (e.g. "B-AUSWEN"). Returns the index of the token consumed as
// the username.
func resolveIdentity(tokens []string, expected string, rec *Record) int {
	if expected != "" {
		bestIdx := -1
		bestScore := 0.0
		for i, tok := range tokens {
			score := ratio(strings.ToUpper(tok), strings.ToUpper(expected))
			if s := Similarity(tok, expected); s > score {
				score = s
			}
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
			if score == 1.0 {
				break
			}
		}
		if bestIdx >= 0 && bestScore >= usernameScoreFloor {
			rec.Username = expected
			matched := strings.ToUpper(tokens[bestIdx])
			target := strings.ToUpper(expected)
			if len(matched) > len(target) {
				var rest string
				if strings.HasPrefix(matched, target) {
					rest = matched[len(target):]
				} else if strings.HasSuffix(matched, target) {
					rest = matched[:len(matched)-len(target)]
				}
				if rest != "" && gradeRE.MatchString(rest) {
					rec.Grade = rest
				}
			}
			return bestIdx
		}
	}
	rec.Username = tokens[0]
	return 0
}

type shootingPair struct {
	idx  int
	made int
	att  int
}

func setCounting(rec *Record, c []int) {
	rec.Points = c[0]
	rec.Rebounds = c[1]
	rec.Assists = c[2]
	rec.Steals = c[3]
	rec.Blocks = c[4]
	rec.Fouls = c[5]
	rec.Turnovers = c[6]
}

// parseExplicitPairs is the first strategy: slash-separated made/attempted
// tokens survived OCR. The trailing pairs (by position) are field goals,
// three-pointers and free throws; a missing trailing free-throw pair
// defaults to 0/0. The seven integers preceding the field-goal pair are the
// counting stats, extending into the gap before the three-point pair when
// too few appear up front.
func parseExplicitPairs(tokens []string, rec *Record) bool {
	var pairs []shootingPair
	for i, tok := range tokens {
		if m := pairRE.FindStringSubmatch(tok); m != nil {
			pairs = append(pairs, shootingPair{
				idx:  i,
				made: parseIntOrDefault(m[1], 0),
				att:  parseIntOrDefault(m[2], 0),
			})
		}
	}
	if len(pairs) < 2 {
		return false
	}
	if len(pairs) > 3 {
		pairs = pairs[len(pairs)-3:]
	}
	fg := pairs[0]
	tp := pairs[1]
	var ft shootingPair
	if len(pairs) == 3 {
		ft = pairs[2]
	}

	counting := make([]int, 0, 7)
	for i := 0; i < fg.idx; i++ {
		if intRE.MatchString(tokens[i]) {
			counting = append(counting, parseIntOrDefault(tokens[i], 0))
		}
	}
	if len(counting) < 7 {
		for i := fg.idx + 1; i < tp.idx && len(counting) < 7; i++ {
			if intRE.MatchString(tokens[i]) {
				counting = append(counting, parseIntOrDefault(tokens[i], 0))
			}
		}
	}
	if len(counting) != 7 {
		return false
	}
	setCounting(rec, counting)
	rec.FGM, rec.FGA = fg.made, fg.att
	rec.TPM, rec.TPA = tp.made, tp.att
	rec.FTM, rec.FTA = ft.made, ft.att
	return true
}

// parseIntegerRun is the second strategy: no reliable slash pairs survived,
// so map the plain integer run onto the fixed HUD column order.
func parseIntegerRun(tokens []string, rec *Record) bool {
	var ints []int
	for _, tok := range tokens {
		if intRE.MatchString(tok) {
			ints = append(ints, parseIntOrDefault(tok, 0))
		}
	}
	return allocateIntegerRun(ints, rec)
}

// allocateIntegerRun assigns a run of at least 13 integers: the trailing six
// are the field-goal, three-point and free-throw pairs in HUD order, the
// seven immediately before them the counting stats.
func allocateIntegerRun(ints []int, rec *Record) bool {
	if len(ints) < 13 {
		return false
	}
	tail := ints[len(ints)-6:]
	setCounting(rec, ints[len(ints)-13:len(ints)-6])
	rec.FGM, rec.FGA = tail[0], tail[1]
	rec.TPM, rec.TPA = tail[2], tail[3]
	rec.FTM, rec.FTA = tail[4], tail[5]
	return true
}

// parseDigitScan is the last-resort strategy: scan the original row text for
// digit runs, ignoring token boundaries entirely.
func parseDigitScan(rowText string, rec *Record) bool {
	var ints []int
	for _, run := range digitsRE.FindAllString(rowText, -1) {
		ints = append(ints, parseIntOrDefault(run, 0))
	}
	return allocateIntegerRun(ints, rec)
}
