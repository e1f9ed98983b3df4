package boxscore

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
)

// fakeEngine feeds canned documents per RecognizeDocument call and a canned
// re-scan result, so pipeline control flow is testable without tesseract.
type fakeEngine struct {
	docs       []Document
	docCalls   int
	rescanText string
	rescanErr  error
	textCalls  int
}

func (f *fakeEngine) RecognizeDocument(img image.Image, opts Options) (Document, error) {
	i := f.docCalls
	if i >= len(f.docs) {
		i = len(f.docs) - 1
	}
	f.docCalls++
	if i < 0 {
		return nil, nil
	}
	return f.docs[i], nil
}

func (f *fakeEngine) RecognizeText(img image.Image, opts Options) (string, error) {
	f.textCalls++
	return f.rescanText, f.rescanErr
}

func screenshotBytes(t *testing.T) []byte {
	t.Helper()
	img := imaging.New(16, 16, color.NRGBA{R: 40, G: 40, B: 40, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func rowDoc(cells []string, y int, line LineKey) Document {
	doc := make(Document, 0, len(cells))
	for i, c := range cells {
		doc = append(doc, tk(c, i*90, y, line))
	}
	return doc
}

var fullRow = []string{"AUSWEN", "A", "21", "5", "11", "2", "0", "4", "0", "9/16", "2/2", "1/2"}

func checkAuswenRecord(t *testing.T, rec Record) {
	t.Helper()
	if rec.Username != "AUSWEN" || rec.Grade != "A" {
		t.Fatalf("identity mismatch: %+v", rec)
	}
	if rec.Points != 21 || rec.Rebounds != 5 || rec.Assists != 11 || rec.Steals != 2 ||
		rec.Blocks != 0 || rec.Fouls != 4 || rec.Turnovers != 0 {
		t.Fatalf("counting stats mismatch: %+v", rec)
	}
	if rec.FGM != 9 || rec.FGA != 16 || rec.TPM != 2 || rec.TPA != 2 || rec.FTM != 1 || rec.FTA != 2 {
		t.Fatalf("shooting stats mismatch: %+v", rec)
	}
}

func TestPipelineHappyPath(t *testing.T) {
	eng := &fakeEngine{docs: []Document{rowDoc(fullRow, 50, LineKey{1, 1, 2})}}
	p := NewPipeline(eng)
	rec, err := p.ExtractPlayerStats(screenshotBytes(t), "AUSWEN")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	checkAuswenRecord(t, rec)
	if eng.docCalls != 1 {
		t.Fatalf("expected 1 document pass, got %d", eng.docCalls)
	}
	if eng.textCalls != 0 {
		t.Fatalf("unexpected re-scan: %d text calls", eng.textCalls)
	}
}

func TestPipelineFallsBackToSecondVariant(t *testing.T) {
	eng := &fakeEngine{docs: []Document{
		{}, // binarization ate the row
		rowDoc(fullRow, 50, LineKey{1, 1, 2}),
	}}
	p := NewPipeline(eng)
	rec, diag, err := p.ExtractPlayerStatsDebug(screenshotBytes(t), "AUSWEN")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	checkAuswenRecord(t, rec)
	if eng.docCalls != 2 {
		t.Fatalf("expected both variants tried, got %d passes", eng.docCalls)
	}
	if diag.Variant != "grayscale" {
		t.Fatalf("expected grayscale variant, got %q", diag.Variant)
	}
}

func TestPipelineRescanRecoversTruncatedRow(t *testing.T) {
	eng := &fakeEngine{
		docs:       []Document{rowDoc([]string{"AUSWEN", "A", "21"}, 50, LineKey{1, 1, 2})},
		rescanText: "AUSWEN A 21 5 11 2 0 4 0 9/16 2/2 1/2",
	}
	p := NewPipeline(eng)
	rec, diag, err := p.ExtractPlayerStatsDebug(screenshotBytes(t), "AUSWEN")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	checkAuswenRecord(t, rec)
	if eng.textCalls != 1 {
		t.Fatalf("expected one re-scan, got %d", eng.textCalls)
	}
	if diag.Rescan != eng.rescanText {
		t.Fatalf("diagnostics missing re-scan text: %+v", diag)
	}
}

func TestPipelineRescanFailureSurfacesParseError(t *testing.T) {
	eng := &fakeEngine{
		docs:      []Document{rowDoc([]string{"AUSWEN", "A", "21"}, 50, LineKey{1, 1, 2})},
		rescanErr: errors.New("engine crashed"),
	}
	p := NewPipeline(eng)
	_, err := p.ExtractPlayerStats(screenshotBytes(t), "AUSWEN")
	if !errors.Is(err, ErrStatsParse) {
		t.Fatalf("expected original parse error, got %v", err)
	}
}

func TestPipelineRescanStillUnparseable(t *testing.T) {
	eng := &fakeEngine{
		docs:       []Document{rowDoc([]string{"AUSWEN", "A", "21"}, 50, LineKey{1, 1, 2})},
		rescanText: "AUSWEN A 21 5",
	}
	p := NewPipeline(eng)
	_, err := p.ExtractPlayerStats(screenshotBytes(t), "AUSWEN")
	if !errors.Is(err, ErrStatsParse) {
		t.Fatalf("expected parse error after failed recovery, got %v", err)
	}
	if eng.textCalls != 1 {
		t.Fatalf("expected exactly one re-scan, got %d", eng.textCalls)
	}
}

func TestPipelineUsernameNotFound(t *testing.T) {
	eng := &fakeEngine{docs: []Document{
		rowDoc([]string{"OTHERGUY", "B", "10"}, 50, LineKey{1, 1, 2}),
	}}
	p := NewPipeline(eng)
	_, err := p.ExtractPlayerStats(screenshotBytes(t), "AUSWEN")
	if !errors.Is(err, ErrUsernameNotFound) {
		t.Fatalf("expected ErrUsernameNotFound, got %v", err)
	}
	if eng.docCalls != 2 {
		t.Fatalf("expected both variants tried, got %d", eng.docCalls)
	}
}

func TestPipelineRejectsUndecodableBytes(t *testing.T) {
	eng := &fakeEngine{}
	p := NewPipeline(eng)
	_, err := p.ExtractPlayerStats([]byte("not an image"), "AUSWEN")
	if !errors.Is(err, ErrImageDecode) {
		t.Fatalf("expected ErrImageDecode, got %v", err)
	}
	if eng.docCalls != 0 {
		t.Fatalf("engine must not run on decode failure, got %d calls", eng.docCalls)
	}
}
