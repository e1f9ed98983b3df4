package boxscore

import (
	"fmt"
	"image"
	"os"
	"os/exec"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// LineKey identifies the block/paragraph/line cluster the OCR engine
// assigned a token to. Tokens sharing a key were recognized as one visual line.
type LineKey struct {
	Block int
	Par   int
	Line  int
}

// Token is a single recognized text fragment with its pixel bounding box.
type Token struct {
	Text string
	Box  image.Rectangle
	Line LineKey
}

// Document is the ordered token set produced by one OCR invocation over one
// image. Consumed read-only.
type Document []Token

// Options configures a single engine invocation.
type Options struct {
	Whitelist      string
	SingleLine     bool // single-line segmentation for cropped row re-scans
	PreserveSpaces bool
}

// Engine is the OCR engine contract the pipeline consumes. The pipeline
// makes at most three calls per request and never shares state between them,
// so implementations only need to be safe for sequential reuse.
type Engine interface {
	RecognizeDocument(img image.Image, opts Options) (Document, error)
	RecognizeText(img image.Image, opts Options) (string, error)
}

// TesseractEngine runs OCR through the local tesseract installation via
// gosseract.
type TesseractEngine struct{}

// NewTesseractEngine verifies the tesseract binary is reachable so callers
// can distinguish "engine missing" from per-image failures up front;
// gosseract itself only fails opaquely at recognition time.
func NewTesseractEngine() (*TesseractEngine, error) {
	if _, err := exec.LookPath("tesseract"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	return &TesseractEngine{}, nil
}

// withClient writes img to a temp PNG and hands a configured client to fn.
func (e *TesseractEngine) withClient(img image.Image, opts Options, fn func(*gosseract.Client) error) error {
	tmpFile, err := os.CreateTemp("", "boxscore-*.png")
	if err != nil {
		return fmt.Errorf("temp file: %w", err)
	}
	tmp := tmpFile.Name()
	_ = tmpFile.Close()
	defer os.Remove(tmp)
	if err := imaging.Save(img, tmp); err != nil {
		return fmt.Errorf("save temp image: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()
	_ = client.SetLanguage("eng")
	if opts.Whitelist != "" {
		_ = client.SetWhitelist(opts.Whitelist)
	}
	if opts.SingleLine {
		_ = client.SetPageSegMode(gosseract.PSM_SINGLE_LINE)
	}
	if opts.PreserveSpaces {
		_ = client.SetVariable("preserve_interword_spaces", "1")
	}
	if err := client.SetImage(tmp); err != nil {
		return fmt.Errorf("set image: %w", err)
	}
	return fn(client)
}

// RecognizeDocument returns word-level tokens with their bounding boxes and
// line membership.
func (e *TesseractEngine) RecognizeDocument(img image.Image, opts Options) (Document, error) {
	var doc Document
	err := e.withClient(img, opts, func(client *gosseract.Client) error {
		boxes, err := client.GetBoundingBoxesVerbose()
		if err != nil {
			return fmt.Errorf("bounding boxes: %w", err)
		}
		for _, b := range boxes {
			word := strings.TrimSpace(b.Word)
			if word == "" {
				continue
			}
			doc = append(doc, Token{
				Text: word,
				Box:  b.Box,
				Line: LineKey{Block: b.BlockNum, Par: b.ParNum, Line: b.LineNum},
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// RecognizeText returns the raw recognized text for img.
func (e *TesseractEngine) RecognizeText(img image.Image, opts Options) (string, error) {
	var text string
	err := e.withClient(img, opts, func(client *gosseract.Client) error {
		t, err := client.Text()
		if err != nil {
			return fmt.Errorf("ocr text: %w", err)
		}
		text = t
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}
