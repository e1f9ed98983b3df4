package boxscore

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
)

func TestPrepareUpscalesSmallScreenshots(t *testing.T) {
	src := imaging.New(60, 30, color.NRGBA{R: 120, G: 120, B: 120, A: 255})
	// rough text-like strokes so thresholding has edges to work with
	for x := 5; x < 55; x += 4 {
		for y := 10; y < 20; y++ {
			src.SetNRGBA(x, y, color.NRGBA{R: 240, G: 240, B: 240, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("encode png: %v", err)
	}

	binarized, soft, err := Prepare(buf.Bytes())
	if err != nil {
		t.Fatalf("prepare failed: %v", err)
	}
	if binarized.Bounds() != soft.Bounds() {
		t.Fatalf("variant bounds differ: %v vs %v", binarized.Bounds(), soft.Bounds())
	}
	w, h := binarized.Bounds().Dx(), binarized.Bounds().Dy()
	min := w
	if h < min {
		min = h
	}
	if min < minSideTarget {
		t.Fatalf("min side %d below target %d after conditioning", min, minSideTarget)
	}
	for _, pt := range []struct{ x, y int }{{0, 0}, {w / 2, h / 2}, {w - 1, h - 1}} {
		px := binarized.NRGBAAt(pt.x, pt.y)
		if px.R != px.G || px.G != px.B {
			t.Fatalf("binarized pixel at (%d,%d) is not gray: %+v", pt.x, pt.y, px)
		}
		if px.R != 0 && px.R != 255 {
			t.Fatalf("binarized pixel at (%d,%d) is not bilevel: %+v", pt.x, pt.y, px)
		}
	}
}

func TestPrepareKeepsLargeScreenshotSize(t *testing.T) {
	src := imaging.New(1300, 1250, color.NRGBA{R: 90, G: 90, B: 90, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	binarized, _, err := Prepare(buf.Bytes())
	if err != nil {
		t.Fatalf("prepare failed: %v", err)
	}
	if binarized.Bounds().Dx() != 1300 || binarized.Bounds().Dy() != 1250 {
		t.Fatalf("large screenshot was resized: %v", binarized.Bounds())
	}
}

func TestPrepareRejectsGarbage(t *testing.T) {
	if _, _, err := Prepare([]byte{0x00, 0x01, 0x02}); !errors.Is(err, ErrImageDecode) {
		t.Fatalf("expected ErrImageDecode, got %v", err)
	}
	if _, _, err := Prepare(nil); !errors.Is(err, ErrImageDecode) {
		t.Fatalf("expected ErrImageDecode on empty input, got %v", err)
	}
}
