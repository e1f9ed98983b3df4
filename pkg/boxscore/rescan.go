package boxscore

import (
	"image"
	"log"

	"github.com/disintegration/imaging"
)

const rescanWhitelist = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789/+- "

// Rescan crops the located row out of img, upscales it and re-OCRs it in
// single-line mode with a narrow character set. This is purely a recovery
// step; the orchestrator invokes it at most once per request and never
// speculatively.
func Rescan(img image.Image, box image.Rectangle, engine Engine) (string, error) {
	clamped := box.Intersect(img.Bounds())
	if clamped.Empty() {
		return "", nil
	}
	crop := imaging.Crop(img, clamped)
	crop = imaging.Resize(crop, int(float64(crop.Bounds().Dx())*1.6), 0, imaging.CatmullRom)
	crop = imaging.Blur(crop, 0.6)
	text, err := engine.RecognizeText(crop, Options{
		Whitelist:      rescanWhitelist,
		SingleLine:     true,
		PreserveSpaces: true,
	})
	if err != nil {
		return "", err
	}
	text = normalizeWhitespace(text)
	log.Printf("rescan: box=%v text=%q", clamped, snippet(text, 80))
	return text, nil
}
