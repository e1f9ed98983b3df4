package boxscore

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

const (
	minSideTarget = 1200
	contrastTiles = 8
	contrastClip  = 2.0
	threshBlock   = 31
	threshBias    = 5
)

// Prepare turns raw screenshot bytes into the two OCR-ready variants: a
// binarized image for high-contrast HUDs and a soft grayscale image that
// keeps the thin glyph strokes binarization can erase. Callers try the
// binarized variant first and fall back to the grayscale one.
func Prepare(imageBytes []byte) (binarized, soft *image.NRGBA, err error) {
	src, err := imaging.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	gray := imaging.Grayscale(src)
	w := gray.Bounds().Dx()
	h := gray.Bounds().Dy()
	if minSide := math.Min(float64(w), float64(h)); minSide > 0 && minSide < minSideTarget {
		scale := math.Max(2.0, minSideTarget/minSide)
		gray = imaging.Resize(gray,
			int(math.Round(float64(w)*scale)),
			int(math.Round(float64(h)*scale)),
			imaging.CatmullRom)
	}
	gray = equalizeLocalContrast(gray, contrastTiles, contrastClip)
	soft = smoothPreservingEdges(gray)
	binarized = adaptiveThreshold(soft, threshBlock, threshBias)
	return binarized, soft, nil
}

// equalizeLocalContrast applies a clip-limited tile histogram equalization
// over a tiles x tiles grid with bilinear blending between tile mappings, so
// unevenly lit HUD regions come out comparable without blowing up noise.
func equalizeLocalContrast(img *image.NRGBA, tiles int, clipLimit float64) *image.NRGBA {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	if w < tiles || h < tiles {
		return img
	}
	tileW := (w + tiles - 1) / tiles
	tileH := (h + tiles - 1) / tiles

	luts := make([][256]uint8, tiles*tiles)
	for ty := 0; ty < tiles; ty++ {
		for tx := 0; tx < tiles; tx++ {
			x0, y0 := tx*tileW, ty*tileH
			x1, y1 := x0+tileW, y0+tileH
			if x1 > w {
				x1 = w
			}
			if y1 > h {
				y1 = h
			}
			var hist [256]int
			count := (x1 - x0) * (y1 - y0)
			if count <= 0 {
				continue
			}
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					hist[img.NRGBAAt(x, y).R]++
				}
			}
			clip := int(clipLimit * float64(count) / 256.0)
			if clip < 1 {
				clip = 1
			}
			excess := 0
			for i := 0; i < 256; i++ {
				if hist[i] > clip {
					excess += hist[i] - clip
					hist[i] = clip
				}
			}
			share := excess / 256
			lut := &luts[ty*tiles+tx]
			cum := 0
			for i := 0; i < 256; i++ {
				cum += hist[i] + share
				v := 255 * cum / (count + share*256)
				if v > 255 {
					v = 255
				}
				lut[i] = uint8(v)
			}
		}
	}

	clampTile := func(t int) int {
		if t < 0 {
			return 0
		}
		if t > tiles-1 {
			return tiles - 1
		}
		return t
	}
	out := imaging.New(w, h, color.NRGBA{255, 255, 255, 255})
	for y := 0; y < h; y++ {
		fy := (float64(y) - float64(tileH)/2) / float64(tileH)
		ty0 := int(math.Floor(fy))
		wy := fy - float64(ty0)
		ty1 := clampTile(ty0 + 1)
		ty0 = clampTile(ty0)
		for x := 0; x < w; x++ {
			fx := (float64(x) - float64(tileW)/2) / float64(tileW)
			tx0 := int(math.Floor(fx))
			wx := fx - float64(tx0)
			tx1 := clampTile(tx0 + 1)
			tx0 = clampTile(tx0)
			v := img.NRGBAAt(x, y).R
			top := (1-wx)*float64(luts[ty0*tiles+tx0][v]) + wx*float64(luts[ty0*tiles+tx1][v])
			bot := (1-wx)*float64(luts[ty1*tiles+tx0][v]) + wx*float64(luts[ty1*tiles+tx1][v])
			g := uint8(math.Round((1-wy)*top + wy*bot))
			out.SetNRGBA(x, y, color.NRGBA{g, g, g, 255})
		}
	}
	return out
}

// smoothPreservingEdges runs a 5x5 bilateral pass: compression noise is
// averaged away while strong intensity steps (glyph edges) survive, because
// neighbors far from the center intensity get near-zero weight.
func smoothPreservingEdges(img *image.NRGBA) *image.NRGBA {
	const radius = 2
	const sigmaSpace = 2.0
	const sigmaRange = 24.0
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()

	var spatial [2*radius + 1][2*radius + 1]float64
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			d2 := float64(dx*dx + dy*dy)
			spatial[dy+radius][dx+radius] = math.Exp(-d2 / (2 * sigmaSpace * sigmaSpace))
		}
	}

	out := imaging.New(w, h, color.NRGBA{255, 255, 255, 255})
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			center := float64(img.NRGBAAt(x, y).R)
			sum := 0.0
			norm := 0.0
			for dy := -radius; dy <= radius; dy++ {
				yy := y + dy
				if yy < 0 || yy >= h {
					continue
				}
				for dx := -radius; dx <= radius; dx++ {
					xx := x + dx
					if xx < 0 || xx >= w {
						continue
					}
					v := float64(img.NRGBAAt(xx, yy).R)
					d := v - center
					wgt := spatial[dy+radius][dx+radius] * math.Exp(-(d*d)/(2*sigmaRange*sigmaRange))
					sum += wgt * v
					norm += wgt
				}
			}
			g := uint8(math.Round(sum / norm))
			out.SetNRGBA(x, y, color.NRGBA{g, g, g, 255})
		}
	}
	return out
}

// adaptiveThreshold binarizes against a Gaussian-weighted local mean: a
// pixel darker than its neighborhood mean minus bias goes black. block sets
// the neighborhood size the Gaussian approximates.
func adaptiveThreshold(img *image.NRGBA, block, bias int) *image.NRGBA {
	sigma := float64(block) / 6.0
	mean := imaging.Blur(img, sigma)
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	out := imaging.New(w, h, color.NRGBA{255, 255, 255, 255})
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			th := int(mean.NRGBAAt(x, y).R) - bias
			if int(img.NRGBAAt(x, y).R) < th {
				out.SetNRGBA(x, y, color.NRGBA{0, 0, 0, 255})
			}
		}
	}
	return out
}
