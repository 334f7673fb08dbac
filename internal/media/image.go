package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

const maxLogoDimension = 512

// NormalizeLogo decodifica JPEG/PNG/WebP, reduz para no máximo
// 512px no maior lado e re-encoda em WebP.
func NormalizeLogo(r io.Reader) ([]byte, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("imagem inválida: %w", err)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > maxLogoDimension || h > maxLogoDimension {
		scale := float64(maxLogoDimension) / float64(w)
		if h > w {
			scale = float64(maxLogoDimension) / float64(h)
		}
		dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, src, &webp.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("falha ao encodar webp: %w", err)
	}
	return buf.Bytes(), nil
}
