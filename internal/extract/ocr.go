package extract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg" // register jpeg decoder
	"image/png"
	"os"
	"os/exec"
	"strings"
)

// extractImage runs optical character recognition over an image. The image
// is decoded and re-encoded as RGB PNG first so the engine always sees a
// 3-channel color model, then handed to the configured tesseract binary.
func (e *Extractor) extractImage(ctx context.Context, data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("ocr: decode image: %w", err)
	}

	normalized, err := writeNormalizedImage(img)
	if err != nil {
		return "", fmt.Errorf("ocr: %w", err)
	}
	defer os.Remove(normalized)

	command := e.OCR.Command
	if command == "" {
		command = "tesseract"
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, command, normalized, "stdout")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if detail := strings.TrimSpace(stderr.String()); detail != "" {
			return "", fmt.Errorf("ocr: %s: %w", detail, err)
		}
		return "", fmt.Errorf("ocr: %w", err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// writeNormalizedImage redraws the image onto an RGBA canvas and writes it
// as a temporary PNG, returning the file path. Callers remove the file.
func writeNormalizedImage(img image.Image) (string, error) {
	bounds := img.Bounds()
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, img, bounds.Min, draw.Src)

	tmp, err := os.CreateTemp("", "ocr-*.png")
	if err != nil {
		return "", fmt.Errorf("temp image: %w", err)
	}
	if err := png.Encode(tmp, canvas); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("encode image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close temp image: %w", err)
	}
	return tmp.Name(), nil
}
