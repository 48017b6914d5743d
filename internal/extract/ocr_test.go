package extract

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		img.Set(x, 4, color.Gray{Y: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestExtractImageCorruptData(t *testing.T) {
	e := &Extractor{}
	_, err := e.ExtractFromBytes(context.Background(), []byte("not an image"), "png")
	if err == nil {
		t.Fatal("expected decode error")
	}
	if !strings.Contains(err.Error(), "decode image") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExtractImageMissingEngine(t *testing.T) {
	e := &Extractor{OCR: OCRConfig{Command: "/nonexistent/tesseract"}}
	_, err := e.ExtractFromBytes(context.Background(), testPNG(t), "png")
	if err == nil {
		t.Fatal("expected error for missing engine")
	}
	if !strings.Contains(err.Error(), "ocr") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExtractImageUsesConfiguredEngine(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stub not portable")
	}

	stub := filepath.Join(t.TempDir(), "fake-tesseract")
	script := "#!/bin/sh\necho 'recognized text'\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	e := &Extractor{OCR: OCRConfig{Command: stub}}
	got, err := e.ExtractFromBytes(context.Background(), testPNG(t), "png")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != "recognized text" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestWriteNormalizedImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	path, err := writeNormalizedImage(img)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	defer os.Remove(path)

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode normalized png: %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Fatalf("bounds changed: %v", decoded.Bounds())
	}
}
