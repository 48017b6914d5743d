package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"
)

const docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

// buildDocx assembles a minimal valid docx archive around the given
// document.xml body.
func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	files := map[string]string{
		"word/document.xml":            documentXML,
		"word/_rels/document.xml.rels": docxRels,
	}
	for name, content := range files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func TestExtractDOCXParagraphs(t *testing.T) {
	documentXML := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second paragraph</w:t></w:r></w:p>
  </w:body>
</w:document>`

	e := &Extractor{}
	got, err := e.ExtractFromBytes(context.Background(), buildDocx(t, documentXML), "docx")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(got, "First paragraph") || !strings.Contains(got, "Second paragraph") {
		t.Fatalf("missing paragraph text: %q", got)
	}
	first := strings.Index(got, "First paragraph")
	second := strings.Index(got, "Second paragraph")
	if first > second {
		t.Fatalf("paragraphs out of order: %q", got)
	}
	if !strings.Contains(got, "\n") {
		t.Fatalf("expected paragraphs separated by newline: %q", got)
	}
}

func TestExtractDOCXSplitRuns(t *testing.T) {
	documentXML := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Hel</w:t></w:r><w:r><w:t>lo</w:t></w:r></w:p>
  </w:body>
</w:document>`

	e := &Extractor{}
	got, err := e.ExtractFromBytes(context.Background(), buildDocx(t, documentXML), "docx")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(got, "Hello") {
		t.Fatalf("runs within a paragraph must join without separator: %q", got)
	}
}

func TestExtractDOCXCorruptArchive(t *testing.T) {
	e := &Extractor{}
	_, err := e.ExtractFromBytes(context.Background(), []byte("this is not a zip"), "docx")
	if err == nil {
		t.Fatal("expected error for corrupt archive")
	}
	if !strings.Contains(err.Error(), "docx extract") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExtractDOCXEmptyPayload(t *testing.T) {
	e := &Extractor{}
	if _, err := e.ExtractFromBytes(context.Background(), nil, "docx"); err == nil {
		t.Fatal("expected error for empty payload")
	}
}

func TestParagraphText(t *testing.T) {
	raw := `<w:document xmlns:w="ns"><w:body><w:p><w:r><w:t>a</w:t></w:r></w:p><w:p><w:r><w:t>b</w:t><w:br/><w:t>c</w:t></w:r></w:p></w:body></w:document>`
	got, err := paragraphText(raw)
	if err != nil {
		t.Fatalf("paragraphText: %v", err)
	}
	if got != "a\nb\nc" {
		t.Fatalf("unexpected text: %q", got)
	}
}
