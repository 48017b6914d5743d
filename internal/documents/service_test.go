package documents

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"document-backend/internal/shared/storage/object/local"
)

type recordingSubmitter struct {
	mu  sync.Mutex
	ids []string
}

func (r *recordingSubmitter) Submit(documentID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, documentID)
}

func (r *recordingSubmitter) submitted() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

func newTestService(t *testing.T) (*Service, *MemoryRepo, *recordingSubmitter) {
	t.Helper()
	repo := NewMemoryRepo()
	jobs := &recordingSubmitter{}
	svc := &Service{
		Store:        local.New(t.TempDir()),
		Repo:         repo,
		Jobs:         jobs,
		MaxFileSize:  1024,
		AllowedTypes: []string{"pdf", "docx", "txt", "jpg", "jpeg", "png"},
	}
	return svc, repo, jobs
}

func TestServiceUpload(t *testing.T) {
	ctx := context.Background()
	svc, repo, jobs := newTestService(t)

	body := "hello world"
	doc, violations, err := svc.Upload(ctx, UploadInput{
		Name:     "greeting",
		FileName: "hello.txt",
		Size:     int64(len(body)),
		Body:     strings.NewReader(body),
	})
	if err != nil {
		t.Fatalf("upload: %v (violations %v)", err, violations)
	}
	if doc.ID == "" || doc.Name != "greeting" || doc.FileType != "txt" {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if doc.FileSize != int64(len(body)) {
		t.Fatalf("file size must come from stored bytes, got %d", doc.FileSize)
	}
	if doc.ProcessingStatus != StatusPending {
		t.Fatalf("new documents start pending, got %s", doc.ProcessingStatus)
	}

	stored, err := repo.GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("record missing after upload: %v", err)
	}
	if stored.StorageKey == "" {
		t.Fatal("expected a storage key on the record")
	}

	if got := jobs.submitted(); len(got) != 1 || got[0] != doc.ID {
		t.Fatalf("expected one job for %s, got %v", doc.ID, got)
	}
}

func TestServiceUploadDefaultsNameToFileName(t *testing.T) {
	svc, _, _ := newTestService(t)

	doc, _, err := svc.Upload(context.Background(), UploadInput{
		FileName: "notes.txt",
		Size:     5,
		Body:     strings.NewReader("notes"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if doc.Name != "notes.txt" {
		t.Fatalf("expected name to default to file name, got %q", doc.Name)
	}
}

func TestServiceUploadRejectsInvalidFile(t *testing.T) {
	ctx := context.Background()
	svc, repo, jobs := newTestService(t)

	_, violations, err := svc.Upload(ctx, UploadInput{
		FileName: "virus.exe",
		Size:     4096,
		Body:     strings.NewReader("x"),
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(violations) != 2 {
		t.Fatalf("expected size and type violations, got %v", violations)
	}

	docs, err := repo.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("rejected upload must not create records, got %+v", docs)
	}
	if got := jobs.submitted(); len(got) != 0 {
		t.Fatalf("rejected upload must not submit jobs, got %v", got)
	}
}

func TestServiceUploadMissingInput(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, _, err := svc.Upload(context.Background(), UploadInput{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestServiceUploadBatchAllOrNothing(t *testing.T) {
	ctx := context.Background()
	svc, repo, jobs := newTestService(t)

	_, violations, err := svc.UploadBatch(ctx, []UploadInput{
		{FileName: "ok.txt", Size: 2, Body: strings.NewReader("ok")},
		{FileName: "bad.exe", Size: 2, Body: strings.NewReader("no")},
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(violations) != 1 || !strings.Contains(violations[0], "file 'bad.exe'") {
		t.Fatalf("expected per-file violation prefix, got %v", violations)
	}

	docs, err := repo.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("one bad file must reject the whole batch, got %+v", docs)
	}
	if got := jobs.submitted(); len(got) != 0 {
		t.Fatalf("no jobs expected, got %v", got)
	}
}

func TestServiceUploadBatchAdmitsAll(t *testing.T) {
	ctx := context.Background()
	svc, _, jobs := newTestService(t)

	docs, violations, err := svc.UploadBatch(ctx, []UploadInput{
		{FileName: "a.txt", Size: 1, Body: strings.NewReader("a")},
		{FileName: "b.txt", Size: 1, Body: strings.NewReader("b")},
		{FileName: "c.txt", Size: 1, Body: strings.NewReader("c")},
	})
	if err != nil {
		t.Fatalf("batch: %v (violations %v)", err, violations)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}
	if got := jobs.submitted(); len(got) != 3 {
		t.Fatalf("expected 3 jobs, got %v", got)
	}
}

func TestServiceUploadBatchTooManyFiles(t *testing.T) {
	svc, _, _ := newTestService(t)

	files := make([]UploadInput, maxBatchFiles+1)
	for i := range files {
		files[i] = UploadInput{FileName: "f.txt", Size: 1, Body: strings.NewReader("x")}
	}
	if _, _, err := svc.UploadBatch(context.Background(), files); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestServiceOpenRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	body := "original bytes"
	doc, _, err := svc.Upload(ctx, UploadInput{
		FileName: "data.txt",
		Size:     int64(len(body)),
		Body:     strings.NewReader(body),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	got, rc, err := svc.Open(ctx, doc.ID)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != body {
		t.Fatalf("download must return original bytes, got %q", data)
	}
	if got.ID != doc.ID {
		t.Fatalf("unexpected document: %+v", got)
	}
}

func TestServiceDelete(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)

	doc, _, err := svc.Upload(ctx, UploadInput{
		FileName: "gone.txt",
		Size:     4,
		Body:     strings.NewReader("gone"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if err := svc.Delete(ctx, doc.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, doc.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("record must be gone, got %v", err)
	}
	if _, _, err := svc.Open(ctx, doc.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("bytes must be unreachable after delete, got %v", err)
	}

	if err := svc.Delete(ctx, doc.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete must report ErrNotFound, got %v", err)
	}
}
