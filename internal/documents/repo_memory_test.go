package documents

import (
	"context"
	"errors"
	"testing"
	"time"
)

func seedDoc(id, fileType string, status Status, uploaded time.Time) Document {
	return Document{
		ID:               id,
		Name:             id + "." + fileType,
		FileType:         fileType,
		FileSize:         128,
		StorageKey:       fileType + "/" + id,
		ProcessingStatus: status,
		UploadTime:       uploaded,
	}
}

func TestMemoryRepoCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	doc := seedDoc("doc-1", "pdf", StatusPending, time.Now())
	if err := repo.Create(ctx, doc); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetByID(ctx, "doc-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.StorageKey != doc.StorageKey || got.ProcessingStatus != StatusPending {
		t.Fatalf("unexpected document: %+v", got)
	}
}

func TestMemoryRepoGetMissing(t *testing.T) {
	repo := NewMemoryRepo()
	if _, err := repo.GetByID(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryRepoListFilterAndOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	base := time.Now()
	docs := []Document{
		seedDoc("old-pdf", "pdf", StatusCompleted, base.Add(-2*time.Hour)),
		seedDoc("new-pdf", "pdf", StatusPending, base),
		seedDoc("one-txt", "txt", StatusPending, base.Add(-time.Hour)),
	}
	for _, d := range docs {
		if err := repo.Create(ctx, d); err != nil {
			t.Fatalf("create %s: %v", d.ID, err)
		}
	}

	all, err := repo.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].ID != "new-pdf" || all[2].ID != "old-pdf" {
		t.Fatalf("expected newest-first order, got %+v", all)
	}

	pdfs, err := repo.List(ctx, ListFilter{FileType: "PDF"})
	if err != nil {
		t.Fatalf("list pdf: %v", err)
	}
	if len(pdfs) != 2 {
		t.Fatalf("expected 2 pdf docs, got %d", len(pdfs))
	}

	pending, err := repo.List(ctx, ListFilter{Status: StatusPending})
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending docs, got %d", len(pending))
	}

	paged, err := repo.List(ctx, ListFilter{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("list paged: %v", err)
	}
	if len(paged) != 1 || paged[0].ID != "one-txt" {
		t.Fatalf("unexpected page: %+v", paged)
	}

	empty, err := repo.List(ctx, ListFilter{Offset: 10})
	if err != nil {
		t.Fatalf("list past end: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty page, got %+v", empty)
	}
}

func TestMemoryRepoUpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	if err := repo.Create(ctx, seedDoc("doc-1", "txt", StatusPending, time.Now())); err != nil {
		t.Fatalf("create: %v", err)
	}

	text := "hello"
	if err := repo.UpdateStatus(ctx, "doc-1", StatusCompleted, &text, nil); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.GetByID(ctx, "doc-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ProcessingStatus != StatusCompleted || got.ExtractedText == nil || *got.ExtractedText != "hello" {
		t.Fatalf("unexpected document: %+v", got)
	}
	if got.ErrorMessage != nil {
		t.Fatalf("expected error message cleared, got %q", *got.ErrorMessage)
	}
}

func TestMemoryRepoUpdateStatusAfterDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	if err := repo.Create(ctx, seedDoc("doc-1", "txt", StatusProcessing, time.Now())); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Delete(ctx, "doc-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	text := "late result"
	if err := repo.UpdateStatus(ctx, "doc-1", StatusCompleted, &text, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for late write, got %v", err)
	}
	if _, err := repo.GetByID(ctx, "doc-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("document must stay deleted, got %v", err)
	}
}

func TestMemoryRepoDeleteMissing(t *testing.T) {
	repo := NewMemoryRepo()
	if err := repo.Delete(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
