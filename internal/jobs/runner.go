// Package jobs runs document text extraction off the request path. A fixed
// pool of workers drains a bounded queue of document IDs; each job owns its
// document's transitions for the duration of the attempt.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"document-backend/internal/documents"
	"document-backend/internal/extract"
	"document-backend/internal/shared/telemetry"
)

// Runner schedules extraction jobs on a bounded worker pool.
type Runner struct {
	repo        documents.Repo
	extractor   *extract.Extractor
	queue       chan string
	concurrency int

	wg       sync.WaitGroup
	stopOnce sync.Once
	stop     chan struct{}

	locksMu sync.Mutex
	locks   map[string]*docLock
}

// docLock serializes status writes for one document ID. The refcount lets
// the runner drop the map entry once the last holder releases, so the map
// tracks in-flight documents only.
type docLock struct {
	mu   sync.Mutex
	refs int
}

// NewRunner constructs a Runner. concurrency bounds parallel extractions;
// queueSize bounds how many submissions may wait.
func NewRunner(repo documents.Repo, extractor *extract.Extractor, concurrency, queueSize int) *Runner {
	if concurrency <= 0 {
		concurrency = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	return &Runner{
		repo:        repo,
		extractor:   extractor,
		queue:       make(chan string, queueSize),
		concurrency: concurrency,
		stop:        make(chan struct{}),
		locks:       make(map[string]*docLock),
	}
}

// Start launches the worker goroutines.
func (r *Runner) Start(ctx context.Context) {
	for i := 0; i < r.concurrency; i++ {
		r.wg.Add(1)
		go r.work(ctx)
	}
	telemetry.Info("jobs.runner_started", map[string]any{
		"concurrency": r.concurrency,
		"queue_size":  cap(r.queue),
	})
}

// Stop shuts the pool down and waits for in-flight jobs to finish.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
	r.wg.Wait()
}

// Submit enqueues one extraction attempt for the document and returns
// without waiting for it to run. Blocks only when the queue is full.
func (r *Runner) Submit(documentID string) {
	select {
	case r.queue <- documentID:
	case <-r.stop:
		telemetry.Warn("jobs.submit_after_stop", map[string]any{"document_id": documentID})
	}
}

func (r *Runner) work(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case <-r.stop:
			return
		case <-ctx.Done():
			return
		case documentID := <-r.queue:
			r.process(ctx, documentID)
		}
	}
}

// process runs one extraction attempt. All transitions for the document are
// serialized behind a per-ID mutex, and every persist tolerates the record
// having been deleted mid-run: the missing row is the tombstone and the
// write is dropped.
func (r *Runner) process(ctx context.Context, documentID string) {
	lock := r.acquireLock(documentID)
	defer r.releaseLock(documentID, lock)

	defer func() {
		if rec := recover(); rec != nil {
			r.persistFailure(ctx, documentID, fmt.Errorf("panic: %v", rec))
		}
	}()

	doc, err := r.repo.GetByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			telemetry.Info("job.document_gone", map[string]any{"document_id": documentID})
			return
		}
		telemetry.Error("job.lookup_failed", map[string]any{
			"document_id": documentID,
			"err":         err.Error(),
		})
		return
	}

	if !doc.ProcessingStatus.CanTransitionTo(documents.StatusProcessing) {
		telemetry.Warn("job.skip_status", map[string]any{
			"document_id": documentID,
			"status":      string(doc.ProcessingStatus),
		})
		return
	}

	if err := r.repo.UpdateStatus(ctx, documentID, documents.StatusProcessing, nil, nil); err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			telemetry.Info("job.document_gone", map[string]any{"document_id": documentID})
			return
		}
		telemetry.Error("job.set_processing_failed", map[string]any{
			"document_id": documentID,
			"err":         err.Error(),
		})
		return
	}

	text, err := r.extractor.Extract(ctx, doc.StorageKey, doc.FileType)
	if err != nil {
		r.persistFailure(ctx, documentID, err)
		return
	}

	if err := r.repo.UpdateStatus(ctx, documentID, documents.StatusCompleted, &text, nil); err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			telemetry.Info("job.document_gone", map[string]any{"document_id": documentID})
			return
		}
		telemetry.Error("job.persist_failed", map[string]any{
			"document_id": documentID,
			"err":         err.Error(),
		})
		return
	}

	telemetry.Info("job.completed", map[string]any{
		"document_id": documentID,
		"file_type":   doc.FileType,
		"text_len":    len(text),
	})
}

func (r *Runner) persistFailure(ctx context.Context, documentID string, cause error) {
	msg := cause.Error()
	if err := r.repo.UpdateStatus(ctx, documentID, documents.StatusFailed, nil, &msg); err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			telemetry.Info("job.document_gone", map[string]any{"document_id": documentID})
			return
		}
		telemetry.Error("job.persist_failed", map[string]any{
			"document_id": documentID,
			"err":         err.Error(),
		})
		return
	}
	telemetry.Error("job.failed", map[string]any{
		"document_id": documentID,
		"err":         msg,
	})
}

func (r *Runner) acquireLock(documentID string) *docLock {
	r.locksMu.Lock()
	lock, ok := r.locks[documentID]
	if !ok {
		lock = &docLock{}
		r.locks[documentID] = lock
	}
	lock.refs++
	r.locksMu.Unlock()

	lock.mu.Lock()
	return lock
}

func (r *Runner) releaseLock(documentID string, lock *docLock) {
	lock.mu.Unlock()

	r.locksMu.Lock()
	lock.refs--
	if lock.refs == 0 {
		delete(r.locks, documentID)
	}
	r.locksMu.Unlock()
}

var _ documents.JobSubmitter = (*Runner)(nil)
