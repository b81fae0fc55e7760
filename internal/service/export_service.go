package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/zoomwifi/admin-console/pkg/errors"
	"github.com/zoomwifi/admin-console/pkg/export"
	"github.com/zoomwifi/admin-console/pkg/jobs"
	"github.com/zoomwifi/admin-console/pkg/storage"
)

// Export job states.
const (
	ExportQueued    = "queued"
	ExportCompleted = "completed"
	ExportFailed    = "failed"
)

type fileStorage interface {
	Save(name string, data []byte) (string, error)
	Open(name string) (*os.File, error)
	CleanupOlderThan(maxAge time.Duration) ([]string, error)
}

type exportRecorder interface {
	ExportFinished(format, outcome string)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	Enabled    bool
	APIPrefix  string
	ResultTTL  time.Duration
	Workers    int
	MaxRetries int
}

// ExportJob is the caller-visible state of one export.
type ExportJob struct {
	ID        string     `json:"id"`
	Resource  string     `json:"resource"`
	Format    string     `json:"format"`
	Rows      int        `json:"rows"`
	Status    string     `json:"status"`
	URL       string     `json:"url,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	Error     string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

type exportPayload struct {
	Resource string
	Format   export.Format
	Dataset  export.Dataset
}

// Download is an opened export file ready to stream.
type Download struct {
	File        *os.File
	Name        string
	ContentType string
}

// ExportService renders datasets in the background and hands out signed
// download links. It only ever sees the rows it is given; callers pass the
// current page of a list controller.
type ExportService struct {
	storage fileStorage
	signer  *storage.SignedURLSigner
	metrics exportRecorder
	logger  *zap.Logger
	cfg     ExportConfig
	queue   *jobs.Queue[exportPayload]

	mu   sync.RWMutex
	jobs map[string]*ExportJob
}

// NewExportService constructs an ExportService. metrics may be nil.
func NewExportService(store fileStorage, signer *storage.SignedURLSigner, metrics exportRecorder, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	s := &ExportService{
		storage: store,
		signer:  signer,
		metrics: metrics,
		logger:  logger,
		cfg:     cfg,
		jobs:    map[string]*ExportJob{},
	}
	s.queue = jobs.NewQueue[exportPayload]("exports", s.render, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		Logger:     logger,
	})
	s.queue.OnFailure(s.fail)
	return s
}

// Enabled reports whether exports can be requested.
func (s *ExportService) Enabled() bool {
	return s != nil && s.cfg.Enabled && s.storage != nil && s.signer != nil
}

// Start launches the render workers.
func (s *ExportService) Start(ctx context.Context) {
	if s.Enabled() {
		s.queue.Start(ctx)
	}
}

// Stop waits for in-flight renders.
func (s *ExportService) Stop() {
	s.queue.Stop()
}

// Submit queues dataset for rendering in format.
func (s *ExportService) Submit(resource string, format export.Format, dataset export.Dataset) (ExportJob, error) {
	if !s.Enabled() {
		return ExportJob{}, appErrors.ErrExportDisabled
	}
	if _, err := export.RendererFor(format); err != nil {
		return ExportJob{}, appErrors.Validation(err, err.Error())
	}

	job := &ExportJob{
		ID:        uuid.NewString(),
		Resource:  resource,
		Format:    string(format),
		Rows:      len(dataset.Rows),
		Status:    ExportQueued,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	err := s.queue.Enqueue(jobs.Job[exportPayload]{
		ID:      job.ID,
		Kind:    resource,
		Payload: exportPayload{Resource: resource, Format: format, Dataset: dataset},
	})
	if err != nil {
		s.mu.Lock()
		delete(s.jobs, job.ID)
		s.mu.Unlock()
		return ExportJob{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue export")
	}
	s.logger.Info("export queued", zap.String("export_id", job.ID), zap.String("resource", resource), zap.String("format", string(format)), zap.Int("rows", job.Rows))
	return *job, nil
}

// Status returns the state of an export.
func (s *ExportService) Status(id string) (ExportJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return ExportJob{}, appErrors.Clone(appErrors.ErrNotFound, "export not found")
	}
	return *job, nil
}

// Open verifies token and opens the file it points at.
func (s *ExportService) Open(token string) (Download, error) {
	if !s.Enabled() {
		return Download{}, appErrors.ErrExportDisabled
	}
	ticket, err := s.signer.Verify(token)
	if err != nil {
		return Download{}, appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid or expired download link")
	}
	f, err := s.storage.Open(ticket.File)
	if err != nil {
		return Download{}, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export file not found")
	}
	name := ticket.File
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return Download{File: f, Name: name, ContentType: contentTypeFor(name)}, nil
}

// Cleanup removes files older than the configured result TTL.
func (s *ExportService) Cleanup() ([]string, error) {
	if !s.Enabled() {
		return nil, nil
	}
	removed, err := s.storage.CleanupOlderThan(s.cfg.ResultTTL)
	if err != nil {
		return nil, err
	}
	cutoff := time.Now().UTC().Add(-s.cfg.ResultTTL)
	s.mu.Lock()
	for id, job := range s.jobs {
		if job.CreatedAt.Before(cutoff) {
			delete(s.jobs, id)
		}
	}
	s.mu.Unlock()
	return removed, nil
}

func (s *ExportService) render(_ context.Context, job jobs.Job[exportPayload]) error {
	renderer, err := export.RendererFor(job.Payload.Format)
	if err != nil {
		return err
	}
	data, err := renderer.Render(job.Payload.Dataset)
	if err != nil {
		return fmt.Errorf("render %s: %w", job.Payload.Format, err)
	}
	name := fmt.Sprintf("%s/%s_%s_%s.%s",
		time.Now().UTC().Format("20060102"),
		sanitizeFilename(job.Payload.Resource),
		time.Now().UTC().Format("150405"),
		job.ID[:8],
		renderer.Extension(),
	)
	rel, err := s.storage.Save(name, data)
	if err != nil {
		return err
	}
	token, expiresAt, err := s.signer.Generate(job.ID, rel)
	if err != nil {
		return err
	}

	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	link := fmt.Sprintf("%s/exports/%s", prefix, token)

	s.mu.Lock()
	if record, ok := s.jobs[job.ID]; ok {
		record.Status = ExportCompleted
		record.URL = link
		record.ExpiresAt = &expiresAt
		record.Error = ""
	}
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.ExportFinished(string(job.Payload.Format), ExportCompleted)
	}
	s.logger.Info("export completed", zap.String("export_id", job.ID), zap.String("file", rel), zap.Int("bytes", len(data)))
	return nil
}

func (s *ExportService) fail(job jobs.Job[exportPayload], err error) {
	s.mu.Lock()
	if record, ok := s.jobs[job.ID]; ok {
		record.Status = ExportFailed
		record.Error = err.Error()
	}
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.ExportFinished(string(job.Payload.Format), ExportFailed)
	}
}

func contentTypeFor(name string) string {
	ext := name
	if i := strings.LastIndex(name, "."); i >= 0 {
		ext = name[i+1:]
	}
	format, err := export.ParseFormat(ext)
	if err != nil {
		return "application/octet-stream"
	}
	renderer, err := export.RendererFor(format)
	if err != nil {
		return "application/octet-stream"
	}
	return renderer.ContentType()
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "export"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".")
	result := replacer.Replace(raw)
	if len(result) > 60 {
		return result[:60]
	}
	return result
}
