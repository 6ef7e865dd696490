package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/jdank417/GroceryBarcodeScanner/internal/config"
)

// Reloader refreshes a Store from disk on a cron schedule, optionally
// downloading the file first. A failed reload keeps the previous table.
type Reloader struct {
	store      *Store
	config     config.Catalog
	httpClient *http.Client
	cron       *cron.Cron
	log        *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewReloader creates a reloader for store
func NewReloader(store *Store, cfg config.Catalog, log *zap.Logger) *Reloader {
	ctx, cancel := context.WithCancel(context.Background())
	return &Reloader{
		store:      store,
		config:     cfg,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		cron:       cron.New(),
		log:        log,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Reload downloads (if configured) and loads the catalog, swapping it in on success.
// A failed download falls back to the file already on disk.
func (r *Reloader) Reload(ctx context.Context) error {
	var downloadErr error
	if r.config.DownloadURL != "" {
		if downloadErr = r.download(ctx); downloadErr != nil {
			r.log.Warn("Catalog download failed, loading local copy",
				zap.String("path", r.config.Path),
				zap.Error(downloadErr))
		}
	}

	c, err := Load(r.config.Path, r.config.Sheet)
	if err != nil {
		r.log.Error("Catalog reload failed, keeping current table",
			zap.String("path", r.config.Path),
			zap.Error(err))
		return errors.Join(downloadErr, err)
	}

	r.store.Replace(c)
	r.log.Info("Catalog loaded",
		zap.String("path", r.config.Path),
		zap.Int("items", c.Len()))
	return nil
}

// Start schedules periodic reloads. An empty schedule disables them.
func (r *Reloader) Start() error {
	if r.config.ReloadSchedule == "" {
		r.log.Info("Catalog reload schedule not set, periodic reload disabled")
		return nil
	}

	_, err := r.cron.AddFunc(r.config.ReloadSchedule, func() {
		_ = r.Reload(r.ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid catalog reload schedule %q: %w", r.config.ReloadSchedule, err)
	}

	r.cron.Start()
	r.log.Info("Catalog reloader started", zap.String("schedule", r.config.ReloadSchedule))
	return nil
}

// Stop cancels any in-flight reload and waits for running jobs
func (r *Reloader) Stop() {
	r.cancel()
	<-r.cron.Stop().Done()
	r.log.Info("Catalog reloader stopped")
}

// download writes the remote file next to the target and renames it into place
func (r *Reloader) download(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.config.DownloadURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build catalog request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download catalog: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download catalog: unexpected status %s", resp.Status)
	}

	dir := filepath.Dir(r.config.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".catalog-*"+filepath.Ext(r.config.Path))
	if err != nil {
		return fmt.Errorf("failed to create temp catalog file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	n, err := io.Copy(tmp, resp.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}

	if err := os.Rename(tmpName, r.config.Path); err != nil {
		return fmt.Errorf("failed to replace catalog: %w", err)
	}

	r.log.Info("Catalog downloaded",
		zap.String("path", r.config.Path),
		zap.Int64("bytes", n))
	return nil
}
