// Package watcher hands PDFs dropped into a directory to a flow.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/futig/pdfqa/internal/entity"
	"github.com/futig/pdfqa/internal/usecase/flow"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	pdfExtension = ".pdf"

	// defaultSettle is how long a file must stay quiet before it is read.
	defaultSettle = 500 * time.Millisecond
)

// Flow is the part of flow.Flow the watcher drives.
type Flow interface {
	SelectFile(ctx context.Context, file *entity.UploadFile) error
	Reset(ctx context.Context)
	View() flow.View
}

type Option func(*Watcher)

// WithSettle overrides the quiet period before a new file is uploaded.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) {
		w.settle = d
	}
}

// Watcher uploads every PDF created in (or moved into) a directory,
// replacing the document currently loaded in the flow.
type Watcher struct {
	watcher *fsnotify.Watcher
	dir     string
	flow    Flow
	settle  time.Duration
	logger  *zap.Logger
}

func New(dir string, f Flow, logger *zap.Logger, opts ...Option) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat watch dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch dir %s is not a directory", dir)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{
		watcher: fw,
		dir:     dir,
		flow:    f,
		settle:  defaultSettle,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Run processes events until ctx is done. Files are handled one at a time.
func (w *Watcher) Run(ctx context.Context) error {
	ctx = ctxzap.ToContext(ctx, w.logger.With(zap.String("watch_dir", w.dir)))
	defer w.watcher.Close()

	ctxzap.Info(ctx, "watching directory for PDFs")

	pending := make(map[string]*time.Timer)
	ready := make(chan string)

	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !isPDF(event.Name) || (!event.Has(fsnotify.Create) && !event.Has(fsnotify.Write)) {
				continue
			}

			// Writes restart the quiet period so partially copied files are not read.
			path := event.Name
			if t, exists := pending[path]; exists {
				t.Reset(w.settle)
				continue
			}
			pending[path] = time.AfterFunc(w.settle, func() {
				select {
				case ready <- path:
				case <-ctx.Done():
				}
			})

		case path := <-ready:
			if _, exists := pending[path]; !exists {
				continue
			}
			delete(pending, path)
			w.handle(ctx, path)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			ctxzap.Error(ctx, "watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handle(ctx context.Context, path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		// Moved away or deleted before it settled.
		ctxzap.Warn(ctx, "failed to read dropped file", zap.String("path", path), zap.Error(err))
		return
	}

	if v := w.flow.View(); v.State != flow.StateNoDocument || v.Loading {
		w.flow.Reset(ctx)
	}

	name := filepath.Base(path)
	ctxzap.Info(ctx, "uploading dropped file", zap.String("filename", name))

	if err := w.flow.SelectFile(ctx, entity.NewUploadFile(name, content)); err != nil {
		ctxzap.Warn(ctx, "dropped file not loaded", zap.String("filename", name), zap.Error(err))
	}
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), pdfExtension)
}
