// Package index implements the directory walk, exclude-pattern filtering,
// and type classification described for the Indexer component.
package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sdejongh/filecompare/internal/platform"
	"github.com/sdejongh/filecompare/pkg/logging"
	"github.com/sdejongh/filecompare/pkg/models"
	"github.com/sdejongh/filecompare/pkg/storage"
)

// Indexer walks a root path and produces an ordered, deduplicated list
// of FileEntry records.
type Indexer struct {
	ExcludePatterns []string
	Logger          logging.Logger
	Observer        models.ProgressObserver
}

// New creates an Indexer. A nil logger or observer is replaced with a
// no-op implementation.
func New(excludePatterns []string, logger logging.Logger, observer models.ProgressObserver) *Indexer {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	if observer == nil {
		observer = models.NoopObserver{}
	}
	return &Indexer{ExcludePatterns: excludePatterns, Logger: logger, Observer: observer}
}

// Index produces the ordered entry list for a single root. If root is a
// file, a single entry is emitted; if a directory, it is walked
// recursively. Root-level errors (missing root, permission denied at
// root) are fatal; individual file failures are skipped with a warning.
func (ix *Indexer) Index(ctx context.Context, root string) ([]models.FileEntry, error) {
	if err := platform.ValidatePath(root); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrRootNotFound, err)
	}

	absRoot, err := filepath.Abs(platform.NormalizePath(root))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrRootNotFound, root, err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", models.ErrRootNotFound, absRoot)
		}
		return nil, fmt.Errorf("%w: %s: %v", models.ErrRootUnreadable, absRoot, err)
	}

	if !info.IsDir() {
		f, err := os.Open(absRoot)
		if err != nil {
			ix.Logger.Warn(ctx, "failed to open root file", logging.Fields{logging.FieldPath: absRoot, "error": err.Error()})
			return nil, nil
		}
		defer f.Close()

		c, err := classify(f, absRoot)
		if err != nil {
			ix.Logger.Warn(ctx, "failed to classify root file", logging.Fields{logging.FieldPath: absRoot, "error": err.Error()})
			return nil, nil
		}
		return []models.FileEntry{{
			AbsolutePath: absRoot,
			RelativePath: filepath.ToSlash(filepath.Base(absRoot)),
			Size:         info.Size(),
			Type:         c.fileType,
			Delimiter:    c.delimiter,
			Headers:      c.headers,
		}}, nil
	}

	backend, err := storage.NewLocal(absRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrRootUnreadable, absRoot, err)
	}
	defer backend.Close()

	infos, err := backend.List(ctx, ".")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrRootUnreadable, absRoot, err)
	}

	var entries []models.FileEntry
	var count int64

	for _, fi := range infos {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if fi.IsDir {
			continue
		}

		relPath := filepath.ToSlash(fi.RelativePath)
		if shouldExclude(relPath, ix.ExcludePatterns) {
			continue
		}

		entry, err := ix.classifyFromBackend(ctx, backend, fi, relPath)
		if err != nil {
			ix.Logger.Warn(ctx, "skipping file that failed classification", logging.Fields{logging.FieldPath: fi.Path, "error": err.Error()})
			continue
		}

		entries = append(entries, entry)
		count++
		ix.Observer.Observe(models.NewProgressEvent(models.StageIndexing, relPath, count, 0))
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].RelativePath < entries[j].RelativePath
	})

	return entries, nil
}

func (ix *Indexer) classifyFromBackend(ctx context.Context, backend storage.Backend, fi storage.FileInfo, relPath string) (models.FileEntry, error) {
	rc, err := backend.Read(ctx, relPath)
	if err != nil {
		return models.FileEntry{}, err
	}
	defer rc.Close()

	c, err := classify(rc, fi.Path)
	if err != nil {
		return models.FileEntry{}, err
	}

	return models.FileEntry{
		AbsolutePath: fi.Path,
		RelativePath: relPath,
		Size:         fi.Size,
		Type:         c.fileType,
		Delimiter:    c.delimiter,
		Headers:      c.headers,
	}, nil
}
