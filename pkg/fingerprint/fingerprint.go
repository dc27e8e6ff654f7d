// Package fingerprint enriches indexed FileEntry records with a
// streaming content hash, an optional Simhash locality-sensitive
// signature, and a schema signature for tabular files.
package fingerprint

import (
	"context"
	"crypto/sha256"
	"io"
	"os"
	"runtime"
	"sync"

	"github.com/sdejongh/filecompare/pkg/lineutil"
	"github.com/sdejongh/filecompare/pkg/logging"
	"github.com/sdejongh/filecompare/pkg/models"
	"github.com/sdejongh/filecompare/pkg/storage"
)

// streamChunkSize bounds per-file memory during content-hash streaming.
const streamChunkSize = 16 * 1024

var bufferPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, streamChunkSize)
		return &buf
	},
}

// Fingerprinter computes fingerprints for a batch of entries in
// parallel, saturating all available cores, while preserving the
// caller's input order in its output.
type Fingerprinter struct {
	Normalization      models.TextNormalization
	MaxFingerprintSize int64
	Concurrency        int
	Logger             logging.Logger
	Observer           models.ProgressObserver

	// Backend, when set, is used to open entry content by relative path
	// instead of the entry's absolute path directly. The engine sets
	// this to the same storage.Backend used by the indexer for the
	// entries' root, so a side's files are opened through one
	// filesystem abstraction end to end.
	Backend storage.Backend
}

// New creates a Fingerprinter. Concurrency <= 0 defaults to
// runtime.GOMAXPROCS(0).
func New(normalization models.TextNormalization, maxFingerprintSize int64, concurrency int, logger logging.Logger, observer models.ProgressObserver) *Fingerprinter {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	if observer == nil {
		observer = models.NoopObserver{}
	}
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	return &Fingerprinter{
		Normalization:      normalization,
		MaxFingerprintSize: maxFingerprintSize,
		Concurrency:        concurrency,
		Logger:             logger,
		Observer:           observer,
	}
}

// Fingerprint computes fingerprints for every entry, mutating each in
// place. Entries are independent; a bounded semaphore of goroutines
// processes them concurrently. Order of the returned slice matches the
// order of the input slice regardless of completion order.
func (fp *Fingerprinter) Fingerprint(ctx context.Context, entries []models.FileEntry) []models.FileEntry {
	sem := make(chan struct{}, fp.Concurrency)
	var wg sync.WaitGroup
	var done int64
	var mu sync.Mutex

	for i := range entries {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			select {
			case <-ctx.Done():
				entries[idx].FingerprintErr = ctx.Err()
				return
			default:
			}

			if err := fp.fingerprintOne(ctx, &entries[idx]); err != nil {
				entries[idx].FingerprintErr = err
				fp.Logger.Warn(ctx, "fingerprint failed", logging.Fields{logging.FieldPath: entries[idx].AbsolutePath, "error": err.Error()})
			}

			mu.Lock()
			done++
			n := done
			mu.Unlock()
			fp.Observer.Observe(models.NewProgressEvent(models.StageFingerprinting, entries[idx].RelativePath, n, int64(len(entries))))
		}(i)
	}

	wg.Wait()
	return entries
}

func (fp *Fingerprinter) fingerprintOne(ctx context.Context, entry *models.FileEntry) error {
	f, err := fp.openEntry(ctx, entry)
	if err != nil {
		return err
	}
	defer f.Close()

	hash, err := streamHash(f)
	if err != nil {
		return err
	}
	entry.ContentHash = hash

	if entry.Type.IsTabular() && len(entry.Headers) > 0 {
		entry.SchemaSignature = SchemaSignature(entry.Headers)
	}

	if !entry.Type.IsTextLike() {
		return nil
	}
	if entry.Type == models.Spreadsheet {
		// The raw bytes of a workbook are a ZIP archive; Simhash over
		// them is meaningless, so only the schema signature applies.
		return nil
	}
	if fp.MaxFingerprintSize > 0 && entry.Size > fp.MaxFingerprintSize {
		return nil
	}

	f2, err := fp.openEntry(ctx, entry)
	if err != nil {
		return err
	}
	defer f2.Close()

	rawLines, err := lineutil.ReadLines(f2, fp.Normalization.IgnoreEOL)
	if err != nil {
		return err
	}
	normalized := NormalizeLines(rawLines, fp.Normalization)
	entry.SimHash = SimHash(normalized)
	entry.HasSimHash = true

	return nil
}

func (fp *Fingerprinter) openEntry(ctx context.Context, entry *models.FileEntry) (io.ReadCloser, error) {
	if fp.Backend != nil {
		return fp.Backend.Read(ctx, entry.RelativePath)
	}
	return os.Open(entry.AbsolutePath)
}

// streamHash computes the 32-byte SHA-256 digest over r in bounded
// chunks, using constant memory regardless of file size.
func streamHash(r io.Reader) ([]byte, error) {
	h := sha256.New()
	bufPtr := bufferPool.Get().(*[]byte)
	defer bufferPool.Put(bufPtr)
	buf := *bufPtr

	for {
		n, err := r.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	return h.Sum(nil), nil
}
