package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/saturnino-fabrica-de-software/emotiondash/internal/domain"
)

const (
	csvHeader      = "emotion"
	lockRetryDelay = 10 * time.Millisecond
)

var (
	// ErrCorruptLog indicates the CSV file does not have the expected layout
	ErrCorruptLog = errors.New("emotion log is corrupt")

	// ErrEmptyEmotion indicates an attempt to store a blank label
	ErrEmptyEmotion = errors.New("emotion label is empty")
)

// CSVEmotionLog stores one label per row in a single-column CSV file.
// Access is serialized in-process by a mutex and across processes by an
// advisory lock on a sibling ".lock" file. The flock handle is shared, so it is
// only ever held by one goroutine at a time.
type CSVEmotionLog struct {
	path string
	mu   sync.Mutex
	lock *flock.Flock
}

var _ EmotionLogRepository = (*CSVEmotionLog)(nil)

func NewCSVEmotionLog(path string) *CSVEmotionLog {
	return &CSVEmotionLog{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the location of the CSV file
func (l *CSVEmotionLog) Path() string {
	return l.path
}

func (l *CSVEmotionLog) EnsureInitialized(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.ensureDir(); err != nil {
		return err
	}

	unlock, err := l.acquire(ctx, false)
	if err != nil {
		return err
	}
	defer unlock()

	f, err := l.openForAppend()
	if err != nil {
		return err
	}
	return f.Close()
}

func (l *CSVEmotionLog) Append(ctx context.Context, record domain.EmotionRecord) error {
	if strings.TrimSpace(record.Emotion) == "" {
		return ErrEmptyEmotion
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// the file may have been removed since startup
	if err := l.ensureDir(); err != nil {
		return err
	}

	unlock, err := l.acquire(ctx, false)
	if err != nil {
		return err
	}
	defer unlock()

	f, err := l.openForAppend()
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{record.Emotion}); err != nil {
		_ = f.Close()
		return fmt.Errorf("append emotion: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("append emotion: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close emotion log: %w", err)
	}
	return nil
}

func (l *CSVEmotionLog) ReadAll(ctx context.Context) ([]domain.EmotionRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	records := []domain.EmotionRecord{}

	f, err := os.Open(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return records, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open emotion log: %w", err)
	}
	defer func() { _ = f.Close() }()

	unlock, err := l.acquire(ctx, true)
	if err != nil {
		return nil, err
	}
	defer unlock()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return records, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptLog, err)
	}
	if strings.TrimPrefix(header[0], "\ufeff") != csvHeader {
		return nil, fmt.Errorf("%w: unexpected header %q", ErrCorruptLog, header[0])
	}

	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptLog, err)
		}
		records = append(records, domain.EmotionRecord{Emotion: row[0]})
	}

	return records, nil
}

func (l *CSVEmotionLog) ensureDir() error {
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create emotion log directory: %w", err)
	}
	return nil
}

// acquire takes the cross-process lock, honouring ctx while waiting
func (l *CSVEmotionLog) acquire(ctx context.Context, shared bool) (func(), error) {
	var (
		locked bool
		err    error
	)
	if shared {
		locked, err = l.lock.TryRLockContext(ctx, lockRetryDelay)
	} else {
		locked, err = l.lock.TryLockContext(ctx, lockRetryDelay)
	}
	if err != nil {
		return nil, fmt.Errorf("lock emotion log: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("lock emotion log: %s is held by another process", l.lock.Path())
	}

	return func() { _ = l.lock.Unlock() }, nil
}

// openForAppend opens the log for appending, writing the header into a new or empty file.
// A file whose last line is unterminated gets a newline first so the next row starts on its own line.
func (l *CSVEmotionLog) openForAppend() (*os.File, error) {
	f, err := os.OpenFile(l.path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open emotion log: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat emotion log: %w", err)
	}
	if size := info.Size(); size > 0 {
		last := make([]byte, 1)
		if _, err := f.ReadAt(last, size-1); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("read emotion log tail: %w", err)
		}
		if last[0] != '\n' {
			if _, err := f.Write([]byte{'\n'}); err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("terminate emotion log line: %w", err)
			}
		}
		return f, nil
	}

	w := csv.NewWriter(f)
	_ = w.Write([]string{csvHeader})
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write emotion log header: %w", err)
	}
	return f, nil
}
