package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/bft-labs/telemship/internal/domain"
)

const batchExt = ".batch"

// DefaultMaxFiles bounds the number of batch files kept in the spool
// directory. Writes beyond the bound are refused rather than evicting
// pending telemetry.
const DefaultMaxFiles = 50

// Spool implements ports.Queue over a directory of batch files. Each batch
// is one file holding an already-serialized payload. Claims are tracked in
// memory only: after a restart every batch file is available again.
type Spool struct {
	dir      string
	maxFiles int

	mu      sync.Mutex
	claimed map[string]struct{}
	seq     uint64
}

// NewSpool creates a spool over dir, creating the directory if needed.
// maxFiles bounds the spool size; non-positive values fall back to
// DefaultMaxFiles.
func NewSpool(dir string, maxFiles int) (*Spool, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create spool dir: %w", err)
	}
	if maxFiles <= 0 {
		maxFiles = DefaultMaxFiles
	}
	return &Spool{
		dir:      dir,
		maxFiles: maxFiles,
		claimed:  make(map[string]struct{}),
	}, nil
}

// Dir returns the spool directory.
func (s *Spool) Dir() string {
	return s.dir
}

// Write persists a new batch payload as a uniquely named file and returns
// its handle. Returns domain.ErrSpoolFull when the spool already holds the
// maximum number of batch files.
func (s *Spool) Write(payload string) (domain.Handle, error) {
	names, err := s.list()
	if err != nil {
		return "", err
	}
	if len(names) >= s.maxFiles {
		return "", domain.ErrSpoolFull
	}

	s.mu.Lock()
	s.seq++
	name := fmt.Sprintf("%d-%d%s", time.Now().UnixNano(), s.seq, batchExt)
	s.mu.Unlock()

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"

	// Write to a temp file first so a partially written batch never becomes
	// visible to NextAvailable.
	if err := os.WriteFile(tmp, []byte(payload), 0o600); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", err
	}

	return domain.Handle(path), nil
}

// NextAvailable claims the oldest unclaimed batch file.
func (s *Spool) NextAvailable() (domain.Handle, bool) {
	names, err := s.list()
	if err != nil {
		return "", false
	}
	sort.Strings(names)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range names {
		if _, taken := s.claimed[name]; taken {
			continue
		}
		s.claimed[name] = struct{}{}
		return domain.Handle(filepath.Join(s.dir, name)), true
	}
	return "", false
}

// Load reads the payload for a claimed batch.
func (s *Spool) Load(h domain.Handle) (string, error) {
	data, err := os.ReadFile(string(h))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Delete removes a batch file permanently and releases its claim.
// Deleting a batch that no longer exists is not an error.
func (s *Spool) Delete(h domain.Handle) error {
	s.release(h)
	if err := os.Remove(string(h)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MakeAvailable returns a claimed batch to the available pool.
func (s *Spool) MakeAvailable(h domain.Handle) error {
	s.release(h)
	return nil
}

// Pending returns the number of batch files currently in the spool,
// claimed or not.
func (s *Spool) Pending() int {
	names, err := s.list()
	if err != nil {
		return 0
	}
	return len(names)
}

func (s *Spool) release(h domain.Handle) {
	s.mu.Lock()
	delete(s.claimed, filepath.Base(string(h)))
	s.mu.Unlock()
}

// list returns the batch file names in the spool directory.
func (s *Spool) list() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != batchExt {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}
