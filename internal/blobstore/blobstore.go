package blobstore

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Blob is a staged upload. The path stays valid until Release is called; the
// document that references it owns the release.
type Blob struct {
	Path     string
	Size     int64
	MimeType string
}

// Store stages uploaded document files on local disk. Blobs are written under
// a per-process temp directory and reclaimed explicitly, not by a sweeper: a
// blob with no owner left to release it leaks until the directory is purged.
type Store struct {
	mu   sync.Mutex
	dir  string
	held map[string]struct{}
}

var allowedMimeTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"application/pdf": {},
	"application/xml": {},
	"text/xml":        {},
	"text/plain":      {},
}

func New(dir string) (*Store, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "onboard_uploads")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating blob directory")
	}
	return &Store{dir: dir, held: make(map[string]struct{})}, nil
}

// Put stages the reader's contents and returns the blob. The MIME type is
// detected from the filename extension first, falling back to sniffing the
// leading bytes.
func (s *Store) Put(reader io.Reader, filename string) (*Blob, error) {
	prefix := fmt.Sprintf("%s_", sanitize(filepath.Base(filename)))
	file, err := os.CreateTemp(s.dir, prefix)
	if err != nil {
		return nil, errors.Wrap(err, "creating blob file")
	}

	size, err := io.Copy(file, reader)
	if err != nil {
		file.Close()
		_ = os.Remove(file.Name())
		return nil, errors.Wrap(err, "writing blob")
	}

	mimeType, err := detectMimeType(file, filename)
	if err != nil {
		file.Close()
		_ = os.Remove(file.Name())
		return nil, err
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(file.Name())
		return nil, errors.Wrap(err, "closing blob file")
	}

	if _, ok := allowedMimeTypes[mimeType]; !ok {
		_ = os.Remove(file.Name())
		return nil, errors.Errorf("unsupported document type: %s", mimeType)
	}

	s.mu.Lock()
	s.held[file.Name()] = struct{}{}
	s.mu.Unlock()

	return &Blob{Path: file.Name(), Size: size, MimeType: mimeType}, nil
}

// Release removes a staged blob. Releasing an unknown or already-released
// path is a no-op.
func (s *Store) Release(path string) {
	s.mu.Lock()
	_, ok := s.held[path]
	delete(s.held, path)
	s.mu.Unlock()
	if ok {
		_ = os.Remove(path)
	}
}

// Held reports how many blobs are currently staged.
func (s *Store) Held() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.held)
}

// Purge releases every staged blob. Used at shutdown.
func (s *Store) Purge() {
	s.mu.Lock()
	paths := make([]string, 0, len(s.held))
	for p := range s.held {
		paths = append(paths, p)
	}
	s.held = make(map[string]struct{})
	s.mu.Unlock()
	for _, p := range paths {
		_ = os.Remove(p)
	}
}

func detectMimeType(file *os.File, filename string) (string, error) {
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); byExt != "" {
		if i := strings.Index(byExt, ";"); i >= 0 {
			byExt = byExt[:i]
		}
		return byExt, nil
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", errors.Wrap(err, "seeking blob file")
	}
	header := make([]byte, 512)
	n, err := file.Read(header)
	if err != nil && err != io.EOF {
		return "", errors.Wrap(err, "reading blob header")
	}
	return http.DetectContentType(header[:n]), nil
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
