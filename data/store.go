package data

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/lmcneill42/space-game/logger"
	"github.com/lmcneill42/space-game/metrics"
)

// DefaultRoot is where config documents live relative to the game directory.
const DefaultRoot = "res/configs"

// Loader returns parsed documents by name.
type Loader interface {
	Load(name string) (*Document, error)
}

// Store loads config documents from a filesystem and caches them by name
// for the life of the process. It is safe for concurrent use: lookups share
// a read lock and the first load of each name runs exactly once.
type Store struct {
	fsys       fs.FS
	log        logrus.FieldLogger
	extensions []string

	mu    sync.RWMutex
	docs  map[string]*Document
	group singleflight.Group
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreLogger sets the logger used for load messages.
func WithStoreLogger(l logrus.FieldLogger) StoreOption {
	return func(s *Store) { s.log = l }
}

// WithExtensions sets which file extensions Names and Preload consider
// config documents. Load accepts any name regardless.
func WithExtensions(exts ...string) StoreOption {
	return func(s *Store) { s.extensions = exts }
}

// NewStore creates a store reading from fsys.
func NewStore(fsys fs.FS, opts ...StoreOption) *Store {
	s := &Store{
		fsys:       fsys,
		log:        logger.Get(),
		extensions: []string{".txt", ".yaml", ".yml"},
		docs:       make(map[string]*Document),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewDirStore creates a store rooted at a directory on disk.
func NewDirStore(dir string, opts ...StoreOption) *Store {
	return NewStore(os.DirFS(dir), opts...)
}

// NormalizeName turns a config reference into the key used by the cache:
// slash separated, cleaned, relative to the store root.
func NormalizeName(name string) (string, error) {
	n := strings.ReplaceAll(strings.TrimSpace(name), `\`, "/")
	n = strings.TrimPrefix(path.Clean(n), "/")
	if n == "" || n == "." || !fs.ValidPath(n) {
		return "", fmt.Errorf("invalid config name %q: %w", name, fs.ErrInvalid)
	}
	return n, nil
}

// Load returns the document called name, reading and parsing it on first
// use. Later calls return the same *Document.
func (s *Store) Load(name string) (*Document, error) {
	key, err := NormalizeName(name)
	if err != nil {
		return nil, &NotFoundError{Name: name, Err: err}
	}

	s.mu.RLock()
	doc, ok := s.docs[key]
	s.mu.RUnlock()
	if ok {
		metrics.ConfigCacheHits.Inc()
		return doc, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		s.mu.RLock()
		doc, ok := s.docs[key]
		s.mu.RUnlock()
		if ok {
			return doc, nil
		}

		doc, err := s.read(key)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.docs[key] = doc
		s.mu.Unlock()
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Document), nil
}

func (s *Store) read(name string) (*Document, error) {
	s.log.WithField("config", name).Debug("Loading config")
	info, err := fs.Stat(s.fsys, name)
	if err == nil && !info.Mode().IsRegular() {
		return nil, &NotFoundError{Name: name, Err: fmt.Errorf("%s is not a file", name)}
	}
	src, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Name: name, Err: err}
		}
		return nil, fmt.Errorf("read config %s: %w", name, err)
	}
	metrics.ConfigLoads.Inc()
	return Parse(name, src)
}

// Cached reports whether name has already been loaded.
func (s *Store) Cached(name string) bool {
	key, err := NormalizeName(name)
	if err != nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.docs[key]
	return ok
}

// Reset drops every cached document. Intended for tests.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = make(map[string]*Document)
}

// Names lists every config document under the root, in lexical order.
func (s *Store) Names() ([]string, error) {
	var names []string
	err := fs.WalkDir(s.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		for _, ext := range s.extensions {
			if strings.EqualFold(path.Ext(p), ext) {
				names = append(names, p)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list configs: %w", err)
	}
	return names, nil
}

// Preload loads every listed document so later builds never touch the
// filesystem. It keeps going past failures and returns them joined.
func (s *Store) Preload() (int, error) {
	names, err := s.Names()
	if err != nil {
		return 0, err
	}
	var errs []error
	loaded := 0
	for _, name := range names {
		if _, err := s.Load(name); err != nil {
			errs = append(errs, err)
			continue
		}
		loaded++
	}
	s.log.WithField("count", loaded).Info("Preloaded configs")
	return loaded, errors.Join(errs...)
}
