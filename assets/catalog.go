// Package assets hands out opaque animation handles by name. Frame loading
// and decoding belong to the renderer; components only keep the handle.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/lmcneill42/space-game/logger"
)

// DefaultRoot is where animation directories live.
const DefaultRoot = "res/anims"

// ErrAnimationNotFound is returned for names with no anim.txt on disk.
var ErrAnimationNotFound = errors.New("animation not found")

// Handle identifies one animation. Two requests for the same name get the
// same handle.
type Handle struct {
	ID   uint32
	Name string
}

// Loader resolves animation names to handles.
type Loader interface {
	Animation(name string) (Handle, error)
}

// Catalog is a Loader that caches handles per name.
type Catalog struct {
	root     fs.FS
	minimise bool
	log      logrus.FieldLogger

	mu      sync.Mutex
	handles map[string]Handle
	next    uint32
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithMinimiseLoading skips the on-disk check, matching the runtime
// config's minimise_image_loading flag.
func WithMinimiseLoading(on bool) CatalogOption {
	return func(c *Catalog) { c.minimise = on }
}

// WithCatalogLogger sets the logger.
func WithCatalogLogger(l logrus.FieldLogger) CatalogOption {
	return func(c *Catalog) { c.log = l }
}

// NewCatalog creates a catalog. A nil root accepts every name.
func NewCatalog(root fs.FS, opts ...CatalogOption) *Catalog {
	c := &Catalog{
		root:    root,
		log:     logger.Get(),
		handles: make(map[string]Handle),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Animation returns the handle for name, checking that
// <root>/<name>/anim.txt exists the first time it is requested.
func (c *Catalog) Animation(name string) (Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if h, ok := c.handles[name]; ok {
		return h, nil
	}

	if c.root != nil && !c.minimise {
		if _, err := fs.Stat(c.root, path.Join(name, "anim.txt")); err != nil {
			return Handle{}, fmt.Errorf("%w: %s: %v", ErrAnimationNotFound, name, err)
		}
	}

	c.next++
	h := Handle{ID: c.next, Name: name}
	c.handles[name] = h
	c.log.WithField("anim", name).Debug("Registered animation")
	return h, nil
}

// Len returns the number of distinct animations handed out.
func (c *Catalog) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.handles)
}
