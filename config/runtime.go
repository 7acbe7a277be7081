package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/lmcneill42/space-game/data"
)

const (
	// BaseConfig is the runtime config shipped in the config root
	BaseConfig = "base_config.txt"
	// LocalConfig, when it exists in the working directory, replaces
	// BaseConfig
	LocalConfig = "config.txt"

	DefaultRenderer = "ebiten.Renderer"
)

// Runtime holds the settings the bootstrap reads before anything is built
type Runtime struct {
	ScreenWidth          int
	ScreenHeight         int
	Debug                bool
	MinimiseImageLoading bool
	Renderer             string
	MetricsAddr          string

	// Source is the config the settings came from
	Source string
}

// Default returns the settings used for anything a config leaves out
func Default() *Runtime {
	return &Runtime{
		ScreenWidth:  DefaultScreenWidth,
		ScreenHeight: DefaultScreenHeight,
		Renderer:     DefaultRenderer,
	}
}

// Load resolves the runtime config called name from the config root.
func Load(resolver *data.Resolver, name string) (*Runtime, error) {
	res, err := resolver.ResolveName(name)
	if err != nil {
		return nil, fmt.Errorf("runtime config: %w", err)
	}
	return decode(res)
}

// LoadFile reads a runtime config from a path outside the config root.
// Its derive_from still names configs in the root.
func LoadFile(resolver *data.Resolver, path string) (*Runtime, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("runtime config: %w", err)
	}
	doc, err := data.Parse(path, src)
	if err != nil {
		return nil, fmt.Errorf("runtime config: %w", err)
	}
	res, err := resolver.Resolve(doc)
	if err != nil {
		return nil, fmt.Errorf("runtime config: %w", err)
	}
	return decode(res)
}

// Locate loads localPath if it exists, otherwise BaseConfig from the
// config root.
func Locate(resolver *data.Resolver, localPath string) (*Runtime, error) {
	if localPath != "" {
		_, err := os.Stat(localPath)
		if err == nil {
			return LoadFile(resolver, localPath)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("runtime config: %w", err)
		}
	}
	return Load(resolver, BaseConfig)
}

func decode(res *data.Resolved) (*Runtime, error) {
	r := Default()
	r.Source = res.Name

	ints := map[string]*int{
		"screen_width":  &r.ScreenWidth,
		"screen_height": &r.ScreenHeight,
	}
	for key, dst := range ints {
		v, ok := res.Get(key)
		if !ok || v.IsNull() {
			continue
		}
		n, ok := v.AsInt()
		if !ok || n <= 0 {
			return nil, fmt.Errorf("runtime config %s: %s: expected a positive integer, got %s", res.Name, key, v)
		}
		*dst = int(n)
	}

	bools := map[string]*bool{
		"debug":                  &r.Debug,
		"minimise_image_loading": &r.MinimiseImageLoading,
	}
	for key, dst := range bools {
		v, ok := res.Get(key)
		if !ok || v.IsNull() {
			continue
		}
		b, ok := v.AsBool()
		if !ok {
			return nil, fmt.Errorf("runtime config %s: %s: expected a boolean, got %s", res.Name, key, v)
		}
		*dst = b
	}

	strs := map[string]*string{
		"renderer":     &r.Renderer,
		"metrics_addr": &r.MetricsAddr,
	}
	for key, dst := range strs {
		v, ok := res.Get(key)
		if !ok || v.IsNull() {
			continue
		}
		s, ok := v.AsString()
		if !ok {
			return nil, fmt.Errorf("runtime config %s: %s: expected a string, got %s", res.Name, key, v)
		}
		*dst = s
	}
	return r, nil
}
