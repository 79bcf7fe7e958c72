// Package registry loads tier and custom item definitions from YAML and
// serves them as read-only registries.
package registry

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// maxParallelFiles bounds concurrent reads when loading a directory.
const maxParallelFiles = 8

// Definitions bundles both registries.
type Definitions struct {
	Tiers       *Tiers
	CustomItems *CustomItems
}

// Load reads both definition sets concurrently. An empty path yields an
// empty registry.
func Load(ctx context.Context, tiersPath, customItemsPath string) (Definitions, error) {
	var defs Definitions
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if tiersPath == "" {
			defs.Tiers = NewTiers()
			return nil
		}
		t, err := LoadTiers(gctx, tiersPath)
		defs.Tiers = t
		return err
	})
	g.Go(func() error {
		if customItemsPath == "" {
			defs.CustomItems = NewCustomItems()
			return nil
		}
		c, err := LoadCustomItems(gctx, customItemsPath)
		defs.CustomItems = c
		return err
	})
	if err := g.Wait(); err != nil {
		return Definitions{}, err
	}
	return defs, nil
}

// readAll decodes path, or every .yml/.yaml file directly inside it, in
// parallel. Results keep file-name order.
func readAll[T any](ctx context.Context, path string, decode func([]byte) (T, error)) ([]T, error) {
	files, err := definitionFiles(path)
	if err != nil {
		return nil, err
	}

	out := make([]T, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFiles)
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			raw, err := os.ReadFile(f)
			if err != nil {
				return fmt.Errorf("%w: read %s: %v", ErrLoadDefinitions, f, err)
			}
			v, err := decode(raw)
			if err != nil {
				return fmt.Errorf("%w: parse %s: %v", ErrLoadDefinitions, f, err)
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func definitionFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadDefinitions, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadDefinitions, err)
	}
	var files []string
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".yml" && ext != ".yaml") {
			continue
		}
		files = append(files, filepath.Join(path, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// decodeYAML rejects unknown keys so typos surface at load time.
func decodeYAML(raw []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
