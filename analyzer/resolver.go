package analyzer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/scalpel/inspector/graph"
	"github.com/viant/scalpel/inspector/java"
	"github.com/viant/scalpel/inspector/repository"
	"go.uber.org/zap"
)

// Resolver maps bare type names used in a source unit to the import path of the declaring file
type Resolver struct {
	root      string
	fs        afs.Service
	inspector *java.Inspector
	logger    *zap.Logger

	mux   sync.RWMutex
	units map[string]*graph.File
}

// NewResolver creates a resolver over the source root holding top level package folders
func NewResolver(root string, opts ...Option) *Resolver {
	o := newOptions(opts)
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &Resolver{
		root:      root,
		fs:        o.fs,
		inspector: java.NewInspector(&java.Config{IncludeUnexported: true}),
		logger:    o.logger,
		units:     map[string]*graph.File{},
	}
}

// Root returns the source root
func (r *Resolver) Root() string {
	return r.root
}

// Resolve returns the import path declaring typeName as seen from the from unit.
// Explicit imports win over wildcard imports, then the same package, then the default package.
func (r *Resolver) Resolve(ctx context.Context, typeName string, from *graph.File) (string, bool) {
	name := graph.SanitizeTypeName(typeName)
	if name == "" {
		return "", false
	}
	if strings.Contains(name, ".") {
		if r.exists(ctx, name) {
			return name, true
		}
		name = graph.SimpleName(name)
	}
	if from == nil {
		if r.exists(ctx, name) {
			return name, true
		}
		return "", false
	}
	if importPath, ok := from.ImportPathFor(name); ok {
		return importPath, true
	}
	for _, imp := range from.Imports {
		if !imp.IsWildcard || imp.IsStatic {
			continue
		}
		candidate := imp.Path + "." + name
		if r.exists(ctx, candidate) {
			return candidate, true
		}
	}
	if from.Package != "" {
		candidate := from.Package + "." + name
		if r.exists(ctx, candidate) {
			return candidate, true
		}
	}
	if r.exists(ctx, name) {
		return name, true
	}
	return "", false
}

// Path returns the source file location of an import path
func (r *Resolver) Path(importPath string) string {
	return filepath.Join(r.root, repository.PackagePath(importPath)) + ".java"
}

// Unit loads and caches the parsed file of an import path
func (r *Resolver) Unit(ctx context.Context, importPath string) (*graph.File, error) {
	r.mux.RLock()
	unit, ok := r.units[importPath]
	r.mux.RUnlock()
	if ok {
		return unit, nil
	}
	location := r.Path(importPath)
	if !r.exists(ctx, importPath) {
		return nil, fmt.Errorf("%w: %s (%s)", ErrMissingDependencyFile, importPath, location)
	}
	data, err := r.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingDependencyFile, location, err)
	}
	if unit, err = r.inspector.InspectContent(ctx, location, data); err != nil {
		return nil, err
	}
	r.mux.Lock()
	r.units[importPath] = unit
	r.mux.Unlock()
	r.logger.Debug("parsed dependency", zap.String("import", importPath), zap.String("path", location))
	return unit, nil
}

func (r *Resolver) exists(ctx context.Context, importPath string) bool {
	ok, err := r.fs.Exists(ctx, r.Path(importPath))
	if err != nil {
		r.logger.Debug("existence check failed", zap.String("import", importPath), zap.Error(err))
		return false
	}
	return ok
}
