package analyzer

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/viant/scalpel/inspector/graph"
	"github.com/viant/scalpel/inspector/java"
	"github.com/viant/scalpel/inspector/repository"
	"go.uber.org/zap"
)

// Match locates a method declaration
type Match struct {
	Path   string
	File   *graph.File
	Type   *graph.Type
	Method *graph.Function
}

// Finder performs a linear search over a source tree
type Finder struct {
	inspector *java.Inspector
	options   *options
}

// NewFinder creates a finder
func NewFinder(opts ...Option) *Finder {
	o := newOptions(opts)
	return &Finder{
		inspector: java.NewInspector(&java.Config{IncludeUnexported: true, SkipTests: o.skipTests}),
		options:   o,
	}
}

// Find returns the first file, in lexical path order, whose type declares methodName
func (f *Finder) Find(ctx context.Context, root, methodName string) (*Match, error) {
	var found *Match
	err := f.scan(ctx, root, func(aFile *graph.File) bool {
		typ, method := aFile.LookupMethod(methodName)
		if method == nil {
			return true
		}
		found = &Match{Path: aFile.Path, File: aFile, Type: typ, Method: method}
		return false
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %s under %s", ErrMethodNotFound, methodName, root)
	}
	return found, nil
}

// Callers returns files containing a call site named methodName
func (f *Finder) Callers(ctx context.Context, root, methodName string) ([]string, error) {
	var result []string
	err := f.scan(ctx, root, func(aFile *graph.File) bool {
		for _, typ := range aFile.Types {
			for _, method := range typ.Methods {
				for _, site := range method.CallSites {
					if site.Name == methodName {
						result = append(result, aFile.Path)
						return true
					}
				}
			}
		}
		return true
	})
	return result, err
}

func (f *Finder) scan(ctx context.Context, root string, visit func(aFile *graph.File) bool) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	var exclusion []string
	if f.options.skipTests {
		exclusion = append(exclusion, "Test.java", "Tests.java")
	}
	paths, err := repository.SourceFiles(absRoot, ".java", exclusion...)
	if err != nil {
		return fmt.Errorf("failed to list sources under %s: %w", root, err)
	}
	for _, aPath := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := f.options.fs.DownloadWithURL(ctx, aPath)
		if err != nil {
			f.options.logger.Warn("unreadable source", zap.String("path", aPath), zap.Error(err))
			continue
		}
		aFile, err := f.inspector.InspectContent(ctx, aPath, data)
		if err != nil {
			f.options.logger.Warn("skipping unparsable source", zap.String("path", aPath), zap.Error(err))
			continue
		}
		if !visit(aFile) {
			return nil
		}
	}
	return nil
}
