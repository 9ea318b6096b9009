package implanter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/scalpel/inspector/graph"
	"github.com/viant/scalpel/inspector/java"
	"github.com/viant/scalpel/inspector/repository"
	"go.uber.org/zap"
)

// Implanter copies staged or minimized Java files into a receiver project
type Implanter struct {
	fs            afs.Service
	inspector     *java.Inspector
	logger        *zap.Logger
	targetPackage string
}

// Option configures an implanter
type Option func(*Implanter)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(i *Implanter) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithFileService sets the file service
func WithFileService(fs afs.Service) Option {
	return func(i *Implanter) {
		i.fs = fs
	}
}

// WithTargetPackage nests implanted packages under pkg
func WithTargetPackage(pkg string) Option {
	return func(i *Implanter) {
		i.targetPackage = strings.Trim(pkg, ".")
	}
}

// New creates an implanter
func New(opts ...Option) *Implanter {
	ret := &Implanter{
		inspector: java.NewInspector(&java.Config{IncludeUnexported: true}),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	return ret
}

// Implant copies srcPath under receiverRoot and returns the destination path
func (i *Implanter) Implant(ctx context.Context, srcPath, receiverRoot string) (string, error) {
	data, err := i.fs.DownloadWithURL(ctx, srcPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", srcPath, err)
	}
	return i.ImplantSource(ctx, filepath.Base(srcPath), data, receiverRoot)
}

// ImplantSource writes src as fileName under receiverRoot, mirroring its package folder
func (i *Implanter) ImplantSource(ctx context.Context, fileName string, src []byte, receiverRoot string) (string, error) {
	unit, err := i.inspector.InspectContent(ctx, fileName, src)
	if err != nil {
		return "", err
	}
	sourceRoot := i.sourceRoot(ctx, receiverRoot)
	pkg := unit.Package
	if i.targetPackage != "" {
		pkg = strings.Trim(i.targetPackage+"."+pkg, ".")
	}
	dir := filepath.Join(sourceRoot, repository.PackagePath(pkg))
	pkg = repository.PackageFromPath(sourceRoot, dir)
	destination := filepath.Join(dir, fileName)
	content := RewritePackage(src, pkg)
	if err = i.fs.Upload(ctx, destination, file.DefaultFileOsMode, bytes.NewReader(content)); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", destination, err)
	}
	i.logger.Info("implanted", zap.String("file", fileName), zap.String("package", pkg), zap.String("destination", destination))
	return destination, nil
}

// ImplantTree copies every Java file under root, skipping entry point classes and unparsable files
func (i *Implanter) ImplantTree(ctx context.Context, root, receiverRoot string) ([]string, error) {
	files, err := repository.SourceFiles(root, ".java")
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", root, err)
	}
	var implanted []string
	for _, location := range files {
		if err := ctx.Err(); err != nil {
			return implanted, err
		}
		data, err := i.fs.DownloadWithURL(ctx, location)
		if err != nil {
			return implanted, fmt.Errorf("failed to read %s: %w", location, err)
		}
		unit, err := i.inspector.InspectContent(ctx, location, data)
		if err != nil {
			if errors.Is(err, java.ErrParse) {
				i.logger.Warn("skipping unparsable file", zap.String("path", location), zap.Error(err))
				continue
			}
			return implanted, err
		}
		if HasMain(unit) {
			i.logger.Info("skipping entry point", zap.String("path", location))
			continue
		}
		destination, err := i.ImplantSource(ctx, filepath.Base(location), data, receiverRoot)
		if err != nil {
			return implanted, err
		}
		implanted = append(implanted, destination)
	}
	return implanted, nil
}

// sourceRoot returns the conventional source folder of a receiver project, or the root itself
func (i *Implanter) sourceRoot(ctx context.Context, receiverRoot string) string {
	candidate := filepath.Join(receiverRoot, "src", "main", "java")
	if ok, _ := i.fs.Exists(ctx, candidate); ok {
		return candidate
	}
	return receiverRoot
}

var packageExpr = regexp.MustCompile(`(?m)^[ \t]*package[ \t]+[\w.]+[ \t]*;[ \t]*\n?`)

// RewritePackage replaces or inserts the package declaration; an empty pkg removes it
func RewritePackage(src []byte, pkg string) []byte {
	declaration := ""
	if pkg != "" {
		declaration = "package " + pkg + ";\n"
	}
	if loc := packageExpr.FindIndex(src); loc != nil {
		ret := make([]byte, 0, len(src)+len(declaration))
		ret = append(ret, src[:loc[0]]...)
		ret = append(ret, declaration...)
		return append(ret, src[loc[1]:]...)
	}
	if declaration == "" {
		return src
	}
	return append([]byte(declaration+"\n"), src...)
}

// HasMain returns true when unit declares public static void main(String[])
func HasMain(unit *graph.File) bool {
	for _, typ := range unit.Types {
		for _, fn := range typ.Methods {
			if fn.Name != "main" || !fn.IsStatic || !fn.IsExported || fn.ResultType != "void" || len(fn.Parameters) != 1 {
				continue
			}
			param := fn.Parameters[0]
			typeName := strings.ReplaceAll(param.TypeName, " ", "")
			if typeName == "String[]" || (param.Variadic && typeName == "String") {
				return true
			}
		}
	}
	return false
}
