package icebox

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/scalpel/analyzer"
	"github.com/viant/scalpel/inspector/graph"
	"github.com/viant/scalpel/inspector/java"
	"github.com/viant/scalpel/inspector/repository"
	"github.com/viant/scalpel/organ"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Stager writes closures into a staging tree mirroring package folders
type Stager struct {
	root      string
	fs        afs.Service
	inspector *java.Inspector
	logger    *zap.Logger
}

// Option configures a stager
type Option func(*Stager)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Stager) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFileService sets the file service
func WithFileService(fs afs.Service) Option {
	return func(s *Stager) {
		s.fs = fs
	}
}

// New creates a stager rooted at root
func New(root string, opts ...Option) *Stager {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	ret := &Stager{
		root:      root,
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

// Root returns the IceBox root
func (s *Stager) Root() string {
	return s.root
}

// Path returns the staged file location of a type
func (s *Stager) Path(packageName, typeName string) string {
	return filepath.Join(s.root, repository.PackagePath(packageName), typeName+".java")
}

// Stage writes the target type file and one file per cross type declaring type.
// Methods and fields already staged are left untouched.
func (s *Stager) Stage(ctx context.Context, closure *analyzer.DependencyClosure) (*Entry, error) {
	if closure == nil || closure.Target == nil {
		return nil, fmt.Errorf("nothing to stage")
	}
	target := closure.Target
	var functions []*graph.Function
	for _, m := range closure.SameTypeMethods() {
		functions = append(functions, m.Function)
	}
	primary, err := s.stageType(ctx, target.File, target.Type, closure.Fields, functions)
	if err != nil {
		return nil, err
	}
	entry := &Entry{
		Target:        target.Key(),
		Path:          s.relative(primary),
		Files:         []string{s.relative(primary)},
		RequiredTypes: closure.RequiredTypes,
		StagedAt:      time.Now().UTC(),
	}
	order, groups := closure.CrossTypeMethods()
	for _, key := range order {
		group := groups[key]
		var crossFunctions []*graph.Function
		for _, m := range group {
			crossFunctions = append(crossFunctions, m.Function)
		}
		location, err := s.stageType(ctx, group[0].File, group[0].Type, closure.TypeFields[key], crossFunctions)
		if err != nil {
			return nil, err
		}
		entry.Files = append(entry.Files, s.relative(location))
	}
	for _, m := range closure.Methods {
		entry.Methods = append(entry.Methods, m.Key())
	}
	for _, field := range closure.Fields {
		entry.Fields = append(entry.Fields, field.Name)
	}
	for _, issue := range closure.Issues {
		entry.Issues = append(entry.Issues, issue.Error())
	}
	entry.Donor = s.donor(target.File.Path)
	data, err := s.fs.DownloadWithURL(ctx, primary)
	if err != nil {
		return nil, fmt.Errorf("failed to read staged %s: %w", primary, err)
	}
	hash, err := graph.Hash(data)
	if err != nil {
		return nil, err
	}
	entry.Hash = fmt.Sprintf("%016x", hash)
	if err = s.updateManifest(ctx, entry); err != nil {
		return nil, err
	}
	s.logger.Info("staged organ", zap.String("target", entry.Target), zap.Strings("files", entry.Files))
	return entry, nil
}

func (s *Stager) stageType(ctx context.Context, unit *graph.File, typ *graph.Type, fields []*graph.Field, functions []*graph.Function) (string, error) {
	location := s.Path(unit.Package, typ.Name)
	exists, err := s.fs.Exists(ctx, location)
	if err != nil {
		return "", fmt.Errorf("failed to check %s: %w", location, err)
	}
	if !exists {
		lines, _ := organ.RenderType(unit, typ, fields, functions)
		return location, s.upload(ctx, location, strings.Join(lines, "\n")+"\n")
	}
	data, err := s.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return "", fmt.Errorf("failed to read staged %s: %w", location, err)
	}
	staged, err := s.inspector.InspectContent(ctx, location, data)
	if err != nil {
		return "", err
	}
	stagedType := staged.LookupType(typ.Name)
	if stagedType == nil {
		return "", fmt.Errorf("staged file %s does not declare %s", location, typ.Name)
	}
	var insertion []string
	rendered := map[int]bool{}
	for _, field := range fields {
		if stagedType.LookupField(field.Name) != nil || field.Location == nil || rendered[field.Location.Start] {
			continue
		}
		rendered[field.Location.Start] = true
		insertion = append(insertion, organ.DeclarationLines(unit, field.Location)...)
	}
	for _, fn := range functions {
		if stagedType.LookupMethod(fn.Name) != nil || fn.Location == nil {
			continue
		}
		insertion = append(insertion, "")
		insertion = append(insertion, organ.DeclarationLines(unit, fn.Location)...)
	}
	if len(insertion) == 0 {
		s.logger.Debug("already staged", zap.String("path", location))
		return location, nil
	}
	closing := closingBrace(data, stagedType)
	if closing < 0 {
		return "", fmt.Errorf("staged file %s has no closing brace for %s", location, typ.Name)
	}
	content := string(data[:closing]) + strings.Join(insertion, "\n") + "\n" + string(data[closing:])
	s.logger.Debug("appending to staged type", zap.String("path", location), zap.Int("lines", len(insertion)))
	return location, s.upload(ctx, location, content)
}

// Manifest loads the IceBox manifest
func (s *Stager) Manifest(ctx context.Context) (*Manifest, error) {
	location := filepath.Join(s.root, ManifestFile)
	manifest := &Manifest{}
	exists, err := s.fs.Exists(ctx, location)
	if err != nil || !exists {
		return manifest, err
	}
	data, err := s.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", location, err)
	}
	if err = yaml.Unmarshal(data, manifest); err != nil {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", location, err)
	}
	return manifest, nil
}

func (s *Stager) updateManifest(ctx context.Context, entry *Entry) error {
	manifest, err := s.Manifest(ctx)
	if err != nil {
		return err
	}
	manifest.Put(entry)
	data, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	return s.upload(ctx, filepath.Join(s.root, ManifestFile), string(data))
}

func (s *Stager) upload(ctx context.Context, location, content string) error {
	if err := s.fs.Upload(ctx, location, file.DefaultFileOsMode, bytes.NewReader([]byte(content))); err != nil {
		return fmt.Errorf("failed to write %s: %w", location, err)
	}
	return nil
}

func (s *Stager) donor(location string) *Donor {
	if location == "" {
		return nil
	}
	repo, err := repository.New().DetectRepository(location)
	if err != nil {
		s.logger.Debug("donor repository not detected", zap.String("path", location), zap.Error(err))
		return nil
	}
	ret := &Donor{Kind: repo.Kind, Root: repo.Root, Origin: repo.Origin, File: location}
	if repo.Info != nil {
		ret.Project = repo.Info.Name
		ret.Coordinates = repo.Info.Coordinates
		if rel := repo.Info.RelativePath; rel != "" {
			ret.File = rel
		}
	}
	return ret
}

func (s *Stager) relative(location string) string {
	if rel, err := filepath.Rel(s.root, location); err == nil {
		return filepath.ToSlash(rel)
	}
	return location
}

// closingBrace returns the offset of the line holding the final brace of typ
func closingBrace(data []byte, typ *graph.Type) int {
	end := len(data)
	if typ.Location != nil && typ.Location.End <= len(data) {
		end = typ.Location.End
	}
	idx := bytes.LastIndexByte(data[:end], '}')
	if idx < 0 {
		return -1
	}
	if lineStart := bytes.LastIndexByte(data[:idx], '\n'); lineStart >= 0 && strings.TrimSpace(string(data[lineStart+1:idx])) == "" {
		return lineStart + 1
	}
	return idx
}
