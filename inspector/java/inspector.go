package java

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/viant/scalpel/inspector/graph"
)

// ErrParse is returned when a source file cannot be parsed
var ErrParse = errors.New("parse failure")

// Config controls inspection
type Config struct {
	IncludeUnexported bool
	SkipTests         bool
}

// Inspector provides functionality to inspect Java code and extract the source model
type Inspector struct {
	config *Config
}

// NewInspector creates a new Java Inspector with the provided configuration
func NewInspector(config *Config) *Inspector {
	if config == nil {
		config = &Config{IncludeUnexported: true}
	}
	return &Inspector{config: config}
}

// InspectSource parses Java source code from a byte slice
func (i *Inspector) InspectSource(src []byte) (*graph.File, error) {
	return i.inspect(context.Background(), src, "source.java")
}

// InspectFile parses a Java source file
func (i *Inspector) InspectFile(filename string) (*graph.File, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return i.inspect(context.Background(), src, filename)
}

// InspectContent parses Java source already loaded from filename
func (i *Inspector) InspectContent(ctx context.Context, filename string, src []byte) (*graph.File, error) {
	return i.inspect(ctx, src, filename)
}

func (i *Inspector) inspect(ctx context.Context, src []byte, filename string) (*graph.File, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(java.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, filename, err)
	}
	defer tree.Close()
	rootNode := tree.RootNode()
	aFile, err := i.processJavaFile(rootNode, src, filename)
	if err != nil {
		return nil, err
	}
	if rootNode.HasError() && len(aFile.Types) == 0 {
		return nil, fmt.Errorf("%w: %s: no type declaration could be recovered", ErrParse, filename)
	}
	if aFile.Hash, err = graph.Hash(src); err != nil {
		return nil, fmt.Errorf("failed to hash %s: %w", filename, err)
	}
	return aFile, nil
}

// processJavaFile extracts package, imports and types from a Java file
func (i *Inspector) processJavaFile(rootNode *sitter.Node, src []byte, filename string) (*graph.File, error) {
	aFile := &graph.File{
		Path:   filename,
		Name:   filepath.Base(filename),
		Source: src,
	}
	for j := 0; j < int(rootNode.NamedChildCount()); j++ {
		childNode := rootNode.NamedChild(j)
		switch childNode.Type() {
		case "package_declaration":
			aFile.Package = parsePackageDeclaration(childNode, src)
		case "import_declaration":
			if imp, ok := parseImportDeclaration(childNode, src); ok {
				aFile.Imports = append(aFile.Imports, imp)
			}
		case "class_declaration", "interface_declaration", "enum_declaration", "record_declaration", "annotation_type_declaration":
			aType := parseTypeDeclaration(childNode, src)
			if aType == nil {
				continue
			}
			if !i.config.IncludeUnexported && !aType.IsExported {
				continue
			}
			aType.Package = aFile.Package
			aFile.Types = append(aFile.Types, aType)
		}
	}
	aFile.IndexTypes()
	return aFile, nil
}
