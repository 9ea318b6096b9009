package java

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/viant/scalpel/inspector/graph"
	"github.com/viant/scalpel/inspector/repository"
)

// InspectTree inspects every Java file under rootPath.
// Files that fail to parse are skipped; their errors are joined into the returned error
// alongside the files that were inspected successfully.
func (i *Inspector) InspectTree(rootPath string) ([]*graph.File, error) {
	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	var exclusion []string
	if i.config.SkipTests {
		exclusion = append(exclusion, "Test.java", "Tests.java")
	}
	paths, err := repository.SourceFiles(absPath, ".java", exclusion...)
	if err != nil {
		return nil, fmt.Errorf("error walking source tree %s: %w", absPath, err)
	}
	var files []*graph.File
	var errs []error
	for _, aPath := range paths {
		aFile, err := i.InspectFile(aPath)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		files = append(files, aFile)
	}
	return files, errors.Join(errs...)
}
