package repository

import (
	"os"
	"path/filepath"
	"strings"
)

// SourceFiles returns all files under root with the given suffix, skipping hidden and build output folders
func SourceFiles(root string, suffix string, exclusionSuffix ...string) ([]string, error) {
	var result []string
	err := filepath.WalkDir(root, func(aPath string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			name := entry.Name()
			if aPath != root && (strings.HasPrefix(name, ".") || name == "target" || name == "build") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(entry.Name(), suffix) {
			return nil
		}
		for _, exclusion := range exclusionSuffix {
			if strings.HasSuffix(entry.Name(), exclusion) {
				return nil
			}
		}
		result = append(result, aPath)
		return nil
	})
	return result, err
}

// PackagePath converts a dotted package name to a relative folder path
func PackagePath(packageName string) string {
	if packageName == "" {
		return ""
	}
	return filepath.Join(strings.Split(packageName, ".")...)
}

// PackageFromPath derives a dotted package name from a folder relative to a source root
func PackageFromPath(sourceRoot, dir string) string {
	rel, err := filepath.Rel(sourceRoot, dir)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}
	return strings.ReplaceAll(filepath.ToSlash(rel), "/", ".")
}
