package repository

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/viant/afs"
)

// Detector identifies project root folders and provides project-related information
type Detector struct {
	markers []string
	fs      afs.Service
}

// New creates a new project detector instance
func New() *Detector {
	return &Detector{
		markers: []string{
			"pom.xml",
			"build.gradle",
			"build.gradle.kts",
			"settings.gradle",
			".git",
		},
		fs: afs.New(),
	}
}

// DetectProject identifies the project root for the given file path and returns project info
func (d *Detector) DetectProject(filePath string, baseURL ...string) (*Project, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, err
	}
	startDir := absPath
	fileInfo, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if !fileInfo.IsDir() {
		startDir = filepath.Dir(absPath)
	}

	rootPath, projectType := d.findProjectRoot(startDir)
	info := &Project{
		Type:     "unknown",
		RootPath: startDir,
	}
	if rootPath == "" && len(baseURL) > 0 && baseURL[0] != "" {
		info.RootPath = baseURL[0]
	} else if rootPath != "" {
		info.RootPath = rootPath
		info.Type = projectType
	}

	relPath, err := filepath.Rel(info.RootPath, absPath)
	if err != nil {
		relPath = filepath.Base(absPath)
	}
	info.RelativePath = filepath.ToSlash(relPath)
	var candidates []string
	if projectType != "" {
		info.Name = d.extractProjectName(rootPath, projectType)
	}
	if projectType == "maven" {
		if pom, err := LoadPom(context.Background(), d.fs, filepath.Join(rootPath, "pom.xml")); err == nil {
			info.Coordinates = pom.Coordinates()
			if pom.SourceDirectory != "" {
				candidates = append(candidates, pom.SourceDirectory)
			}
		}
	}
	info.SourceRoot = d.sourceRoot(info.RootPath, startDir, candidates...)
	return info, nil
}

// DetectRepository identifies the repository containing the given file path
func (d *Detector) DetectRepository(filePath string) (*Repository, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, err
	}
	startDir := absPath
	fileInfo, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if !fileInfo.IsDir() {
		startDir = filepath.Dir(absPath)
	}
	if gitRoot := d.findGitRoot(startDir); gitRoot != "" {
		repo := &Repository{
			Kind:   "git",
			Root:   gitRoot,
			Origin: d.extractGitOrigin(gitRoot),
		}
		if info, err := d.DetectProject(filePath); err == nil {
			repo.Info = info
		}
		return repo, nil
	}
	info, err := d.DetectProject(filePath)
	if err != nil {
		return nil, err
	}
	return &Repository{Kind: info.Type, Root: info.RootPath, Info: info}, nil
}

// findProjectRoot searches up from the current directory for project markers
func (d *Detector) findProjectRoot(startDir string) (string, string) {
	dir := startDir
	for {
		for _, marker := range d.markers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, determineProjectType(marker)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", ""
}

// sourceRoot returns the conventional source folder of a project when the start dir lives under it
func (d *Detector) sourceRoot(rootPath, startDir string, candidates ...string) string {
	for _, candidate := range append(candidates, "src/main/java", "src/test/java", "src") {
		dir := filepath.Join(rootPath, candidate)
		if startDir == dir || strings.HasPrefix(startDir, dir+string(filepath.Separator)) {
			return dir
		}
	}
	return rootPath
}

// findGitRoot finds the root of the git repository containing the given directory
func (d *Detector) findGitRoot(startDir string) string {
	dir := startDir
	homeDir := os.Getenv("HOME")
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		if homeDir == parent {
			return ""
		}
		dir = parent
	}
	return ""
}

// extractGitOrigin extracts the origin URL from git config
func (d *Detector) extractGitOrigin(gitRoot string) string {
	file, err := os.Open(filepath.Join(gitRoot, ".git", "config"))
	if err != nil {
		return ""
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	foundRemote := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.Contains(line, "[remote \"origin\"]") {
			foundRemote = true
			continue
		}
		if foundRemote && strings.HasPrefix(line, "url = ") {
			return strings.TrimPrefix(line, "url = ")
		}
	}
	return ""
}

// extractProjectName attempts to extract a project name from build files
func (d *Detector) extractProjectName(rootPath string, projectType string) string {
	switch projectType {
	case "maven":
		if name := d.extractMavenProjectName(filepath.Join(rootPath, "pom.xml")); name != "" {
			return name
		}
	case "gradle":
		for _, name := range []string{"settings.gradle", "build.gradle", "build.gradle.kts"} {
			if projectName := d.extractGradleProjectName(filepath.Join(rootPath, name)); projectName != "" {
				return projectName
			}
		}
	case "git":
		if name := extractGitProjectName(d.extractGitOrigin(rootPath)); name != "" {
			return name
		}
	}
	return filepath.Base(rootPath)
}

var gradleNameRegex = regexp.MustCompile(`(?:rootProject|project)\.name\s*=\s*['"]([^'"]+)['"]`)

func (d *Detector) extractMavenProjectName(pomPath string) string {
	pom, err := LoadPom(context.Background(), d.fs, pomPath)
	if err != nil {
		return ""
	}
	if pom.Name != "" {
		return pom.Name
	}
	return pom.ArtifactID
}

func (d *Detector) extractGradleProjectName(gradlePath string) string {
	data, err := d.fs.DownloadWithURL(context.Background(), gradlePath)
	if err != nil {
		return ""
	}
	matches := gradleNameRegex.FindSubmatch(data)
	if len(matches) < 2 {
		return ""
	}
	return string(matches[1])
}

func extractGitProjectName(origin string) string {
	if origin == "" {
		return ""
	}
	origin = strings.TrimSuffix(origin, ".git")
	parts := strings.Split(origin, "/")
	return parts[len(parts)-1]
}

// determineProjectType identifies the type of project based on the marker file
func determineProjectType(marker string) string {
	switch marker {
	case "pom.xml":
		return "maven"
	case "build.gradle", "build.gradle.kts", "settings.gradle":
		return "gradle"
	case ".git":
		return "git"
	default:
		return "unknown"
	}
}
