package repository

// Repository represents a version controlled or build tool rooted code base
type Repository struct {
	Kind   string
	Root   string
	Origin string
	Info   *Project
}

// Project represents information about a detected project
type Project struct {
	RootPath     string // Absolute path to the project root directory
	Type         string // maven, gradle, git or unknown
	Name         string // Name of the project (extracted from build files)
	RelativePath string // Path from project root to the specified file
	SourceRoot   string // Directory holding the top level package folders
	Coordinates  string // Maven groupId:artifactId:version
}
