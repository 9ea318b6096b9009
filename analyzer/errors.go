package analyzer

import "errors"

var (
	// ErrSymbolResolution is recorded when a referenced name cannot be mapped to a declaring file
	ErrSymbolResolution = errors.New("symbol resolution failure")
	// ErrMissingDependencyFile is returned when a resolved import path has no source file
	ErrMissingDependencyFile = errors.New("missing dependency file")
	// ErrMethodNotFound is returned when the requested target method is not declared
	ErrMethodNotFound = errors.New("method not found")
)
