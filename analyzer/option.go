package analyzer

import (
	"github.com/viant/afs"
	"go.uber.org/zap"
)

type options struct {
	logger           *zap.Logger
	fs               afs.Service
	scopeAwareFields bool
	skipTests        bool
}

// Option configures resolver, closure and finder
type Option func(*options)

func newOptions(opts []Option) *options {
	ret := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	return ret
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithFileService sets the file service used for existence checks and reads
func WithFileService(fs afs.Service) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithScopeAwareFields skips field candidates shadowed by a parameter or a preceding local declaration
func WithScopeAwareFields() Option {
	return func(o *options) {
		o.scopeAwareFields = true
	}
}

// WithSkipTests excludes *Test.java files from tree searches
func WithSkipTests() Option {
	return func(o *options) {
		o.skipTests = true
	}
}
