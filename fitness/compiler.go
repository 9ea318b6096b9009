package fitness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

var (
	// ErrCompile is returned when the compiler rejects a candidate
	ErrCompile = errors.New("compilation failed")
	// ErrCompileTimeout is returned when the compiler exceeds its time budget
	ErrCompileTimeout = errors.New("compilation timed out")
)

// Compiler compiles a single candidate source file
type Compiler interface {
	Compile(ctx context.Context, sourcePath, outputDir string) error
}

// CompilerFunc adapts a function to Compiler
type CompilerFunc func(ctx context.Context, sourcePath, outputDir string) error

// Compile calls f
func (f CompilerFunc) Compile(ctx context.Context, sourcePath, outputDir string) error {
	return f(ctx, sourcePath, outputDir)
}

// Javac invokes the Java compiler as a subprocess
type Javac struct {
	Path       string        // javac executable
	Timeout    time.Duration // per invocation budget
	SourcePath string        // optional -sourcepath, typically the IceBox root
	ClassPath  string        // optional -classpath
}

// NewJavac creates a javac compiler with a 30s default timeout
func NewJavac(path string, timeout time.Duration) *Javac {
	if path == "" {
		path = "javac"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Javac{Path: path, Timeout: timeout}
}

// Compile compiles sourcePath writing classes under outputDir/classes.
// Class output is removed when the timeout expires.
func (j *Javac) Compile(ctx context.Context, sourcePath, outputDir string) error {
	classes := filepath.Join(outputDir, "classes")
	if err := os.MkdirAll(classes, 0o755); err != nil {
		return fmt.Errorf("failed to create class output %s: %w", classes, err)
	}
	ctx, cancel := context.WithTimeout(ctx, j.Timeout)
	defer cancel()

	args := []string{"-nowarn", "-d", classes}
	if j.SourcePath != "" {
		args = append(args, "-sourcepath", j.SourcePath)
	}
	if j.ClassPath != "" {
		args = append(args, "-classpath", j.ClassPath)
	}
	args = append(args, sourcePath)
	cmd := exec.CommandContext(ctx, j.Path, args...)
	cmd.Dir = outputDir
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		_ = os.RemoveAll(classes)
		return fmt.Errorf("%w: %s after %s", ErrCompileTimeout, sourcePath, j.Timeout)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v: %s", ErrCompile, sourcePath, err, stdout.String()+stderr.String())
	}
	return nil
}
