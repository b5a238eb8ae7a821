package generator

import (
	"context"
	"fmt"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/ranfuzz/ranfuzz-ctl/internal/logging"
	"github.com/ranfuzz/ranfuzz-ctl/internal/runtime"
	"github.com/ranfuzz/ranfuzz-ctl/internal/system"
)

// Generator writes per-iteration Compose descriptors.
type Generator struct {
	fs system.FileSystem
}

// New creates a Generator. A nil fs uses the real file system.
func New(fs system.FileSystem) *Generator {
	if fs == nil {
		fs = system.DefaultFS()
	}
	return &Generator{fs: fs}
}

// LoadError reports a template that could not be read or parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadTemplate reads and parses a Compose template. Failures are *LoadError.
func (g *Generator) LoadTemplate(path string) (*Template, error) {
	data, err := g.fs.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("failed to read template %s: %w", path, err)}
	}
	tmpl, err := ParseTemplate(path, data)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return tmpl, nil
}

// Generate renders docker-compose_<n>.yml into outputDir for every index in
// [start, end] and returns the written paths. The template is read once.
func (g *Generator) Generate(ctx context.Context, start, end int, templatePath, outputDir string) ([]string, error) {
	if start < 0 || end < start {
		return nil, fmt.Errorf("invalid range [%d:%d]", start, end)
	}

	tmpl, err := g.LoadTemplate(templatePath)
	if err != nil {
		return nil, err
	}

	if err := g.fs.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	written := make([]string, 0, end-start+1)
	defer func() {
		if len(written) > 0 {
			logging.UserProgressDone()
		}
	}()

	for n := start; n <= end; n++ {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		doc, alloc, err := Render(tmpl, n)
		if err != nil {
			return written, err
		}

		data, err := doc.Marshal()
		if err != nil {
			return written, fmt.Errorf("failed to encode descriptor %d: %w", n, err)
		}

		path, err := securejoin.SecureJoin(outputDir, runtime.ComposeFileName(n))
		if err != nil {
			return written, fmt.Errorf("invalid output path: %w", err)
		}

		if err := g.fs.WriteFile(path, data, 0644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, path)

		logging.Debug("generated descriptor", "index", n, "path", path, "subnet", alloc.Subnet)
		logging.UserProgress("Generated Test# %07d | Subnet: %s", n, alloc.Subnet)
	}

	return written, nil
}
