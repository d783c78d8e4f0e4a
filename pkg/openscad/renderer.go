// Package openscad turns OpenSCAD models into STL meshes by running the
// openscad binary, and finds the files a model depends on.
package openscad

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/philipparndt/alphashape/pkg/stl"
)

// ErrNotInstalled is returned when the openscad binary cannot be found
var ErrNotInstalled = errors.New("openscad: binary not found in PATH, install it from https://openscad.org/")

// dependencyRe matches use <file> and include <file> statements
var dependencyRe = regexp.MustCompile(`^\s*(?:use|include)\s*<([^>]+)>`)

// Renderer renders .scad files with an external openscad binary
type Renderer struct {
	// Binary is the executable to run; "openscad" when empty
	Binary  string
	workDir string
}

// NewRenderer creates a renderer that resolves relative paths against
// workDir
func NewRenderer(workDir string) *Renderer {
	return &Renderer{workDir: workDir}
}

func (r *Renderer) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(r.workDir, path)
}

// RenderToSTL writes the STL export of scadFile to outputFile
func (r *Renderer) RenderToSTL(ctx context.Context, scadFile, outputFile string) error {
	binary := r.Binary
	if binary == "" {
		binary = "openscad"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return ErrNotInstalled
	}

	cmd := exec.CommandContext(ctx, binary, "-o", outputFile, r.abs(scadFile))
	cmd.Dir = r.workDir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var msg strings.Builder
		fmt.Fprintf(&msg, "failed to render %s: %v", scadFile, err)
		if stderr.Len() > 0 {
			msg.WriteString("\nstderr: ")
			msg.WriteString(stderr.String())
		}
		if stdout.Len() > 0 {
			msg.WriteString("\nstdout: ")
			msg.WriteString(stdout.String())
		}
		return errors.New(msg.String())
	}
	return nil
}

// Render exports scadFile to a temporary STL file and parses it
func (r *Renderer) Render(ctx context.Context, scadFile string) (*stl.Model, error) {
	dir, err := os.MkdirTemp("", "alphashape-scad-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	out := filepath.Join(dir, strings.TrimSuffix(filepath.Base(scadFile), filepath.Ext(scadFile))+".stl")
	if err := r.RenderToSTL(ctx, scadFile, out); err != nil {
		return nil, err
	}
	return stl.Parse(out)
}

// ResolveDependencies returns scadFile followed by every file it uses or
// includes, transitively, as absolute paths in discovery order. Cycles
// are followed once.
func (r *Renderer) ResolveDependencies(scadFile string) ([]string, error) {
	visited := make(map[string]bool)
	var deps []string
	queue := []string{r.abs(scadFile)}

	for len(queue) > 0 {
		file := queue[0]
		queue = queue[1:]
		if visited[file] {
			continue
		}
		visited[file] = true
		deps = append(deps, file)

		found, err := r.parseDependencies(file)
		if err != nil {
			return nil, err
		}
		queue = append(queue, found...)
	}
	return deps, nil
}

// parseDependencies lists the use and include targets of one file
func (r *Renderer) parseDependencies(scadFile string) ([]string, error) {
	file, err := os.Open(scadFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", scadFile, err)
	}
	defer file.Close()

	var deps []string
	dir := filepath.Dir(scadFile)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		if m := dependencyRe.FindStringSubmatch(line); m != nil {
			deps = append(deps, r.resolveDepPath(m[1], dir))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", scadFile, err)
	}
	return deps, nil
}

// resolveDepPath looks a dependency up next to the including file first,
// then in the work directory
func (r *Renderer) resolveDepPath(dep, currentDir string) string {
	if filepath.IsAbs(dep) {
		return filepath.Clean(dep)
	}
	local := filepath.Join(currentDir, dep)
	if strings.HasPrefix(dep, "./") || strings.HasPrefix(dep, "../") {
		return local
	}
	if _, err := os.Stat(local); err == nil {
		return local
	}
	return filepath.Join(r.workDir, dep)
}
