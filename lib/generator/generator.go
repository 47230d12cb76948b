// Package generator renders Go interface modules from YAML interface
// descriptors. Each descriptor file produces one source file containing the
// busobj.Descriptor value, a module struct embedding busobj.Iface, a
// constructor usable in a busobj.Definition, and typed property accessors.
//
// The cmd/busobj command is the CLI front end.
package generator

import (
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"strings"
)

// Options configures the generator.
type Options struct {
	// DryRun reports what would be generated without writing files.
	DryRun bool

	// OutDir overrides the output directory. Defaults to the directory of
	// each descriptor file.
	OutDir string

	// Package overrides the generated package name. Defaults to the base
	// name of the output directory.
	Package string
}

// Generator generates interface-module code.
type Generator struct {
	opts Options
}

// New creates a new generator.
func New(opts Options) *Generator {
	return &Generator{opts: opts}
}

// Generate renders one Go file per descriptor file.
func (g *Generator) Generate(files ...string) error {
	for _, file := range files {
		if err := g.generateFile(file); err != nil {
			return fmt.Errorf("descriptor %s: %w", file, err)
		}
	}
	return nil
}

// Validate loads each descriptor file, reporting the first failure.
func (g *Generator) Validate(files ...string) error {
	for _, file := range files {
		if _, err := Load(file); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) generateFile(file string) error {
	desc, err := Load(file)
	if err != nil {
		return err
	}

	outDir := g.opts.OutDir
	if outDir == "" {
		outDir = filepath.Dir(file)
	}
	pkg := g.opts.Package
	if pkg == "" {
		abs, err := filepath.Abs(outDir)
		if err != nil {
			return err
		}
		pkg = filepath.Base(abs)
	}

	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	outputFile := filepath.Join(outDir, base+"_busobj.go")

	fmt.Printf("generating %s\n", outputFile)
	if g.opts.DryRun {
		return nil
	}

	code, err := Render(desc, pkg)
	if err != nil {
		return err
	}
	return os.WriteFile(outputFile, code, 0644)
}

// Render produces the formatted Go source for one descriptor.
func Render(desc Descriptor, pkg string) ([]byte, error) {
	code, err := renderTemplate(desc, pkg)
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	formatted, err := format.Source(code)
	if err != nil {
		return nil, fmt.Errorf("format source: %w", err)
	}
	return formatted, nil
}
