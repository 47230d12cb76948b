package main

import (
	"fmt"
	"os"

	"github.com/buslab/busobj/lib/generator"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "generate":
		if err := runGenerate(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "validate":
		if err := runValidate(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("busobj version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`busobj - composite bus object toolkit

Usage:
  busobj <command> [arguments]

Commands:
  generate [files]      Generate interface modules from YAML descriptors
  validate [files]      Check descriptor files without generating
  version               Print version
  help                  Show this help

Options for generate:
  --dry-run             Show what would be generated without writing files
  --out <dir>           Output directory (default: alongside each descriptor)
  --package <name>      Generated package name (default: output directory name)

Examples:
  busobj generate sensors/power.yaml sensors/temperature.yaml
  busobj generate --out ./sensors --package sensors power.yaml
  busobj validate descriptors/*.yaml`)
}

func runGenerate(args []string) error {
	opts := generator.Options{}
	var files []string

	for n := 0; n < len(args); n++ {
		switch args[n] {
		case "--dry-run":
			opts.DryRun = true
		case "--out":
			n++
			if n >= len(args) {
				return fmt.Errorf("--out requires a directory")
			}
			opts.OutDir = args[n]
		case "--package":
			n++
			if n >= len(args) {
				return fmt.Errorf("--package requires a name")
			}
			opts.Package = args[n]
		default:
			files = append(files, args[n])
		}
	}

	if len(files) == 0 {
		return fmt.Errorf("no descriptor files given")
	}

	return generator.New(opts).Generate(files...)
}

func runValidate(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no descriptor files given")
	}
	return generator.New(generator.Options{}).Validate(args...)
}
