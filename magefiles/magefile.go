//go:build mage

// Package main contains Mage build targets for personas developer tooling.
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "personas"
	cmdPkg  = "./cmd/personas"
	dataDir = "data"
)

// sampleFeeds are written by Init so serve can host both feeds locally.
var sampleFeeds = map[string]string{
	"personas.json": `[
  {"id": "1", "nombre": "Ana", "edad": "34", "capacidad": "alta", "email": "ana@example.com"},
  {"id": "2", "nombre": "Bruno", "edad": "51", "capacidad": "media", "email": "bruno@example.com"}
]
`,
	"personas.xml": `<?xml version="1.0" encoding="UTF-8"?>
<personas>
  <persona>
    <id>10</id>
    <nombre>Carla</nombre>
    <edad>28</edad>
    <capacidad>baja</capacidad>
    <email>carla@example.com</email>
  </persona>
  <persona>
    <id>11</id>
    <nombre>Daniel</nombre>
    <edad>45</edad>
    <capacidad>alta</capacidad>
    <email>daniel@example.com</email>
  </persona>
</personas>
`,
}

// Init creates the data directory and writes sample feeds that do not exist yet.
func Init() error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dataDir, err)
	}
	for name, body := range sampleFeeds {
		path := filepath.Join(dataDir, name)
		if _, err := os.Stat(path); err == nil {
			fmt.Println("   exists", path)
			continue
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Println("  ", path)
	}
	fmt.Println("Data directory initialized.")
	return nil
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Serve runs the HTTP API with the sample feeds.
func Serve() error {
	mg.Deps(Init)
	return sh.RunV("go", "run", cmdPkg, "serve")
}

// Stats prints Go production and test line counts.
func Stats() error {
	var prod, test int
	err := filepath.Walk(".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), "_") || info.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := countLines(data)
		if strings.HasSuffix(path, "_test.go") {
			test += n
		} else {
			prod += n
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prod)
	fmt.Printf("Lines of code (Go, tests):      %d\n", test)
	return nil
}

// countLines counts non-blank lines in data.
func countLines(data []byte) int {
	n := 0
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) > 0 {
			n++
		}
	}
	return n
}
