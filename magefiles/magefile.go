//go:build mage

// Package main contains Mage build targets for paper-digest developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories the digest expects.
var projectDirs = []string{
	"configs",
	"out",
	"out/archive",
}

const (
	binDir  = "bin"
	binName = "paper-digest"
	cmdPkg  = "./cmd/paper-digest"
)

// Init creates the project directory structure and an example criteria file.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}

	topics := filepath.Join("configs", "paper_topics.txt")
	if _, err := os.Stat(topics); os.IsNotExist(err) {
		example := "Papers are selected when they match one of these criteria:\n\n" +
			"1. New methodological improvements to diffusion models\n" +
			"2. Robustness of large models to distribution shift\n"
		if err := os.WriteFile(topics, []byte(example), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", topics, err)
		}
		fmt.Println("  ", topics)
	}
	fmt.Println("Project directories initialized.")
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

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Digest renders out/output.json into out/output.md and archives the run.
func Digest() error {
	mg.Deps(Build, Init)
	return sh.RunV(filepath.Join(binDir, binName), "render",
		"--archive-dir", filepath.Join("out", "archive"))
}
