//go:build mage
// +build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Quality namespace methods
// Note: Quality and Test types are defined in main.go

// Lint runs golangci-lint from the module tool set
func (Quality) Lint() error {
	fmt.Println("Running linter...")
	return sh.RunV("go", "tool", "golangci-lint", "run", "./...")
}

// Format formats the code with gofumpt from the module tool set
func (Quality) Format() error {
	fmt.Println("Formatting code with gofumpt...")
	return sh.RunV("go", "tool", "gofumpt", "-l", "-w", ".")
}

// Vet runs go vet
func (Quality) Vet() error {
	fmt.Println("Running go vet...")
	return sh.Run("go", "vet", "./...")
}

// All runs all quality checks
func (Quality) All() {
	mg.SerialDeps(Quality.Format, Quality.Vet, Quality.Lint, Test.Unit)
}

// Tidy runs go mod tidy
func (Deps) Tidy() error {
	fmt.Println("Tidying dependencies...")
	return sh.Run("go", "mod", "tidy")
}

// Update updates all dependencies
func (Deps) Update() error {
	fmt.Println("Updating dependencies...")
	return sh.Run("go", "get", "-u", "./...")
}
