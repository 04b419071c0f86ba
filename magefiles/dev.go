//go:build mage
// +build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Run builds the binary and prints the plan for the currently staged files
func (Dev) Run() error {
	mg.Deps(Build.Binary)
	return sh.RunV("./"+binaryPath, "list", "--verbose")
}

// Hook builds the binary and installs it as this repository's pre-commit hook
func (Dev) Hook() error {
	mg.Deps(Build.Binary)
	return sh.RunV("./"+binaryPath, "install", "--overwrite", "--executable", "./"+binaryPath)
}
