//go:build mage
// +build mage

package main

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Test namespace methods
// Note: Test type is defined in main.go

var testPackages = []string{"./pkg/...", "./internal/...", "./cmd/..."}

// parallelism returns the -p value, half the CPU cores but at least one
func parallelism() string {
	return strconv.Itoa(max(runtime.NumCPU()/2, 1))
}

func goTest(extra ...string) error {
	args := append([]string{"test", "-p", parallelism()}, extra...)
	args = append(args, testPackages...)
	return sh.RunV("go", args...)
}

// Unit runs unit tests
func (Test) Unit() error {
	fmt.Println("Running unit tests...")
	return goTest()
}

// Short runs unit tests with -short
func (Test) Short() error {
	fmt.Println("Running unit tests (short mode)...")
	return goTest("-short")
}

// Race runs unit tests with the race detector, which covers the concurrent runner
func (Test) Race() error {
	fmt.Println("Running unit tests with the race detector...")
	return goTest("-race")
}

// Coverage runs tests with coverage
func (Test) Coverage() error {
	fmt.Println("Running tests with coverage...")
	return goTest("-coverprofile=coverage.out")
}

// CoverageHTML generates HTML coverage report
func (Test) CoverageHTML() error {
	mg.Deps(Test.Coverage)
	fmt.Println("Generating HTML coverage report...")
	return sh.RunV("go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html")
}
