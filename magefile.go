//go:build mage
// +build mage

package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binary   = "mtp-copy"
	mainPkg  = "./cmd/mtp-copy"
	coverage = "coverage.out"
)

// Default target to run when none is specified
var Default = Build

// Build builds the mtp-copy binary
func Build() error {
	fmt.Println("Building " + binary + "...")
	return sh.Run("go", "build", "-o", binary, mainPkg)
}

// BuildWindows cross-compiles mtp-copy.exe, exercising the windows attribute code
func BuildWindows() error {
	fmt.Println("Building " + binary + ".exe for windows...")
	return sh.RunWith(map[string]string{"GOOS": "windows", "GOARCH": "amd64"},
		"go", "build", "-o", binary+".exe", mainPkg)
}

// Test runs all tests with the race detector and writes a coverage profile
func Test() error {
	fmt.Println("Running tests...")
	return sh.Run("go", "test", "-race", "-coverprofile="+coverage, "./...")
}

// TestForFail runs the unit tests purely to find out whether any fail
func TestForFail() error {
	fmt.Println("Running unit tests for overall pass/fail...")
	return run(context.Background(), "go", "test", "-timeout=30s", "./...", "-failfast", "-shuffle=on", "-race")
}

// Scenarios runs only the ginkgo copy scenarios
func Scenarios() error {
	fmt.Println("Running copy scenarios...")
	return sh.RunV("go", "test", "./internal/copyengine/", "-run", "TestCopyScenarios", "-v")
}

// Lint lints the codebase
func Lint() error {
	fmt.Println("Linting...")
	return run(context.Background(), "golangci-lint", "run", "./...")
}

// Fmt formats the code
func Fmt() error {
	fmt.Println("Formatting code...")
	if err := sh.Run("gofmt", "-s", "-w", "."); err != nil {
		return err
	}
	return sh.Run("goimports", "-w", ".")
}

// Check runs all checks (test, fmt, lint)
func Check() error {
	mg.SerialDeps(Test, Fmt, Lint)
	return nil
}

// Install installs the binary
func Install() error {
	fmt.Println("Installing...")
	return sh.Run("go", "install", mainPkg)
}

// Clean removes build artifacts
func Clean() error {
	fmt.Println("Cleaning...")
	for _, artifact := range []string{binary, binary + ".exe", coverage} {
		if err := sh.Rm(artifact); err != nil {
			return err
		}
	}
	return nil
}

// run runs a command with its output attached to the terminal.
func run(c context.Context, command string, arg ...string) error {
	cmd := exec.CommandContext(c, command, arg...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}
