//go:build stave

package main

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":   Build,
	"t":   Test.Default,
	"l":   Lint.Default,
	"c":   Check,
	"i":   Install,
	"fmt": Lint.Fmt,
	"rt":  Test.RoundTrip,
}

// Namespace types group related targets.
type (
	Test  st.Namespace
	Lint  st.Namespace
	CI    st.Namespace
	Bench st.Namespace
)

// fuzzTargets maps packages to the fuzz functions they define.
var fuzzTargets = map[string]string{
	"./pkg/markdown": "FuzzParse",
	"./pkg/textdiff": "FuzzCompare",
}

// ---------------------------------------------------------------------------
// Top-level targets
// ---------------------------------------------------------------------------

// Build compiles bin/mdinbox with version info when sources changed.
func Build() error {
	rebuild, err := target.Dir("bin/mdinbox", "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println("bin/mdinbox is up to date")
		return nil
	}
	fmt.Println("Building mdinbox...")
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", "bin/mdinbox", "./cmd/mdinbox")
}

// Check runs format, lint, tests and the round-trip check.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default, Test.RoundTrip)
}

// Clean removes build artifacts.
func Clean() error {
	fmt.Println("Cleaning build artifacts...")
	for _, path := range []string{"bin", "coverage.out"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Install installs mdinbox to $GOBIN or $GOPATH/bin.
func Install() error {
	fmt.Println("Installing mdinbox...")
	return sh.RunV("go", "install", "-ldflags", ldflags(), "./cmd/mdinbox")
}

// ---------------------------------------------------------------------------
// Test namespace
// ---------------------------------------------------------------------------

// Default runs all tests with gotestsum, race detection and coverage.
func (Test) Default() error {
	fmt.Println("Running tests...")
	return gotestsum("pkgname-and-test-fails",
		"-race", "./...", "-coverprofile=coverage.out", "-covermode=atomic")
}

// Fuzz runs each fuzz target for STAVE_FUZZ_TIME (default 30s).
func (Test) Fuzz() error {
	fuzzTime := cmp.Or(os.Getenv("STAVE_FUZZ_TIME"), "30s")
	for pkg, fn := range fuzzTargets {
		fmt.Printf("Fuzzing %s %s for %s...\n", pkg, fn, fuzzTime)
		if err := sh.RunV("go", "test", "-run=^$", "-fuzz=^"+fn+"$", "-fuzztime="+fuzzTime, pkg); err != nil {
			return fmt.Errorf("fuzz %s: %w", fn, err)
		}
	}
	return nil
}

// RoundTrip checks that every markdown file in the repository survives a
// parse/serialize round trip through the built binary.
func (Test) RoundTrip() error {
	st.Deps(Build)
	return sh.RunV("bin/mdinbox", "check", "--quiet", "--color", "never", "--exclude", "_examples/**", ".")
}

// ---------------------------------------------------------------------------
// Lint namespace
// ---------------------------------------------------------------------------

// Default runs golangci-lint with auto-fix.
func (Lint) Default() error {
	fmt.Println("Running linters...")
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// Fmt formats all Go code.
func (Lint) Fmt() error {
	fmt.Println("Formatting code...")
	return sh.RunV("gofmt", "-w", ".")
}

// FmtCheck fails when any file needs formatting.
func (Lint) FmtCheck() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return fmt.Errorf("gofmt check failed: %w", err)
	}
	if out != "" {
		return fmt.Errorf("unformatted files:\n%s\nRun 'stave lint:fmt' to fix", out)
	}
	return nil
}

// ---------------------------------------------------------------------------
// CI namespace
// ---------------------------------------------------------------------------

// Gate runs every check a pull request must pass.
func (CI) Gate() error {
	st.SerialDeps(
		Lint.FmtCheck,
		CI.Lint,
		Build,
		Test.Default,
		Test.RoundTrip,
		CI.ModTidy,
	)
	fmt.Println("✓ CI gate passed")
	return nil
}

// Lint runs go vet and golangci-lint without auto-fix.
func (CI) Lint() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	return sh.RunV("golangci-lint", "run", "./...")
}

// ModTidy fails when go mod tidy changes go.mod or go.sum.
func (CI) ModTidy() error {
	files := []string{"go.mod", "go.sum"}

	before := make([][]byte, len(files))
	for i, name := range files {
		data, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		before[i] = data
	}

	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}

	for i, name := range files {
		after, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s after tidy: %w", name, err)
		}
		if !bytes.Equal(before[i], after) {
			return errors.New(name + " changed after 'go mod tidy'; commit the changes")
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Bench namespace
// ---------------------------------------------------------------------------

// Default runs the parser and serializer benchmarks.
func (Bench) Default() error {
	fmt.Println("Running benchmarks...")
	return gotestsum("pkgname-and-test-fails", "-run=^$", "-bench=.", "-benchmem", "./pkg/markdown/...")
}

// ---------------------------------------------------------------------------
// Helpers (unexported, not targets)
// ---------------------------------------------------------------------------

// gotestsum runs go test through gotestsum with the given output format.
// STAVE_NUM_PROCESSORS bounds package and test parallelism.
func gotestsum(format string, args ...string) error {
	nCores := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	cmdArgs := []string{"tool", "gotestsum", "-f", format, "--", "-p", nCores, "-parallel", nCores}
	return sh.RunV("go", append(cmdArgs, args...)...)
}

// gitOutput runs a git command and returns trimmed stdout, or empty on error.
func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// ldflags returns the linker flags for version injection.
func ldflags() string {
	version := cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev")
	commit := cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none")
	date := time.Now().UTC().Format(time.RFC3339)
	return fmt.Sprintf(
		"-X main.version=%s -X main.commit=%s -X main.date=%s",
		version, commit, date,
	)
}
