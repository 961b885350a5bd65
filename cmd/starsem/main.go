// Command starsem is the CLI front end for the semantic analysis core:
// `starsem check <file>...` parses, lowers, resolves, and type-checks each
// file and renders its diagnostics. Command dispatch follows the teacher's
// cmd/ailang/main.go (`flag.Parse()`, `switch command`, colored
// success/error lines via github.com/fatih/color); the check command
// itself transcribes original_source/crates/starpls/src/check.rs's
// run_check almost verbatim, down to resolving the dialect of each path
// before handing it to the engine and rendering one line per diagnostic.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/starlark-lsp/semcore/internal/ast"
	"github.com/starlark-lsp/semcore/internal/engine"
	"github.com/starlark-lsp/semcore/internal/errors"
	"github.com/starlark-lsp/semcore/internal/module"
	"github.com/starlark-lsp/semcore/internal/store"
)

var (
	// Version info - set by ldflags during build.
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"

	red  = color.New(color.FgRed).SprintFunc()
	cyan = color.New(color.FgCyan).SprintFunc()
	bold = color.New(color.Bold).SprintFunc()
)

func main() {
	var (
		versionFlag = flag.Bool("version", false, "Print version information")
		helpFlag    = flag.Bool("help", false, "Show help")
		outputBase  = flag.String("output-base", "", "Extra module search root, prepended to STARSEM_PATH")
		jsonFlag    = flag.Bool("json", false, "Emit one JSON Report per diagnostic instead of human-readable lines")
	)
	flag.Parse()

	if *versionFlag {
		printVersion()
		return
	}

	if *helpFlag || flag.NArg() == 0 {
		printHelp()
		return
	}

	command := flag.Arg(0)
	switch command {
	case "check":
		paths := flag.Args()[1:]
		if len(paths) == 0 {
			fmt.Fprintf(os.Stderr, "%s: missing file argument\n", red("Error"))
			fmt.Println("Usage: starsem check <file> [file...]")
			os.Exit(1)
		}
		runCheck(paths, *outputBase, *jsonFlag)

	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command '%s'\n", red("Error"), command)
		printHelp()
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("starsem %s\n", bold(Version))
	if Commit != "unknown" {
		fmt.Printf("Commit: %s\n", Commit)
	}
	if BuildTime != "unknown" {
		fmt.Printf("Built:  %s\n", BuildTime)
	}
	fmt.Println("\nA semantic analysis core for Starlark-family languages")
}

func printHelp() {
	fmt.Println(bold("starsem - semantic analysis for Starlark-family languages"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  starsem <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Printf("  %s <file>...   Parse, resolve, and type-check one or more files\n", cyan("check"))
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --version         Print version information")
	fmt.Println("  --help            Show this help message")
	fmt.Println("  --output-base     Extra module search root, prepended to STARSEM_PATH")
	fmt.Println("  --json            Emit one JSON Report per diagnostic")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Printf("  %s          # Type-check a file\n", cyan("starsem check main.star"))
	fmt.Printf("  %s   # Type-check a whole tree\n", cyan("starsem check pkg/*.star BUILD"))
}

// runCheck resolves each path to a dialect and set of contents, hands them
// to a fresh engine.Analysis as one Change, and renders the diagnostics of
// every resolved file. Mirrors run_check's resolve-all/apply_change-once/
// snapshot-once/render-in-argument-order shape.
func runCheck(paths []string, outputBase string, jsonOut bool) {
	if outputBase != "" {
		if existing := os.Getenv("STARSEM_PATH"); existing != "" {
			outputBase = outputBase + string(os.PathListSeparator) + existing
		}
		os.Setenv("STARSEM_PATH", outputBase)
	}

	st := store.New()
	resolver := module.NewResolver()
	an := engine.New(st, module.NewLoader(st))
	change := engine.NewChange()

	type checkedFile struct {
		original string
		id       store.FileId
	}
	var files []checkedFile

	for _, p := range paths {
		resolved, err := resolver.NormalizePath(p)
		if err != nil {
			reportUnresolvedPath(p, err, jsonOut)
		}
		if _, ok := st.Lookup(resolved); ok {
			continue
		}
		contents, err := os.ReadFile(resolved)
		if err != nil {
			reportUnresolvedPath(p, err, jsonOut)
		}
		dialect, ok := inferDialect(resolved)
		if !ok {
			reportUnresolvedPath(p, fmt.Errorf("no known dialect for %q", resolved), jsonOut)
		}
		change.CreateFile(resolved, dialect, contents)
		files = append(files, checkedFile{original: p})
	}

	ids := an.ApplyChange(change)
	for i := range files {
		files[i].id = ids[i]
	}

	snap := an.Snapshot()
	var rendered strings.Builder
	hasError := false

	for _, f := range files {
		diags, err := snap.Diagnostics(f.id)
		if err != nil {
			emitCLIError(errors.WrapReport(errors.NewGeneric("cli", err)), jsonOut)
			os.Exit(1)
		}
		for _, d := range diags {
			if d.Severity == errors.SeverityError {
				hasError = true
			}
			if jsonOut {
				info, _ := errors.GetErrorInfo(d.Kind)
				rep := errors.FromDiagnostic(info.Phase, d.Kind, d)
				line, encErr := rep.ToJSON(true)
				if encErr != nil {
					continue
				}
				rendered.WriteString(line)
				rendered.WriteString("\n")
				continue
			}
			fmt.Fprintf(&rendered, "%s:%d:%d - %s: %s\n",
				f.original, d.Span.Start.Line, d.Span.Start.Column, severityWord(d.Severity), d.Message)
		}
	}

	fmt.Print(rendered.String())
	if hasError {
		os.Exit(1)
	}
}

// reportUnresolvedPath reports a CLI-level failure to resolve p to an
// analyzable file (not a parse/type diagnostic, which flows through
// Snapshot.Diagnostics instead). The failure is carried as a *errors.Report
// under CLI002 ("path does not exist") so --json callers get the same
// structured shape a diagnostic would, wrapped as an error via
// errors.WrapReport/errors.ReportError the way a deeper layer would hand one
// back up a call chain.
func reportUnresolvedPath(p string, cause error, jsonOut bool) {
	rep := errors.NewGeneric("cli", fmt.Errorf("could not resolve the path %q as a Starlark file: %w", p, cause))
	rep.Code = errors.CLI002
	emitCLIError(errors.WrapReport(rep), jsonOut)
	os.Exit(1)
}

// emitCLIError renders a CLI-level error (as opposed to an analysis
// Diagnostic) either as the same JSON Report shape --json uses for
// diagnostics, or as a plain colored line. errors.AsReport recovers the
// wrapped Report if err carries one; errors.NewGeneric covers any error
// that doesn't.
func emitCLIError(err error, jsonOut bool) {
	if !jsonOut {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return
	}
	rep, ok := errors.AsReport(err)
	if !ok {
		rep = errors.NewGeneric("cli", err)
	}
	line, encErr := rep.ToJSON(true)
	if encErr != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		return
	}
	fmt.Println(line)
}

func severityWord(s errors.Severity) string {
	switch s {
	case errors.SeverityWarning:
		return "warn"
	case errors.SeverityError:
		return "error"
	default:
		return "hint"
	}
}

// inferDialect matches the original's extension/basename rule: .bzl/.bazel
// is Bazel, .sky/.star is Standard, and an extensionless WORKSPACE or
// BUILD file is Bazel. The original source matches the basename against
// the literal string "WORKSPACE | BUILD" (a `|`-joined typo that can never
// match either name); per the redesign flag recorded in DESIGN.md this is
// treated as intending "WORKSPACE or BUILD" and implemented that way.
func inferDialect(path string) (ast.Dialect, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	switch ext {
	case "bzl", "bazel":
		return ast.Bazel, true
	case "sky", "star":
		return ast.Standard, true
	case "":
		switch filepath.Base(path) {
		case "WORKSPACE", "BUILD":
			return ast.Bazel, true
		}
		return ast.Dialect(0), false
	default:
		return ast.Dialect(0), false
	}
}
