// Command compile drives the front end and middle end end to end: lex,
// parse, resolve, type-check and monomorphize the listed source files into
// a single MIR program (spec.md §6, "CLI").
//
// Usage:
//
//	compile [--visualize] [--config path.yaml] <file...>
//	compile repl [--config path.yaml]
//
// The interpreter that executes MIR and the transpiler that lowers it to a
// systems target are both out-of-scope collaborators (spec.md §2); this
// command's non-repl form prints the MIR table dump when --visualize is set
// and otherwise reports success, since there is no bundled interpreter to
// hand the program to.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/sunholo/complang/internal/ast"
	"github.com/sunholo/complang/internal/config"
	"github.com/sunholo/complang/internal/errcode"
	"github.com/sunholo/complang/internal/lexer"
	"github.com/sunholo/complang/internal/location"
	"github.com/sunholo/complang/internal/mir"
	"github.com/sunholo/complang/internal/monomorphize"
	"github.com/sunholo/complang/internal/parser"
	"github.com/sunholo/complang/internal/program"
	"github.com/sunholo/complang/internal/resolver"
	"github.com/sunholo/complang/internal/typecheck"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "repl" {
		runREPL(os.Args[2:])
		return
	}

	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	visualize := fs.Bool("visualize", false, "print the MIR program tables as YAML instead of reporting success")
	configPath := fs.String("config", "", "path to a YAML config file (entry_module, entry_function, visualize, experiments)")
	fs.Parse(os.Args[1:])

	files := fs.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "usage: compile [--visualize] [--config path.yaml] <file...>")
		os.Exit(1)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *visualize {
		cfg.Visualize = true
	}

	noColor := !isatty.IsTerminal(os.Stdout.Fd())
	mirProg, sources, locs, diags := compileFiles(files)
	if !diags.Empty() {
		report := &errcode.Report{Locations: locs, Sources: sources, NoColor: noColor}
		fmt.Fprint(os.Stderr, report.Format(diags))
		os.Exit(1)
	}

	if cfg.Visualize {
		out, err := program.Visualize(mirProg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		os.Stdout.Write(out)
		return
	}

	green := color.New(color.FgGreen).SprintFunc()
	if noColor {
		green = fmt.Sprint
	}
	fmt.Printf("%s %d functions, %d typedefs specialized\n", green("ok"), len(mirProg.Functions), len(mirProg.Typedefs))
}

// compileFiles runs every phase of the pipeline over the given source
// files, sharing one location table and AST store across all of them so
// cross-file module imports resolve (spec.md §6, multi-file compilation).
func compileFiles(files []string) (*mir.Program, map[string]string, *location.Table, *errcode.Batch) {
	locs := program.New().Locations
	store := ast.NewStore(locs)
	sources := map[string]string{}

	var mids []ast.ModuleID
	for _, path := range files {
		src, err := os.ReadFile(path)
		if err != nil {
			b := &errcode.Batch{}
			b.Add(errcode.New(errcode.ParCustom, 0, fmt.Sprintf("reading %s: %v", path, err), nil))
			return mir.NewProgram(), sources, locs, b
		}
		sources[path] = string(src)

		toks, lerrs, err := lexer.Lex(locs, path, src)
		if err != nil {
			b := &errcode.Batch{}
			b.Add(errcode.New(errcode.ParCustom, 0, fmt.Sprintf("lexing %s: %v", path, err), nil))
			return mir.NewProgram(), sources, locs, b
		}
		if len(lerrs) > 0 {
			b := &errcode.Batch{}
			for _, le := range lerrs {
				b.Add(errcode.New(errcode.LexUnsupportedCharacter, 0, le.Error(), nil))
			}
			return mir.NewProgram(), sources, locs, b
		}

		p := parser.New(store, locs, toks, path)
		mid, err := p.ParseModule()
		if err != nil {
			b := &errcode.Batch{}
			b.Add(errcode.New(errcode.ParCustom, 0, fmt.Sprintf("parsing %s: %v", path, err), nil))
			return mir.NewProgram(), sources, locs, b
		}
		mids = append(mids, mid)
	}

	irProg, rdiags := resolver.Resolve(store, locs, mids)
	if !rdiags.Empty() {
		return mir.NewProgram(), sources, locs, rdiags
	}

	checker, cdiags := typecheck.Check(irProg)
	if !cdiags.Empty() {
		return mir.NewProgram(), sources, locs, cdiags
	}

	mirProg, mdiags := monomorphize.Run(checker)
	return mirProg, sources, locs, mdiags
}
