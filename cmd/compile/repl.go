package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/sunholo/complang/internal/ast"
	"github.com/sunholo/complang/internal/config"
	"github.com/sunholo/complang/internal/lexer"
	"github.com/sunholo/complang/internal/location"
	"github.com/sunholo/complang/internal/monomorphize"
	"github.com/sunholo/complang/internal/parser"
	"github.com/sunholo/complang/internal/resolver"
	"github.com/sunholo/complang/internal/typecheck"
)

// replPrelude declares just enough builtin scaffolding for a standalone
// expression typed against Int/Bool/Float/String to resolve and check, the
// same bodiless-extern-data trick the front end's own package tests use.
const replPrelude = "  data extern Int = {}\n  data extern Bool = {}\n  data extern Float = {}\n  data extern String = {}\n"

// runREPL re-runs the whole batch pipeline (lex, parse, resolve, type-check,
// monomorphize) over each line the user enters, wrapping it as a one-shot
// module, and prints the type of the resulting MIR function for the entered
// expression —
// a thin driver over the existing pipeline rather than an incremental or
// concurrent service (spec.md Non-goals).
func runREPL(args []string) {
	fs := flag.NewFlagSet("repl", flag.ExitOnError)
	configPath := fs.String("config", "", "path to a YAML config file")
	fs.Parse(args)

	if *configPath != "" {
		if _, err := config.Load(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	bold := color.New(color.Bold).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(false)

	fmt.Println(bold("compile repl"))
	fmt.Println("Enter one expression per line; :quit to exit.")

	for {
		input, err := line.Prompt("> ")
		if err == io.EOF || err == liner.ErrPromptAborted {
			fmt.Println()
			return
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == ":quit" {
			return
		}
		line.AppendHistory(input)

		if err := evalREPLExpr(input); err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
		}
	}
}

func evalREPLExpr(expr string) error {
	src := "module Repl where\n" + replPrelude + "  main = " + expr + "\n"

	locs := location.NewTable()
	toks, lerrs, err := lexer.Lex(locs, "<repl>", []byte(src))
	if err != nil {
		return err
	}
	if len(lerrs) > 0 {
		return lerrs[0]
	}

	store := ast.NewStore(locs)
	p := parser.New(store, locs, toks, "<repl>")
	mid, err := p.ParseModule()
	if err != nil {
		return err
	}

	irProg, rdiags := resolver.Resolve(store, locs, []ast.ModuleID{mid})
	if !rdiags.Empty() {
		return fmt.Errorf("%s", rdiags.All()[0].Message)
	}

	checker, cdiags := typecheck.Check(irProg)
	if !cdiags.Empty() {
		return fmt.Errorf("%s", cdiags.All()[0].Message)
	}

	mirProg, mdiags := monomorphize.Run(checker)
	if !mdiags.Empty() {
		return fmt.Errorf("%s", mdiags.All()[0].Message)
	}

	for _, fn := range mirProg.Functions {
		if fn.Name == "main" {
			fmt.Printf("it : %s\n", fn.FunctionType.String())
			return nil
		}
	}
	return fmt.Errorf("expression did not specialize")
}
