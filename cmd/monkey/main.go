// Package main implements the monkey command-line interface.
//
// monkey is a tree-walking interpreter for the Monkey language, covering
// integers, booleans, if/else, prefix and infix operators, and a return
// statement envelope for propagating non-local returns through nested
// blocks. It does not resolve let bindings, identifiers, function literals,
// or call expressions; the parser accepts that grammar but the evaluator
// panics if asked to evaluate it.
//
// The CLI supports two modes of operation:
//   - Interactive REPL mode (default, no file argument)
//   - File evaluation mode (positional argument)
package main

import (
	"flag"
	"fmt"
	"os"
	"os/user"

	"github.com/cmarsters/monkey/evaluator"
	"github.com/cmarsters/monkey/lexer"
	"github.com/cmarsters/monkey/parser"
	"github.com/cmarsters/monkey/repl"
)

func main() {
	flag.Usage = showHelp
	help := flag.Bool("h", false, "Show help")
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	if flag.NArg() > 0 {
		runFile(flag.Arg(0))
		return
	}

	startREPL()
}

func showHelp() {
	fmt.Println("monkey - a tree-walking interpreter for the Monkey language")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  monkey [options] [file]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -h          Show this help")
	fmt.Println()
	fmt.Println("With no file argument, monkey starts an interactive REPL.")
}

// runFile reads and evaluates a single source file, exiting non-zero on a
// parse failure or a panic from an unresolved node kind (let/identifier/
// function literal/call), since there is no REPL loop to recover into here.
func runFile(filename string) {
	content, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "monkey: %v\n", err)
		os.Exit(1)
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			fmt.Fprintf(os.Stderr, "monkey: %v\n", recovered)
			os.Exit(1)
		}
	}()

	l := lexer.New(string(content))
	p := parser.New(l)

	program := p.ParseProgram()
	if len(p.Errors()) != 0 {
		for _, e := range p.Errors() {
			fmt.Fprintf(os.Stderr, "monkey: %s\n", e)
		}
		os.Exit(1)
	}

	result := evaluator.Eval(program)
	if result != nil {
		fmt.Println(result.Inspect())
	}
}

func startREPL() {
	usr, err := user.Current()
	if err != nil {
		panic(err)
	}

	fmt.Printf("welcome %s to monkey.\n\n", usr.Username)
	repl.Start(os.Stdin, os.Stdout)
}
