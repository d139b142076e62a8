package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/cmarsters/monkey/ast"
	"github.com/cmarsters/monkey/evaluator"
	"github.com/cmarsters/monkey/lexer"
	"github.com/cmarsters/monkey/object"
	"github.com/cmarsters/monkey/parser"
	"github.com/cmarsters/monkey/token"
)

const PROMPT = ">>> "
const WELCOME_BANNER = `
⣴⣦⣤⣄⣀⣠⣄⠀⣰⡆⣰⡆⠀⠀
monkey 0.000001
⠛⠛⠹⠛⠛⢽⠟⠁⠸⠛⠻⠟⠀⠀
`
const SAD_FACE = `
(◞‸ ◟)💧
`

var (
	yellowColor = color.New(color.FgYellow)
	redColor    = color.New(color.FgRed)
	greenColor  = color.New(color.FgGreen)
	cyanColor   = color.New(color.FgCyan)
)

// Start drives an interactive session over readline: each line is lexed,
// parsed, and evaluated in turn, with colored feedback for results, parser
// diagnostics, and runtime panics (the evaluator panics on the let/
// identifier/function/call node kinds it doesn't resolve).
//
// ':tokens <src>' and ':ast <src>' are meta-commands that show the lexer's
// token stream or the parser's pretty-printed AST for a line instead of
// evaluating it - useful for poking at why a line parses the way it does.
func Start(in io.Reader, out io.Writer) {
	greenColor.Fprint(out, WELCOME_BANNER)
	cyanColor.Fprintln(out, "Type monkey source and press enter. Ctrl+D to quit.")
	cyanColor.Fprintln(out, "':tokens <src>' dumps the token stream, ':ast <src>' dumps the parsed AST.")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:      PROMPT,
		Stdin:       io.NopCloser(in),
		Stdout:      out,
		HistoryFile: "",
	})
	if err != nil {
		panic(err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			fmt.Fprintln(out, "bye.")
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, ":tokens "):
			printTokens(out, strings.TrimPrefix(line, ":tokens "))
		case strings.HasPrefix(line, ":ast "):
			printAST(out, strings.TrimPrefix(line, ":ast "))
		default:
			executeWithRecovery(out, line)
		}
	}
}

func printTokens(out io.Writer, src string) {
	l := lexer.New(src)
	for {
		tok := l.NextToken()
		fmt.Fprintf(out, "%d:%d %-10s %q\n", tok.Line, tok.Column, tok.Type, tok.Literal)
		if tok.Type == token.EOF {
			return
		}
	}
}

func printAST(out io.Writer, src string) {
	p := parser.New(lexer.New(src))
	program := p.ParseProgram()
	if len(p.Errors()) != 0 {
		printParserErrors(out, p.Errors())
		return
	}
	fmt.Fprintln(out, prettyPrint(program))
}

func prettyPrint(program *ast.Program) string {
	return program.String()
}

// executeWithRecovery parses and evaluates a single line, recovering from
// any panic so a single bad line (e.g. a still-unresolved identifier) can't
// take the whole session down.
func executeWithRecovery(out io.Writer, line string) {
	defer func() {
		if recovered := recover(); recovered != nil {
			redColor.Fprintf(out, "[runtime error] %v\n", recovered)
		}
	}()

	l := lexer.New(line)
	p := parser.New(l)

	program := p.ParseProgram()
	if len(p.Errors()) != 0 {
		printParserErrors(out, p.Errors())
		return
	}

	evaluated := evaluator.Eval(program)
	if evaluated == nil {
		return
	}

	if evaluated.Type() == object.ERROR_OBJ {
		redColor.Fprintln(out, evaluated.Inspect())
		return
	}

	yellowColor.Fprintln(out, evaluated.Inspect())
}

func printParserErrors(out io.Writer, errors []error) {
	fmt.Fprint(out, SAD_FACE)
	redColor.Fprintln(out, "what'd you doooo?!")
	for _, err := range errors {
		redColor.Fprintf(out, "\t%s\n", err)
	}
}
