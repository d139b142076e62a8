package parser

import (
	"testing"

	"github.com/cmarsters/monkey/ast"
	"github.com/cmarsters/monkey/lexer"
	"github.com/stretchr/testify/require"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := New(lexer.New(input))
	program := p.ParseProgram()
	require.Emptyf(t, p.Errors(), "parser errors: %v", p.Errors())
	require.NotNil(t, program)
	return program
}

func TestLetStatements(t *testing.T) {
	input := `
let x = 5;
let y = 10;
let foobar = 838383;
`
	program := parseProgram(t, input)
	require.Len(t, program.Statements, 3)

	tests := []string{"x", "y", "foobar"}
	for i, name := range tests {
		stmt, ok := program.Statements[i].(*ast.LetStatement)
		require.True(t, ok, "statement %d is not *ast.LetStatement, got %T", i, program.Statements[i])
		require.Equal(t, "let", stmt.TokenLiteral())
		require.Equal(t, name, stmt.Name.Value)
		require.Equal(t, name, stmt.Name.TokenLiteral())
	}
}

func TestLetStatementErrors(t *testing.T) {
	tests := []string{
		`let x 5;`,
		`let = 10;`,
		`let 12345;`,
	}

	for _, input := range tests {
		p := New(lexer.New(input))
		program := p.ParseProgram()
		require.Nil(t, program, "input %q should have failed to parse", input)
		require.NotEmpty(t, p.Errors(), "input %q should have recorded a diagnostic", input)
	}
}

func TestReturnStatements(t *testing.T) {
	input := `
return 5;
return 10;
return 993322;
`
	program := parseProgram(t, input)
	require.Len(t, program.Statements, 3)

	for _, s := range program.Statements {
		stmt, ok := s.(*ast.ReturnStatement)
		require.True(t, ok, "statement is not *ast.ReturnStatement, got %T", s)
		require.Equal(t, "return", stmt.TokenLiteral())
	}
}

func TestIdentifierExpression(t *testing.T) {
	program := parseProgram(t, "foobar;")
	require.Len(t, program.Statements, 1)

	stmt, ok := program.Statements[0].(*ast.ExpressionStatement)
	require.True(t, ok)

	ident, ok := stmt.Expression.(*ast.Identifier)
	require.True(t, ok)
	require.Equal(t, "foobar", ident.Value)
}

func TestIntegerLiteralExpression(t *testing.T) {
	program := parseProgram(t, "5;")
	require.Len(t, program.Statements, 1)

	stmt := program.Statements[0].(*ast.ExpressionStatement)
	lit, ok := stmt.Expression.(*ast.IntegerLiteral)
	require.True(t, ok)
	require.EqualValues(t, 5, lit.Value)
}

func TestBooleanExpression(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"true;", true},
		{"false;", false},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		stmt := program.Statements[0].(*ast.ExpressionStatement)
		b, ok := stmt.Expression.(*ast.Boolean)
		require.True(t, ok)
		require.Equal(t, tt.expected, b.Value)
	}
}

func TestPrefixExpressions(t *testing.T) {
	tests := []struct {
		input    string
		operator string
	}{
		{"!5;", "!"},
		{"-15;", "-"},
		{"!true;", "!"},
		{"!false;", "!"},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		stmt := program.Statements[0].(*ast.ExpressionStatement)
		pe, ok := stmt.Expression.(*ast.PrefixExpression)
		require.True(t, ok)
		require.Equal(t, tt.operator, pe.Operator)
	}
}

func TestInfixExpressions(t *testing.T) {
	tests := []struct {
		input    string
		operator string
	}{
		{"5 + 5;", "+"},
		{"5 - 5;", "-"},
		{"5 * 5;", "*"},
		{"5 / 5;", "/"},
		{"5 > 5;", ">"},
		{"5 < 5;", "<"},
		{"5 == 5;", "=="},
		{"5 != 5;", "!="},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		stmt := program.Statements[0].(*ast.ExpressionStatement)
		ie, ok := stmt.Expression.(*ast.InfixExpression)
		require.True(t, ok)
		require.Equal(t, tt.operator, ie.Operator)
	}
}

// Operator precedence and pretty-print round trip.
func TestOperatorPrecedenceParsingAndPrinting(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"-a * b;", "((-a) * b);"},
		{"!-a;", "(!(-a));"},
		{"a + b + c;", "((a + b) + c);"},
		{"a + b - c;", "((a + b) - c);"},
		{"a * b * c;", "((a * b) * c);"},
		{"a * b / c;", "((a * b) / c);"},
		{"a + b / c;", "(a + (b / c));"},
		{"a + b * c + d / e - f;", "(((a + (b * c)) + (d / e)) - f);"},
		{"5 > 4 == 3 < 4;", "((5 > 4) == (3 < 4));"},
		{"5 < 4 != 3 > 4;", "((5 < 4) != (3 > 4));"},
		{"1 + (2 + 3) + 4;", "((1 + (2 + 3)) + 4);"},
		{"(5 + 5) * 2;", "((5 + 5) * 2);"},
		{"2 / (5 + 5);", "(2 / (5 + 5));"},
		{"-(5 + 5);", "(-(5 + 5));"},
		{"a + add(b * c) + d;", "((a + add((b * c))) + d);"},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		require.Equal(t, tt.expected, program.String(), "input: %s", tt.input)
	}
}

func TestPrettyPrintRoundTrip(t *testing.T) {
	inputs := []string{
		"-a * b;",
		"a + b * c + d / e - f;",
		"1 + (2 + 3) + 4;",
		"if (x < y) {x;} else {y;};",
		"fn(x, y) {x + y;};",
		"add(1, 2 * 3, 4 + 5);",
	}

	for _, input := range inputs {
		first := parseProgram(t, input)
		printed := first.String()
		second := parseProgram(t, printed)
		require.Equal(t, first.String(), second.String(), "round trip mismatch for %q", input)
	}
}

func TestIfExpression(t *testing.T) {
	program := parseProgram(t, "if (x < y) {x;};")
	stmt := program.Statements[0].(*ast.ExpressionStatement)
	exp, ok := stmt.Expression.(*ast.IfExpression)
	require.True(t, ok)
	require.Len(t, exp.Consequence.Statements, 1)
	require.Nil(t, exp.Alternative)
}

func TestIfElseExpression(t *testing.T) {
	program := parseProgram(t, "if (x < y) {x;} else {y;};")
	stmt := program.Statements[0].(*ast.ExpressionStatement)
	exp, ok := stmt.Expression.(*ast.IfExpression)
	require.True(t, ok)
	require.Len(t, exp.Consequence.Statements, 1)
	require.NotNil(t, exp.Alternative)
	require.Len(t, exp.Alternative.Statements, 1)
}

func TestFunctionLiteralParsing(t *testing.T) {
	program := parseProgram(t, "fn(x, y) {x + y;};")
	stmt := program.Statements[0].(*ast.ExpressionStatement)
	fn, ok := stmt.Expression.(*ast.FunctionLiteral)
	require.True(t, ok)
	require.Len(t, fn.Parameters, 2)
	require.Equal(t, "x", fn.Parameters[0].Value)
	require.Equal(t, "y", fn.Parameters[1].Value)
	require.Len(t, fn.Body.Statements, 1)
}

func TestFunctionParameterParsing(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"fn() {};", []string{}},
		{"fn(x) {};", []string{"x"}},
		{"fn(x, y, z) {};", []string{"x", "y", "z"}},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		stmt := program.Statements[0].(*ast.ExpressionStatement)
		fn := stmt.Expression.(*ast.FunctionLiteral)
		require.Len(t, fn.Parameters, len(tt.expected))
		for i, name := range tt.expected {
			require.Equal(t, name, fn.Parameters[i].Value)
		}
	}
}

func TestCallExpressionParsing(t *testing.T) {
	program := parseProgram(t, "add(1, 2 * 3, 4 + 5);")
	stmt := program.Statements[0].(*ast.ExpressionStatement)
	exp, ok := stmt.Expression.(*ast.CallExpression)
	require.True(t, ok)

	ident, ok := exp.Function.(*ast.Identifier)
	require.True(t, ok)
	require.Equal(t, "add", ident.Value)
	require.Len(t, exp.Arguments, 3)
}

func TestParserRecoversAfterIllegalStatement(t *testing.T) {
	// The middle statement's peek-mismatch is recorded and the parser
	// resynchronizes at the next SEMICOLON rather than aborting outright.
	input := `let x = 5;
let = 10;
let y = 15;
`
	p := New(lexer.New(input))
	program := p.ParseProgram()
	require.Nil(t, program)
	require.Len(t, p.Errors(), 1)
}

func TestParserMaxDepth(t *testing.T) {
	input := ""
	depth := 2000
	for i := 0; i < depth; i++ {
		input += "("
	}
	input += "1"
	for i := 0; i < depth; i++ {
		input += ")"
	}
	input += ";"

	p := New(lexer.New(input))
	p.MaxDepth = 50
	program := p.ParseProgram()
	require.Nil(t, program)
	require.NotEmpty(t, p.Errors())
}
