package parser

import (
	"fmt"

	"github.com/cmarsters/monkey/ast"
	"github.com/cmarsters/monkey/lexer"
	"github.com/cmarsters/monkey/token"
	"strconv"
)

// Setting the PEMDAS order of operations for later consideration.
const (
	_ int = iota
	LOWEST
	EQUALS      // ==
	LESSGREATER // < or >
	SUM         // +
	PRODUCT     // *
	PREFIX      // -X or !X
	CALL        // someFunction(X)
)

// DefaultMaxDepth caps parseExpression recursion so pathological input
// (thousands of unbalanced parens, say) fails with a diagnostic instead
// of overflowing the Go call stack.
const DefaultMaxDepth = 500

// precedences maps a token type to its infix binding power. Any token
// not present here binds at LOWEST, which is what stops the infix loop.
var precedences = map[token.TokenType]int{
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       LESSGREATER,
	token.GT:       LESSGREATER,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.SLASH:    PRODUCT,
	token.ASTERISK: PRODUCT,
	token.LPAREN:   CALL,
}

/*
Pratt Parser

A Pratt parser’s main idea is the association of parsing functions (which Pratt calls “semantic code”) with token types.
Whenever this token type is encountered, the parsing functions are called to parse the appropriate expression and
return an AST node that represents it.
Each token type can have up to two parsing functions associated with it, depending on whether the token is found in a prefix or an infix position.
*/

/*
Both of the following function types return an ast.Expression, since that’s what we’re here to parse.
Only the infixParseFn takes an argument: another ast.Expression. This argument is “left side” of the infix operator that’s being parsed.
A prefix operator doesn’t have a “left side”, per definition.

prefixParseFns gets called when we encounter the associated token type in prefix position and infixParseFn gets called
when we encounter the token type in infix position.
*/
type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(expression ast.Expression) ast.Expression
)

/*
Parser has the following fields:
-lexer is a pointer to an instance of the lexer, on which we repeatedly call NextToken() to get the next token in the input.
-errors holds a slice of errors the parsing encounters
-currentToken and peekToken act exactly like the two “pointers” our lexer has: position and readPosition.
-prefixParseFns and infixParseFns maps ensure the correct prefixParseFn or infixParseFn for the current token type

Instead of pointing to a character in the input, they point to the current and the next token.

Both are important: we need to look at the currentToken, which is the current token under examination,
to decide what to do next, and we also need peekToken for this decision if currentToken doesn’t give us enough information.

Think of a single line only containing 5;. Then currentToken is a token.INT and we need peekToken to decide whether
we are at the end of the line or if we are at just the start of an arithmetic expression.
*/
type Parser struct {
	lexer        *lexer.Lexer
	errors       []error
	currentToken token.Token
	peekToken    token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn

	// MaxDepth bounds parseExpression recursion. Zero means DefaultMaxDepth.
	MaxDepth int
	depth    int
}

// New returns a pointer to a Parser
func New(l *lexer.Lexer) *Parser {
	parse := &Parser{
		lexer: l,
	}

	// initialize the prefixParseFns map on Parser and register parsing functions:
	// EX: if we encounter a token of type token.IDENT the parsing function to call is parseIdentifier, a method we defined on *Parser.
	parse.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	parse.registerPrefix(token.IDENT, parse.parseIdentifier)
	parse.registerPrefix(token.INT, parse.parseIntegerLiteral)
	parse.registerPrefix(token.TRUE, parse.parseBoolean)
	parse.registerPrefix(token.FALSE, parse.parseBoolean)
	parse.registerPrefix(token.BANG, parse.parsePrefixExpression)
	parse.registerPrefix(token.MINUS, parse.parsePrefixExpression)
	parse.registerPrefix(token.LPAREN, parse.parseGroupedExpression)
	parse.registerPrefix(token.IF, parse.parseIfExpression)
	parse.registerPrefix(token.FUNCTION, parse.parseFunctionLiteral)

	parse.infixParseFns = make(map[token.TokenType]infixParseFn)
	parse.registerInfix(token.PLUS, parse.parseInfixExpression)
	parse.registerInfix(token.MINUS, parse.parseInfixExpression)
	parse.registerInfix(token.SLASH, parse.parseInfixExpression)
	parse.registerInfix(token.ASTERISK, parse.parseInfixExpression)
	parse.registerInfix(token.EQ, parse.parseInfixExpression)
	parse.registerInfix(token.NOT_EQ, parse.parseInfixExpression)
	parse.registerInfix(token.LT, parse.parseInfixExpression)
	parse.registerInfix(token.GT, parse.parseInfixExpression)
	parse.registerInfix(token.LPAREN, parse.parseCallExpression)

	// Read two tokens to set both currentToken and peekToken
	parse.nextToken()
	parse.nextToken()

	return parse
}

// nextToken is a small helper that advances both currentToken and peekToken
func (p *Parser) nextToken() {
	p.currentToken = p.peekToken
	p.peekToken = p.lexer.NextToken()
}

// maxDepth returns the effective recursion cap, defaulting when unset.
func (p *Parser) maxDepth() int {
	if p.MaxDepth > 0 {
		return p.MaxDepth
	}
	return DefaultMaxDepth
}

/*
ParseProgram constructs the root node of the AST, an *ast.Program. It then iterates over every token in the input until
it encounters a token.EOF token. It does this by repeatedly calling nextToken, which advances both p.currentToken and p.peekToken.
In every iteration it calls parseStatement, whose job it is to parse a statement. If parseStatement returned something
other than nil, an ast.Statement, its return value is added to Statements slice of the AST root node.

An ILLEGAL token is fatal: one diagnostic is recorded and parsing stops immediately rather than trying to resynchronize
past it. Any other statement-level failure resynchronizes at the next SEMICOLON (or EOF/ILLEGAL).

ParseProgram only returns a *ast.Program when the error list ends up empty; otherwise it returns nil so callers
are forced to go check Errors().
*/
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{Statements: []ast.Statement{}}

	for !p.currentTokenIs(token.EOF) {
		if p.currentTokenIs(token.ILLEGAL) {
			p.illegalTokenError()
			break
		}

		statement := p.parseStatement()
		if statement != nil {
			program.Statements = append(program.Statements, statement)
		} else {
			p.synchronize()
			if p.currentTokenIs(token.ILLEGAL) {
				p.illegalTokenError()
				break
			}
		}

		p.nextToken()
	}

	if len(p.errors) > 0 {
		return nil
	}
	return program
}

// synchronize advances the token stream to the next SEMICOLON, EOF, or
// ILLEGAL token, so ParseProgram can resume parsing at the start of the
// next statement after a parse failure.
func (p *Parser) synchronize() {
	for !p.currentTokenIs(token.SEMICOLON) && !p.currentTokenIs(token.EOF) && !p.currentTokenIs(token.ILLEGAL) {
		p.nextToken()
	}
}

// parseStatement checks the Type of the current token.
func (p *Parser) parseStatement() ast.Statement {
	switch p.currentToken.Type {
	case token.LET:
		if stmt := p.parseLetStatement(); stmt != nil {
			return stmt
		}
		return nil
	case token.RETURN:
		if stmt := p.parseReturnStatement(); stmt != nil {
			return stmt
		}
		return nil
	default:
		if stmt := p.parseExpressionStatement(); stmt != nil {
			return stmt
		}
		return nil
	}
}

/*
parseLetStatement constructs an *ast.LetStatement node with the token it’s currently sitting on (a token.LET token) and
then advances the tokens while making assertions about the next token with calls to expectPeek.

It expects a token.IDENT token, which it then uses to construct an *ast.Identifier node. Then it expects an
equal sign, parses the value expression, and expects a trailing semicolon.
*/
func (p *Parser) parseLetStatement() *ast.LetStatement {
	stmt := &ast.LetStatement{
		Token: p.currentToken,
	}

	if !p.expectPeek(token.IDENT) {
		return nil
	}

	stmt.Name = &ast.Identifier{
		Token: p.currentToken,
		Value: p.currentToken.Literal,
	}

	if !p.expectPeek(token.ASSIGN) {
		return nil
	}

	p.nextToken()

	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}

	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}

	return stmt
}

// parseReturnStatement constructs an ast.ReturnStatement, with the current token it’s sitting on as Token.
// It then brings the parser in place for the expression that comes next by calling nextToken(), parses that
// expression, and expects a trailing semicolon.
func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	statement := &ast.ReturnStatement{Token: p.currentToken}
	p.nextToken()

	statement.ReturnValue = p.parseExpression(LOWEST)
	if statement.ReturnValue == nil {
		return nil
	}

	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}

	return statement
}

// currentTokenIs returns the bool repr of asserting if the current token is of an assumed type
func (p *Parser) currentTokenIs(t token.TokenType) bool {
	return p.currentToken.Type == t
}

// peekTokenIs returns the bool repr of asserting if the next token is of an assumed type
func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

// peekPrecedence returns the precedence associated with p.peekToken's type, or LOWEST.
func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// currentPrecedence returns the precedence associated with p.currentToken's type, or LOWEST.
func (p *Parser) currentPrecedence() int {
	if prec, ok := precedences[p.currentToken.Type]; ok {
		return prec
	}
	return LOWEST
}

/*
expectPeek method is one of the “assertion functions” nearly all parsers share. Their primary purpose is to enforce
the correctness of the order of tokens by checking the type of the next token.

Our expectPeek here checks the type of the peekToken and only if the type is correct does it advance the tokens by
calling nextToken.
*/
func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

/*
prefixParseFns gets called when we encounter the associated token type in prefix position and
infixParseFn gets called when we encounter the token type in infix position.
*/

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

// Errors returns the diagnostics accumulated while parsing.
func (p *Parser) Errors() []error {
	return p.errors
}

// peekError adds an error to p.errors when the type of peekToken does not match the expectation.
func (p *Parser) peekError(tok token.TokenType) {
	p.errors = append(p.errors, fmt.Errorf(
		"%d:%d: expected next token to be %s, got %s instead",
		p.peekToken.Line, p.peekToken.Column, tok, p.peekToken.Type,
	))
}

// illegalTokenError records the fatal diagnostic for an ILLEGAL token.
func (p *Parser) illegalTokenError() {
	p.errors = append(p.errors, fmt.Errorf(
		"%d:%d: illegal token %q",
		p.currentToken.Line, p.currentToken.Column, p.currentToken.Literal,
	))
}

/*
parseExpressionStatement builds an AST node and then attempts to fill its field by calling other parsing functions.
We call parseExpression() with the constant LOWEST, then require a trailing semicolon. This is the language's
chosen discipline, unlike the REPL-friendly optional-semicolon dialect some Monkey ports use.
*/
func (p *Parser) parseExpressionStatement() *ast.ExpressionStatement {
	statement := &ast.ExpressionStatement{
		Token: p.currentToken,
	}

	statement.Expression = p.parseExpression(LOWEST)
	if statement.Expression == nil {
		return nil
	}

	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}

	return statement
}

/*
parseExpression is the Pratt core. It looks up the null-denotation (prefix) rule for the current token, builds the
left operand, then repeatedly looks for a left-denotation (infix) rule as long as the peek token's precedence beats
the precedence passed in. Using strict greater-than against the incoming precedence (rather than greater-or-equal)
is what makes equal-precedence operators left-associate: by the time we'd consider another operator of the same
precedence, its precedence no longer "beats" our own.
*/
func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > p.maxDepth() {
		p.errors = append(p.errors, fmt.Errorf(
			"%d:%d: expression nesting exceeds max depth of %d",
			p.currentToken.Line, p.currentToken.Column, p.maxDepth(),
		))
		return nil
	}

	prefix := p.prefixParseFns[p.currentToken.Type]

	if prefix == nil {
		p.noPrefixParseFnError(p.currentToken.Type)
		return nil
	}

	leftExp := prefix()

	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}

		p.nextToken()

		leftExp = infix(leftExp)
	}

	return leftExp
}

/*
parseIdentifier returns a *ast.Identifier with the current token in the Token field and the literal value of the token in Value.

Note: It doesn’t advance the tokens, it doesn’t call nextToken; we simply start with currentToken being the type of token
you’re associated with and return with currentToken being the last token that’s part of your expression type.
Never advance the tokens too far.
*/
func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{
		Token: p.currentToken,
		Value: p.currentToken.Literal,
	}
}

// parseIntegerLiteral makes a call to strconv.ParseInt, which converts the string in p.currentToken.Literal into an int64.
// The int64 then gets saved to the Value field, and we return the newly constructed *ast.IntegerLiteral node.
// If that doesn’t work, we add a new error to the parser’s errors field.
func (p *Parser) parseIntegerLiteral() ast.Expression {
	lit := &ast.IntegerLiteral{Token: p.currentToken}

	value, err := strconv.ParseInt(p.currentToken.Literal, 0, 64)
	if err != nil {
		p.errors = append(p.errors, fmt.Errorf(
			"%d:%d: could not parse %q as integer",
			p.currentToken.Line, p.currentToken.Column, p.currentToken.Literal,
		))
		return nil
	}

	lit.Value = value

	return lit
}

// parseBoolean returns a *ast.Boolean for the current TRUE/FALSE token.
func (p *Parser) parseBoolean() ast.Expression {
	return &ast.Boolean{
		Token: p.currentToken,
		Value: p.currentTokenIs(token.TRUE),
	}
}

// noPrefixParseFnError just adds a formatted error message to our parser’s errors field.
func (p *Parser) noPrefixParseFnError(t token.TokenType) {
	p.errors = append(p.errors, fmt.Errorf(
		"%d:%d: no prefix parse function for %s found",
		p.currentToken.Line, p.currentToken.Column, t,
	))
}

/*
	parsePrefixExpression builds an AST node, in this case *ast.PrefixExpression, just like the parsing functions we saw before.

But then it does something different: it actually advances our tokens by calling p.nextToken().

When parsePrefixExpression is called, p.currentToken is either of type token.BANG or token.MINUS, because otherwise it
wouldn’t have been called. But in order to correctly parse a prefix expression like -5 more than one token has to be “consumed”.
So after using p.currentToken to build a *ast.PrefixExpression node, the method advances the tokens and calls parseExpression again.
This time with the precedence of prefix operators as argument.
*/
func (p *Parser) parsePrefixExpression() ast.Expression {
	expression := &ast.PrefixExpression{
		Token:    p.currentToken,
		Operator: p.currentToken.Literal,
	}

	p.nextToken()

	expression.Right = p.parseExpression(PREFIX)
	if expression.Right == nil {
		return nil
	}

	return expression
}

// parseInfixExpression is called by parseExpression's infix loop once it already has a left operand. It captures the
// operator token, advances past it, and parses the right operand at the operator's own precedence. This is what
// makes higher-precedence operators bind tighter than the one that called us.
func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.currentToken,
		Left:     left,
		Operator: p.currentToken.Literal,
	}

	precedence := p.currentPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}

	return expression
}

// parseGroupedExpression handles a parenthesized expression used purely to override precedence: "(" expr ")".
func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()

	exp := p.parseExpression(LOWEST)
	if exp == nil {
		return nil
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	return exp
}

// parseIfExpression handles "if" "(" Condition ")" Consequence ("else" Alternative)?.
func (p *Parser) parseIfExpression() ast.Expression {
	expression := &ast.IfExpression{Token: p.currentToken}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}

	p.nextToken()
	expression.Condition = p.parseExpression(LOWEST)
	if expression.Condition == nil {
		return nil
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}

	expression.Consequence = p.parseBlockStatement()
	if expression.Consequence == nil {
		return nil
	}

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()

		if !p.expectPeek(token.LBRACE) {
			return nil
		}

		expression.Alternative = p.parseBlockStatement()
		if expression.Alternative == nil {
			return nil
		}
	}

	return expression
}

// parseBlockStatement expects the caller to have already consumed the opening LBRACE; it parses statements until
// it sees RBRACE or EOF.
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.currentToken, Statements: []ast.Statement{}}

	p.nextToken()

	for !p.currentTokenIs(token.RBRACE) && !p.currentTokenIs(token.EOF) {
		if p.currentTokenIs(token.ILLEGAL) {
			p.illegalTokenError()
			return nil
		}

		statement := p.parseStatement()
		if statement != nil {
			block.Statements = append(block.Statements, statement)
		} else {
			p.synchronize()
			if p.currentTokenIs(token.ILLEGAL) {
				p.illegalTokenError()
				return nil
			}
		}

		p.nextToken()
	}

	if !p.currentTokenIs(token.RBRACE) {
		p.errors = append(p.errors, fmt.Errorf(
			"%d:%d: expected next token to be %s, got %s instead",
			p.currentToken.Line, p.currentToken.Column, token.RBRACE, p.currentToken.Type,
		))
		return nil
	}

	return block
}

// parseFunctionLiteral handles "fn" "(" ParamList ")" Body.
func (p *Parser) parseFunctionLiteral() ast.Expression {
	lit := &ast.FunctionLiteral{Token: p.currentToken}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}

	lit.Parameters = p.parseFunctionParameters()
	if lit.Parameters == nil {
		return nil
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}

	lit.Body = p.parseBlockStatement()
	if lit.Body == nil {
		return nil
	}

	return lit
}

// parseFunctionParameters parses zero or more comma-separated IDENT tokens up to a closing RPAREN. The caller is
// expected to have already consumed the opening LPAREN.
func (p *Parser) parseFunctionParameters() []*ast.Identifier {
	identifiers := []*ast.Identifier{}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return identifiers
	}

	p.nextToken()

	if !p.currentTokenIs(token.IDENT) {
		p.errors = append(p.errors, fmt.Errorf(
			"%d:%d: expected next token to be %s, got %s instead",
			p.currentToken.Line, p.currentToken.Column, token.IDENT, p.currentToken.Type,
		))
		return nil
	}

	identifiers = append(identifiers, &ast.Identifier{Token: p.currentToken, Value: p.currentToken.Literal})

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()

		if !p.currentTokenIs(token.IDENT) {
			p.errors = append(p.errors, fmt.Errorf(
				"%d:%d: expected next token to be %s, got %s instead",
				p.currentToken.Line, p.currentToken.Column, token.IDENT, p.currentToken.Type,
			))
			return nil
		}

		identifiers = append(identifiers, &ast.Identifier{Token: p.currentToken, Value: p.currentToken.Literal})
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	return identifiers
}

// parseCallExpression is the infix rule registered for LPAREN: it's invoked when the parser sees "(" following
// something already parsed as an expression, and parses the argument list. The callee is not checked: any
// expression, not only an identifier or a function literal, becomes the call's Function.
func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	exp := &ast.CallExpression{Token: p.currentToken, Function: function}

	args := p.parseCallArguments()
	if args == nil {
		return nil
	}
	exp.Arguments = args

	return exp
}

// parseCallArguments parses zero or more comma-separated expressions up to a closing RPAREN. The caller is
// expected to have already consumed the opening LPAREN (p.currentToken is LPAREN on entry).
func (p *Parser) parseCallArguments() []ast.Expression {
	args := []ast.Expression{}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return args
	}

	p.nextToken()
	arg := p.parseExpression(LOWEST)
	if arg == nil {
		return nil
	}
	args = append(args, arg)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()

		arg := p.parseExpression(LOWEST)
		if arg == nil {
			return nil
		}
		args = append(args, arg)
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	return args
}
