package parser

import (
	"github.com/pkg/errors"

	"github.com/saneql/saneql/ast"
)

// Parse parses a query into its syntax tree.
func Parse(input string) (*ast.QueryBody, error) {
	lex := newLexer(input)
	var tokens []token
	for {
		tok, err := lex.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.kind == tokenEOF {
			break
		}
	}
	p := &parser{tokens: tokens}
	return p.parseQuery()
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) peekAt(offset int) token {
	if p.pos+offset >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+offset]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) accept(kind tokenKind) bool {
	if p.peek().kind == kind {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	tok := p.peek()
	if tok.kind != kind {
		return token{}, p.unexpected(tok, what)
	}
	return p.next(), nil
}

func (p *parser) unexpected(tok token, what string) error {
	got := "'" + tok.text + "'"
	if tok.kind == tokenEOF {
		got = "end of input"
	}
	return errors.Errorf("%d:%d: expected %s, got %s", tok.line, tok.col, what, got)
}

func (p *parser) parseQuery() (*ast.QueryBody, error) {
	query := &ast.QueryBody{}
	for p.peek().kind == tokenLet {
		let, err := p.parseLet()
		if err != nil {
			return nil, err
		}
		query.Lets = append(query.Lets, let)
		p.accept(tokenComma)
	}
	body, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	query.Body = body
	p.accept(tokenSemicolon)
	if tok := p.peek(); tok.kind != tokenEOF {
		return nil, p.unexpected(tok, "end of input")
	}
	return query, nil
}

func (p *parser) parseLet() (*ast.LetEntry, error) {
	if _, err := p.expect(tokenLet, "'let'"); err != nil {
		return nil, err
	}
	name, err := p.parseIdentifierToken("let name")
	if err != nil {
		return nil, err
	}
	let := &ast.LetEntry{Name: name}
	if p.accept(tokenLParen) {
		args, err := p.parseLetArgs()
		if err != nil {
			return nil, err
		}
		let.Args = args
	}
	if _, err := p.expect(tokenColonEquals, "':='"); err != nil {
		return nil, err
	}
	body, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	let.Body = body
	return let, nil
}

func (p *parser) parseLetArgs() ([]*ast.LetArg, error) {
	args := []*ast.LetArg{}
	if p.accept(tokenRParen) {
		return args, nil
	}
	for {
		name, err := p.parseIdentifierToken("parameter name")
		if err != nil {
			return nil, err
		}
		arg := &ast.LetArg{Name: name}
		if p.accept(tokenColon) {
			argType, err := p.parseIdentifierToken("parameter type")
			if err != nil {
				return nil, err
			}
			arg.Type = argType
		}
		if p.accept(tokenColonEquals) {
			def, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			arg.Default = def
		}
		args = append(args, arg)
		if !p.accept(tokenComma) {
			break
		}
	}
	if _, err := p.expect(tokenRParen, "')'"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) parseIdentifierToken(what string) (*ast.Token, error) {
	tok := p.peek()
	switch tok.kind {
	case tokenIdentifier:
		p.next()
		return &ast.Token{Encoding: ast.EncodingIdentifier, Value: tok.text}, nil
	case tokenQuotedIdentifier:
		p.next()
		return &ast.Token{Encoding: ast.EncodingIdentifierLiteral, Value: tok.text}, nil
	}
	return nil, p.unexpected(tok, what)
}

func (p *parser) parseExpression() (ast.Expression, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (ast.Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.accept(tokenOr) {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Op: ast.BinaryOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (ast.Expression, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.accept(tokenAnd) {
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Op: ast.BinaryAnd, Left: left, Right: right}
	}
	return left, nil
}

var comparisonOps = map[tokenKind]ast.BinaryOp{
	tokenEquals:         ast.BinaryEquals,
	tokenNotEquals:      ast.BinaryNotEquals,
	tokenLess:           ast.BinaryLess,
	tokenLessOrEqual:    ast.BinaryLessOrEqual,
	tokenGreater:        ast.BinaryGreater,
	tokenGreaterOrEqual: ast.BinaryGreaterOrEqual,
}

func (p *parser) parseComparison() (ast.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := comparisonOps[p.peek().kind]
		if !ok {
			return left, nil
		}
		p.next()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseAdditive() (ast.Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinaryOp
		switch p.peek().kind {
		case tokenPlus:
			op = ast.BinaryPlus
		case tokenMinus:
			op = ast.BinaryMinus
		default:
			return left, nil
		}
		p.next()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseMultiplicative() (ast.Expression, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinaryOp
		switch p.peek().kind {
		case tokenAsterisk:
			op = ast.BinaryMul
		case tokenSolidus:
			op = ast.BinaryDiv
		case tokenPercent:
			op = ast.BinaryMod
		default:
			return left, nil
		}
		p.next()
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Op: op, Left: left, Right: right}
	}
}

func (p *parser) parsePower() (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if !p.accept(tokenCircumflex) {
		return left, nil
	}
	right, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	return &ast.BinaryExpression{Op: ast.BinaryPower, Left: left, Right: right}, nil
}

func (p *parser) parseUnary() (ast.Expression, error) {
	var op ast.UnaryOp
	switch p.peek().kind {
	case tokenPlus:
		op = ast.UnaryPlus
	case tokenMinus:
		op = ast.UnaryMinus
	case tokenExclamation:
		op = ast.UnaryNot
	default:
		return p.parsePostfix()
	}
	p.next()
	input, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &ast.UnaryExpression{Op: op, Input: input}, nil
}

func (p *parser) parsePostfix() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokenDot:
			p.next()
			part, err := p.parseIdentifierToken("member name")
			if err != nil {
				return nil, err
			}
			expr = &ast.Access{Base: expr, Part: part}
		case tokenLParen:
			p.next()
			args, err := p.parseCallArgs()
			if err != nil {
				return nil, err
			}
			expr = &ast.Call{Func: expr, Args: args}
		case tokenColonColon:
			p.next()
			name, err := p.parseIdentifierToken("type name")
			if err != nil {
				return nil, err
			}
			expr = &ast.Cast{Value: expr, Type: &ast.TypeName{Name: name}}
		default:
			return expr, nil
		}
	}
}

func (p *parser) parseCallArgs() ([]*ast.FuncArg, error) {
	args := []*ast.FuncArg{}
	if p.accept(tokenRParen) {
		return args, nil
	}
	for {
		arg := &ast.FuncArg{}
		if (p.peek().kind == tokenIdentifier || p.peek().kind == tokenQuotedIdentifier) &&
			p.peekAt(1).kind == tokenColonEquals {
			name, err := p.parseIdentifierToken("parameter name")
			if err != nil {
				return nil, err
			}
			p.next()
			arg.Name = name
		}
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		arg.Value = value
		args = append(args, arg)
		if !p.accept(tokenComma) {
			break
		}
	}
	if _, err := p.expect(tokenRParen, "')'"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) parsePrimary() (ast.Expression, error) {
	tok := p.peek()
	switch tok.kind {
	case tokenInteger:
		p.next()
		return &ast.Literal{Kind: ast.LiteralInteger, Value: tok.text}, nil
	case tokenFloat:
		p.next()
		return &ast.Literal{Kind: ast.LiteralFloat, Value: tok.text}, nil
	case tokenString:
		p.next()
		return &ast.Literal{Kind: ast.LiteralString, Value: tok.text}, nil
	case tokenTrue:
		p.next()
		return &ast.Literal{Kind: ast.LiteralTrue, Value: "true"}, nil
	case tokenFalse:
		p.next()
		return &ast.Literal{Kind: ast.LiteralFalse, Value: "false"}, nil
	case tokenNull:
		p.next()
		return &ast.Literal{Kind: ast.LiteralNull, Value: "null"}, nil
	case tokenIdentifier:
		p.next()
		return &ast.Token{Encoding: ast.EncodingIdentifier, Value: tok.text}, nil
	case tokenQuotedIdentifier:
		p.next()
		return &ast.Token{Encoding: ast.EncodingIdentifierLiteral, Value: tok.text}, nil
	case tokenParameter:
		p.next()
		return &ast.Token{Encoding: ast.EncodingParameter, Value: tok.text}, nil
	case tokenLParen:
		p.next()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenRParen, "')'"); err != nil {
			return nil, err
		}
		return expr, nil
	case tokenLCurly:
		return p.parseList()
	case tokenDefun:
		return p.parseDefun()
	}
	return nil, p.unexpected(tok, "expression")
}

func (p *parser) parseList() (ast.Expression, error) {
	if _, err := p.expect(tokenLCurly, "'{'"); err != nil {
		return nil, err
	}
	list := &ast.List{}
	if p.accept(tokenRCurly) {
		return list, nil
	}
	for {
		entry := ast.ListEntry{}
		if (p.peek().kind == tokenIdentifier || p.peek().kind == tokenQuotedIdentifier) &&
			p.peekAt(1).kind == tokenColon {
			name, err := p.parseIdentifierToken("entry name")
			if err != nil {
				return nil, err
			}
			p.next()
			entry.Name = name
		}
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if entry.Name == nil && p.accept(tokenEqualsGreater) {
			result, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			entry.Case = value
			entry.Value = result
		} else {
			entry.Value = value
		}
		list.Entries = append(list.Entries, entry)
		if !p.accept(tokenComma) {
			break
		}
	}
	if _, err := p.expect(tokenRCurly, "'}'"); err != nil {
		return nil, err
	}
	return list, nil
}

func (p *parser) parseDefun() (ast.Expression, error) {
	if _, err := p.expect(tokenDefun, "'defun'"); err != nil {
		return nil, err
	}
	name, err := p.parseIdentifierToken("function name")
	if err != nil {
		return nil, err
	}
	def := &ast.DefineFunction{Name: name}
	if p.accept(tokenLParen) {
		args, err := p.parseLetArgs()
		if err != nil {
			return nil, err
		}
		def.Args = args
	}
	if p.accept(tokenColonEquals) {
		body, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		def.Body = body
	}
	return def, nil
}
