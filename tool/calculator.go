package tool

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/troupe-dev/troupe"
	"github.com/troupe-dev/troupe/schema"
)

// CalculatorToolName is the registered name of the calculator builtin.
const CalculatorToolName = "calculator"

// Calculator builds the calculator builtin: an arithmetic expression
// evaluator supporting + - * / % ^, parentheses, and unary minus.
//
// Evaluation is deterministic, so failures are final and the tool never
// retries.
func Calculator() *Tool {
	params := schema.Object().
		Field("expression", schema.String().
			Desc("The arithmetic expression to evaluate, e.g. (2 + 3) * 4.").
			Required()).
		MustBuild()

	handler := func(ctx context.Context, args map[string]any) (any, error) {
		expression, _ := args["expression"].(string)
		value, err := evalExpression(expression)
		if err != nil {
			return nil, &troupe.ValidationError{
				Tool:   CalculatorToolName,
				Field:  "expression",
				Reason: err.Error(),
			}
		}
		return value, nil
	}

	return New(
		CalculatorToolName,
		"Evaluate an arithmetic expression. Supports addition, subtraction, multiplication, division, modulo, exponentiation, and parentheses.",
		params,
		handler,
		WithTimeout(5*time.Second),
		WithMaxRetries(0),
		WithOnError(ModeReturn),
	)
}

// evalExpression parses and evaluates an arithmetic expression.
//
// Grammar, loosest binding first:
//
//	expr  = term  { ("+" | "-") term }
//	term  = unary { ("*" | "/" | "%") unary }
//	unary = "-" unary | power
//	power = atom [ "^" unary ]
//	atom  = number | "(" expr ")"
func evalExpression(input string) (float64, error) {
	p := &exprParser{input: input}
	value, err := p.expr()
	if err != nil {
		return 0, err
	}
	p.skipSpaces()
	if p.pos < len(p.input) {
		return 0, fmt.Errorf("unexpected character %q at position %d", p.input[p.pos], p.pos)
	}
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, fmt.Errorf("expression result is not a finite number")
	}
	return value, nil
}

type exprParser struct {
	input string
	pos   int
}

func (p *exprParser) expr() (float64, error) {
	value, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			rhs, err := p.term()
			if err != nil {
				return 0, err
			}
			value += rhs
		case '-':
			p.pos++
			rhs, err := p.term()
			if err != nil {
				return 0, err
			}
			value -= rhs
		default:
			return value, nil
		}
	}
}

func (p *exprParser) term() (float64, error) {
	value, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '*':
			p.pos++
			rhs, err := p.unary()
			if err != nil {
				return 0, err
			}
			value *= rhs
		case '/':
			p.pos++
			rhs, err := p.unary()
			if err != nil {
				return 0, err
			}
			if rhs == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			value /= rhs
		case '%':
			p.pos++
			rhs, err := p.unary()
			if err != nil {
				return 0, err
			}
			if rhs == 0 {
				return 0, fmt.Errorf("modulo by zero")
			}
			value = math.Mod(value, rhs)
		default:
			return value, nil
		}
	}
}

func (p *exprParser) unary() (float64, error) {
	if p.peek() == '-' {
		p.pos++
		value, err := p.unary()
		if err != nil {
			return 0, err
		}
		return -value, nil
	}
	return p.power()
}

func (p *exprParser) power() (float64, error) {
	value, err := p.atom()
	if err != nil {
		return 0, err
	}
	if p.peek() == '^' {
		p.pos++
		exponent, err := p.unary()
		if err != nil {
			return 0, err
		}
		return math.Pow(value, exponent), nil
	}
	return value, nil
}

func (p *exprParser) atom() (float64, error) {
	if p.peek() == '(' {
		p.pos++
		value, err := p.expr()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return value, nil
	}

	p.skipSpaces()
	start := p.pos
	for p.pos < len(p.input) && (isDigit(p.input[p.pos]) || p.input[p.pos] == '.') {
		p.pos++
	}
	if p.pos == start {
		if p.pos >= len(p.input) {
			return 0, fmt.Errorf("unexpected end of expression")
		}
		return 0, fmt.Errorf("unexpected character %q at position %d", p.input[p.pos], p.pos)
	}
	value, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", p.input[start:p.pos])
	}
	return value, nil
}

// peek skips whitespace and returns the next operator byte without
// consuming it, or 0 at end of input.
func (p *exprParser) peek() byte {
	p.skipSpaces()
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *exprParser) skipSpaces() {
	for p.pos < len(p.input) && strings.ContainsRune(" \t\n\r", rune(p.input[p.pos])) {
		p.pos++
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
