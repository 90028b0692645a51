// Package parser builds operator trees from structured query text such as
// "#and(apple #near/2(pie crust.title))".
package parser

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/larose/qryeval/search/query"
)

// Normalizer maps a raw query term to the index terms it stands for. It has
// to apply the same normalization as the index.
type Normalizer interface {
	Normalize(raw string) []string
}

var Fields = []string{"body", "title", "url", "inlink", "keywords"}

const DefaultOperator = "#or"

var scoringOperators = map[string]struct{}{
	"#and": {}, "#or": {}, "#sum": {}, "#wand": {},
}

type Parser struct {
	normalizer      Normalizer
	defaultOperator string
}

// New returns a parser that wraps queries of the boolean models in
// defaultOperator, which must be a scoring operator.
func New(normalizer Normalizer, defaultOperator string) (*Parser, error) {
	defaultOperator = strings.ToLower(strings.TrimSpace(defaultOperator))
	if defaultOperator == "" {
		defaultOperator = DefaultOperator
	}

	if _, ok := scoringOperators[defaultOperator]; !ok {
		return nil, query.Errorf(query.ErrInvalidParameter, "default operator %q is not one of #and, #or, #sum, #wand", defaultOperator)
	}

	return &Parser{
		normalizer:      normalizer,
		defaultOperator: defaultOperator,
	}, nil
}

type frame struct {
	operator string
	distance int
	children []query.Node
}

// Parse wraps text in the model's default operator and returns the raw,
// unoptimized tree.
func (p *Parser) Parse(text string, model query.Model) (query.ScoringNode, error) {
	if model == nil {
		return nil, query.NewError(query.ErrConfiguration, "no retrieval model")
	}

	operator := model.DefaultOperator()
	if operator == "" {
		operator = p.defaultOperator
	}

	root, err := newFrame(operator)
	if err != nil {
		return nil, err
	}

	tokens := tokenize(text)
	stack := make([]*frame, 0, 4)
	stack = append(stack, root)

	for i := 0; i < len(tokens); i++ {
		token := tokens[i]

		switch {
		case token == "(":
			return nil, query.Errorf(query.ErrSyntax, "unexpected '(' in %q", text)

		case token == ")":
			// the root frame is only closed by the end of the text
			if len(stack) == 1 {
				return nil, query.Errorf(query.ErrSyntax, "unbalanced ')' in %q", text)
			}

			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			node, err := build(top)
			if err != nil {
				return nil, err
			}

			parent := stack[len(stack)-1]
			parent.children = append(parent.children, node)

		case strings.HasPrefix(token, "#"):
			f, err := newFrame(token)
			if err != nil {
				return nil, err
			}

			if i+1 >= len(tokens) || tokens[i+1] != "(" {
				return nil, query.Errorf(query.ErrSyntax, "missing '(' after %s", token)
			}
			i++

			stack = append(stack, f)

		default:
			leaves, err := p.terms(token)
			if err != nil {
				return nil, err
			}

			top := stack[len(stack)-1]
			top.children = append(top.children, leaves...)
		}
	}

	if len(stack) > 1 {
		return nil, query.Errorf(query.ErrSyntax, "missing ')' in %q", text)
	}

	node, err := build(root)
	if err != nil {
		return nil, err
	}

	return node.(query.ScoringNode), nil
}

func newFrame(token string) (*frame, error) {
	operator := strings.ToLower(token)

	if _, ok := scoringOperators[operator]; ok || operator == "#syn" {
		return &frame{operator: operator}, nil
	}

	name, distanceText, found := strings.Cut(operator, "/")
	if !found || (name != "#near" && name != "#window") {
		return nil, query.Errorf(query.ErrSyntax, "unknown operator %s", token)
	}

	distance, err := strconv.Atoi(distanceText)
	if err != nil {
		return nil, query.Errorf(query.ErrSyntax, "%s: distance %q is not an integer", token, distanceText)
	}

	if distance <= 0 {
		return nil, query.Errorf(query.ErrInvalidParameter, "%s: distance must be positive", token)
	}

	return &frame{operator: name, distance: distance}, nil
}

// terms turns "term" or "term.field" into zero or more term leaves.
func (p *Parser) terms(token string) ([]query.Node, error) {
	term, field := token, query.DefaultField

	if dot := strings.LastIndexByte(token, '.'); dot >= 0 {
		term, field = token[:dot], strings.ToLower(token[dot+1:])

		if !isField(field) {
			return nil, query.Errorf(query.ErrSyntax, "unknown field %q in %q", field, token)
		}
	}

	normalized := p.normalizer.Normalize(term)

	leaves := make([]query.Node, 0, len(normalized))
	for _, text := range normalized {
		leaves = append(leaves, query.NewTermNode(text, field))
	}

	return leaves, nil
}

func isField(field string) bool {
	for _, f := range Fields {
		if f == field {
			return true
		}
	}
	return false
}

func build(f *frame) (query.Node, error) {
	if _, ok := scoringOperators[f.operator]; ok {
		children := make([]query.ScoringNode, 0, len(f.children))
		for _, child := range f.children {
			switch c := child.(type) {
			case query.ScoringNode:
				children = append(children, c)
			case query.PositionalNode:
				children = append(children, query.NewScoreNode(c))
			}
		}

		switch f.operator {
		case "#and":
			return query.NewConjunctionNode(children...), nil
		case "#or":
			return query.NewDisjunctionNode(children...), nil
		case "#sum":
			return query.NewSumNode(children...), nil
		default:
			return query.NewWandNode(children...), nil
		}
	}

	children := make([]query.PositionalNode, 0, len(f.children))
	for _, child := range f.children {
		positional, ok := child.(query.PositionalNode)
		if !ok {
			return nil, query.Errorf(query.ErrSyntax, "%s cannot take the scoring operator %s", f.operator, child)
		}

		if len(children) > 0 && positional.Field() != children[0].Field() {
			return nil, query.Errorf(query.ErrSyntax, "%s mixes the fields %s and %s", f.operator, children[0].Field(), positional.Field())
		}

		children = append(children, positional)
	}

	switch f.operator {
	case "#syn":
		return query.NewSynNode(children...), nil
	case "#near":
		return query.NewNearNode(f.distance, children...)
	default:
		return query.NewWindowNode(f.distance, children...)
	}
}

// tokenize splits on whitespace and commas and keeps parentheses as tokens.
func tokenize(text string) []string {
	tokens := make([]string, 0)
	start := -1

	flush := func(end int) {
		if start >= 0 {
			tokens = append(tokens, text[start:end])
			start = -1
		}
	}

	for i, r := range text {
		switch {
		case r == '(' || r == ')':
			flush(i)
			tokens = append(tokens, string(r))
		case r == ',' || unicode.IsSpace(r):
			flush(i)
		default:
			if start < 0 {
				start = i
			}
		}
	}
	flush(len(text))

	return tokens
}
