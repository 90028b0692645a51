package query

import (
	"context"
	"math"
)

// - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -
// ConjunctionNode
// - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -

// ConjunctionNode is #and. Under the boolean models every child has to
// match; under Indri any child may, and the missing ones contribute their
// default score to a geometric mean.
type ConjunctionNode struct {
	scoringOperator
}

func NewConjunctionNode(children ...ScoringNode) *ConjunctionNode {
	return &ConjunctionNode{scoringOperator{children: children}}
}

func (c *ConjunctionNode) Initialize(ctx context.Context, idx Index, model Model) error {
	return c.initialize(ctx, idx, model, "#and", func(model Model) bool {
		switch model.(type) {
		case UnrankedBoolean, RankedBoolean, Indri:
			return true
		default:
			return false
		}
	})
}

func (c *ConjunctionNode) HasMatch(model Model) bool {
	if _, isIndri := model.(Indri); isIndri {
		return c.matchMin(model)
	}
	return c.matchAll(model)
}

func (c *ConjunctionNode) Score(model Model) (float64, error) {
	switch model.(type) {
	case UnrankedBoolean:
		return 1, nil
	case RankedBoolean:
		minScore := math.Inf(1)
		err := c.childScores(model, false, func(score float64) {
			minScore = min(minScore, score)
		})
		return minScore, err
	case Indri:
		exponent := 1 / float64(len(c.children))
		score := 1.0
		err := c.childScores(model, true, func(childScore float64) {
			score *= math.Pow(childScore, exponent)
		})
		return score, err
	default:
		return 0, unsupportedModel("#and", model)
	}
}

func (c *ConjunctionNode) DefaultScore(model Model, docId uint64) (float64, error) {
	if _, isIndri := model.(Indri); !isIndri {
		return 0, unsupportedModel("default score of #and", model)
	}

	exponent := 1 / float64(len(c.children))
	score := 1.0
	err := c.childDefaultScores(model, docId, func(childScore float64) {
		score *= math.Pow(childScore, exponent)
	})
	return score, err
}

func (c *ConjunctionNode) String() string {
	return formatOperator("#and", c.children)
}
