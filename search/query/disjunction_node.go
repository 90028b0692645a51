package query

import (
	"context"
	"math"
)

// - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -
// DisjunctionNode
// - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -

// DisjunctionNode is #or, defined for the boolean models only.
type DisjunctionNode struct {
	scoringOperator
}

func NewDisjunctionNode(children ...ScoringNode) *DisjunctionNode {
	return &DisjunctionNode{scoringOperator{children: children}}
}

func (d *DisjunctionNode) Initialize(ctx context.Context, idx Index, model Model) error {
	return d.initialize(ctx, idx, model, "#or", isBoolean)
}

func (d *DisjunctionNode) HasMatch(model Model) bool {
	return d.matchMin(model)
}

func (d *DisjunctionNode) Score(model Model) (float64, error) {
	switch model.(type) {
	case UnrankedBoolean:
		return 1, nil
	case RankedBoolean:
		maxScore := math.Inf(-1)
		err := d.childScores(model, false, func(score float64) {
			maxScore = max(maxScore, score)
		})
		return maxScore, err
	default:
		return 0, unsupportedModel("#or", model)
	}
}

func (d *DisjunctionNode) DefaultScore(model Model, docId uint64) (float64, error) {
	return 0, unsupportedModel("default score of #or", model)
}

func (d *DisjunctionNode) String() string {
	return formatOperator("#or", d.children)
}
