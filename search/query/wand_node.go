package query

import (
	"context"
	"math"
)

// WandNode is #wand, defined for Indri only. It scores a document with the
// best score among the children on it.
type WandNode struct {
	scoringOperator
}

func NewWandNode(children ...ScoringNode) *WandNode {
	return &WandNode{scoringOperator{children: children}}
}

func (w *WandNode) Initialize(ctx context.Context, idx Index, model Model) error {
	return w.initialize(ctx, idx, model, "#wand", func(model Model) bool {
		_, isIndri := model.(Indri)
		return isIndri
	})
}

func (w *WandNode) HasMatch(model Model) bool {
	return w.matchMin(model)
}

func (w *WandNode) Score(model Model) (float64, error) {
	if _, isIndri := model.(Indri); !isIndri {
		return 0, unsupportedModel("#wand", model)
	}

	maxScore := math.Inf(-1)
	err := w.childScores(model, false, func(score float64) {
		maxScore = max(maxScore, score)
	})
	return maxScore, err
}

func (w *WandNode) DefaultScore(model Model, docId uint64) (float64, error) {
	if _, isIndri := model.(Indri); !isIndri {
		return 0, unsupportedModel("default score of #wand", model)
	}

	maxScore := math.Inf(-1)
	err := w.childDefaultScores(model, docId, func(score float64) {
		maxScore = max(maxScore, score)
	})
	if len(w.children) == 0 {
		return 0, err
	}
	return maxScore, err
}

func (w *WandNode) String() string {
	return formatOperator("#wand", w.children)
}
