package query

import "context"

// SumNode is #sum: the sum of the scores of the children on the document.
type SumNode struct {
	scoringOperator
}

func NewSumNode(children ...ScoringNode) *SumNode {
	return &SumNode{scoringOperator{children: children}}
}

func (s *SumNode) Initialize(ctx context.Context, idx Index, model Model) error {
	return s.initialize(ctx, idx, model, "#sum", func(model Model) bool {
		return model != nil
	})
}

func (s *SumNode) HasMatch(model Model) bool {
	return s.matchMin(model)
}

func (s *SumNode) Score(model Model) (float64, error) {
	switch model.(type) {
	case UnrankedBoolean, RankedBoolean, BM25, Indri:
		sum := 0.0
		err := s.childScores(model, false, func(score float64) {
			sum += score
		})
		return sum, err
	default:
		return 0, unsupportedModel("#sum", model)
	}
}

func (s *SumNode) DefaultScore(model Model, docId uint64) (float64, error) {
	if _, isIndri := model.(Indri); !isIndri {
		return 0, unsupportedModel("default score of #sum", model)
	}

	sum := 0.0
	err := s.childDefaultScores(model, docId, func(score float64) {
		sum += score
	})
	return sum, err
}

func (s *SumNode) String() string {
	return formatOperator("#sum", s.children)
}
