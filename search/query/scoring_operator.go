package query

import "context"

// scoringOperator is the state shared by the combinators over scoring
// children.
type scoringOperator struct {
	children []ScoringNode
	docId    uint64
}

func (o *scoringOperator) initialize(ctx context.Context, idx Index, model Model, name string, supports func(Model) bool) error {
	if !supports(model) {
		return unsupportedModel(name, model)
	}

	return initializeChildren(ctx, idx, model, o.children)
}

func (o *scoringOperator) Match() uint64 {
	return o.docId
}

func (o *scoringOperator) AdvancePast(docId uint64) {
	advanceChildrenPast(o.children, docId)
}

func (o *scoringOperator) matchAll(model Model) bool {
	docId, ok := matchAll(model, o.children)
	o.docId = docId
	return ok
}

func (o *scoringOperator) matchMin(model Model) bool {
	docId, ok := matchMin(model, o.children)
	o.docId = docId
	return ok
}

// childScores calls fn with the score of every child on the current
// document, or with its default score when withDefault is set and it is not.
func (o *scoringOperator) childScores(model Model, withDefault bool, fn func(score float64)) error {
	for _, child := range o.children {
		if child.HasMatch(model) && child.Match() == o.docId {
			score, err := child.Score(model)
			if err != nil {
				return err
			}
			fn(score)
			continue
		}

		if withDefault {
			score, err := child.DefaultScore(model, o.docId)
			if err != nil {
				return err
			}
			fn(score)
		}
	}

	return nil
}

func (o *scoringOperator) childDefaultScores(model Model, docId uint64, fn func(score float64)) error {
	for _, child := range o.children {
		score, err := child.DefaultScore(model, docId)
		if err != nil {
			return err
		}
		fn(score)
	}
	return nil
}

func isBoolean(model Model) bool {
	switch model.(type) {
	case UnrankedBoolean, RankedBoolean:
		return true
	default:
		return false
	}
}
