package query

import (
	"context"
	"strings"

	"github.com/larose/qryeval/search/index"
)

// - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -
// Node
// - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -

// Node is a document-at-a-time cursor over the documents an operator
// matches. Initialize prepares children before the node itself and fails
// when the operator is not defined for the model, so HasMatch never fails.
// Match is only meaningful after HasMatch returned true. The cursor never
// moves backwards: after AdvancePast(d), either HasMatch is false or
// Match() > d.
type Node interface {
	Initialize(ctx context.Context, idx Index, model Model) error
	HasMatch(model Model) bool
	Match() uint64
	AdvancePast(docId uint64)
	String() string
}

// - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -
// ScoringNode
// - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -

// ScoringNode is implemented by AND, OR, SUM, WAND and SCORE.
type ScoringNode interface {
	Node

	// Score of the current match.
	Score(model Model) (float64, error)

	// DefaultScore is the Indri score of a document the node does not
	// match.
	DefaultScore(model Model, docId uint64) (float64, error)
}

// - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -
// PositionalNode
// - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -

// PositionalNode is implemented by TERM, SYN, NEAR and WINDOW. Besides the
// document cursor it has a location cursor over the positions of the
// current posting, reset whenever the document cursor moves.
type PositionalNode interface {
	Node

	InvertedList() *index.InvertedList
	Field() string
	Posting() *index.Posting

	LocHasMatch() bool
	LocMatch() int
	LocAdvance()
	LocAdvancePast(loc int)
}

// - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -
// Matching rules
// - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -

// matchAll moves the children until they all sit on the same document and
// returns it. Returns false as soon as one child is exhausted.
func matchAll[T Node](model Model, children []T) (uint64, bool) {
	if len(children) == 0 {
		return 0, false
	}

	for {
		maxDocId := uint64(0)
		for _, child := range children {
			if !child.HasMatch(model) {
				return 0, false
			}
			maxDocId = max(maxDocId, child.Match())
		}

		allAtMaxDocId := true
		for _, child := range children {
			if child.Match() != maxDocId {
				allAtMaxDocId = false
				// docids are positive, so this moves child to the first
				// docid >= maxDocId
				child.AdvancePast(maxDocId - 1)
			}
		}

		if allAtMaxDocId {
			return maxDocId, true
		}
	}
}

// matchMin returns the smallest document any child is on.
func matchMin[T Node](model Model, children []T) (uint64, bool) {
	found := false
	minDocId := uint64(0)

	for _, child := range children {
		if !child.HasMatch(model) {
			continue
		}

		if docId := child.Match(); !found || docId < minDocId {
			minDocId = docId
			found = true
		}
	}

	return minDocId, found
}

func initializeChildren[T Node](ctx context.Context, idx Index, model Model, children []T) error {
	for _, child := range children {
		if err := child.Initialize(ctx, idx, model); err != nil {
			return err
		}
	}
	return nil
}

func advanceChildrenPast[T Node](children []T, docId uint64) {
	for _, child := range children {
		child.AdvancePast(docId)
	}
}

func formatOperator[T Node](name string, children []T) string {
	var builder strings.Builder

	builder.WriteString(name)
	builder.WriteByte('(')
	for i, child := range children {
		if i > 0 {
			builder.WriteByte(' ')
		}
		builder.WriteString(child.String())
	}
	builder.WriteByte(')')

	return builder.String()
}
