package query

import (
	"context"
	"slices"

	"github.com/larose/qryeval/search/index"
)

// SynNode treats its children as one term: a document matches when any
// child matches, with the positions of all children merged.
type SynNode struct {
	invertedListIterator

	children []PositionalNode
}

func NewSynNode(children ...PositionalNode) *SynNode {
	return &SynNode{children: children}
}

func (s *SynNode) Initialize(ctx context.Context, idx Index, model Model) error {
	if err := initializeChildren(ctx, idx, model, s.children); err != nil {
		return err
	}

	list := index.NewInvertedList(s.String(), s.Field())

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		minDocId, ok := matchMin(model, s.children)
		if !ok {
			break
		}

		positions := make([]int, 0)
		for _, child := range s.children {
			if child.HasMatch(model) && child.Match() == minDocId {
				positions = append(positions, child.Posting().Positions...)
				child.AdvancePast(minDocId)
			}
		}

		slices.Sort(positions)
		if err := list.AppendPosting(minDocId, slices.Compact(positions)); err != nil {
			return Errorf(ErrIndexAccess, "%s: %v", s, err)
		}
	}

	s.reset(list)
	return nil
}

func (s *SynNode) Field() string {
	if len(s.children) == 0 {
		return DefaultField
	}
	return s.children[0].Field()
}

func (s *SynNode) String() string {
	return formatOperator("#syn", s.children)
}
