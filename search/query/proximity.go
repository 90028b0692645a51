package query

import (
	"context"

	"github.com/larose/qryeval/search/index"
)

// proximityOperator builds an inverted list of the windows in which all
// children occur. locate is called once per document all children match,
// with every location cursor at the start of its posting, and returns the
// qualifying positions in increasing order.
type proximityOperator struct {
	invertedListIterator

	children []PositionalNode
	distance int
}

func newProximityOperator(distance int, children []PositionalNode) (proximityOperator, error) {
	if distance <= 0 {
		return proximityOperator{}, Errorf(ErrInvalidParameter, "distance must be positive, got %d", distance)
	}

	return proximityOperator{children: children, distance: distance}, nil
}

func (p *proximityOperator) Distance() int {
	return p.distance
}

func (p *proximityOperator) Field() string {
	if len(p.children) == 0 {
		return DefaultField
	}
	return p.children[0].Field()
}

func (p *proximityOperator) build(ctx context.Context, idx Index, model Model, name string, locate func() []int) error {
	if err := initializeChildren(ctx, idx, model, p.children); err != nil {
		return err
	}

	list := index.NewInvertedList(name, p.Field())

	if len(p.children) <= 1 {
		p.reset(list)
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		docId, ok := matchAll(model, p.children)
		if !ok {
			break
		}

		positions := locate()

		advanceChildrenPast(p.children, docId)

		if len(positions) == 0 {
			continue
		}

		if err := list.AppendPosting(docId, positions); err != nil {
			return Errorf(ErrIndexAccess, "%s: %v", name, err)
		}
	}

	p.reset(list)
	return nil
}

func (p *proximityOperator) allLocHaveMatch() bool {
	for _, child := range p.children {
		if !child.LocHasMatch() {
			return false
		}
	}
	return true
}

func (p *proximityOperator) advanceAllLocs() {
	for _, child := range p.children {
		child.LocAdvance()
	}
}
