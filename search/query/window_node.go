package query

import (
	"context"
	"strconv"
)

// WindowNode matches its children in any order within a span of Distance
// positions. The recorded position is the smallest of the window.
type WindowNode struct {
	proximityOperator
}

func NewWindowNode(distance int, children ...PositionalNode) (*WindowNode, error) {
	operator, err := newProximityOperator(distance, children)
	if err != nil {
		return nil, err
	}

	return &WindowNode{proximityOperator: operator}, nil
}

func (w *WindowNode) Initialize(ctx context.Context, idx Index, model Model) error {
	return w.build(ctx, idx, model, w.String(), w.locate)
}

func (w *WindowNode) locate() []int {
	positions := make([]int, 0)

	for w.allLocHaveMatch() {
		minChild := w.children[0]
		minLoc := minChild.LocMatch()
		maxLoc := minLoc

		for _, child := range w.children[1:] {
			loc := child.LocMatch()
			if loc < minLoc {
				minChild = child
				minLoc = loc
			}
			maxLoc = max(maxLoc, loc)
		}

		if maxLoc-minLoc <= w.distance {
			positions = append(positions, minLoc)
			w.advanceAllLocs()
			continue
		}

		minChild.LocAdvancePast(minLoc)
	}

	return positions
}

func (w *WindowNode) String() string {
	return formatOperator("#window/"+strconv.Itoa(w.distance), w.children)
}
