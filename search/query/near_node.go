package query

import (
	"context"
	"strconv"
)

// NearNode matches its children in order, each at most Distance positions
// after the previous one. The recorded position is the first child's.
type NearNode struct {
	proximityOperator
}

func NewNearNode(distance int, children ...PositionalNode) (*NearNode, error) {
	operator, err := newProximityOperator(distance, children)
	if err != nil {
		return nil, err
	}

	return &NearNode{proximityOperator: operator}, nil
}

func (n *NearNode) Initialize(ctx context.Context, idx Index, model Model) error {
	return n.build(ctx, idx, model, n.String(), n.locate)
}

func (n *NearNode) locate() []int {
	children := n.children
	positions := make([]int, 0)

	first := children[0]
	for _, child := range children[1:] {
		child.LocAdvancePast(first.LocMatch())
	}

	for n.allLocHaveMatch() {
		matched := true

		// Only one cursor moves per failed check, the one that can never
		// take part in a match at its current location.
		for i := 0; i+1 < len(children); i++ {
			gap := children[i+1].LocMatch() - children[i].LocMatch()

			if gap < 1 {
				children[i+1].LocAdvancePast(children[i].LocMatch())
				matched = false
				break
			}

			if gap > n.distance {
				children[i].LocAdvance()
				matched = false
				break
			}
		}

		if matched {
			positions = append(positions, first.LocMatch())
			n.advanceAllLocs()
		}
	}

	return positions
}

func (n *NearNode) String() string {
	return formatOperator("#near/"+strconv.Itoa(n.distance), n.children)
}
