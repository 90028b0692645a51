package query

import (
	"context"
	"sort"

	"github.com/larose/qryeval/search/index"
)

const DefaultField = "body"

// - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -
// invertedListIterator
// - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -

// invertedListIterator holds the document and location cursors shared by
// every positional node once its inverted list is built.
type invertedListIterator struct {
	list     *index.InvertedList
	docIndex int
	locIndex int
}

func (it *invertedListIterator) reset(list *index.InvertedList) {
	it.list = list
	it.docIndex = 0
	it.locIndex = 0
}

func (it *invertedListIterator) InvertedList() *index.InvertedList {
	return it.list
}

func (it *invertedListIterator) HasMatch(model Model) bool {
	return it.list != nil && it.docIndex < len(it.list.Postings)
}

func (it *invertedListIterator) Match() uint64 {
	return it.list.Postings[it.docIndex].DocId
}

func (it *invertedListIterator) AdvancePast(docId uint64) {
	if it.list == nil {
		return
	}

	rest := it.list.Postings[it.docIndex:]
	it.docIndex += sort.Search(len(rest), func(i int) bool {
		return rest[i].DocId > docId
	})
	it.locIndex = 0
}

func (it *invertedListIterator) Posting() *index.Posting {
	return &it.list.Postings[it.docIndex]
}

func (it *invertedListIterator) LocHasMatch() bool {
	return it.list != nil && it.docIndex < len(it.list.Postings) && it.locIndex < len(it.list.Postings[it.docIndex].Positions)
}

func (it *invertedListIterator) LocMatch() int {
	return it.list.Postings[it.docIndex].Positions[it.locIndex]
}

func (it *invertedListIterator) LocAdvance() {
	it.locIndex++
}

func (it *invertedListIterator) LocAdvancePast(loc int) {
	positions := it.list.Postings[it.docIndex].Positions
	for it.locIndex < len(positions) && positions[it.locIndex] <= loc {
		it.locIndex++
	}
}

// - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -
// TermNode
// - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -

// TermNode reads a normalized term's posting list from the index.
type TermNode struct {
	invertedListIterator

	FieldName string
	Term      string
}

func NewTermNode(term, fieldName string) *TermNode {
	if fieldName == "" {
		fieldName = DefaultField
	}

	return &TermNode{
		FieldName: fieldName,
		Term:      term,
	}
}

func (t *TermNode) Initialize(ctx context.Context, idx Index, model Model) error {
	list, err := idx.PostingList(t.Term, t.FieldName)
	if err != nil {
		return indexAccessError(err, "posting list for %s", t)
	}

	t.reset(list)
	return nil
}

func (t *TermNode) Field() string {
	return t.FieldName
}

func (t *TermNode) String() string {
	return t.Term + "." + t.FieldName
}
