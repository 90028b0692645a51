package query

import "github.com/larose/qryeval/search/index"

// Index is what query evaluation reads from an inverted index. Docids are
// positive and increase along every posting list.
type Index interface {
	PostingList(term, field string) (*index.InvertedList, error)
	NumDocs() (uint64, error)
	DocCount(field string) (uint64, error)
	SumOfFieldLengths(field string) (uint64, error)
	FieldLength(field string, docId uint64) (uint64, error)
	ExternalId(docId uint64) (string, error)
}
