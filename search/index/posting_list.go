package index

import "fmt"

// Posting records where a term (or a synthesized operator) occurs in one
// document. Positions are strictly increasing.
type Posting struct {
	DocId     uint64
	Positions []int
}

func (p *Posting) TermFreq() int {
	return len(p.Positions)
}

// InvertedList is a docid ordered posting list for one term in one field.
// Term is the query operator's display form for synthesized lists.
type InvertedList struct {
	Term     string
	Field    string
	Postings []Posting
	Ctf      uint64
}

func NewInvertedList(term, field string) *InvertedList {
	return &InvertedList{
		Term:     term,
		Field:    field,
		Postings: make([]Posting, 0),
	}
}

func (l *InvertedList) DocFreq() int {
	return len(l.Postings)
}

// AppendPosting adds a posting at the end of the list. Docids must be
// appended in strictly increasing order and positions must be strictly
// increasing within the posting.
func (l *InvertedList) AppendPosting(docId uint64, positions []int) error {
	if n := len(l.Postings); n > 0 && l.Postings[n-1].DocId >= docId {
		return fmt.Errorf("posting for doc %d appended after doc %d", docId, l.Postings[n-1].DocId)
	}

	for i := 1; i < len(positions); i++ {
		if positions[i] <= positions[i-1] {
			return fmt.Errorf("positions for doc %d are not strictly increasing: %v", docId, positions)
		}
	}

	l.Postings = append(l.Postings, Posting{DocId: docId, Positions: positions})
	l.Ctf += uint64(len(positions))

	return nil
}
