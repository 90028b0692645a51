package query

import (
	"fmt"

	"github.com/larose/qryeval/search/index"
)

// memoryIndex is an in-memory Index. Postings must be added in docid order
// for each term.
type memoryIndex struct {
	lists       map[string]*index.InvertedList
	lengths     map[string]map[uint64]uint64
	externalIds map[uint64]string
	failTerms   map[string]bool
}

func newMemoryIndex() *memoryIndex {
	return &memoryIndex{
		lists:       make(map[string]*index.InvertedList),
		lengths:     make(map[string]map[uint64]uint64),
		externalIds: make(map[uint64]string),
		failTerms:   make(map[string]bool),
	}
}

// addDoc indexes field text given as tokens; position i holds tokens[i].
func (m *memoryIndex) addDoc(docId uint64, externalId string, fields map[string][]string) {
	m.externalIds[docId] = externalId

	for field, tokens := range fields {
		if m.lengths[field] == nil {
			m.lengths[field] = make(map[uint64]uint64)
		}
		m.lengths[field][docId] = uint64(len(tokens))

		positions := make(map[string][]int)
		order := make([]string, 0)
		for i, token := range tokens {
			if _, seen := positions[token]; !seen {
				order = append(order, token)
			}
			positions[token] = append(positions[token], i)
		}

		for _, token := range order {
			m.add(field, token, docId, positions[token]...)
		}
	}
}

func (m *memoryIndex) add(field, term string, docId uint64, positions ...int) {
	key := term + "." + field

	list, exists := m.lists[key]
	if !exists {
		list = index.NewInvertedList(term, field)
		m.lists[key] = list
	}

	if err := list.AppendPosting(docId, positions); err != nil {
		panic(err)
	}

	if _, exists := m.externalIds[docId]; !exists {
		m.externalIds[docId] = fmt.Sprintf("doc%d", docId)
	}
}

func (m *memoryIndex) setLength(field string, docId, length uint64) {
	if m.lengths[field] == nil {
		m.lengths[field] = make(map[uint64]uint64)
	}
	m.lengths[field][docId] = length
}

func (m *memoryIndex) PostingList(term, field string) (*index.InvertedList, error) {
	if m.failTerms[term] {
		return nil, fmt.Errorf("read error")
	}

	list, exists := m.lists[term+"."+field]
	if !exists {
		return index.NewInvertedList(term, field), nil
	}

	return list, nil
}

func (m *memoryIndex) NumDocs() (uint64, error) {
	return uint64(len(m.externalIds)), nil
}

func (m *memoryIndex) DocCount(field string) (uint64, error) {
	var count uint64
	for _, length := range m.lengths[field] {
		if length > 0 {
			count++
		}
	}
	return count, nil
}

func (m *memoryIndex) SumOfFieldLengths(field string) (uint64, error) {
	var sum uint64
	for _, length := range m.lengths[field] {
		sum += length
	}
	return sum, nil
}

func (m *memoryIndex) FieldLength(field string, docId uint64) (uint64, error) {
	return m.lengths[field][docId], nil
}

func (m *memoryIndex) ExternalId(docId uint64) (string, error) {
	return m.externalIds[docId], nil
}
