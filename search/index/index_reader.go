package index

import (
	"errors"
	"fmt"
	"slices"
)

// Global docids put segmentOrdinal+1 in the high half so that every global
// docid is positive and ids grow with the segment order of the commit.
func ToGlobalDocId(segmentOrdinal, localDocId uint32) uint64 {
	return (uint64(segmentOrdinal)+1)<<32 | uint64(localDocId)
}

// ToSegmentOrdinal returns false for docids no segment can produce.
func ToSegmentOrdinal(docId uint64) (uint32, bool) {
	high := docId >> 32
	if high == 0 {
		return 0, false
	}
	return uint32(high - 1), true
}

func toLocalDocId(docId uint64) DocumentId {
	return DocumentId(uint32(docId))
}

// IndexReader is a point in time view of the committed segments. It is safe
// for concurrent use.
type IndexReader struct {
	SegmentReaders []*SegmentReader
}

func NewIndexReader(directory string) (*IndexReader, error) {
	commit, err := readCommit(directory)
	if err != nil {
		return nil, err
	}

	deletedReader, err := openDeletedReader(directory, commit)
	if err != nil {
		return nil, err
	}
	defer deletedReader.Close()

	segmentReaders := make([]*SegmentReader, 0, len(commit.Segments))

	for ordinal, segment := range commit.Segments {
		deletedDocIdsForSegment, err := deletedReader.GetDeletedDocIdsForSegment(segment.Id)
		if err != nil {
			return nil, err
		}

		segmentReaders = append(segmentReaders, newSegmentReader(directory, uint32(ordinal), segment, deletedDocIdsForSegment))
	}

	return &IndexReader{
		SegmentReaders: segmentReaders,
	}, nil
}

func (reader *IndexReader) segmentFor(docId uint64) (*SegmentReader, DocumentId, error) {
	ordinal, ok := ToSegmentOrdinal(docId)
	if !ok || int(ordinal) >= len(reader.SegmentReaders) {
		return nil, 0, fmt.Errorf("document %d: no such segment", docId)
	}

	segmentReader := reader.SegmentReaders[ordinal]
	localDocId := toLocalDocId(docId)
	if uint32(localDocId) >= segmentReader.DocCount {
		return nil, 0, fmt.Errorf("document %d: out of range for segment %s", docId, segmentReader.IdString)
	}

	return segmentReader, localDocId, nil
}

// PostingList returns the live postings of term in fieldName across all
// segments. An unknown term or field yields an empty list.
func (reader *IndexReader) PostingList(term, fieldName string) (*InvertedList, error) {
	list := NewInvertedList(term, fieldName)

	for _, segmentReader := range reader.SegmentReaders {
		err := segmentReader.DecodeTerm(fieldName, []byte(term), func(docId DocumentId, positions []int) error {
			return list.AppendPosting(segmentReader.GlobalDocId(docId), positions)
		})
		if err != nil {
			return nil, fmt.Errorf("postings for %s.%s in segment %s: %w", term, fieldName, segmentReader.IdString, err)
		}
	}

	return list, nil
}

// NumDocs counts live documents.
func (reader *IndexReader) NumDocs() (uint64, error) {
	var numDocs uint64
	for _, segmentReader := range reader.SegmentReaders {
		numDocs += segmentReader.LiveDocCount()
	}
	return numDocs, nil
}

// DocCount and SumOfFieldLengths, like NumDocs and posting lists, only
// count live documents.
func (reader *IndexReader) DocCount(fieldName string) (uint64, error) {
	var docCount uint64
	for _, segmentReader := range reader.SegmentReaders {
		stats, err := segmentReader.FieldStats(fieldName)
		if err != nil {
			return 0, err
		}
		docCount += uint64(stats.DocCount)
	}
	return docCount, nil
}

func (reader *IndexReader) SumOfFieldLengths(fieldName string) (uint64, error) {
	var sum uint64
	for _, segmentReader := range reader.SegmentReaders {
		stats, err := segmentReader.FieldStats(fieldName)
		if err != nil {
			return 0, err
		}
		sum += stats.SumFieldLength
	}
	return sum, nil
}

func (reader *IndexReader) FieldLength(fieldName string, docId uint64) (uint64, error) {
	segmentReader, localDocId, err := reader.segmentFor(docId)
	if err != nil {
		return 0, err
	}

	fieldLengthReader, err := segmentReader.FieldLengthReader(fieldName)
	if err != nil {
		return 0, err
	}
	if fieldLengthReader == nil {
		return 0, nil
	}

	length, err := fieldLengthReader.Get(localDocId)
	if err != nil {
		return 0, err
	}

	return uint64(length), nil
}

func (reader *IndexReader) ExternalId(docId uint64) (string, error) {
	segmentReader, localDocId, err := reader.segmentFor(docId)
	if err != nil {
		return "", err
	}

	storeReader, err := segmentReader.StoreReader()
	if err != nil {
		return "", err
	}

	return storeReader.ExternalId(localDocId), nil
}

// LookupExternalIds returns the sorted global docids of the live documents
// carrying any of externalIds.
func (reader *IndexReader) LookupExternalIds(externalIds []string) ([]uint64, error) {
	docIds := make([]uint64, 0, len(externalIds))

	for _, externalId := range externalIds {
		list, err := reader.PostingList(externalId, ExternalIdField)
		if err != nil {
			return nil, err
		}

		for _, posting := range list.Postings {
			docIds = append(docIds, posting.DocId)
		}
	}

	slices.Sort(docIds)
	return slices.Compact(docIds), nil
}

func (reader *IndexReader) Close() error {
	errs := make([]error, 0, len(reader.SegmentReaders))
	for _, segmentReader := range reader.SegmentReaders {
		errs = append(errs, segmentReader.Close())
	}
	return errors.Join(errs...)
}
