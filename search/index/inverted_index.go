package index

import (
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
)

type termPostings struct {
	docIds    []DocumentId
	positions [][]int
}

type InvertedIndexWriter struct {
	docId       DocumentId
	docCount    int
	fieldName   string
	fieldLength uint32

	// postings[fieldName][term]
	postings map[string]map[string]*termPostings

	// fieldLengths[fieldName][docId]
	fieldLengths map[string][]uint32
}

func newInvertedIndexWriter() *InvertedIndexWriter {
	return &InvertedIndexWriter{
		postings:     make(map[string]map[string]*termPostings),
		fieldLengths: make(map[string][]uint32),
	}
}

func (w *InvertedIndexWriter) Doc(docId DocumentId, externalId string) {
	w.docId = docId
	w.docCount = int(docId) + 1
}

func (w *InvertedIndexWriter) Field(fieldName string) {
	w.fieldName = fieldName
	w.fieldLength = 0

	if _, exists := w.postings[fieldName]; !exists {
		w.postings[fieldName] = make(map[string]*termPostings)
	}
}

func (w *InvertedIndexWriter) Term(term []byte, position int) {
	fieldPostings := w.postings[w.fieldName]

	postings, exists := fieldPostings[string(term)]
	if !exists {
		postings = &termPostings{}
		fieldPostings[string(term)] = postings
	}

	last := len(postings.docIds) - 1
	if last < 0 || postings.docIds[last] != w.docId {
		postings.docIds = append(postings.docIds, w.docId)
		postings.positions = append(postings.positions, make([]int, 0, 1))
		last++
	}

	postings.positions[last] = append(postings.positions[last], position)
	w.fieldLength++
}

func (w *InvertedIndexWriter) EndField() {
	lengths := w.fieldLengths[w.fieldName]
	for len(lengths) < w.docCount {
		lengths = append(lengths, 0)
	}

	lengths[w.docId] = w.fieldLength
	w.fieldLengths[w.fieldName] = lengths
}

func (w *InvertedIndexWriter) Write(directory, segmentId string) error {
	fieldNames := make([]string, 0, len(w.postings))
	for fieldName := range w.postings {
		fieldNames = append(fieldNames, fieldName)
	}
	slices.Sort(fieldNames)

	for _, fieldName := range fieldNames {
		if err := w.writeField(directory, segmentId, fieldName); err != nil {
			return err
		}
	}

	return nil
}

func (w *InvertedIndexWriter) writeField(directory, segmentId, fieldName string) error {
	lengths := w.fieldLengths[fieldName]
	for len(lengths) < w.docCount {
		lengths = append(lengths, 0)
	}

	fieldDocIds := roaring.NewBitmap()
	var sumFieldLength uint64
	for docId, length := range lengths {
		if length > 0 {
			fieldDocIds.Add(uint32(docId))
			sumFieldLength += uint64(length)
		}
	}

	err := writeFieldStats(directory, segmentId, fieldName, FieldStats{
		DocCount:       uint32(fieldDocIds.GetCardinality()),
		SumFieldLength: sumFieldLength,
	})
	if err != nil {
		return err
	}

	lengthsWriter, err := newArrayStoreWriter(fieldLengthsFilename(directory, segmentId, fieldName))
	if err != nil {
		return err
	}

	if err := lengthsWriter.Append(lengths...); err != nil {
		_ = lengthsWriter.Close()
		return err
	}

	if err := lengthsWriter.Close(); err != nil {
		return err
	}

	postingsWriter, err := newFieldPostingsWriter(directory, segmentId, fieldName)
	if err != nil {
		return err
	}

	dictWriter, err := newDictionaryWriter(directory, segmentId, fieldName)
	if err != nil {
		_ = postingsWriter.Close()
		return err
	}

	fieldPostings := w.postings[fieldName]

	sortedTerms := make([]string, 0, len(fieldPostings))
	for term := range fieldPostings {
		sortedTerms = append(sortedTerms, term)
	}
	slices.Sort(sortedTerms)

	termInfo := &TermInfo{}
	for _, term := range sortedTerms {
		postings := fieldPostings[term]

		startOffset, endOffset, err := postingsWriter.WriteTerm(postings.docIds, postings.positions)
		if err != nil {
			_ = postingsWriter.Close()
			_ = dictWriter.Close()
			return err
		}

		termInfo.DocFreq = uint32(len(postings.docIds))
		termInfo.Ctf = 0
		for _, positions := range postings.positions {
			termInfo.Ctf += uint64(len(positions))
		}
		termInfo.PostingsFileStartOffset = startOffset
		termInfo.PostingsFileEndOffset = endOffset

		if err := dictWriter.Write([]byte(term), termInfo); err != nil {
			_ = postingsWriter.Close()
			_ = dictWriter.Close()
			return err
		}
	}

	if err := postingsWriter.Close(); err != nil {
		_ = dictWriter.Close()
		return err
	}

	return dictWriter.Close()
}
