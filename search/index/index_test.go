package index

import (
	"testing"

	"github.com/larose/qryeval/search/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textDoc(externalId string, fields ...string) Document {
	doc := Document{ExternalId: externalId}
	for i := 0; i+1 < len(fields); i += 2 {
		doc.Fields = append(doc.Fields, Field{FieldType: TextFieldType, Name: fields[i], Value: []byte(fields[i+1])})
	}
	return doc
}

func newTestIndex(t *testing.T, segments ...[]Document) (string, *IndexWriter) {
	t.Helper()

	directory := t.TempDir()
	writer, err := NewIndexWriter(directory, analysis.NewAnalyzer())
	require.NoError(t, err)

	for _, docs := range segments {
		require.NoError(t, writer.AddDocuments(docs))
	}

	return directory, writer
}

func openReader(t *testing.T, directory string) *IndexReader {
	t.Helper()

	reader, err := NewIndexReader(directory)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reader.Close() })

	return reader
}

func TestGlobalDocIds(t *testing.T) {
	docId := ToGlobalDocId(0, 0)
	assert.Greater(t, docId, uint64(0))

	ordinal, ok := ToSegmentOrdinal(ToGlobalDocId(3, 7))
	assert.True(t, ok)
	assert.Equal(t, uint32(3), ordinal)
	assert.Equal(t, DocumentId(7), toLocalDocId(ToGlobalDocId(3, 7)))

	_, ok = ToSegmentOrdinal(5)
	assert.False(t, ok)

	assert.Less(t, ToGlobalDocId(0, 1<<31), ToGlobalDocId(1, 0))
}

func TestIndexRoundTrip(t *testing.T) {
	directory, _ := newTestIndex(t, []Document{
		textDoc("d1", "body", "apple apple tart", "title", "pie"),
		textDoc("d2", "body", "the apple cake"),
	})
	reader := openReader(t, directory)

	list, err := reader.PostingList("appl", "body")
	require.NoError(t, err)

	assert.Equal(t, 2, list.DocFreq())
	assert.Equal(t, uint64(3), list.Ctf)
	assert.Equal(t, []Posting{
		{DocId: ToGlobalDocId(0, 0), Positions: []int{0, 1}},
		{DocId: ToGlobalDocId(0, 1), Positions: []int{1}},
	}, list.Postings)

	list, err = reader.PostingList("pie", "title")
	require.NoError(t, err)
	assert.Equal(t, 1, list.DocFreq())

	list, err = reader.PostingList("pie", "url")
	require.NoError(t, err)
	assert.Equal(t, 0, list.DocFreq())

	list, err = reader.PostingList("zebra", "body")
	require.NoError(t, err)
	assert.Equal(t, 0, list.DocFreq())

	numDocs, err := reader.NumDocs()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), numDocs)

	docCount, err := reader.DocCount("title")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), docCount)

	sum, err := reader.SumOfFieldLengths("body")
	require.NoError(t, err)
	assert.Equal(t, uint64(5), sum)

	length, err := reader.FieldLength("body", ToGlobalDocId(0, 1))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), length)

	length, err = reader.FieldLength("title", ToGlobalDocId(0, 1))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), length)

	externalId, err := reader.ExternalId(ToGlobalDocId(0, 1))
	require.NoError(t, err)
	assert.Equal(t, "d2", externalId)

	_, err = reader.ExternalId(ToGlobalDocId(0, 2))
	assert.Error(t, err)
}

func TestPostingListSpansSegments(t *testing.T) {
	directory, _ := newTestIndex(t,
		[]Document{textDoc("d1", "body", "apple")},
		[]Document{textDoc("d2", "body", "banana"), textDoc("d3", "body", "apple pie")},
	)
	reader := openReader(t, directory)

	list, err := reader.PostingList("appl", "body")
	require.NoError(t, err)

	require.Equal(t, 2, list.DocFreq())
	assert.Equal(t, ToGlobalDocId(0, 0), list.Postings[0].DocId)
	assert.Equal(t, ToGlobalDocId(1, 1), list.Postings[1].DocId)

	externalId, err := reader.ExternalId(list.Postings[1].DocId)
	require.NoError(t, err)
	assert.Equal(t, "d3", externalId)

	docCount, err := reader.DocCount("body")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), docCount)
}

func TestDeleteDocuments(t *testing.T) {
	directory, writer := newTestIndex(t,
		[]Document{textDoc("d1", "body", "apple"), textDoc("d2", "body", "apple pie")},
		[]Document{textDoc("d3", "body", "apple")},
	)

	deleted, err := writer.DeleteDocuments([]string{"d1", "unknown"})
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	deleted, err = writer.DeleteDocuments([]string{"d3"})
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	deleted, err = writer.DeleteDocuments([]string{"d1"})
	require.NoError(t, err)
	assert.Equal(t, 0, deleted)

	reader := openReader(t, directory)

	list, err := reader.PostingList("appl", "body")
	require.NoError(t, err)
	require.Equal(t, 1, list.DocFreq())
	assert.Equal(t, ToGlobalDocId(0, 1), list.Postings[0].DocId)
	assert.Equal(t, uint64(1), list.Ctf)

	numDocs, err := reader.NumDocs()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), numDocs)

	docCount, err := reader.DocCount("body")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), docCount)

	sumOfFieldLengths, err := reader.SumOfFieldLengths("body")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), sumOfFieldLengths)
}

func TestAddDocumentsRejectsInvalidDocuments(t *testing.T) {
	_, writer := newTestIndex(t)

	assert.Error(t, writer.AddDocuments([]Document{textDoc("", "body", "apple")}))
	assert.Error(t, writer.AddDocuments([]Document{textDoc("d1", "body", "apple", "body", "pie")}))
	assert.Error(t, writer.AddDocuments([]Document{textDoc("d1", ExternalIdField, "x")}))
}

func TestInvertedListRejectsUnorderedPostings(t *testing.T) {
	list := NewInvertedList("apple", "body")

	require.NoError(t, list.AppendPosting(2, []int{1, 4}))
	assert.Error(t, list.AppendPosting(2, []int{5}))
	assert.Error(t, list.AppendPosting(1, []int{5}))
	assert.Error(t, list.AppendPosting(3, []int{5, 5}))
	assert.Equal(t, 1, list.DocFreq())
	assert.Equal(t, uint64(2), list.Ctf)
}
