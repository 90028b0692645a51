package search_test

import (
	"context"
	"testing"

	"github.com/larose/qryeval/search"
	"github.com/larose/qryeval/search/analysis"
	"github.com/larose/qryeval/search/index"
	"github.com/larose/qryeval/search/parser"
	"github.com/larose/qryeval/search/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func document(externalId, body, title string) index.Document {
	doc := index.Document{ExternalId: externalId}
	if body != "" {
		doc.Fields = append(doc.Fields, index.Field{FieldType: index.TextFieldType, Name: "body", Value: []byte(body)})
	}
	if title != "" {
		doc.Fields = append(doc.Fields, index.Field{FieldType: index.TextFieldType, Name: "title", Value: []byte(title)})
	}
	return doc
}

func initSimpleIndex(t *testing.T) string {
	t.Helper()

	directory := t.TempDir()

	indexWriter, err := index.NewIndexWriter(directory, analysis.NewAnalyzer())
	require.NoError(t, err)

	require.NoError(t, indexWriter.AddDocuments([]index.Document{
		document("doc1", "apple apple", "pie"),
		document("doc2", "apple", ""),
	}))

	require.NoError(t, indexWriter.AddDocuments([]index.Document{
		document("doc3", "an apple pie and an apple tart", "apple pie recipe"),
		document("doc4", "banana bread", "bread"),
	}))

	return directory
}

func newSearcher(t *testing.T, directory string, model query.Model) *search.Searcher {
	t.Helper()

	indexReader, err := index.NewIndexReader(directory)
	require.NoError(t, err)
	t.Cleanup(func() { _ = indexReader.Close() })

	p, err := parser.New(analysis.NewAnalyzer(), parser.DefaultOperator)
	require.NoError(t, err)

	return &search.Searcher{Index: indexReader, Model: model, Parser: p}
}

func scores(list *query.ScoreList) map[string]float64 {
	result := make(map[string]float64, list.Len())
	for _, entry := range list.Entries {
		result[entry.ExternalId] = entry.Score
	}
	return result
}

func TestSearchAndRequiresEveryChild(t *testing.T) {
	directory := t.TempDir()

	indexWriter, err := index.NewIndexWriter(directory, analysis.NewAnalyzer())
	require.NoError(t, err)
	require.NoError(t, indexWriter.AddDocuments([]index.Document{
		document("doc1", "apple apple", "pie"),
		document("doc2", "apple", ""),
	}))

	searcher := newSearcher(t, directory, query.RankedBoolean{})

	results, empty, err := searcher.ProcessQuery(context.Background(), "#and(apple pie.title)")
	require.NoError(t, err)
	assert.False(t, empty)

	assert.Equal(t, map[string]float64{"doc1": 1}, scores(results))
}

func TestSearchAcrossSegments(t *testing.T) {
	searcher := newSearcher(t, initSimpleIndex(t), query.RankedBoolean{})

	results, _, err := searcher.ProcessQuery(context.Background(), "apple")
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{"doc1": 2, "doc2": 1, "doc3": 2}, scores(results))

	for i := 1; i < results.Len(); i++ {
		assert.Greater(t, results.Entries[i].DocId, results.Entries[i-1].DocId)
	}
}

func TestSearchUnrankedBoolean(t *testing.T) {
	searcher := newSearcher(t, initSimpleIndex(t), query.UnrankedBoolean{})

	results, _, err := searcher.ProcessQuery(context.Background(), "pie.title bread")
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{"doc1": 1, "doc3": 1, "doc4": 1}, scores(results))
}

func TestSearchNear(t *testing.T) {
	searcher := newSearcher(t, initSimpleIndex(t), query.RankedBoolean{})

	results, _, err := searcher.ProcessQuery(context.Background(), "#near/1(apple pie)")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"doc3": 1}, scores(results))

	// stopwords keep their positions, so "an" still counts as a gap
	results, _, err = searcher.ProcessQuery(context.Background(), "#near/1(pie apple)")
	require.NoError(t, err)
	assert.Empty(t, scores(results))

	results, _, err = searcher.ProcessQuery(context.Background(), "#window/4(tart pie)")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"doc3": 1}, scores(results))
}

func TestSearchBM25Ranking(t *testing.T) {
	model, err := query.ParseModel("bm25")
	require.NoError(t, err)

	searcher := newSearcher(t, initSimpleIndex(t), model)

	results, _, err := searcher.ProcessQuery(context.Background(), "bread recipe.title")
	require.NoError(t, err)

	results.Sort()
	require.Equal(t, 2, results.Len())
	assert.Equal(t, "doc4", results.Entries[0].ExternalId)
	assert.Equal(t, "doc3", results.Entries[1].ExternalId)
	assert.Greater(t, results.Entries[1].Score, 0.0)
}

func TestSearchIndri(t *testing.T) {
	model, err := query.ParseModel("indri")
	require.NoError(t, err)

	searcher := newSearcher(t, initSimpleIndex(t), model)

	results, _, err := searcher.ProcessQuery(context.Background(), "apple pie")
	require.NoError(t, err)

	ranked := scores(results)
	assert.Len(t, ranked, 3)
	assert.Greater(t, ranked["doc3"], ranked["doc2"])
	for _, score := range ranked {
		assert.Greater(t, score, 0.0)
		assert.Less(t, score, 1.0)
	}
}

func TestSearchSkipsDeletedDocuments(t *testing.T) {
	directory := initSimpleIndex(t)

	indexWriter, err := index.NewIndexWriter(directory, analysis.NewAnalyzer())
	require.NoError(t, err)

	deleted, err := indexWriter.DeleteDocuments([]string{"doc1"})
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	searcher := newSearcher(t, directory, query.RankedBoolean{})

	results, _, err := searcher.ProcessQuery(context.Background(), "apple")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"doc2": 1, "doc3": 2}, scores(results))
}

func TestSearchScoresIgnoreDeletedDocuments(t *testing.T) {
	withDeletion := initSimpleIndex(t)

	indexWriter, err := index.NewIndexWriter(withDeletion, analysis.NewAnalyzer())
	require.NoError(t, err)
	_, err = indexWriter.DeleteDocuments([]string{"doc1"})
	require.NoError(t, err)

	withoutDoc := t.TempDir()
	indexWriter, err = index.NewIndexWriter(withoutDoc, analysis.NewAnalyzer())
	require.NoError(t, err)
	require.NoError(t, indexWriter.AddDocuments([]index.Document{
		document("doc2", "apple", ""),
	}))
	require.NoError(t, indexWriter.AddDocuments([]index.Document{
		document("doc3", "an apple pie and an apple tart", "apple pie recipe"),
		document("doc4", "banana bread", "bread"),
	}))

	for _, name := range []string{"bm25", "indri"} {
		model, err := query.ParseModel(name)
		require.NoError(t, err)

		results, _, err := newSearcher(t, withDeletion, model).ProcessQuery(context.Background(), "apple pie.title bread")
		require.NoError(t, err)
		expected, _, err := newSearcher(t, withoutDoc, model).ProcessQuery(context.Background(), "apple pie.title bread")
		require.NoError(t, err)

		actual := scores(results)
		require.Len(t, actual, len(scores(expected)), name)
		for externalId, score := range scores(expected) {
			assert.InDelta(t, score, actual[externalId], 1e-9, "%s %s", name, externalId)
		}
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	searcher := newSearcher(t, initSimpleIndex(t), query.RankedBoolean{})

	results, empty, err := searcher.ProcessQuery(context.Background(), "the #and(of)")
	require.NoError(t, err)
	assert.True(t, empty)
	assert.Equal(t, 0, results.Len())
}

func TestSearchErrors(t *testing.T) {
	searcher := newSearcher(t, initSimpleIndex(t), query.RankedBoolean{})

	_, _, err := searcher.ProcessQuery(context.Background(), "#and(apple")
	assert.ErrorIs(t, err, query.ErrSyntax)

	_, _, err = searcher.ProcessQuery(context.Background(), "#wand(apple pie)")
	assert.ErrorIs(t, err, query.ErrConfiguration)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = searcher.ProcessQuery(ctx, "apple")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearchNilRoot(t *testing.T) {
	results, err := search.Search(context.Background(), nil, nil, query.RankedBoolean{})
	require.NoError(t, err)
	assert.Equal(t, 0, results.Len())
}
