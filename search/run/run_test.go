package run

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/larose/qryeval/search"
	"github.com/larose/qryeval/search/analysis"
	"github.com/larose/qryeval/search/index"
	"github.com/larose/qryeval/search/parser"
	"github.com/larose/qryeval/search/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadQueries(t *testing.T) {
	queries, err := ReadQueries(strings.NewReader("10:apple pie\n\n 11 : #near/2(apple pie)\nno separator\n12:\n"))
	require.NoError(t, err)
	require.Len(t, queries, 4)

	assert.Equal(t, Query{Line: 1, Id: "10", Text: "apple pie"}, queries[0])
	assert.Equal(t, Query{Line: 3, Id: "11", Text: "#near/2(apple pie)"}, queries[1])

	assert.Equal(t, 4, queries[2].Line)
	assert.ErrorIs(t, queries[2].Err, query.ErrSyntax)

	assert.Equal(t, Query{Line: 5, Id: "12", Text: ""}, queries[3])
}

func TestParseQueryLineKeepsLaterColons(t *testing.T) {
	q := ParseQueryLine(1, "7:http:example")
	require.NoError(t, q.Err)
	assert.Equal(t, "7", q.Id)
	assert.Equal(t, "http:example", q.Text)

	assert.ErrorIs(t, ParseQueryLine(1, ":apple").Err, query.ErrSyntax)
}

func TestTrecWriter(t *testing.T) {
	var out bytes.Buffer
	writer := NewTrecWriter(&out, "run-1", 2)

	require.NoError(t, writer.Write("10", []query.ScoreEntry{
		{DocId: 5, ExternalId: "d5", Score: 2.5},
		{DocId: 0, ExternalId: "d0", Score: 2},
		{DocId: 7, ExternalId: "", Score: 1.5},
		{DocId: 3, ExternalId: "d3", Score: 1},
		{DocId: 4, ExternalId: "d4", Score: 0.5},
	}, false))
	require.NoError(t, writer.Write("11", nil, true))
	require.NoError(t, writer.Write("12", nil, false))
	require.NoError(t, writer.Flush())

	assert.Equal(t, "10 Q0 d5 1 2.5 run-1\n"+
		"10 Q0 d3 2 1 run-1\n"+
		"11 Q0 dummy 1 0 run-1\n", out.String())
}

func TestTrecWriterSkippedEntriesDoNotTakeRanks(t *testing.T) {
	var out bytes.Buffer
	writer := NewTrecWriter(&out, "run-1", 10)

	require.NoError(t, writer.Write("3", []query.ScoreEntry{
		{DocId: 9, ExternalId: "d9", Score: 4},
		{DocId: 8, ExternalId: "d8", Score: 3},
		{DocId: 0, ExternalId: "d0", Score: 2.5},
		{DocId: 6, ExternalId: "", Score: 2},
		{DocId: 2, ExternalId: "d2", Score: 1},
	}, false))
	require.NoError(t, writer.Write("4", []query.ScoreEntry{
		{DocId: 0, ExternalId: "", Score: 1},
	}, false))
	require.NoError(t, writer.Flush())

	assert.Equal(t, "3 Q0 d9 1 4 run-1\n"+
		"3 Q0 d8 2 3 run-1\n"+
		"3 Q0 d2 3 1 run-1\n", out.String())
}

func TestTrecWriterDefaultLength(t *testing.T) {
	writer := NewTrecWriter(&bytes.Buffer{}, "run-1", 0)
	assert.Equal(t, DefaultOutputLength, writer.OutputLength())
}

func newSearcher(t *testing.T, model query.Model) *search.Searcher {
	t.Helper()

	directory := t.TempDir()

	writer, err := index.NewIndexWriter(directory, analysis.NewAnalyzer())
	require.NoError(t, err)

	doc := func(id, body string) index.Document {
		return index.Document{ExternalId: id, Fields: []index.Field{{FieldType: index.TextFieldType, Name: "body", Value: []byte(body)}}}
	}

	require.NoError(t, writer.AddDocuments([]index.Document{
		doc("d1", "apple apple pie"),
		doc("d2", "apple"),
	}))
	require.NoError(t, writer.AddDocuments([]index.Document{
		doc("d3", "apple apple apple"),
		doc("d4", "banana"),
	}))

	reader, err := index.NewIndexReader(directory)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reader.Close() })

	p, err := parser.New(analysis.NewAnalyzer(), parser.DefaultOperator)
	require.NoError(t, err)

	return &search.Searcher{Index: reader, Model: model, Parser: p}
}

func TestRunWritesResultsInQueryFileOrder(t *testing.T) {
	queries, err := ReadQueries(strings.NewReader(
		"1:apple\n" +
			"2:#and(apple pie\n" +
			"3 missing separator\n" +
			"4:the\n" +
			"5:#wand(apple pie)\n" +
			"6:banana\n" +
			"7:#near/0(apple pie)\n"))
	require.NoError(t, err)

	var out bytes.Buffer
	metrics := NewMetrics()
	runner := NewRunner(newSearcher(t, query.RankedBoolean{}), NewTrecWriter(&out, "test", 100), metrics, Options{Workers: 3, QueryTimeout: time.Minute})

	summary, err := runner.Run(context.Background(), queries)
	require.NoError(t, err)

	assert.Equal(t, Summary{Queries: 7, Ranked: 2, Empty: 1, Skipped: 4}, summary)
	assert.Equal(t, "1 Q0 d3 1 3 test\n"+
		"1 Q0 d1 2 2 test\n"+
		"1 Q0 d2 3 1 test\n"+
		"4 Q0 dummy 1 0 test\n"+
		"6 Q0 d4 1 1 test\n", out.String())

	path := filepath.Join(t.TempDir(), "qryeval.prom")
	require.NoError(t, metrics.WriteToTextfile(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `qryeval_queries_total{status="ok"} 2`)
	assert.Contains(t, string(content), `qryeval_queries_total{status="empty"} 1`)
	assert.Contains(t, string(content), `qryeval_queries_total{status="skipped"} 4`)
}

func TestRunRanksWithBM25(t *testing.T) {
	var out bytes.Buffer
	runner := NewRunner(newSearcher(t, query.BM25{K1: 1.2, B: 0.75}), NewTrecWriter(&out, "bm25", 1), nil, Options{Workers: 1})

	summary, err := runner.Run(context.Background(), []Query{{Line: 1, Id: "q1", Text: "pie apple"}})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Ranked)

	fields := strings.Fields(out.String())
	require.Len(t, fields, 6)
	assert.Equal(t, []string{"q1", "Q0", "d1", "1"}, fields[:4])
	assert.Equal(t, "bm25", fields[5])
}

type failingIndex struct {
	query.Index
}

func (failingIndex) PostingList(term, field string) (*index.InvertedList, error) {
	return nil, os.ErrClosed
}

func TestRunAbortsOnIndexErrors(t *testing.T) {
	searcher := newSearcher(t, query.RankedBoolean{})
	searcher.Index = failingIndex{searcher.Index}

	var out bytes.Buffer
	runner := NewRunner(searcher, NewTrecWriter(&out, "test", 100), nil, Options{Workers: 2})

	_, err := runner.Run(context.Background(), []Query{
		{Line: 1, Id: "1", Text: "apple"},
		{Line: 2, Id: "2", Text: "banana"},
	})
	assert.ErrorIs(t, err, query.ErrIndexAccess)
	assert.Empty(t, out.String())
}

func TestRunStopsWhenCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	runner := NewRunner(newSearcher(t, query.RankedBoolean{}), NewTrecWriter(&out, "test", 100), nil, Options{Workers: 1})

	_, err := runner.Run(ctx, []Query{{Line: 1, Id: "1", Text: "apple"}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}
