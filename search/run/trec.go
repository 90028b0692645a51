package run

import (
	"bufio"
	"io"
	"strconv"

	"github.com/larose/qryeval/search/query"
)

const DefaultOutputLength = 100

// TrecWriter renders results as "qid Q0 externalId rank score runId" rows.
type TrecWriter struct {
	writer       *bufio.Writer
	runId        string
	outputLength int
}

func NewTrecWriter(w io.Writer, runId string, outputLength int) *TrecWriter {
	if outputLength <= 0 {
		outputLength = DefaultOutputLength
	}

	return &TrecWriter{
		writer:       bufio.NewWriter(w),
		runId:        runId,
		outputLength: outputLength,
	}
}

func (t *TrecWriter) OutputLength() int {
	return t.outputLength
}

// Write renders ranked, which must already be in rank order. Entries
// without an internal or external id are skipped and do not take a rank.
// A query whose tree optimized away gets a single placeholder row.
func (t *TrecWriter) Write(queryId string, ranked []query.ScoreEntry, empty bool) error {
	if empty {
		return t.row(queryId, "dummy", 1, 0)
	}

	rank := 0
	for _, entry := range ranked {
		if rank == t.outputLength {
			break
		}

		if entry.DocId == 0 || entry.ExternalId == "" {
			continue
		}

		rank++
		if err := t.row(queryId, entry.ExternalId, rank, entry.Score); err != nil {
			return err
		}
	}

	return nil
}

func (t *TrecWriter) row(queryId, externalId string, rank int, score float64) error {
	line := make([]byte, 0, 64)
	line = append(line, queryId...)
	line = append(line, " Q0 "...)
	line = append(line, externalId...)
	line = append(line, ' ')
	line = strconv.AppendInt(line, int64(rank), 10)
	line = append(line, ' ')
	line = strconv.AppendFloat(line, score, 'g', -1, 64)
	line = append(line, ' ')
	line = append(line, t.runId...)
	line = append(line, '\n')

	_, err := t.writer.Write(line)
	return err
}

func (t *TrecWriter) Flush() error {
	return t.writer.Flush()
}
