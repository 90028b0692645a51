// Package run evaluates a file of queries and writes the results in TREC
// format.
package run

import (
	"bufio"
	"io"
	"strings"

	"github.com/larose/qryeval/search/query"
)

const maxQueryLineSize = 1 << 20

// Query is one line of a query file. Err is set when the line could not be
// read as "qid:text"; such queries are reported and skipped.
type Query struct {
	Line int
	Id   string
	Text string
	Err  error
}

// ReadQueries reads one query per line in the form "qid:text". Blank lines
// are skipped.
func ReadQueries(r io.Reader) ([]Query, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxQueryLineSize)

	queries := make([]Query, 0)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		queries = append(queries, ParseQueryLine(lineNumber, line))
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return queries, nil
}

func ParseQueryLine(lineNumber int, line string) Query {
	q := Query{Line: lineNumber}

	id, text, found := strings.Cut(line, ":")
	if !found {
		q.Err = query.Errorf(query.ErrSyntax, "line %d: missing ':' in query line", lineNumber)
		return q
	}

	q.Id = strings.TrimSpace(id)
	q.Text = strings.TrimSpace(text)

	if q.Id == "" || strings.ContainsAny(q.Id, " \t") {
		q.Err = query.Errorf(query.ErrSyntax, "line %d: invalid query id %q", lineNumber, q.Id)
	}

	return q
}
