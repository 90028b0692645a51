// Package corpus reads JSON lines documents and feeds them to an index
// writer in batches.
package corpus

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/larose/qryeval/search/index"
)

const DefaultBatchSize = 10_000

// Article is one line of a corpus file.
type Article struct {
	Id       string `json:"id"`
	URL      string `json:"url"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Inlink   string `json:"inlink"`
	Keywords string `json:"keywords"`
}

type ArticleIterator struct {
	closer io.Closer
	reader *bufio.Reader
	logger *slog.Logger

	line    int
	Invalid int
}

func NewArticleIterator(filePath string, logger *slog.Logger) (*ArticleIterator, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}

	it := newArticleIterator(file, logger)
	it.closer = file
	return it, nil
}

func newArticleIterator(r io.Reader, logger *slog.Logger) *ArticleIterator {
	return &ArticleIterator{
		reader: bufio.NewReader(r),
		logger: logger,
	}
}

// NextBatch returns up to maxItems articles. Lines that are not valid
// articles are logged and counted in Invalid. An empty batch means the
// input is exhausted.
func (it *ArticleIterator) NextBatch(maxItems int) ([]Article, error) {
	var batch []Article

	eof := false
	for {
		lineBytes, err := it.reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				eof = true
			} else {
				return nil, err
			}
		}

		if len(lineBytes) > 0 {
			it.line++

			article, err := parseArticle(lineBytes)
			if err != nil {
				it.Invalid++
				it.logger.Warn("skipping article", "line", it.line, "error", err)
			} else if article != nil {
				batch = append(batch, *article)
			}
		}

		if eof || len(batch) == maxItems {
			break
		}
	}

	return batch, nil
}

func parseArticle(line []byte) (*Article, error) {
	if len(bytes.TrimSpace(line)) == 0 {
		return nil, nil
	}

	var article Article
	if err := json.Unmarshal(line, &article); err != nil {
		return nil, err
	}

	if article.Id == "" {
		return nil, errors.New("missing id")
	}

	return &article, nil
}

func (it *ArticleIterator) Close() error {
	if it.closer == nil {
		return nil
	}
	return it.closer.Close()
}

// ToDocument indexes url as a byte field and the other fields as text.
// Empty fields are left out.
func ToDocument(article Article) index.Document {
	doc := index.Document{ExternalId: article.Id}

	if article.URL != "" {
		doc.Fields = append(doc.Fields, index.Field{FieldType: index.ByteFieldType, Name: "url", Value: []byte(article.URL)})
	}

	for _, field := range []struct {
		name  string
		value string
	}{
		{"title", article.Title},
		{"body", article.Body},
		{"inlink", article.Inlink},
		{"keywords", article.Keywords},
	} {
		if field.value == "" {
			continue
		}
		doc.Fields = append(doc.Fields, index.Field{FieldType: index.TextFieldType, Name: field.name, Value: []byte(field.value)})
	}

	return doc
}

// DocumentWriter is the part of index.IndexWriter a load needs.
type DocumentWriter interface {
	AddDocuments(docs []index.Document) error
}

// Load writes every article of iterator to writer, one segment per batch,
// and returns the number of documents written.
func Load(ctx context.Context, iterator *ArticleIterator, writer DocumentWriter, batchSize int, logger *slog.Logger) (int, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	totalProcessed := 0

	docs := make([]index.Document, 0, batchSize)

	for {
		if err := ctx.Err(); err != nil {
			return totalProcessed, err
		}

		articles, err := iterator.NextBatch(batchSize)
		if err != nil {
			return totalProcessed, err
		}

		if len(articles) == 0 {
			break
		}

		for _, article := range articles {
			docs = append(docs, ToDocument(article))
		}

		if err := writer.AddDocuments(docs); err != nil {
			return totalProcessed, err
		}

		totalProcessed += len(articles)
		docs = docs[:0]

		logger.Info("indexed batch", "documents", len(articles), "total", totalProcessed)
	}

	return totalProcessed, nil
}
