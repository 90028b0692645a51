package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/larose/qryeval/search/analysis"
	"golang.org/x/exp/rand"
)

type IndexWriter struct {
	analyzer  *analysis.Analyzer
	directory string
	mutex     sync.Mutex
	random    *rand.Rand
}

type SegmentInfo struct {
	Id       uint32 `json:"id"`
	DocCount uint32 `json:"docCount"`
}

// Commit lists the live segments in docid order. A segment's ordinal in
// Segments is the high half of its global docids.
type Commit struct {
	Segments  []SegmentInfo `json:"segments"`
	DeletedId *uint32       `json:"deletedId,omitempty"`
}

func formatId(id uint32) string {
	return strconv.FormatUint(uint64(id), 10)
}

func NewIndexWriter(directory string, analyzer *analysis.Analyzer) (*IndexWriter, error) {
	if err := os.MkdirAll(directory, 0700); err != nil {
		return nil, err
	}

	return &IndexWriter{
		analyzer:  analyzer,
		directory: directory,
		random:    rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}, nil
}

// AddDocuments writes docs as one new segment and commits it.
func (writer *IndexWriter) AddDocuments(docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	writer.mutex.Lock()
	defer writer.mutex.Unlock()

	segmentComponentWriters := []SegmentComponentWriter{newInvertedIndexWriter(), newStoreWriter()}

	for docId, doc := range docs {
		if err := validateDocument(doc); err != nil {
			return fmt.Errorf("document %d: %w", docId, err)
		}

		for _, segmentComponentWriter := range segmentComponentWriters {
			segmentComponentWriter.Doc(DocumentId(docId), doc.ExternalId)
		}

		externalIdField := Field{FieldType: ByteFieldType, Name: ExternalIdField, Value: []byte(doc.ExternalId)}

		for _, field := range append([]Field{externalIdField}, doc.Fields...) {
			for _, segmentComponentWriter := range segmentComponentWriters {
				segmentComponentWriter.Field(field.Name)
			}

			switch field.FieldType {
			case TextFieldType:
				writer.analyzer.Analyze(field.Value, func(term analysis.Term) {
					for _, segmentComponentWriter := range segmentComponentWriters {
						segmentComponentWriter.Term([]byte(term.Text), term.Position)
					}
				})
			case ByteFieldType:
				for _, segmentComponentWriter := range segmentComponentWriters {
					segmentComponentWriter.Term(field.Value, 0)
				}
			default:
				return fmt.Errorf("unknown field type %d", field.FieldType)
			}

			for _, segmentComponentWriter := range segmentComponentWriters {
				segmentComponentWriter.EndField()
			}
		}
	}

	commit, err := readCommit(writer.directory)
	if err != nil {
		return err
	}

	newSegmentId := writer.newSegmentId(commit)

	for _, segmentComponentWriter := range segmentComponentWriters {
		err := segmentComponentWriter.Write(writer.directory, formatId(newSegmentId))
		if err != nil {
			return err
		}
	}

	commit.Segments = append(commit.Segments, SegmentInfo{Id: newSegmentId, DocCount: uint32(len(docs))})

	return writer.commit(commit)
}

func (writer *IndexWriter) newSegmentId(commit *Commit) uint32 {
	for {
		segmentId := writer.random.Uint32()
		if !slices.ContainsFunc(commit.Segments, func(segment SegmentInfo) bool { return segment.Id == segmentId }) {
			return segmentId
		}
	}
}

func validateDocument(doc Document) error {
	if doc.ExternalId == "" {
		return errors.New("missing external id")
	}

	seen := make(map[string]struct{}, len(doc.Fields))
	for _, field := range doc.Fields {
		if field.Name == ExternalIdField {
			return fmt.Errorf("field name %q is reserved", ExternalIdField)
		}
		if _, exists := seen[field.Name]; exists {
			return fmt.Errorf("duplicate field %q", field.Name)
		}
		seen[field.Name] = struct{}{}
	}

	return nil
}

func (writer *IndexWriter) commit(commit *Commit) error {
	tempFilePath := filepath.Join(writer.directory, ".commit")
	tempFile, err := os.Create(tempFilePath)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(tempFile)

	if err := encoder.Encode(commit); err != nil {
		_ = tempFile.Close()
		return err
	}

	if err := tempFile.Close(); err != nil {
		return err
	}

	return os.Rename(tempFilePath, filepath.Join(writer.directory, "commit"))
}

// DeleteDocuments marks the documents with the given external ids as
// deleted. Unknown ids are ignored. Returns the number of newly deleted
// documents.
func (writer *IndexWriter) DeleteDocuments(externalIds []string) (int, error) {
	writer.mutex.Lock()
	defer writer.mutex.Unlock()

	indexReader, err := NewIndexReader(writer.directory)
	if err != nil {
		return 0, err
	}
	defer indexReader.Close()

	docIdsToDelete, err := indexReader.LookupExternalIds(externalIds)
	if err != nil {
		return 0, err
	}

	if len(docIdsToDelete) == 0 {
		return 0, nil
	}

	commit, err := readCommit(writer.directory)
	if err != nil {
		return 0, err
	}

	deletedDocIdsBySegment := make(map[uint32]*roaring.Bitmap)
	for _, segmentReader := range indexReader.SegmentReaders {
		deletedDocIdsBySegment[segmentReader.Id] = segmentReader.DeletedDocIds.Clone()
	}

	for _, docId := range docIdsToDelete {
		segmentReader, localDocId, err := indexReader.segmentFor(docId)
		if err != nil {
			return 0, err
		}

		deletedDocIdsBySegment[segmentReader.Id].Add(uint32(localDocId))
	}

	var nextDeletedId uint32
	if commit.DeletedId != nil {
		nextDeletedId = *commit.DeletedId + 1
	}

	if err := newDeletedWriter(deletedDocIdsBySegment).Write(writer.directory, formatId(nextDeletedId)); err != nil {
		return 0, err
	}

	commit.DeletedId = &nextDeletedId

	if err := writer.commit(commit); err != nil {
		return 0, err
	}

	return len(docIdsToDelete), nil
}

func readCommit(directory string) (*Commit, error) {
	commitFile, err := os.Open(filepath.Join(directory, "commit"))
	if errors.Is(err, os.ErrNotExist) {
		return &Commit{Segments: make([]SegmentInfo, 0)}, nil
	}
	if err != nil {
		return nil, err
	}
	defer commitFile.Close()

	var commit Commit
	if err := json.NewDecoder(commitFile).Decode(&commit); err != nil {
		return nil, fmt.Errorf("reading commit: %w", err)
	}

	return &commit, nil
}
