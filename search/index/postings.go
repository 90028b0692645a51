package index

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
)

func postingsFilename(directory, segmentId, fieldName string) string {
	return filepath.Join(directory, "segment."+segmentId+"."+fieldName+".postings")
}

type FieldPostingsWriter struct {
	file   *os.File
	offset uint64
	writer *bufio.Writer
}

func newFieldPostingsWriter(directory, segmentId, fieldName string) (*FieldPostingsWriter, error) {
	file, err := createFile(postingsFilename(directory, segmentId, fieldName))
	if err != nil {
		return nil, err
	}

	return &FieldPostingsWriter{
		file:   file,
		writer: bufio.NewWriter(file),
	}, nil
}

/*
Term postings, repeated per document:
  - doc id delta (uvarint)
  - term freq (uvarint)
  - position deltas (uvarint each, the first one relative to 0)
*/
func (writer *FieldPostingsWriter) WriteTerm(docIds []DocumentId, positions [][]int) (uint64, uint64, error) {
	startOffset := writer.offset

	buffer := make([]byte, 0, len(docIds)*8)

	previousDocId := DocumentId(0)
	for i, docId := range docIds {
		buffer = binary.AppendUvarint(buffer, uint64(docId-previousDocId))
		buffer = binary.AppendUvarint(buffer, uint64(len(positions[i])))

		previousPosition := 0
		for _, position := range positions[i] {
			buffer = binary.AppendUvarint(buffer, uint64(position-previousPosition))
			previousPosition = position
		}

		previousDocId = docId
	}

	if _, err := writer.writer.Write(buffer); err != nil {
		return 0, 0, err
	}

	writer.offset += uint64(len(buffer))

	return startOffset, writer.offset, nil
}

func (writer *FieldPostingsWriter) Close() error {
	if err := writer.writer.Flush(); err != nil {
		_ = writer.file.Close()
		return err
	}

	return writer.file.Close()
}

type FieldPostingsReader struct {
	fileReader *FileReader
}

func newFieldPostingsReader(directory, segmentId, fieldName string) (*FieldPostingsReader, error) {
	fileReader, err := newFileReader(postingsFilename(directory, segmentId, fieldName))
	if err != nil {
		return nil, err
	}

	return &FieldPostingsReader{fileReader: fileReader}, nil
}

// Decode calls fn for every posting of the term, in docid order.
func (reader *FieldPostingsReader) Decode(termInfo *TermInfo, fn func(docId DocumentId, positions []int) error) error {
	if termInfo.PostingsFileEndOffset > reader.fileReader.Len() || termInfo.PostingsFileStartOffset > termInfo.PostingsFileEndOffset {
		return fmt.Errorf("postings range [%d, %d) outside file of %d bytes", termInfo.PostingsFileStartOffset, termInfo.PostingsFileEndOffset, reader.fileReader.Len())
	}

	data := reader.fileReader.Slice(termInfo.PostingsFileStartOffset, termInfo.PostingsFileEndOffset)

	next := func() (uint64, error) {
		value, n := binary.Uvarint(data)
		if n <= 0 {
			return 0, fmt.Errorf("corrupt postings: bad uvarint")
		}
		data = data[n:]
		return value, nil
	}

	docId := DocumentId(0)
	for i := uint32(0); i < termInfo.DocFreq; i++ {
		delta, err := next()
		if err != nil {
			return err
		}
		docId += DocumentId(delta)

		termFreq, err := next()
		if err != nil {
			return err
		}

		positions := make([]int, termFreq)
		position := 0
		for j := range positions {
			delta, err := next()
			if err != nil {
				return err
			}
			position += int(delta)
			positions[j] = position
		}

		if err := fn(docId, positions); err != nil {
			return err
		}
	}

	return nil
}

func (reader *FieldPostingsReader) Close() error {
	return reader.fileReader.Close()
}
