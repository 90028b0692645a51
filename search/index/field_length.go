package index

import (
	"fmt"
	"path/filepath"
)

func fieldLengthsFilename(directory, segmentId, fieldName string) string {
	return filepath.Join(directory, "segment."+segmentId+"."+fieldName+".lengths")
}

// FieldLengthReader holds one length per document of the segment, zero for
// documents without the field.
type FieldLengthReader struct {
	arrayStoreReader *ArrayStoreReader
}

func newFieldLengthReader(directory, segmentId, fieldName string) (*FieldLengthReader, error) {
	arrayStoreReader, err := newArrayStoreReader(fieldLengthsFilename(directory, segmentId, fieldName))
	if err != nil {
		return nil, err
	}

	return &FieldLengthReader{arrayStoreReader: arrayStoreReader}, nil
}

func (reader *FieldLengthReader) Get(docId DocumentId) (uint32, error) {
	length, err := reader.arrayStoreReader.Get(uint32(docId))
	if err != nil {
		return 0, fmt.Errorf("document %d: %w", docId, err)
	}

	return length, nil
}

func (reader *FieldLengthReader) Close() error {
	return reader.arrayStoreReader.Close()
}
