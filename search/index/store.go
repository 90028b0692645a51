package index

import (
	"path/filepath"
)

func externalIdStoreBasename(directory, segmentId string) string {
	return filepath.Join(directory, "segment."+segmentId+".externalId.store")
}

// StoreWriter keeps the external id of every document of a segment.
type StoreWriter struct {
	currentDocId DocumentId
	externalIds  []string
}

func newStoreWriter() *StoreWriter {
	return &StoreWriter{
		externalIds: make([]string, 0, 100),
	}
}

func (writer *StoreWriter) Doc(docId DocumentId, externalId string) {
	writer.currentDocId = docId
	writer.externalIds = append(writer.externalIds, externalId)
}

func (writer *StoreWriter) Field(fieldName string) {
}

func (writer *StoreWriter) Term(term []byte, position int) {
}

func (writer *StoreWriter) EndField() {
}

func (writer *StoreWriter) Write(directory, segmentId string) error {
	kvStoreWriter, err := newKVStoreWriter(externalIdStoreBasename(directory, segmentId))
	if err != nil {
		return err
	}

	// Keys are big endian docids, so append order is key order.
	for docId, externalId := range writer.externalIds {
		if err := kvStoreWriter.Append(uint32Key(uint32(docId)), []byte(externalId)); err != nil {
			_ = kvStoreWriter.Close()
			return err
		}
	}

	return kvStoreWriter.Close()
}

type StoreReader struct {
	kvStoreReader *KVStoreReader
}

func newStoreReader(directory, segmentId string) (*StoreReader, error) {
	kvStoreReader, err := newKVStoreReader(externalIdStoreBasename(directory, segmentId))
	if err != nil {
		return nil, err
	}

	return &StoreReader{kvStoreReader: kvStoreReader}, nil
}

// ExternalId returns "" for an unknown document.
func (reader *StoreReader) ExternalId(docId DocumentId) string {
	return string(reader.kvStoreReader.Get(uint32Key(uint32(docId))))
}

func (reader *StoreReader) Close() error {
	return reader.kvStoreReader.Close()
}
