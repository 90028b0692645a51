package index

import (
	"encoding/binary"
	"fmt"
	"path/filepath"
)

type TermInfo struct {
	DocFreq                 uint32
	Ctf                     uint64
	PostingsFileStartOffset uint64
	PostingsFileEndOffset   uint64
}

const termInfoSize = 28

func dictionaryBasename(directory, segmentId, fieldName string) string {
	return filepath.Join(directory, "segment."+segmentId+"."+fieldName+".dictionary")
}

type DictionaryWriter struct {
	buffer   []byte
	kvWriter *KVStoreWriter
}

func newDictionaryWriter(directory, segmentId, fieldName string) (*DictionaryWriter, error) {
	writer, err := newKVStoreWriter(dictionaryBasename(directory, segmentId, fieldName))
	if err != nil {
		return nil, err
	}

	return &DictionaryWriter{buffer: make([]byte, termInfoSize), kvWriter: writer}, nil
}

func (writer *DictionaryWriter) Write(term []byte, termInfo *TermInfo) error {
	binary.BigEndian.PutUint32(writer.buffer, termInfo.DocFreq)
	binary.BigEndian.PutUint64(writer.buffer[4:], termInfo.Ctf)
	binary.BigEndian.PutUint64(writer.buffer[12:], termInfo.PostingsFileStartOffset)
	binary.BigEndian.PutUint64(writer.buffer[20:], termInfo.PostingsFileEndOffset)
	return writer.kvWriter.Append(term, writer.buffer)
}

func (writer *DictionaryWriter) Close() error {
	return writer.kvWriter.Close()
}

type DictionaryReader struct {
	kvReader *KVStoreReader
}

func newDictionaryReader(directory, segmentId, fieldName string) (*DictionaryReader, error) {
	kvReader, err := newKVStoreReader(dictionaryBasename(directory, segmentId, fieldName))
	if err != nil {
		return nil, err
	}

	return &DictionaryReader{kvReader: kvReader}, nil
}

// Get returns nil when the term does not occur in the field.
func (reader *DictionaryReader) Get(term []byte) (*TermInfo, error) {
	value := reader.kvReader.Get(term)

	if value == nil {
		return nil, nil
	}

	if len(value) != termInfoSize {
		return nil, fmt.Errorf("term info for %q has %d bytes, want %d", term, len(value), termInfoSize)
	}

	return &TermInfo{
		DocFreq:                 binary.BigEndian.Uint32(value),
		Ctf:                     binary.BigEndian.Uint64(value[4:]),
		PostingsFileStartOffset: binary.BigEndian.Uint64(value[12:]),
		PostingsFileEndOffset:   binary.BigEndian.Uint64(value[20:]),
	}, nil
}

func (reader *DictionaryReader) Close() error {
	return reader.kvReader.Close()
}
