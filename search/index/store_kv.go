package index

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
)

// KVStoreWriter writes a sorted key/value file pair: basename.data holds
// length prefixed records and basename.index holds one uint64 offset per
// record, which lets the reader binary search the keys.
type KVStoreWriter struct {
	dataFile    *os.File
	dataWriter  *bufio.Writer
	indexFile   *os.File
	indexWriter *bufio.Writer
	lastKey     []byte
	offset      uint64
}

func newKVStoreWriter(basename string) (*KVStoreWriter, error) {
	dataFile, err := createFile(basename + ".data")
	if err != nil {
		return nil, err
	}
	indexFile, err := createFile(basename + ".index")
	if err != nil {
		dataFile.Close()
		return nil, err
	}

	return &KVStoreWriter{
		dataFile:    dataFile,
		dataWriter:  bufio.NewWriter(dataFile),
		indexFile:   indexFile,
		indexWriter: bufio.NewWriter(indexFile),
	}, nil
}

// Keys must be appended in strictly increasing byte order.
func (w *KVStoreWriter) Append(key []byte, values ...[]byte) error {
	if w.lastKey != nil && bytes.Compare(w.lastKey, key) >= 0 {
		return fmt.Errorf("kv store key %q appended after %q", key, w.lastKey)
	}
	w.lastKey = append(w.lastKey[:0], key...)

	keyLength := uint32(len(key))

	var valueLength uint32
	for _, value := range values {
		valueLength += uint32(len(value))
	}

	buffer := make([]byte, 0, 8+keyLength+valueLength)
	buffer = binary.BigEndian.AppendUint32(buffer, keyLength)
	buffer = binary.BigEndian.AppendUint32(buffer, valueLength)

	buffer = append(buffer, key...)
	for _, value := range values {
		buffer = append(buffer, value...)
	}

	if _, err := w.dataWriter.Write(buffer); err != nil {
		return err
	}

	if _, err := w.indexWriter.Write(binary.BigEndian.AppendUint64(nil, w.offset)); err != nil {
		return err
	}

	w.offset += uint64(len(buffer))

	return nil
}

func (w *KVStoreWriter) Close() error {
	if err := w.dataWriter.Flush(); err != nil {
		return err
	}

	if err := w.dataFile.Close(); err != nil {
		return err
	}

	if err := w.indexWriter.Flush(); err != nil {
		return err
	}

	return w.indexFile.Close()
}

type KVStoreReader struct {
	data  *FileReader
	index *FileReader
}

func newKVStoreReader(basename string) (*KVStoreReader, error) {
	data, err := newFileReader(basename + ".data")
	if err != nil {
		return nil, err
	}

	index, err := newFileReader(basename + ".index")
	if err != nil {
		_ = data.Close()
		return nil, err
	}

	return &KVStoreReader{
		data:  data,
		index: index,
	}, nil
}

func (kv *KVStoreReader) Len() int {
	return len(kv.index.data) / 8
}

// Get returns the value stored under key, or nil. The returned slice
// aliases the mapped file and is only valid until Close.
func (kv *KVStoreReader) Get(key []byte) []byte {
	data := kv.data.data
	offsets := kv.index.data

	leftIndex := 0
	rightIndex := kv.Len() - 1

	for leftIndex <= rightIndex {
		middle := leftIndex + (rightIndex-leftIndex)/2

		offset := binary.BigEndian.Uint64(offsets[middle*8 : middle*8+8])
		keyLength := uint64(binary.BigEndian.Uint32(data[offset : offset+4]))
		currentKey := data[offset+8 : offset+8+keyLength]

		switch bytes.Compare(currentKey, key) {
		case -1:
			leftIndex = middle + 1
		case 1:
			rightIndex = middle - 1
		default:
			valueLength := uint64(binary.BigEndian.Uint32(data[offset+4 : offset+8]))
			return data[offset+8+keyLength : offset+8+keyLength+valueLength]
		}
	}

	return nil
}

func (kv *KVStoreReader) Close() error {
	if err := kv.data.Close(); err != nil {
		_ = kv.index.Close()
		return err
	}

	return kv.index.Close()
}
