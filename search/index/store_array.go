package index

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
)

// ArrayStoreWriter writes fixed width big endian uint32 values addressed by
// their position.
type ArrayStoreWriter struct {
	file   *os.File
	writer *bufio.Writer
}

const arrayElementSize = 4

func newArrayStoreWriter(filename string) (*ArrayStoreWriter, error) {
	file, err := createFile(filename)
	if err != nil {
		return nil, err
	}

	return &ArrayStoreWriter{
		file:   file,
		writer: bufio.NewWriter(file),
	}, nil
}

func (writer *ArrayStoreWriter) Append(values ...uint32) error {
	buffer := make([]byte, 0, len(values)*arrayElementSize)
	for _, value := range values {
		buffer = binary.BigEndian.AppendUint32(buffer, value)
	}

	_, err := writer.writer.Write(buffer)
	return err
}

func (writer *ArrayStoreWriter) Close() error {
	if err := writer.writer.Flush(); err != nil {
		_ = writer.file.Close()
		return err
	}

	return writer.file.Close()
}

type ArrayStoreReader struct {
	fileReader *FileReader
}

func newArrayStoreReader(filename string) (*ArrayStoreReader, error) {
	fileReader, err := newFileReader(filename)
	if err != nil {
		return nil, err
	}

	return &ArrayStoreReader{fileReader: fileReader}, nil
}

func (reader *ArrayStoreReader) Len() uint32 {
	return uint32(reader.fileReader.Len() / arrayElementSize)
}

func (reader *ArrayStoreReader) Get(position uint32) (uint32, error) {
	if position >= reader.Len() {
		return 0, fmt.Errorf("array store position %d out of range [0, %d)", position, reader.Len())
	}

	start := uint64(position) * arrayElementSize
	return binary.BigEndian.Uint32(reader.fileReader.Slice(start, start+arrayElementSize)), nil
}

func (reader *ArrayStoreReader) Close() error {
	return reader.fileReader.Close()
}
