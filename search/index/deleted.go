package index

import (
	"path/filepath"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
)

func deletedBasename(directory, deletedId string) string {
	return filepath.Join(directory, "deleted."+deletedId)
}

// DeletedWriter persists one bitmap of deleted local docids per segment.
type DeletedWriter struct {
	deletedDocIdsBySegment map[uint32]*roaring.Bitmap
}

func newDeletedWriter(deletedDocIdsBySegment map[uint32]*roaring.Bitmap) *DeletedWriter {
	return &DeletedWriter{deletedDocIdsBySegment: deletedDocIdsBySegment}
}

func (writer *DeletedWriter) Write(directory string, deletedId string) error {
	kvStoreWriter, err := newKVStoreWriter(deletedBasename(directory, deletedId))
	if err != nil {
		return err
	}

	sortedSegmentIds := make([]uint32, 0, len(writer.deletedDocIdsBySegment))
	for segmentId := range writer.deletedDocIdsBySegment {
		sortedSegmentIds = append(sortedSegmentIds, segmentId)
	}

	slices.Sort(sortedSegmentIds)

	for _, segmentId := range sortedSegmentIds {
		deletedDocsForSegment := writer.deletedDocIdsBySegment[segmentId]
		deletedDocsForSegment.RunOptimize()

		buffer, err := deletedDocsForSegment.ToBytes()
		if err != nil {
			_ = kvStoreWriter.Close()
			return err
		}

		if err := kvStoreWriter.Append(uint32Key(segmentId), buffer); err != nil {
			_ = kvStoreWriter.Close()
			return err
		}
	}

	return kvStoreWriter.Close()
}

type DeletedReader interface {
	// Never returns a nil bitmap.
	GetDeletedDocIdsForSegment(segmentId uint32) (*roaring.Bitmap, error)
	Close() error
}

type NullDeletedReader struct {
}

func newNullDeletedReader() *NullDeletedReader {
	return &NullDeletedReader{}
}

func (reader *NullDeletedReader) GetDeletedDocIdsForSegment(segmentId uint32) (*roaring.Bitmap, error) {
	return roaring.NewBitmap(), nil
}

func (reader *NullDeletedReader) Close() error {
	return nil
}

type FileDeletedReader struct {
	kvStoreReader *KVStoreReader
}

func newFileDeletedReader(directory, deletedId string) (*FileDeletedReader, error) {
	kvStoreReader, err := newKVStoreReader(deletedBasename(directory, deletedId))
	if err != nil {
		return nil, err
	}

	return &FileDeletedReader{kvStoreReader: kvStoreReader}, nil
}

func (reader *FileDeletedReader) GetDeletedDocIdsForSegment(segmentId uint32) (*roaring.Bitmap, error) {
	deletedDocs := roaring.NewBitmap()

	value := reader.kvStoreReader.Get(uint32Key(segmentId))
	if value == nil {
		return deletedDocs, nil
	}

	// value aliases the mapped file, which is unmapped on Close
	if err := deletedDocs.UnmarshalBinary(slices.Clone(value)); err != nil {
		return nil, err
	}

	return deletedDocs, nil
}

func (reader *FileDeletedReader) Close() error {
	return reader.kvStoreReader.Close()
}

func openDeletedReader(directory string, commit *Commit) (DeletedReader, error) {
	if commit.DeletedId == nil {
		return newNullDeletedReader(), nil
	}

	return newFileDeletedReader(directory, formatId(*commit.DeletedId))
}
