package index

import (
	"errors"
	"io/fs"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
)

// SegmentReader opens per field files lazily. A field that no document of
// the segment carries has no files; its readers are cached as nil.
type SegmentReader struct {
	DeletedDocIds *roaring.Bitmap
	DocCount      uint32
	Id            uint32
	IdString      string
	Ordinal       uint32

	directory string

	mutex              sync.RWMutex
	dictionaryReaders  map[string]*DictionaryReader
	postingsReaders    map[string]*FieldPostingsReader
	fieldLengthReaders map[string]*FieldLengthReader
	fieldStats         map[string]*FieldStats
	storeReader        *StoreReader
}

func newSegmentReader(directory string, ordinal uint32, segment SegmentInfo, deletedDocIds *roaring.Bitmap) *SegmentReader {
	return &SegmentReader{
		DeletedDocIds:      deletedDocIds,
		DocCount:           segment.DocCount,
		Id:                 segment.Id,
		IdString:           formatId(segment.Id),
		Ordinal:            ordinal,
		directory:          directory,
		dictionaryReaders:  make(map[string]*DictionaryReader),
		postingsReaders:    make(map[string]*FieldPostingsReader),
		fieldLengthReaders: make(map[string]*FieldLengthReader),
		fieldStats:         make(map[string]*FieldStats),
	}
}

func (reader *SegmentReader) LiveDocCount() uint64 {
	return uint64(reader.DocCount) - reader.DeletedDocIds.GetCardinality()
}

func (reader *SegmentReader) IsDeleted(docId DocumentId) bool {
	return reader.DeletedDocIds.Contains(uint32(docId))
}

func (reader *SegmentReader) GlobalDocId(docId DocumentId) uint64 {
	return ToGlobalDocId(reader.Ordinal, uint32(docId))
}

// cachedFieldReader returns the cached value for fieldName or opens it.
// A missing file is cached as the zero value.
func cachedFieldReader[T any](mutex *sync.RWMutex, cache map[string]T, fieldName string, open func() (T, error)) (T, error) {
	mutex.RLock()
	value, exists := cache[fieldName]
	mutex.RUnlock()
	if exists {
		return value, nil
	}

	mutex.Lock()
	defer mutex.Unlock()

	if value, exists := cache[fieldName]; exists {
		return value, nil
	}

	value, err := open()
	if err != nil {
		var zero T
		if !errors.Is(err, fs.ErrNotExist) {
			return zero, err
		}
		value = zero
	}

	cache[fieldName] = value
	return value, nil
}

func (reader *SegmentReader) DictionaryReader(fieldName string) (*DictionaryReader, error) {
	return cachedFieldReader(&reader.mutex, reader.dictionaryReaders, fieldName, func() (*DictionaryReader, error) {
		return newDictionaryReader(reader.directory, reader.IdString, fieldName)
	})
}

func (reader *SegmentReader) PostingsReader(fieldName string) (*FieldPostingsReader, error) {
	return cachedFieldReader(&reader.mutex, reader.postingsReaders, fieldName, func() (*FieldPostingsReader, error) {
		return newFieldPostingsReader(reader.directory, reader.IdString, fieldName)
	})
}

func (reader *SegmentReader) FieldLengthReader(fieldName string) (*FieldLengthReader, error) {
	return cachedFieldReader(&reader.mutex, reader.fieldLengthReaders, fieldName, func() (*FieldLengthReader, error) {
		return newFieldLengthReader(reader.directory, reader.IdString, fieldName)
	})
}

// FieldStats returns the stats of the live documents of the segment, zero
// for a field absent from the segment.
func (reader *SegmentReader) FieldStats(fieldName string) (FieldStats, error) {
	stats, err := cachedFieldReader(&reader.mutex, reader.fieldStats, fieldName, func() (*FieldStats, error) {
		stats, err := readFieldStats(reader.directory, reader.IdString, fieldName)
		if err != nil {
			return nil, err
		}
		if err := reader.subtractDeleted(fieldName, &stats); err != nil {
			return nil, err
		}
		return &stats, nil
	})
	if err != nil || stats == nil {
		return FieldStats{}, err
	}

	return *stats, nil
}

// subtractDeleted removes the deleted documents from stats. It runs under
// the reader mutex, so it opens its own length reader instead of the cached
// one.
func (reader *SegmentReader) subtractDeleted(fieldName string, stats *FieldStats) error {
	if reader.DeletedDocIds.IsEmpty() {
		return nil
	}

	fieldLengthReader, err := newFieldLengthReader(reader.directory, reader.IdString, fieldName)
	if err != nil {
		return err
	}
	defer fieldLengthReader.Close()

	it := reader.DeletedDocIds.Iterator()
	for it.HasNext() {
		length, err := fieldLengthReader.Get(DocumentId(it.Next()))
		if err != nil {
			return err
		}
		if length == 0 {
			continue
		}
		stats.DocCount--
		stats.SumFieldLength -= uint64(length)
	}

	return nil
}

func (reader *SegmentReader) StoreReader() (*StoreReader, error) {
	reader.mutex.RLock()
	storeReader := reader.storeReader
	reader.mutex.RUnlock()
	if storeReader != nil {
		return storeReader, nil
	}

	reader.mutex.Lock()
	defer reader.mutex.Unlock()

	if reader.storeReader == nil {
		var err error
		reader.storeReader, err = newStoreReader(reader.directory, reader.IdString)
		if err != nil {
			return nil, err
		}
	}

	return reader.storeReader, nil
}

// DecodeTerm calls fn with every live posting of term in fieldName.
func (reader *SegmentReader) DecodeTerm(fieldName string, term []byte, fn func(docId DocumentId, positions []int) error) error {
	dictionaryReader, err := reader.DictionaryReader(fieldName)
	if err != nil || dictionaryReader == nil {
		return err
	}

	termInfo, err := dictionaryReader.Get(term)
	if err != nil || termInfo == nil {
		return err
	}

	postingsReader, err := reader.PostingsReader(fieldName)
	if err != nil {
		return err
	}
	if postingsReader == nil {
		return fs.ErrNotExist
	}

	return postingsReader.Decode(termInfo, func(docId DocumentId, positions []int) error {
		if reader.IsDeleted(docId) {
			return nil
		}
		return fn(docId, positions)
	})
}

func (reader *SegmentReader) Close() error {
	reader.mutex.Lock()
	defer reader.mutex.Unlock()

	var errs []error

	for _, dictionaryReader := range reader.dictionaryReaders {
		if dictionaryReader != nil {
			errs = append(errs, dictionaryReader.Close())
		}
	}
	for _, postingsReader := range reader.postingsReaders {
		if postingsReader != nil {
			errs = append(errs, postingsReader.Close())
		}
	}
	for _, fieldLengthReader := range reader.fieldLengthReaders {
		if fieldLengthReader != nil {
			errs = append(errs, fieldLengthReader.Close())
		}
	}
	if reader.storeReader != nil {
		errs = append(errs, reader.storeReader.Close())
	}

	clear(reader.dictionaryReaders)
	clear(reader.postingsReaders)
	clear(reader.fieldLengthReaders)
	clear(reader.fieldStats)
	reader.storeReader = nil

	return errors.Join(errs...)
}
