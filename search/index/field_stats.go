package index

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
)

func fieldStatsFilename(directory, segmentId, fieldName string) string {
	return filepath.Join(directory, "segment."+segmentId+"."+fieldName+".stats")
}

// FieldStats are per segment. DocCount counts documents where the field
// has at least one term; SumFieldLength is the number of terms in the field
// across the segment.
type FieldStats struct {
	DocCount       uint32
	SumFieldLength uint64
}

const fieldStatsSize = 12

func writeFieldStats(directory, segmentId, fieldName string, stats FieldStats) error {
	file, err := createFile(fieldStatsFilename(directory, segmentId, fieldName))
	if err != nil {
		return err
	}

	buffer := make([]byte, fieldStatsSize)
	binary.BigEndian.PutUint32(buffer, stats.DocCount)
	binary.BigEndian.PutUint64(buffer[4:], stats.SumFieldLength)

	if _, err := file.Write(buffer); err != nil {
		_ = file.Close()
		return err
	}

	return file.Close()
}

func readFieldStats(directory, segmentId, fieldName string) (FieldStats, error) {
	file, err := os.Open(fieldStatsFilename(directory, segmentId, fieldName))
	if err != nil {
		return FieldStats{}, err
	}
	defer file.Close()

	buffer := make([]byte, fieldStatsSize)
	if _, err := io.ReadFull(file, buffer); err != nil {
		return FieldStats{}, err
	}

	return FieldStats{
		DocCount:       binary.BigEndian.Uint32(buffer),
		SumFieldLength: binary.BigEndian.Uint64(buffer[4:]),
	}, nil
}
