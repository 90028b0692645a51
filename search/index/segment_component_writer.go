package index

// Caller calls in order:
// - Doc()
// - Field()
// - Term()
// - Term()
// - ...
// - EndField()
// - Field()
// - ...
// - Doc()
// - ...
// - Write()
type SegmentComponentWriter interface {
	Doc(docId DocumentId, externalId string)
	Field(fieldName string)
	Term(term []byte, position int)
	EndField()
	Write(directory, segmentId string) error
}
