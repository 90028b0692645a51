package index

type FieldType int

// DocumentId is local to a segment. Documents are addressed globally with
// the uint64 produced by ToGlobalDocId.
type DocumentId uint32

const (
	TextFieldType FieldType = iota
	ByteFieldType
)

// ExternalIdField holds the caller supplied document id. It is indexed as a
// single byte term so documents can be deleted by external id.
const ExternalIdField = "externalId"

type Field struct {
	FieldType FieldType
	Name      string
	Value     []byte
}

type Document struct {
	ExternalId string
	Fields     []Field
}
