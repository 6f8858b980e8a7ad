package domain

// Reserved system fields stamped by the store.
const (
	FieldID        = "_id"
	FieldOwnerID   = "_ownerId"
	FieldCreatedOn = "_createdOn"
	FieldUpdatedOn = "_updatedOn"

	// FieldHashedPassword never leaves the protected namespace.
	FieldHashedPassword = "hashedPassword"
)

// SystemFields lists the fields a caller payload can never set directly.
var SystemFields = []string{FieldID, FieldCreatedOn, FieldUpdatedOn, FieldOwnerID}

// IsSystemField reports whether name is one of the reserved system fields.
func IsSystemField(name string) bool {
	for _, f := range SystemFields {
		if f == name {
			return true
		}
	}
	return false
}

// Document is a single stored record: JSON-decoded values keyed by field name.
type Document map[string]any

// ID returns the record identifier, or "" when absent.
func (d Document) ID() string {
	id, _ := d[FieldID].(string)
	return id
}

// OwnerID returns the identifier of the actor that created the record.
func (d Document) OwnerID() string {
	id, _ := d[FieldOwnerID].(string)
	return id
}

// Deletion is the marker returned by a successful delete.
type Deletion struct {
	DeletedOn int64 `json:"_deletedOn"`
}

// Clone returns a structural deep copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return cloneMap(d)
}

// CloneValue deep-copies any JSON-shaped value. Maps and slices are rebuilt;
// scalars are returned as-is.
func CloneValue(v any) any {
	switch t := v.(type) {
	case Document:
		return Document(cloneMap(t))
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = CloneValue(item)
		}
		return out
	case []Document:
		out := make([]Document, len(t))
		for i, item := range t {
			out[i] = item.Clone()
		}
		return out
	default:
		return v
	}
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = CloneValue(v)
	}
	return out
}

// Without returns a copy of d with the given fields removed.
func (d Document) Without(fields ...string) Document {
	out := d.Clone()
	for _, f := range fields {
		delete(out, f)
	}
	return out
}
