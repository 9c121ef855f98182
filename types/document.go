package types

// IndexedDocument is one entry of a vector index: embedding, the source
// text it was computed from, and scalar metadata. Documents are never
// mutated in place; they are inserted once and either matched or bulk
// deleted.
type IndexedDocument struct {
	ID        string           `json:"id"`
	Embedding []float32        `json:"embedding"`
	Content   string           `json:"content"`
	Metadata  DocumentMetadata `json:"metadata"`
}

// DocumentMetadata carries the scalar fields attached to an indexed
// document. All fields are flat scalars; a zero value means the field is
// not set for this document. User-data documents fill the first block,
// knowledge documents the second.
type DocumentMetadata struct {
	UserID      string     `json:"user_id,omitempty"`
	Kind        RecordKind `json:"kind,omitempty"`
	Timestamp   string     `json:"timestamp,omitempty"`
	Amount      float64    `json:"amount,omitempty"`
	Category    string     `json:"category,omitempty"`
	Description string     `json:"description,omitempty"`

	Title  string `json:"title,omitempty"`
	Source string `json:"source,omitempty"`
}

// MetadataFilter is an equality predicate over document metadata. Zero
// fields are unconstrained. Every query against the per-user data index
// must carry a UserID constraint.
type MetadataFilter struct {
	UserID   string
	Kind     RecordKind
	Category string
}

// IsZero reports whether the filter constrains nothing.
func (f MetadataFilter) IsZero() bool {
	return f.UserID == "" && f.Kind == "" && f.Category == ""
}

// Matches reports whether the metadata satisfies every set constraint.
func (f MetadataFilter) Matches(m DocumentMetadata) bool {
	if f.UserID != "" && m.UserID != f.UserID {
		return false
	}
	if f.Kind != "" && m.Kind != f.Kind {
		return false
	}
	if f.Category != "" && m.Category != f.Category {
		return false
	}
	return true
}

// QueryResult is a single nearest-neighbor match. Lower distance means
// more similar. Results are ephemeral, produced per query.
type QueryResult struct {
	Content  string           `json:"content"`
	Metadata DocumentMetadata `json:"metadata"`
	Distance float32          `json:"distance"`
}

// KnowledgeItem is one curated entry of the shared knowledge base.
type KnowledgeItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Source   string `json:"source"`
	Category string `json:"category"`
}
