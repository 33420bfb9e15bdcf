package model

import "time"

// SourceType identifies where a retrieved chunk came from
type SourceType string

const (
	SourceTypeProduct SourceType = "product"
	SourceTypeDoc     SourceType = "doc"
)

// ChunkMetadata carries optional source attributes extracted during
// indexing. Absent fields stay nil/empty and callers fall back to defaults.
type ChunkMetadata struct {
	ChunkType    string     `json:"chunkType,omitempty" bson:"chunkType,omitempty"` // e.g. "price", "description"
	Price        *float64   `json:"price,omitempty" bson:"price,omitempty"`
	PriceVersion *time.Time `json:"priceVersion,omitempty" bson:"priceVersion,omitempty"`
	ProductName  string     `json:"productName,omitempty" bson:"productName,omitempty"`
	SKU          string     `json:"sku,omitempty" bson:"sku,omitempty"`
	DocTitle     string     `json:"docTitle,omitempty" bson:"docTitle,omitempty"`
	Category     string     `json:"category,omitempty" bson:"category,omitempty"`
}

// RetrievedChunk is one unit of text returned by the RAG collaborator.
// Immutable within a single evaluation.
type RetrievedChunk struct {
	SourceType SourceType    `json:"sourceType"`
	SourceID   string        `json:"sourceId"`
	ChunkText  string        `json:"chunkText"`
	Similarity float64       `json:"similarity"` // 0-1
	Metadata   ChunkMetadata `json:"metadata"`
}

// RetrievalResult is the full output of the retrieval collaborator
type RetrievalResult struct {
	ProductChunks        []RetrievedChunk `json:"productChunks"`
	DocChunks            []RetrievedChunk `json:"docChunks"`
	TopProductSimilarity float64          `json:"topProductSimilarity"`
	TopDocSimilarity     float64          `json:"topDocSimilarity"`
}

// UsedSource is the audit record of a chunk that informed a suggestion
type UsedSource struct {
	Type       SourceType `json:"type" bson:"type"`
	ID         string     `json:"id" bson:"id"`
	Title      string     `json:"title" bson:"title"`
	Quote      string     `json:"quote" bson:"quote"`
	Similarity float64    `json:"similarity" bson:"similarity"`
}

// SourceReport is the detector output consumed by the policy evaluator
type SourceReport struct {
	Sources       []UsedSource `json:"sources"`
	Conflicts     bool         `json:"conflicts"`
	HasStaleData  bool         `json:"hasStaleData"`
	MaxSimilarity float64      `json:"maxSimilarity"`
}
