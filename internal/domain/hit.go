package domain

// RetrievalHit pairs a chunk with the similarity score a query variant
// retrieved it at. Hits are ephemeral: produced per query and discarded
// after the request. The chunk is a shared reference into the
// document's chunk sequence, not an owned copy.
type RetrievalHit struct {
	Chunk         Chunk
	Score         float32
	SourceVariant string
}
