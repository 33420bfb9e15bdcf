package service

import (
	"time"

	"github.com/fradegh/ai-sales-sub002/internal/model"
)

const (
	// LowSimilarityThreshold is the retrieval similarity under which the
	// LOW_SIMILARITY penalty applies (for non-empty source lists).
	LowSimilarityThreshold = 0.5

	// quoteMaxRunes bounds the audit quote copied from a chunk.
	quoteMaxRunes = 280

	defaultProductTitle = "Товар"
	defaultDocTitle     = "Документ"
)

// SourceDetector turns a raw retrieval result into the normalized source
// list plus the conflict/staleness signals. Pure: it never mutates the
// input and its only time dependency is the now argument.
type SourceDetector struct {
	StaleThreshold time.Duration
}

func NewSourceDetector(staleThreshold time.Duration) *SourceDetector {
	return &SourceDetector{StaleThreshold: staleThreshold}
}

// Detect maps product chunks first, then doc chunks, preserving relative
// order within each group regardless of similarity.
func (d *SourceDetector) Detect(res model.RetrievalResult, now time.Time) model.SourceReport {
	report := model.SourceReport{
		Sources: make([]model.UsedSource, 0, len(res.ProductChunks)+len(res.DocChunks)),
	}

	for _, chunk := range res.ProductChunks {
		report.Sources = append(report.Sources, model.UsedSource{
			Type:       model.SourceTypeProduct,
			ID:         chunk.SourceID,
			Title:      productTitle(chunk.Metadata),
			Quote:      truncateQuote(chunk.ChunkText),
			Similarity: chunk.Similarity,
		})
	}
	for _, chunk := range res.DocChunks {
		report.Sources = append(report.Sources, model.UsedSource{
			Type:       model.SourceTypeDoc,
			ID:         chunk.SourceID,
			Title:      docTitle(chunk.Metadata),
			Quote:      truncateQuote(chunk.ChunkText),
			Similarity: chunk.Similarity,
		})
	}

	allChunks := make([]model.RetrievedChunk, 0, len(res.ProductChunks)+len(res.DocChunks))
	allChunks = append(allChunks, res.ProductChunks...)
	allChunks = append(allChunks, res.DocChunks...)

	report.Conflicts = detectPriceConflict(allChunks)
	report.HasStaleData = d.detectStaleData(allChunks, now)

	for _, src := range report.Sources {
		if src.Similarity > report.MaxSimilarity {
			report.MaxSimilarity = src.Similarity
		}
	}

	return report
}

// detectPriceConflict reports whether price-typed chunks disagree. One
// price chunk, or several with identical prices, is never a conflict.
func detectPriceConflict(chunks []model.RetrievedChunk) bool {
	seen := make(map[float64]struct{})
	for _, chunk := range chunks {
		if chunk.Metadata.ChunkType != "price" || chunk.Metadata.Price == nil {
			continue
		}
		seen[*chunk.Metadata.Price] = struct{}{}
		if len(seen) > 1 {
			return true
		}
	}
	return false
}

// detectStaleData is a single evaluation-wide boolean: true if any chunk
// exposes a price version older than the threshold.
func (d *SourceDetector) detectStaleData(chunks []model.RetrievedChunk, now time.Time) bool {
	for _, chunk := range chunks {
		pv := chunk.Metadata.PriceVersion
		if pv == nil {
			continue
		}
		if now.Sub(*pv) > d.StaleThreshold {
			return true
		}
	}
	return false
}

func productTitle(m model.ChunkMetadata) string {
	if m.ProductName != "" {
		return m.ProductName
	}
	if m.SKU != "" {
		return m.SKU
	}
	return defaultProductTitle
}

func docTitle(m model.ChunkMetadata) string {
	if m.DocTitle != "" {
		return m.DocTitle
	}
	if m.Category != "" {
		return m.Category
	}
	return defaultDocTitle
}

func truncateQuote(text string) string {
	runes := []rune(text)
	if len(runes) <= quoteMaxRunes {
		return text
	}
	return string(runes[:quoteMaxRunes]) + "…"
}
