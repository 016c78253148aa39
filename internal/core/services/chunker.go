package services

import (
	"strings"

	"github.com/custodia-labs/verdict/internal/core/domain"
)

// ChunkStats counts what ChunkCorpus saw and kept.
type ChunkStats struct {
	Acts         int
	Sections     int
	Footnotes    int
	DroppedEmpty int
}

type groupKey struct {
	title string
	kind  domain.ChunkType
}

// ChunkCorpus flattens acts into chunks in source order, sections before
// footnotes within each act. Content is trimmed and empty entries are
// dropped without consuming an ordinal. Ordinals are counted per
// (act title, chunk type) across the whole corpus, so a repeated title
// continues its numbering and every chunk_id stays unique.
func ChunkCorpus(acts []domain.Act) ([]domain.Chunk, ChunkStats) {
	var (
		chunks   []domain.Chunk
		stats    ChunkStats
		counters = make(map[groupKey]int)
	)

	emit := func(title string, kind domain.ChunkType, raw string) {
		content := strings.TrimSpace(raw)
		if content == "" {
			stats.DroppedEmpty++
			return
		}
		key := groupKey{title: title, kind: kind}
		counters[key]++
		chunks = append(chunks, domain.Chunk{
			ID:       domain.ChunkID(title, kind, counters[key]),
			ActTitle: title,
			Type:     kind,
			Content:  content,
		})
	}

	for _, act := range acts {
		stats.Acts++
		for _, s := range act.Sections {
			stats.Sections++
			emit(act.Title, domain.ChunkTypeSection, s.Text())
		}
		for _, f := range act.Footnotes {
			stats.Footnotes++
			emit(act.Title, domain.ChunkTypeFootnote, f.Body())
		}
	}

	return chunks, stats
}
