// Package models holds the persistence-facing records the hosting layer
// stores alongside a generated puzzle.Puzzle; pkg/puzzle.Puzzle itself is
// the single source of truth for puzzle shape.
package models

import "time"

// StoredPuzzle is a generated puzzle as persisted by internal/db: the
// generation id minted by the orchestrator, the grid size, and the
// engine's JSON output record.
type StoredPuzzle struct {
	ID           string    `json:"id"`
	GenerationID string    `json:"generationId"`
	Size         int       `json:"size"`
	PuzzleJSON   []byte    `json:"-"`
	WordCount    int       `json:"wordCount"`
	Density      float64   `json:"density"`
	CreatedAt    time.Time `json:"createdAt"`
}

// DictionaryStatsRecord is the persisted snapshot of the last dictionary
// initialization, served by GET /engine/stats without re-scanning the
// corpus.
type DictionaryStatsRecord struct {
	WordCount  int       `json:"wordCount"`
	MaxLength  int       `json:"maxLength"`
	MeanLength float64   `json:"meanLength"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
