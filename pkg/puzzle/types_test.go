package puzzle

import (
	"testing"
	"time"
)

func TestNewPuzzle(t *testing.T) {
	grid := [][]Cell{
		{{Letter: "C"}, {Letter: "A"}, {Letter: "T"}},
		{{Letter: ""}, {Letter: ""}, {Letter: "O"}},
		{{Letter: ""}, {Letter: ""}, {Letter: "P"}},
	}
	across := []Clue{{Number: 1, Text: "Feline", Answer: "CAT", Length: 3, X: 0, Y: 0}}
	down := []Clue{{Number: 1, Text: "Rooftop", Answer: "TOP", Length: 3, X: 2, Y: 0}}
	metadata := Metadata{
		WordCount:   2,
		LetterCount: 6,
		Density:     0.67,
		ElapsedMs:   42.0,
		CreatedAt:   time.Now(),
	}

	p := NewPuzzle(3, grid, across, down, metadata)

	if p.Size != 3 {
		t.Errorf("Size = %d, want 3", p.Size)
	}
	if len(p.Across) != 1 || p.Across[0].Answer != "CAT" {
		t.Errorf("Across = %+v, want one CAT clue", p.Across)
	}
	if len(p.Down) != 1 || p.Down[0].Answer != "TOP" {
		t.Errorf("Down = %+v, want one TOP clue", p.Down)
	}
	if p.Metadata.WordCount != 2 {
		t.Errorf("Metadata.WordCount = %d, want 2", p.Metadata.WordCount)
	}
}

func TestMetadataFields(t *testing.T) {
	now := time.Now()
	metadata := Metadata{
		WordCount:   12,
		LetterCount: 58,
		Density:     0.45,
		ElapsedMs:   123.4,
		CreatedAt:   now,
	}

	if metadata.WordCount != 12 {
		t.Error("WordCount not set correctly")
	}
	if metadata.LetterCount != 58 {
		t.Error("LetterCount not set correctly")
	}
	if metadata.Density != 0.45 {
		t.Error("Density not set correctly")
	}
	if !metadata.CreatedAt.Equal(now) {
		t.Error("CreatedAt not set correctly")
	}
}

func TestPuzzleGridDimensions(t *testing.T) {
	size := 5
	grid := make([][]Cell, size)
	for y := range grid {
		grid[y] = make([]Cell, size)
	}

	p := NewPuzzle(size, grid, nil, nil, Metadata{})

	if len(p.Grid) != size {
		t.Fatalf("expected %d rows, got %d", size, len(p.Grid))
	}
	for _, row := range p.Grid {
		if len(row) != size {
			t.Fatalf("expected %d columns, got %d", size, len(row))
		}
	}
}

func TestClueFields(t *testing.T) {
	c := Clue{Number: 3, Text: "Capital of France", Answer: "PARIS", Length: 5, X: 2, Y: 4}

	if c.Number != 3 {
		t.Error("Number not set correctly")
	}
	if c.Answer != "PARIS" {
		t.Error("Answer not set correctly")
	}
	if c.Length != len(c.Answer) {
		t.Errorf("Length %d does not match Answer length %d", c.Length, len(c.Answer))
	}
}
