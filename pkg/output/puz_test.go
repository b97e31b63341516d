package output

import (
	"bytes"
	"testing"

	pkgpuzzle "github.com/crossplay/satxword/pkg/puzzle"
)

func TestFormatPuz_BasicPuzzle(t *testing.T) {
	data, err := FormatPuz(sampleFullPuzzle())
	if err != nil {
		t.Fatalf("FormatPuz failed: %v", err)
	}

	if !bytes.Contains(data, []byte("ACROSS&DOWN\x00")) {
		t.Fatal("expected .puz file magic at the start of the file")
	}
	if !bytes.Contains(data, []byte(defaultTitle)) {
		t.Errorf("expected default title %q in strings section", defaultTitle)
	}
	if !bytes.Contains(data, []byte("Expert")) {
		t.Error("expected across clue text in strings section")
	}
	if !bytes.Contains(data, []byte("Consumed")) {
		t.Error("expected down clue text in strings section")
	}
}

func TestBuildSolutionString_MarksBlocksWithDot(t *testing.T) {
	grid := [][]pkgpuzzle.Cell{
		{{Letter: "H"}, {}},
		{{}, {Letter: "I"}},
	}
	p := pkgpuzzle.NewPuzzle(2, grid, nil, nil, pkgpuzzle.Metadata{})
	got := buildSolutionString(p)
	if got != "H..I" {
		t.Errorf("expected solution string %q, got %q", "H..I", got)
	}
}

func TestBuildClueStrings_OrdersByNumberAcrossBeforeDown(t *testing.T) {
	across := []pkgpuzzle.Clue{{Number: 2, Text: "second"}}
	down := []pkgpuzzle.Clue{{Number: 1, Text: "first"}}
	p := pkgpuzzle.NewPuzzle(1, [][]pkgpuzzle.Cell{{{Letter: "A"}}}, across, down, pkgpuzzle.Metadata{})

	clues := buildClueStrings(p)
	if len(clues) != 2 || clues[0] != "first" || clues[1] != "second" {
		t.Errorf("expected clues ordered by number, got %v", clues)
	}
}

func TestComputeCIB_Deterministic(t *testing.T) {
	a := computeCIB(5, 5, 10, 1, 0)
	b := computeCIB(5, 5, 10, 1, 0)
	if a != b {
		t.Errorf("expected deterministic checksum, got %d vs %d", a, b)
	}
}
