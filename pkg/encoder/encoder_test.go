package encoder

import (
	"reflect"
	"strings"
	"testing"

	"github.com/crossplay/satxword/pkg/dictionary"
	"github.com/crossplay/satxword/pkg/sampler"
)

func buildPool(t *testing.T) sampler.Pool {
	t.Helper()
	var b strings.Builder
	words3 := []string{"CAT", "DOG", "SUN", "RUN", "BIG", "RED", "TOP", "BAD", "FAN", "JOY"}
	words4 := []string{"BIRD", "FISH", "TREE", "LAKE"}
	for i := 0; i < 1100; i++ {
		b.WriteString(words3[i%len(words3)])
		b.WriteString(" a sufficiently long clue sentence for padding purposes.\n")
		// Repeated headwords are dropped, so distinct padding entries, too
		// long for the grid, carry the corpus past MinAcceptableEntries.
		b.WriteString(padWord(i) + " a sufficiently long clue sentence for padding purposes.\n")
	}
	for _, w := range words4 {
		b.WriteString(w + " a sufficiently long clue sentence describing this word.\n")
	}
	d := dictionary.New()
	if _, err := d.Initialize(strings.NewReader(b.String())); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	pool, err := sampler.Sample(d, sampler.Config{Size: 5, Seed: 1, PoolSizeOverride: 12})
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	return pool
}

// padWord returns a distinct ten-letter headword for each i below 26^3.
func padWord(i int) string {
	letters := "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	return "PADWORD" + string([]byte{letters[i%26], letters[(i/26)%26], letters[(i/676)%26]})
}

func TestEnumeratePositions_WithinGrid(t *testing.T) {
	positions := enumeratePositions(5)
	for _, p := range positions {
		if p.Length < 3 || p.Length > 5 {
			t.Fatalf("position %+v has out-of-range length", p)
		}
		if p.Dir == Across && p.X+p.Length > 5 {
			t.Fatalf("across position %+v overruns grid", p)
		}
		if p.Dir == Down && p.Y+p.Length > 5 {
			t.Fatalf("down position %+v overruns grid", p)
		}
	}
}

func TestEncode_Deterministic(t *testing.T) {
	pool := buildPool(t)
	cfg := Config{Size: 5}

	p1 := Encode(pool, cfg)
	p2 := Encode(pool, cfg)

	if p1.Stats.Variables != p2.Stats.Variables {
		t.Fatalf("variable counts differ: %d vs %d", p1.Stats.Variables, p2.Stats.Variables)
	}
	if len(p1.Formula.Clauses) != len(p2.Formula.Clauses) {
		t.Fatalf("clause counts differ: %d vs %d", len(p1.Formula.Clauses), len(p2.Formula.Clauses))
	}
	if !reflect.DeepEqual(p1.Formula.Clauses, p2.Formula.Clauses) {
		t.Fatal("expected identical clause streams for identical inputs")
	}
}

func TestEncode_PlacementVarsOnlyForMatchingLength(t *testing.T) {
	pool := buildPool(t)
	pr := Encode(pool, Config{Size: 5})

	for posIdx, p := range pr.Positions {
		for wordIdx, w := range pool.Words {
			_, ok := pr.PlacementVar(wordIdx, posIdx)
			if len(w.Text) == p.Length && !ok {
				t.Errorf("expected placement var for word %q at position %+v", w.Text, p)
			}
			if len(w.Text) != p.Length && ok {
				t.Errorf("unexpected placement var for mismatched length word %q at position %+v", w.Text, p)
			}
		}
	}
}

func TestEncode_StatsPopulated(t *testing.T) {
	pool := buildPool(t)
	pr := Encode(pool, Config{Size: 5})

	if pr.Stats.Variables <= 0 {
		t.Fatal("expected positive variable count")
	}
	if pr.Stats.Clauses <= 0 {
		t.Fatal("expected positive clause count")
	}
	if pr.Stats.EstimatedSolveMs <= 0 {
		t.Fatal("expected positive estimated solve time")
	}
}

func TestDefaultMinWordCount_Floor(t *testing.T) {
	if got := DefaultMinWordCount(5); got < 6 {
		t.Errorf("expected floor of 6, got %d", got)
	}
}

func TestPosition_BeforeAfterBounds(t *testing.T) {
	p := Position{X: 0, Y: 0, Dir: Across, Length: 3}
	if _, _, ok := p.Before(); ok {
		t.Error("expected Before() to be out of bounds at grid edge")
	}
	if x, y, ok := p.After(5); !ok || x != 3 || y != 0 {
		t.Errorf("unexpected After(): x=%d y=%d ok=%v", x, y, ok)
	}
}
