package sampler

import (
	"strings"
	"testing"

	"github.com/crossplay/satxword/pkg/dictionary"
)

func buildDict(t *testing.T) *dictionary.Dictionary {
	t.Helper()
	var b strings.Builder
	words3 := []string{"CAT", "DOG", "SUN", "RUN", "BIG", "RED", "TOP", "BAD", "FAN", "JOY"}
	words4 := []string{"BIRD", "FISH", "TREE", "LAKE", "HILL", "GATE", "ROAD", "LAMP"}
	words5 := []string{"HOUSE", "RIVER", "TABLE", "CHAIR", "STONE"}
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
	for _, w := range words5 {
		b.WriteString(w + " a sufficiently long clue sentence describing this word.\n")
	}
	d := dictionary.New()
	if _, err := d.Initialize(strings.NewReader(b.String())); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return d
}

// padWord returns a distinct ten-letter headword for each i below 26^3.
func padWord(i int) string {
	letters := "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	return "PADWORD" + string([]byte{letters[i%26], letters[(i/26)%26], letters[(i/676)%26]})
}

func TestSample_Deterministic(t *testing.T) {
	d := buildDict(t)
	cfg := Config{Size: 8, Seed: 42}

	p1, err := Sample(d, cfg)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	p2, err := Sample(d, cfg)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if len(p1.Words) != len(p2.Words) {
		t.Fatalf("expected equal pool sizes, got %d vs %d", len(p1.Words), len(p2.Words))
	}
	for i := range p1.Words {
		if p1.Words[i].Text != p2.Words[i].Text {
			t.Fatalf("pool order differs at index %d: %s vs %s", i, p1.Words[i].Text, p2.Words[i].Text)
		}
	}
}

func TestSample_DifferentSeedsDifferentOrder(t *testing.T) {
	d := buildDict(t)
	p1, err := Sample(d, Config{Size: 8, Seed: 1})
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	p2, err := Sample(d, Config{Size: 8, Seed: 2})
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	same := len(p1.Words) == len(p2.Words)
	if same {
		for i := range p1.Words {
			if p1.Words[i].Text != p2.Words[i].Text {
				same = false
				break
			}
		}
	}
	if same {
		t.Error("expected different seeds to produce different pool orders")
	}
}

func TestSample_AllWordsWithinSize(t *testing.T) {
	d := buildDict(t)
	p, err := Sample(d, Config{Size: 8, Seed: 7})
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	for _, w := range p.Words {
		if len(w.Text) < 3 || len(w.Text) > 8 {
			t.Errorf("word %q out of [3,8] range", w.Text)
		}
	}
}

func TestSample_NoLengthThreeWords(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 1200; i++ {
		b.WriteString("TABLE a sufficiently long clue sentence describing this word.\n")
		b.WriteString(padWord(i) + " a sufficiently long clue sentence for padding purposes.\n")
	}
	d := dictionary.New()
	if _, err := d.Initialize(strings.NewReader(b.String())); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if _, err := Sample(d, Config{Size: 8, Seed: 1}); err != ErrPoolTooSmall {
		t.Errorf("expected ErrPoolTooSmall, got %v", err)
	}
}

func TestSample_SizeTooSmall(t *testing.T) {
	d := buildDict(t)
	if _, err := Sample(d, Config{Size: 2, Seed: 1}); err != ErrPoolTooSmall {
		t.Errorf("expected ErrPoolTooSmall for size < 3, got %v", err)
	}
}

func TestSample_PoolSizeOverride(t *testing.T) {
	d := buildDict(t)
	p, err := Sample(d, Config{Size: 8, Seed: 1, PoolSizeOverride: 15})
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if len(p.Words) == 0 || len(p.Words) > 20 {
		t.Errorf("expected a small override-sized pool, got %d words", len(p.Words))
	}
}
