package dictionary

import (
	"strings"
	"testing"
)

func sampleCorpus(n int) string {
	var b strings.Builder
	base := []string{
		"CAT a small domesticated carnivorous mammal with soft fur.",
		"DOG a domesticated carnivorous mammal that typically has a long snout.",
		"HOUSE a building for human habitation, especially one that consists of a ground floor and one or more upper storeys.",
		"RIVER a large natural stream of water flowing in a channel to the sea.",
		"TABLE a piece of furniture with a flat top and one or more legs.",
	}
	for i := 0; i < n; i++ {
		b.WriteString(base[i%len(base)])
		b.WriteString(strings.Repeat("X", i%3))
		b.WriteString("\n")
		// Repeated headwords are dropped, so distinct padding entries
		// carry the corpus past MinAcceptableEntries.
		b.WriteString(padWord(i) + " a sufficiently long definition sentence for padding purposes.\n")
	}
	return b.String()
}

func TestInitialize_Success(t *testing.T) {
	d := New()
	stats, err := d.Initialize(strings.NewReader(sampleCorpus(1200)))
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if stats.WordCount == 0 {
		t.Fatalf("expected word count > 0, got %d", stats.WordCount)
	}
	if stats.MaxLength < 3 {
		t.Errorf("expected max length >= 3, got %d", stats.MaxLength)
	}
}

func TestInitialize_Idempotent(t *testing.T) {
	d := New()
	first, err := d.Initialize(strings.NewReader(sampleCorpus(1200)))
	if err != nil {
		t.Fatalf("first Initialize failed: %v", err)
	}
	second, err := d.Initialize(strings.NewReader("ignored\n"))
	if err != nil {
		t.Fatalf("second Initialize failed: %v", err)
	}
	if first != second {
		t.Errorf("expected cached stats on second call, got %+v vs %+v", first, second)
	}
}

func TestInitialize_TooFewEntries(t *testing.T) {
	d := New()
	_, err := d.Initialize(strings.NewReader("CAT a small domesticated mammal.\n"))
	if err == nil {
		t.Fatal("expected error for too few entries")
	}
}

func TestBucket_SortedNoDuplicates(t *testing.T) {
	corpus := "CAT a small domesticated carnivorous mammal.\n" +
		"CAT a different definition that should be ignored entirely.\n" +
		"COW a domesticated ungulate used as a source of milk.\n"
	d := New()
	d.seen = map[string]bool{}
	for i := 0; i < MinAcceptableEntries; i++ {
		// pad to satisfy the minimum-entries floor with distinct words
		corpus += padWord(i) + " a sufficiently long definition sentence for padding purposes.\n"
	}
	if _, err := d.Initialize(strings.NewReader(corpus)); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	bucket := d.Bucket(3)
	seen := map[string]int{}
	for _, w := range bucket {
		seen[w.Text]++
	}
	if seen["CAT"] != 1 {
		t.Errorf("expected CAT exactly once, got %d", seen["CAT"])
	}
	for i := 1; i < len(bucket); i++ {
		if bucket[i-1].Text > bucket[i].Text {
			t.Errorf("bucket not sorted at index %d: %s > %s", i, bucket[i-1].Text, bucket[i].Text)
		}
	}
}

func padWord(i int) string {
	letters := "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	return string([]byte{letters[i%26], letters[(i/26)%26], letters[(i/676)%26]})
}

func TestCleanClue(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"pos tag stripped", "(n.) a small domesticated mammal.", "a small domesticated mammal"},
		{"first sentence only", "a small mammal. Also used as a verb.", "a small mammal"},
		{"collapses whitespace", "a   small    mammal.", "a small mammal"},
		{"semicolon terminator", "a small mammal; see also cat.", "a small mammal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cleanClue(tt.in)
			if got != tt.want {
				t.Errorf("cleanClue(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAcceptableClue_RejectsSelfReference(t *testing.T) {
	if acceptableClue("a cat-like animal that purrs", "CAT") {
		t.Error("expected self-referencing clue to be rejected")
	}
}

func TestAcceptableClue_RejectsShort(t *testing.T) {
	if acceptableClue("a pet", "DOG") {
		t.Error("expected too-short clue to be rejected")
	}
}

func TestAcceptableClue_RejectsAbbreviationGloss(t *testing.T) {
	if acceptableClue("Abbr. for United States of America", "USA") {
		t.Error("expected abbreviation gloss to be rejected")
	}
}

func TestParseEntry_RejectsNonAlphaHeadword(t *testing.T) {
	if _, _, ok := parseEntry("C4T a small domesticated mammal."); ok {
		t.Error("expected non-alpha headword to be rejected")
	}
}

func TestParseEntry_RejectsOutOfRangeLength(t *testing.T) {
	if _, _, ok := parseEntry("AB a two letter word definition that is long enough."); ok {
		t.Error("expected word shorter than MinWordLength to be rejected")
	}
}
