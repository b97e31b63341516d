// Package corpus embeds the default word/clue dictionary shipped with the
// binary. Deployments that need a larger vocabulary can point
// dictionary.Dictionary.Initialize at a different reader entirely; this
// package only supplies the bundled default.
package corpus

import _ "embed"

// Default is a "WORD clue sentence" per line corpus, ingested by
// pkg/dictionary. It ships a modest sample; operators wanting broader
// coverage for larger grids can swap in a fuller wordlist at deploy time.
//
//go:embed words.txt
var Default string
