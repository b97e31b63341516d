// Package orchestrator exposes the engine's three-call API (spec §4.6): a
// host calls estimate, then encode, then solve, with the Orchestrator
// retaining the encoded Problem across the two solver-visible calls.
// Pipeline shape grounded on pkg/puzzle/generator.go's Generator struct and
// staged GeneratePuzzle method, swapping that pipeline's grid/fill/clues
// stages for dictionary -> sampler -> encoder -> solver -> decoder.
package orchestrator

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/crossplay/satxword/pkg/decoder"
	"github.com/crossplay/satxword/pkg/dictionary"
	"github.com/crossplay/satxword/pkg/encoder"
	"github.com/crossplay/satxword/pkg/puzzle"
	"github.com/crossplay/satxword/pkg/sampler"
	"github.com/crossplay/satxword/pkg/solver"
)

// Kind is the machine-readable error taxonomy spec §6/§7 requires at the
// orchestrator boundary.
type Kind string

const (
	KindNotInitialized    Kind = "NotInitialized"
	KindNoProblemEncoded  Kind = "NoProblemEncoded"
	KindUnsatisfiable     Kind = "Unsatisfiable"
	KindInconsistentModel Kind = "InconsistentModel"
	KindPoolTooSmall      Kind = "PoolTooSmall"
	KindInternalError     Kind = "InternalError"
)

// Error is the typed error every orchestrator operation returns on failure,
// carrying the kind a host needs to decide whether to re-seed, resize, or
// surface the failure to a user.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// DictionaryStats is the result of initialize(), supplementing spec §4.1's
// bare word_count with MaxLength/MeanLength for host display.
type DictionaryStats struct {
	WordCount  int
	MaxLength  int
	MeanLength float64
}

// SizeEstimate is the closed-form result of estimate_problem_size.
type SizeEstimate struct {
	EncodingMs float64
	SolvingMs  float64
}

// EncodeStats is the result of encode_problem.
type EncodeStats struct {
	Variables        int
	Clauses          int
	EncodingMs       float64
	EstimatedSolveMs float64
}

// Config carries the host-tunable knobs from spec §6, all optional.
type Config struct {
	Seed             int64
	DensityFloor     float64
	MinWordCount     int
	PoolSizeOverride int
	SolverTimeoutMs  int
}

// estimateCoefficients are the closed-form calibration constants for
// estimate_problem_size: encoding_ms ~= a*size^3, solving_ms ~= b*size^4.
// Uncalibrated placeholders (spec §9 Open Question), exported so a host
// that has measured its own deployment can override them.
var (
	EncodingMsCoefficient = 0.02
	SolvingMsCoefficient  = 0.01
)

// Orchestrator holds its own Dictionary and, between
// encode_problem and solve_problem, the single in-flight Problem.
type Orchestrator struct {
	mu sync.Mutex

	dict        *dictionary.Dictionary
	initialized bool
	dictStats   DictionaryStats

	problem *encoder.Problem
	genID   string
}

// New returns an Orchestrator with an uninitialized Dictionary.
func New() *Orchestrator {
	return &Orchestrator{dict: dictionary.New()}
}

// Initialize loads the corpus. One-shot; subsequent calls are no-ops
// returning the cached stats.
func (o *Orchestrator) Initialize(corpus []byte) (DictionaryStats, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.initialized {
		return o.dictStats, nil
	}

	stats, err := o.dict.Initialize(bytes.NewReader(corpus))
	if err != nil {
		return DictionaryStats{}, newError(KindInternalError, "dictionary initialization failed: %v", err)
	}

	o.dictStats = DictionaryStats{
		WordCount:  stats.WordCount,
		MaxLength:  stats.MaxLength,
		MeanLength: stats.MeanLength,
	}
	o.initialized = true
	return o.dictStats, nil
}

// EstimateProblemSize returns closed-form estimates from size alone; it
// performs no SAT work.
func (o *Orchestrator) EstimateProblemSize(size int) SizeEstimate {
	s := float64(size)
	return SizeEstimate{
		EncodingMs: EncodingMsCoefficient * s * s * s,
		SolvingMs:  SolvingMsCoefficient * s * s * s * s,
	}
}

// EncodeProblem builds and stores a Problem, superseding any prior one.
func (o *Orchestrator) EncodeProblem(size int, cfg Config) (EncodeStats, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.initialized {
		return EncodeStats{}, newError(KindNotInitialized, "dictionary has not been initialized")
	}

	pool, err := sampler.Sample(o.dict, sampler.Config{
		Size:             size,
		Seed:             cfg.Seed,
		PoolSizeOverride: cfg.PoolSizeOverride,
	})
	if err != nil {
		return EncodeStats{}, newError(KindPoolTooSmall, "%v", err)
	}

	pr := encoder.Encode(pool, encoder.Config{
		Size:         size,
		DensityFloor: cfg.DensityFloor,
		MinWordCount: cfg.MinWordCount,
	})

	o.problem = pr
	o.genID = uuid.New().String()

	return EncodeStats{
		Variables:        pr.Stats.Variables,
		Clauses:          pr.Stats.Clauses,
		EncodingMs:       pr.Stats.EncodingMs,
		EstimatedSolveMs: pr.Stats.EstimatedSolveMs,
	}, nil
}

// SolveProblem solves the stored Problem and decodes it.
func (o *Orchestrator) SolveProblem(cfg Config) (*puzzle.Puzzle, error) {
	o.mu.Lock()
	pr := o.problem
	o.mu.Unlock()

	if pr == nil {
		return nil, newError(KindNoProblemEncoded, "encode_problem has not been called")
	}

	var timeout time.Duration
	if cfg.SolverTimeoutMs > 0 {
		timeout = time.Duration(cfg.SolverTimeoutMs) * time.Millisecond
	}

	res, err := solver.SolveWithTimeout(pr.Formula, timeout)
	if err != nil {
		switch err {
		case solver.ErrUnsat:
			return nil, newError(KindUnsatisfiable, "no satisfying assignment for the encoded problem")
		case solver.ErrTimeout:
			return nil, newError(KindUnsatisfiable, "solver timed out after %dms", cfg.SolverTimeoutMs)
		default:
			return nil, newError(KindInternalError, "%v", err)
		}
	}

	p, err := decoder.Decode(pr, res)
	if err != nil {
		return nil, newError(KindInconsistentModel, "%v", err)
	}
	return p, nil
}

// GenerateCrossword is the single-shot convenience wrapper equivalent to
// encode_problem followed immediately by solve_problem.
func (o *Orchestrator) GenerateCrossword(size int, cfg Config) (*puzzle.Puzzle, error) {
	if _, err := o.EncodeProblem(size, cfg); err != nil {
		return nil, err
	}
	return o.SolveProblem(cfg)
}

// GenerationID returns the id minted for the most recently encoded
// Problem, or "" if none has been encoded.
func (o *Orchestrator) GenerationID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.genID
}
