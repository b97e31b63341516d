package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/crossplay/satxword/internal/db"
	"github.com/crossplay/satxword/internal/models"
	"github.com/crossplay/satxword/internal/realtime"
	"github.com/crossplay/satxword/pkg/orchestrator"
	"github.com/crossplay/satxword/pkg/output"
	"github.com/crossplay/satxword/pkg/puzzle"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handlers exposes the orchestrator's three-call surface (spec §4.6) plus
// the GenerateCrossword convenience wrapper, over HTTP. Persistence (db) and
// progress push (hub) are both optional: a deployment with no database or
// no WebSocket listeners still generates puzzles correctly.
type Handlers struct {
	db   *db.Database
	hub  *realtime.Hub
	orch *orchestrator.Orchestrator
}

func NewHandlers(database *db.Database, hub *realtime.Hub, orch *orchestrator.Orchestrator) *Handlers {
	return &Handlers{db: database, hub: hub, orch: orch}
}

// errorStatus maps an orchestrator.Error Kind to the HTTP status a host
// should surface (spec §6/§7's error taxonomy).
func errorStatus(kind orchestrator.Kind) int {
	switch kind {
	case orchestrator.KindNotInitialized:
		return http.StatusServiceUnavailable
	case orchestrator.KindNoProblemEncoded:
		return http.StatusBadRequest
	case orchestrator.KindUnsatisfiable:
		return http.StatusUnprocessableEntity
	case orchestrator.KindInconsistentModel:
		return http.StatusInternalServerError
	case orchestrator.KindPoolTooSmall:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) respondEngineError(c *gin.Context, err error) {
	if oerr, ok := err.(*orchestrator.Error); ok {
		c.JSON(errorStatus(oerr.Kind), gin.H{"error": oerr.Message, "kind": oerr.Kind})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// EstimateRequest is the body for POST /engine/estimate.
type EstimateRequest struct {
	Size int `json:"size" binding:"required,min=5,max=50"`
}

// EstimateProblemSize returns closed-form size/time estimates without
// running any SAT work (spec §4.6 estimate_problem_size).
func (h *Handlers) EstimateProblemSize(c *gin.Context) {
	var req EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	estimate := h.orch.EstimateProblemSize(req.Size)
	c.JSON(http.StatusOK, gin.H{
		"encodingMs": estimate.EncodingMs,
		"solvingMs":  estimate.SolvingMs,
	})
}

// EncodeRequest is the body for POST /engine/encode.
type EncodeRequest struct {
	Size             int     `json:"size" binding:"required,min=5,max=50"`
	Seed             int64   `json:"seed"`
	DensityFloor     float64 `json:"densityFloor"`
	MinWordCount     int     `json:"minWordCount"`
	PoolSizeOverride int     `json:"poolSizeOverride"`
}

// EncodeProblem builds and stores the CNF (spec §4.6 encode_problem),
// pushing the observed variable/clause counts to anyone watching the
// generation over WebSocket.
func (h *Handlers) EncodeProblem(c *gin.Context) {
	var req EncodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stats, err := h.orch.EncodeProblem(req.Size, orchestrator.Config{
		Seed:             req.Seed,
		DensityFloor:     req.DensityFloor,
		MinWordCount:     req.MinWordCount,
		PoolSizeOverride: req.PoolSizeOverride,
	})
	if err != nil {
		h.respondEngineError(c, err)
		return
	}

	genID := h.orch.GenerationID()
	if h.hub != nil {
		h.hub.BroadcastEncoded(genID, stats.Variables, stats.Clauses, stats.EncodingMs)
	}

	c.JSON(http.StatusOK, gin.H{
		"generationId":     genID,
		"variables":        stats.Variables,
		"clauses":          stats.Clauses,
		"encodingMs":       stats.EncodingMs,
		"estimatedSolveMs": stats.EstimatedSolveMs,
	})
}

// SolveRequest is the body for POST /engine/solve.
type SolveRequest struct {
	GenerationID    string `json:"generationId" binding:"required"`
	SolverTimeoutMs int    `json:"solverTimeoutMs"`
}

// SolveProblem solves the previously encoded Problem (spec §4.6
// solve_problem), persists the result, and pushes the finished puzzle to
// anyone watching the generation.
func (h *Handlers) SolveProblem(c *gin.Context) {
	var req SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if current := h.orch.GenerationID(); current == "" || current != req.GenerationID {
		c.JSON(http.StatusConflict, gin.H{"error": "generationId does not match the currently encoded problem"})
		return
	}

	start := time.Now()
	puz, err := h.orch.SolveProblem(orchestrator.Config{SolverTimeoutMs: req.SolverTimeoutMs})
	solveMs := float64(time.Since(start).Milliseconds())
	if err != nil {
		if h.hub != nil {
			h.hub.BroadcastError(req.GenerationID, err.Error())
		}
		h.respondEngineError(c, err)
		return
	}

	if h.hub != nil {
		h.hub.BroadcastSolved(req.GenerationID, puz, solveMs)
	}

	h.persistPuzzle(req.GenerationID, puz)

	c.Data(http.StatusOK, "application/json", mustToJSON(puz))
}

// GenerateRequest is the body for POST /engine/generate.
type GenerateRequest struct {
	Size             int     `json:"size" binding:"required,min=5,max=50"`
	Seed             int64   `json:"seed"`
	DensityFloor     float64 `json:"densityFloor"`
	MinWordCount     int     `json:"minWordCount"`
	PoolSizeOverride int     `json:"poolSizeOverride"`
	SolverTimeoutMs  int     `json:"solverTimeoutMs"`
}

// GenerateCrossword runs encode_problem immediately followed by
// solve_problem, for hosts that don't need the between-call progress
// events.
func (h *Handlers) GenerateCrossword(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg := orchestrator.Config{
		Seed:             req.Seed,
		DensityFloor:     req.DensityFloor,
		MinWordCount:     req.MinWordCount,
		PoolSizeOverride: req.PoolSizeOverride,
		SolverTimeoutMs:  req.SolverTimeoutMs,
	}

	puz, err := h.orch.GenerateCrossword(req.Size, cfg)
	if err != nil {
		h.respondEngineError(c, err)
		return
	}

	h.persistPuzzle(h.orch.GenerationID(), puz)

	c.Data(http.StatusOK, "application/json", mustToJSON(puz))
}

// WatchGeneration upgrades to a WebSocket subscribed to one generation's
// encoded/solved/error events (spec §5).
func (h *Handlers) WatchGeneration(c *gin.Context) {
	generationID := c.Query("generationId")
	if generationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing generationId"})
		return
	}

	if err := realtime.ServeWs(h.hub, c.Writer, c.Request, generationID); err != nil {
		log.Printf("WatchGeneration: upgrade failed for %s: %v", generationID, err)
	}
}

// GetStats reports the dictionary snapshot recorded at server startup
// (spec §4.1, supplemented per SPEC_FULL with MaxLength/MeanLength).
func (h *Handlers) GetStats(c *gin.Context) {
	if h.db != nil {
		stats, err := h.db.GetDictionaryStats()
		if err == nil && stats != nil {
			c.JSON(http.StatusOK, stats)
			return
		}
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dictionary stats unavailable"})
}

// persistPuzzle best-effort stores a generated puzzle; failures are logged,
// not surfaced, since the caller already has the puzzle in hand.
func (h *Handlers) persistPuzzle(generationID string, puz *puzzle.Puzzle) {
	if h.db == nil || puz == nil {
		return
	}

	data := mustToJSON(puz)

	record := &models.StoredPuzzle{
		ID:           uuid.New().String(),
		GenerationID: generationID,
		Size:         puz.Size,
		PuzzleJSON:   data,
		WordCount:    puz.Metadata.WordCount,
		Density:      puz.Metadata.Density,
		CreatedAt:    time.Now(),
	}

	if err := h.db.CreatePuzzle(record); err != nil {
		log.Printf("persistPuzzle: failed to store generation %s: %v", generationID, err)
	}
}

func mustToJSON(puz *puzzle.Puzzle) []byte {
	data, err := output.ToJSON(puz)
	if err != nil {
		// FormatJSON never errors on a well-formed decoded Puzzle; this
		// guards against a future change in ToJSON's error paths.
		fallback, _ := json.Marshal(gin.H{"error": "failed to encode puzzle"})
		return fallback
	}
	return data
}
