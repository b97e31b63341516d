package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/crossplay/satxword/internal/models"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

type Database struct {
	DB    *sql.DB
	Redis *redis.Client
}

func New(postgresURL, redisURL string) (*Database, error) {
	db, err := sql.Open("postgres", postgresURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Database{DB: db, Redis: rdb}, nil
}

func (d *Database) Close() error {
	if err := d.DB.Close(); err != nil {
		return err
	}
	return d.Redis.Close()
}

// InitSchema creates the tables the hosting layer needs: generated puzzles
// and the last recorded dictionary snapshot. The engine itself is stateless;
// everything here is bookkeeping around it.
func (d *Database) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS puzzles (
		id VARCHAR(36) PRIMARY KEY,
		generation_id VARCHAR(36) UNIQUE NOT NULL,
		size INTEGER NOT NULL,
		puzzle_json JSONB NOT NULL,
		word_count INTEGER NOT NULL,
		density FLOAT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_puzzles_generation_id ON puzzles(generation_id);
	CREATE INDEX IF NOT EXISTS idx_puzzles_created_at ON puzzles(created_at);

	CREATE TABLE IF NOT EXISTS dictionary_stats (
		id INTEGER PRIMARY KEY DEFAULT 1,
		word_count INTEGER NOT NULL,
		max_length INTEGER NOT NULL,
		mean_length FLOAT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		CHECK (id = 1)
	);
	`

	_, err := d.DB.Exec(schema)
	return err
}

// CreatePuzzle persists a generated puzzle's JSON record.
func (d *Database) CreatePuzzle(puzzle *models.StoredPuzzle) error {
	_, err := d.DB.Exec(`
		INSERT INTO puzzles (id, generation_id, size, puzzle_json, word_count, density, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, puzzle.ID, puzzle.GenerationID, puzzle.Size, puzzle.PuzzleJSON, puzzle.WordCount, puzzle.Density, puzzle.CreatedAt)
	return err
}

func (d *Database) GetPuzzleByID(id string) (*models.StoredPuzzle, error) {
	puzzle := &models.StoredPuzzle{}
	err := d.DB.QueryRow(`
		SELECT id, generation_id, size, puzzle_json, word_count, density, created_at
		FROM puzzles WHERE id = $1
	`, id).Scan(&puzzle.ID, &puzzle.GenerationID, &puzzle.Size, &puzzle.PuzzleJSON,
		&puzzle.WordCount, &puzzle.Density, &puzzle.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	return puzzle, err
}

func (d *Database) GetPuzzleByGenerationID(generationID string) (*models.StoredPuzzle, error) {
	puzzle := &models.StoredPuzzle{}
	err := d.DB.QueryRow(`
		SELECT id, generation_id, size, puzzle_json, word_count, density, created_at
		FROM puzzles WHERE generation_id = $1
	`, generationID).Scan(&puzzle.ID, &puzzle.GenerationID, &puzzle.Size, &puzzle.PuzzleJSON,
		&puzzle.WordCount, &puzzle.Density, &puzzle.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	return puzzle, err
}

// ListPuzzles returns recently generated puzzles, newest first.
func (d *Database) ListPuzzles(limit, offset int) ([]*models.StoredPuzzle, error) {
	rows, err := d.DB.Query(`
		SELECT id, generation_id, size, puzzle_json, word_count, density, created_at
		FROM puzzles ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var puzzles []*models.StoredPuzzle
	for rows.Next() {
		puzzle := &models.StoredPuzzle{}
		if err := rows.Scan(&puzzle.ID, &puzzle.GenerationID, &puzzle.Size, &puzzle.PuzzleJSON,
			&puzzle.WordCount, &puzzle.Density, &puzzle.CreatedAt); err != nil {
			return nil, err
		}
		puzzles = append(puzzles, puzzle)
	}
	return puzzles, nil
}

// SaveDictionaryStats upserts the single dictionary snapshot row, recorded
// each time the orchestrator's dictionary is (re)initialized.
func (d *Database) SaveDictionaryStats(stats *models.DictionaryStatsRecord) error {
	_, err := d.DB.Exec(`
		INSERT INTO dictionary_stats (id, word_count, max_length, mean_length, updated_at)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			word_count = EXCLUDED.word_count,
			max_length = EXCLUDED.max_length,
			mean_length = EXCLUDED.mean_length,
			updated_at = EXCLUDED.updated_at
	`, stats.WordCount, stats.MaxLength, stats.MeanLength, stats.UpdatedAt)
	return err
}

func (d *Database) GetDictionaryStats() (*models.DictionaryStatsRecord, error) {
	stats := &models.DictionaryStatsRecord{}
	err := d.DB.QueryRow(`
		SELECT word_count, max_length, mean_length, updated_at FROM dictionary_stats WHERE id = 1
	`).Scan(&stats.WordCount, &stats.MaxLength, &stats.MeanLength, &stats.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	return stats, err
}

// Redis progress cache: helpers that store, read and delete a generation's
// last known stage under "generation:<id>:stage". Neither the realtime hub
// nor the API handlers call them, so nothing writes these keys during a
// generation.

func (d *Database) SetGenerationProgress(ctx context.Context, generationID, stage string, ttl time.Duration) error {
	return d.Redis.Set(ctx, "generation:"+generationID+":stage", stage, ttl).Err()
}

func (d *Database) GetGenerationProgress(ctx context.Context, generationID string) (string, error) {
	return d.Redis.Get(ctx, "generation:"+generationID+":stage").Result()
}

func (d *Database) DeleteGenerationProgress(ctx context.Context, generationID string) error {
	return d.Redis.Del(ctx, "generation:"+generationID+":stage").Err()
}
