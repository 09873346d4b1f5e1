package retrieval

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// Record is one stored corpus chunk with its embedding.
type Record struct {
	ID        string
	Source    string
	Title     string
	Text      string
	Embedding []float32
	CreatedAt time.Time
}

// SQLiteProvider provides chunk storage and brute-force cosine similarity
// search backed by SQLite. The corpus here is small (a college knowledge
// base), so a full scan per query is fine.
type SQLiteProvider struct {
	db       *sql.DB
	embedder Embedder
}

// Compile-time check that SQLiteProvider implements Provider.
var _ Provider = (*SQLiteProvider)(nil)

// NewSQLiteProvider wraps an existing *sql.DB for vector operations. The
// chunks table must already exist (created via migrations).
func NewSQLiteProvider(db *sql.DB, embedder Embedder) *SQLiteProvider {
	return &SQLiteProvider{db: db, embedder: embedder}
}

// Insert adds records to the chunks table in one transaction.
func (s *SQLiteProvider) Insert(records []Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning insert transaction: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO chunks (id, source, title, text_chunk, embedding, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("preparing insert statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		createdAt := r.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		blob := encodeFloat32s(r.Embedding)
		if _, err := stmt.Exec(r.ID, r.Source, r.Title, r.Text, blob, createdAt.Format(time.RFC3339)); err != nil {
			tx.Rollback()
			return fmt.Errorf("inserting record %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

// Count returns the number of stored chunks.
func (s *SQLiteProvider) Count() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM chunks").Scan(&count)
	return count, err
}

// DeleteSource removes all chunks ingested from the given source.
func (s *SQLiteProvider) DeleteSource(source string) error {
	_, err := s.db.Exec("DELETE FROM chunks WHERE source = ?", source)
	return err
}

// Search implements Provider: embed the query, scan all stored vectors,
// and return the top-K by cosine similarity.
func (s *SQLiteProvider) Search(ctx context.Context, query string, topK int) ([]Chunk, error) {
	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, title, text_chunk, embedding FROM chunks ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var scored []Chunk
	for rows.Next() {
		var c Chunk
		var blob []byte
		if err := rows.Scan(&c.ID, &c.Title, &c.Text, &blob); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		vec, err := decodeFloat32s(blob)
		if err != nil {
			return nil, fmt.Errorf("decoding embedding for %s: %w", c.ID, err)
		}
		c.Score = Cosine(queryVec, vec)
		scored = append(scored, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	return topKByScore(scored, topK), nil
}

// encodeFloat32s serializes a float32 slice to little-endian bytes.
func encodeFloat32s(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// decodeFloat32s deserializes little-endian bytes into a float32 slice.
// A length that is not a multiple of 4 indicates data corruption.
func decodeFloat32s(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("byte slice length %d is not a multiple of 4", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}
