package cache

import (
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/blake2b"

	"jsstyle/internal/errors"
	"jsstyle/internal/lint"
	"jsstyle/internal/slogutil"
)

// Stats counts lookups since the cache was opened.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// Cache stores the issues of linted files. It implements lint.ResultCache
// and is safe for concurrent use.
type Cache struct {
	db          *DB
	logger      *slog.Logger
	fingerprint string

	enc *zstd.Encoder
	dec *zstd.Decoder

	hits   atomic.Int64
	misses atomic.Int64
}

var _ lint.ResultCache = (*Cache)(nil)

// Open opens the cache database at path. Results are only reused while the
// rule configuration has the same fingerprint.
func Open(path, fingerprint string, logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	db, err := OpenDB(path, logger)
	if err != nil {
		return nil, err
	}
	c, err := New(db, fingerprint, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// New creates a cache on an open database.
func New(db *DB, fingerprint string, logger *slog.Logger) (*Cache, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, errors.New(errors.CacheUnavailable, "create zstd encoder", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, errors.New(errors.CacheUnavailable, "create zstd decoder", err)
	}
	return &Cache{
		db:          db,
		logger:      logger,
		fingerprint: fingerprint,
		enc:         enc,
		dec:         dec,
	}, nil
}

// Digest is the hex BLAKE2b-256 of the fingerprint and the content.
func Digest(fingerprint string, src []byte) string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(fingerprint))
	h.Write([]byte{0})
	h.Write(src)
	return hex.EncodeToString(h.Sum(nil))
}

// Lookup returns the stored issues for path when src and the configuration
// are unchanged. Read or decode failures count as a miss.
func (c *Cache) Lookup(path string, src []byte) ([]lint.Issue, bool) {
	var blob []byte
	err := c.db.QueryRow(`
		SELECT issues FROM results
		WHERE path = ? AND digest = ?
	`, path, Digest(c.fingerprint, src)).Scan(&blob)

	if err == sql.ErrNoRows {
		c.misses.Add(1)
		return nil, false
	}
	if err != nil {
		c.logger.Warn("Cache lookup failed", "path", path, "error", err)
		c.misses.Add(1)
		return nil, false
	}

	issues, err := c.decode(blob)
	if err != nil {
		c.logger.Warn("Discarding unreadable cache entry", "path", path, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return issues, true
}

// Store records the issues of path for content src, replacing any previous
// entry for the path.
func (c *Cache) Store(path string, src []byte, issues []lint.Issue) error {
	blob, err := c.encode(issues)
	if err != nil {
		return err
	}

	_, err = c.db.Exec(`
		INSERT OR REPLACE INTO results (path, digest, issues, issue_count, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, path, Digest(c.fingerprint, src), blob, len(issues), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return errors.New(errors.CacheUnavailable, fmt.Sprintf("store %s", path), err)
	}
	return nil
}

// Clear deletes every entry and returns how many there were.
func (c *Cache) Clear() (int64, error) {
	res, err := c.db.Exec("DELETE FROM results")
	if err != nil {
		return 0, errors.New(errors.CacheUnavailable, "clear cache", err)
	}
	return res.RowsAffected()
}

// Len returns the number of stored entries.
func (c *Cache) Len() (int, error) {
	var n int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM results").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Path returns the database file.
func (c *Cache) Path() string {
	return c.db.Path()
}

// Stats returns the hit and miss counts.
func (c *Cache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// Close releases the codecs and the database.
func (c *Cache) Close() error {
	c.enc.Close()
	c.dec.Close()
	return c.db.Close()
}

func (c *Cache) encode(issues []lint.Issue) ([]byte, error) {
	data, err := json.Marshal(issues)
	if err != nil {
		return nil, fmt.Errorf("encode issues: %w", err)
	}
	return c.enc.EncodeAll(data, nil), nil
}

func (c *Cache) decode(blob []byte) ([]lint.Issue, error) {
	data, err := c.dec.DecodeAll(blob, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress issues: %w", err)
	}
	var issues []lint.Issue
	if err := json.Unmarshal(data, &issues); err != nil {
		return nil, fmt.Errorf("decode issues: %w", err)
	}
	return issues, nil
}
