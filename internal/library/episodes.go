package library

import (
	"context"
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"podforge/internal/pipeline"
)

// Episode is one stored podcast run. AudioPath is empty for text-only
// episodes.
type Episode struct {
	ID             string
	Title          string
	Mode           string
	AudioPath      string
	TranscriptPath string
	SourceURLs     []string
	Stats          pipeline.Stats
	CreatedAt      time.Time
}

// SaveRequest carries the artifacts of one pipeline run. Audio may be
// nil; Transcript must not be empty.
type SaveRequest struct {
	Title      string
	Mode       string
	Audio      []byte
	Transcript string
	SourceURLs []string
	Stats      pipeline.Stats
}

// Save writes the run's files under the library directory and records
// the episode. Mutations are serialized across processes with a file
// lock so two concurrent runs cannot interleave half-written episodes.
func (s *Store) Save(ctx context.Context, req SaveRequest) (*Episode, error) {
	if req.Transcript == "" {
		return nil, errors.New("transcript must not be empty")
	}

	if err := s.lock.Lock(); err != nil {
		return nil, fmt.Errorf("acquire library lock: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	now := time.Now().UTC()
	title := normalizeTitle(req.Title, len(req.SourceURLs))

	transcriptPath, err := s.writeArtifact("transcripts", "script", "txt", now, []byte(req.Transcript))
	if err != nil {
		return nil, err
	}

	audioPath := ""
	if len(req.Audio) > 0 {
		audioPath, err = s.writeArtifact("audio", "podcast", "wav", now, req.Audio)
		if err != nil {
			return nil, err
		}
	}

	urlsJSON, err := json.Marshal(req.SourceURLs)
	if err != nil {
		return nil, fmt.Errorf("marshal source urls: %w", err)
	}
	statsJSON, err := json.Marshal(req.Stats)
	if err != nil {
		return nil, fmt.Errorf("marshal stats: %w", err)
	}

	id := uuid.NewString()
	_, err = s.execWithRetry(
		ctx,
		`INSERT INTO episodes (
            id, title, mode, audio_path, transcript_path, source_urls, stats_json, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		title,
		req.Mode,
		nullableString(audioPath),
		transcriptPath,
		string(urlsJSON),
		string(statsJSON),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert episode: %w", err)
	}

	return s.Get(ctx, id)
}

// List returns episodes newest first, up to limit (all when limit <= 0).
func (s *Store) List(ctx context.Context, limit int) ([]*Episode, error) {
	ctx = ensureContext(ctx)
	query := `SELECT id, title, mode, audio_path, transcript_path, source_urls, stats_json, created_at
        FROM episodes ORDER BY rowid DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query episodes: %w", err)
	}
	defer rows.Close()

	var episodes []*Episode
	for rows.Next() {
		ep, err := scanEpisode(rows)
		if err != nil {
			return nil, err
		}
		episodes = append(episodes, ep)
	}
	return episodes, rows.Err()
}

// Get fetches one episode by id.
func (s *Store) Get(ctx context.Context, id string) (*Episode, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, mode, audio_path, transcript_path, source_urls, stats_json, created_at
            FROM episodes WHERE id = ?`, id)
	ep, err := scanEpisode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return ep, err
}

// Delete removes an episode row and its files.
func (s *Store) Delete(ctx context.Context, id string) error {
	ep, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("acquire library lock: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	if _, err := s.execWithRetry(ctx, "DELETE FROM episodes WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete episode: %w", err)
	}

	for _, path := range []string{ep.AudioPath, ep.TranscriptPath} {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}
	return nil
}

// writeArtifact stores one payload under <root>/<subdir> with a
// timestamped collision-resistant name and returns the absolute path.
func (s *Store) writeArtifact(subdir, prefix, ext string, now time.Time, payload []byte) (string, error) {
	dir := filepath.Join(s.root, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s dir: %w", subdir, err)
	}
	path := filepath.Join(dir, artifactName(prefix, ext, now))
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// artifactName builds names like podcast_20260115_093047_a1b2c3.wav.
func artifactName(prefix, ext string, now time.Time) string {
	timestamp := now.Format("20060102_150405")
	sum := md5.Sum([]byte(timestamp + prefix + uuid.NewString()))
	return fmt.Sprintf("%s_%s_%s.%s", prefix, timestamp, hex.EncodeToString(sum[:])[:6], ext)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEpisode(row rowScanner) (*Episode, error) {
	var (
		ep        Episode
		audioPath sql.NullString
		urlsJSON  string
		statsJSON string
		createdAt string
	)
	err := row.Scan(&ep.ID, &ep.Title, &ep.Mode, &audioPath, &ep.TranscriptPath, &urlsJSON, &statsJSON, &createdAt)
	if err != nil {
		return nil, err
	}
	ep.AudioPath = audioPath.String
	if err := json.Unmarshal([]byte(urlsJSON), &ep.SourceURLs); err != nil {
		return nil, fmt.Errorf("decode source urls: %w", err)
	}
	if err := json.Unmarshal([]byte(statsJSON), &ep.Stats); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}
	ep.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &ep, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
