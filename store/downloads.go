// Package store : sqlite-backed history of finished and failed downloads.
package store

import (
	"context"
	"database/sql"
	"time"
)

// Download is one history row.
type Download struct {
	ID         int64     `json:"id"`
	URL        string    `json:"url"`
	Source     string    `json:"source,omitempty"`
	Quality    string    `json:"quality,omitempty"`
	Title      string    `json:"title,omitempty"`
	Uploader   string    `json:"uploader,omitempty"`
	FilePath   string    `json:"file_path,omitempty"`
	Format     string    `json:"format,omitempty"`
	DurationMs int64     `json:"duration_ms,omitempty"`
	SizeBytes  int64     `json:"size_bytes,omitempty"`
	Bitrate    int       `json:"bitrate,omitempty"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (s *Store) SaveDownload(ctx context.Context, d *Download) (int64, error) {
	query := `
	INSERT INTO downloads (url, source, quality, title, uploader, file_path, format, duration_ms, size_bytes, bitrate, status, error)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	res, err := s.db.ExecContext(ctx, query,
		d.URL, d.Source, d.Quality, d.Title, d.Uploader,
		d.FilePath, d.Format, d.DurationMs, d.SizeBytes, d.Bitrate,
		d.Status, d.Error,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const downloadColumns = `id, url, source, quality, title, uploader, file_path, format, duration_ms, size_bytes, bitrate, status, error, created_at`

func scanDownload(row interface{ Scan(...any) error }) (*Download, error) {
	var d Download
	var filePath, errMsg sql.NullString
	err := row.Scan(&d.ID, &d.URL, &d.Source, &d.Quality, &d.Title, &d.Uploader,
		&filePath, &d.Format, &d.DurationMs, &d.SizeBytes, &d.Bitrate,
		&d.Status, &errMsg, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	d.FilePath = filePath.String
	d.Error = errMsg.String
	return &d, nil
}

func (s *Store) GetDownload(ctx context.Context, id int64) (*Download, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+downloadColumns+` FROM downloads WHERE id = ?`, id)
	return scanDownload(row)
}

// ListDownloads returns history rows, newest first.
func (s *Store) ListDownloads(ctx context.Context, limit int64) ([]*Download, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+downloadColumns+` FROM downloads ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var downloads []*Download
	for rows.Next() {
		d, err := scanDownload(rows)
		if err != nil {
			return nil, err
		}
		downloads = append(downloads, d)
	}
	return downloads, rows.Err()
}

func (s *Store) DeleteDownload(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM downloads WHERE id = ?", id)
	return err
}
