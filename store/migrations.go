package store

import "log"

func (s *Store) migrate() error {
	query := `
    CREATE TABLE IF NOT EXISTS downloads (
        id INTEGER PRIMARY KEY AUTOINCREMENT,

        -- What was requested
        url TEXT NOT NULL,
        source TEXT,                -- 'youtube', 'vimeo', ...
        quality TEXT,               -- tier name or format id

        -- What came back
        title TEXT,
        uploader TEXT,
        file_path TEXT,
        format TEXT,                -- container as reported by ffprobe
        duration_ms INTEGER DEFAULT 0,
        size_bytes INTEGER DEFAULT 0,
        bitrate INTEGER DEFAULT 0,  -- kbps

        status TEXT NOT NULL,       -- 'Complete' | 'Failed'
        error TEXT,

        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE INDEX IF NOT EXISTS idx_downloads_created_at ON downloads(created_at);
    `

	if _, err := s.db.Exec(query); err != nil {
		log.Printf("[Store] Migration failed: %v", err)
		return err
	}

	return nil
}
