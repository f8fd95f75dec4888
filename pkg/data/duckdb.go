package data

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb/v2"
)

const schema = `
CREATE TABLE IF NOT EXISTS novels (
	id VARCHAR PRIMARY KEY,
	title VARCHAR NOT NULL,
	author VARCHAR,
	description VARCHAR,
	cover_url VARCHAR,
	language VARCHAR,
	source_url VARCHAR,
	epub_path VARCHAR
);
CREATE TABLE IF NOT EXISTS chapters (
	novel_id VARCHAR NOT NULL,
	idx INTEGER NOT NULL,
	title VARCHAR,
	url VARCHAR,
	status INTEGER NOT NULL DEFAULT 0,
	error VARCHAR,
	PRIMARY KEY (novel_id, idx)
);
`

// Repository persists the novel library and per-chapter pipeline state.
type Repository struct {
	db *sql.DB
}

func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open library database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize library schema: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// SaveNovel upserts a novel record, assigning an ID when the source did not
// provide a stable one.
func (r *Repository) SaveNovel(novel *Novel) error {
	if novel == nil {
		return fmt.Errorf("novel cannot be nil")
	}
	if novel.ID == "" {
		novel.ID = uuid.NewString()
	}
	_, err := r.db.Exec(`
		INSERT OR REPLACE INTO novels (id, title, author, description, cover_url, language, source_url)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		novel.ID, novel.Title, novel.Author, novel.Description,
		novel.CoverURL, novel.Language, novel.SourceURL,
	)
	if err != nil {
		return fmt.Errorf("failed to save novel: %w", err)
	}
	return nil
}

func (r *Repository) SaveChapter(novelID string, chapter *Chapter) error {
	if chapter == nil {
		return fmt.Errorf("chapter cannot be nil")
	}
	var errText string
	if chapter.Err != nil {
		errText = chapter.Err.Error()
	}
	_, err := r.db.Exec(`
		INSERT OR REPLACE INTO chapters (novel_id, idx, title, url, status, error)
		VALUES (?, ?, ?, ?, ?, ?)`,
		novelID, chapter.Index, chapter.Title, chapter.URL, int(chapter.Status), errText,
	)
	if err != nil {
		return fmt.Errorf("failed to save chapter %d: %w", chapter.Index, err)
	}
	return nil
}

func (r *Repository) UpdateChapterStatus(novelID string, index int, status Status, errText string) error {
	_, err := r.db.Exec(
		`UPDATE chapters SET status = ?, error = ? WHERE novel_id = ? AND idx = ?`,
		int(status), errText, novelID, index,
	)
	if err != nil {
		return fmt.Errorf("failed to update chapter %d status: %w", index, err)
	}
	return nil
}

func (r *Repository) SetEpubPath(novelID, path string) error {
	_, err := r.db.Exec(`UPDATE novels SET epub_path = ? WHERE id = ?`, path, novelID)
	return err
}

func (r *Repository) GetNovel(id string) (*Novel, error) {
	row := r.db.QueryRow(`
		SELECT id, title, author, description, cover_url, language, source_url
		FROM novels WHERE id = ?`, id)
	novel := &Novel{}
	err := row.Scan(&novel.ID, &novel.Title, &novel.Author, &novel.Description,
		&novel.CoverURL, &novel.Language, &novel.SourceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get novel %s: %w", id, err)
	}

	rows, err := r.db.Query(`
		SELECT idx, title, url, status FROM chapters
		WHERE novel_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get chapters for %s: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		ch := &Chapter{}
		var status int
		if err := rows.Scan(&ch.Index, &ch.Title, &ch.URL, &status); err != nil {
			return nil, err
		}
		ch.Status = Status(status)
		novel.Chapters = append(novel.Chapters, ch)
	}
	return novel, rows.Err()
}

func (r *Repository) ListNovels() ([]*Novel, error) {
	rows, err := r.db.Query(`
		SELECT id, title, author, language, source_url FROM novels ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("failed to list novels: %w", err)
	}
	defer rows.Close()

	var novels []*Novel
	for rows.Next() {
		novel := &Novel{}
		if err := rows.Scan(&novel.ID, &novel.Title, &novel.Author, &novel.Language, &novel.SourceURL); err != nil {
			return nil, err
		}
		novels = append(novels, novel)
	}
	return novels, rows.Err()
}

func (r *Repository) DeleteNovel(id string) error {
	if _, err := r.db.Exec(`DELETE FROM chapters WHERE novel_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete chapters: %w", err)
	}
	if _, err := r.db.Exec(`DELETE FROM novels WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete novel: %w", err)
	}
	return nil
}
