package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/cbrief/chain-daily/internal/model"
)

// PostStore is the persistence boundary. Upsert is keyed by slug so
// re-running the pipeline for the same date overwrites the existing
// record instead of duplicating it.
type PostStore interface {
	UpsertPost(ctx context.Context, slug string, article model.Article) error
	GetPostBySlug(ctx context.Context, slug string) (*model.Article, error)
	Close() error
}

type postgresPostStore struct {
	db *sql.DB
}

// NewPostgresPostStore wires a Postgres-backed post store.
func NewPostgresPostStore(db *sql.DB) PostStore {
	return &postgresPostStore{db: db}
}

// OpenPostgres opens and pings the posts database.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return db, nil
}

// UpsertPost inserts or updates the post row for the slug.
func (s *postgresPostStore) UpsertPost(ctx context.Context, slug string, article model.Article) error {
	query, args, err := sq.Insert("posts").
		Columns("slug", "title", "date", "description", "content", "tags").
		Values(
			slug,
			cleanContent(article.Title),
			article.Date.Format("2006-01-02"),
			cleanContent(article.Description),
			cleanContent(article.Body()),
			pq.StringArray(article.Tags),
		).
		Suffix(`ON CONFLICT (slug) DO UPDATE
			SET title = EXCLUDED.title,
			    description = EXCLUDED.description,
			    content = EXCLUDED.content,
			    tags = EXCLUDED.tags,
			    updated_at = NOW()`).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building upsert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upserting post %s: %w", slug, err)
	}
	return nil
}

// GetPostBySlug loads a stored post, or nil when none exists.
func (s *postgresPostStore) GetPostBySlug(ctx context.Context, slug string) (*model.Article, error) {
	query, args, err := sq.Select("title", "description", "content", "tags").
		From("posts").
		Where(sq.Eq{"slug": slug}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building select: %w", err)
	}

	var (
		article model.Article
		content string
		tags    pq.StringArray
	)
	row := s.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&article.Title, &article.Description, &content, &tags); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("loading post %s: %w", slug, err)
	}

	article.Tags = tags
	article.Sections = []model.Section{{Body: content}}
	return &article, nil
}

func (s *postgresPostStore) Close() error {
	return s.db.Close()
}

// cleanContent strips null bytes that break JSON/text columns.
func cleanContent(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, "\x00", ""))
}
