package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/Shalom-302/scraapbackend/internal/domain"
	"github.com/Shalom-302/scraapbackend/internal/ports"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const articleColumns = "id, url, title, source, published, date, content, score_pertinence, analysis, error, created_time, updated_time"

// PostgresRepository is the sole writer of durable article rows.
type PostgresRepository struct {
	db *sql.DB
}

var _ ports.ArticleRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Open connects to Postgres and verifies the connection.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// UpsertByURL inserts the article or, when the URL already exists, overwrites
// every pipeline-owned field in place. One statement, so concurrent runs
// racing on the same URL resolve at the storage layer (last commit wins).
// The published flag is never touched here.
func (r *PostgresRepository) UpsertByURL(ctx context.Context, up domain.ArticleUpsert) (domain.Article, error) {
	analysisJSON, err := marshalAnalysis(up.Analysis)
	if err != nil {
		return domain.Article{}, err
	}

	query, args, err := psql.Insert("articles").
		Columns("id", "url", "title", "source", "date", "content", "score_pertinence", "analysis", "error").
		Values(uuid.NewString(), up.URL, up.Title, up.Source, up.Date, up.Content, up.ScorePertinence, analysisJSON, up.Error).
		Suffix(`ON CONFLICT (url) DO UPDATE SET
			title = EXCLUDED.title,
			source = EXCLUDED.source,
			date = EXCLUDED.date,
			content = EXCLUDED.content,
			score_pertinence = EXCLUDED.score_pertinence,
			analysis = EXCLUDED.analysis,
			error = EXCLUDED.error,
			updated_time = now()
		RETURNING ` + articleColumns).
		ToSql()
	if err != nil {
		return domain.Article{}, fmt.Errorf("build upsert: %w", err)
	}

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return domain.Article{}, fmt.Errorf("upsert article %s: %w", up.URL, err)
	}
	return article, nil
}

// List returns articles matching the filter, most relevant first. Rows
// without a score sort last.
func (r *PostgresRepository) List(ctx context.Context, f domain.ArticleFilter) ([]domain.Article, error) {
	builder := psql.Select(articleColumns).From("articles")
	if f.Published != nil {
		builder = builder.Where(sq.Eq{"published": *f.Published})
	}
	if f.ScoreMin != nil {
		builder = builder.Where(sq.GtOrEq{"score_pertinence": *f.ScoreMin})
	}
	builder = builder.OrderBy("score_pertinence DESC NULLS LAST")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate articles: %w", err)
	}

	return articles, nil
}

// SetPublished toggles the publication flag of one article.
func (r *PostgresRepository) SetPublished(ctx context.Context, id string, published bool) (domain.Article, error) {
	query, args, err := psql.Update("articles").
		Set("published", published).
		Set("updated_time", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + articleColumns).
		ToSql()
	if err != nil {
		return domain.Article{}, fmt.Errorf("build publish update: %w", err)
	}

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Article{}, domain.ErrArticleNotFound
	}
	if err != nil {
		return domain.Article{}, fmt.Errorf("set published %s: %w", id, err)
	}
	return article, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (domain.Article, error) {
	var (
		article      domain.Article
		date         sql.NullString
		content      sql.NullString
		score        sql.NullInt64
		analysisJSON []byte
		errText      sql.NullString
		updated      sql.NullTime
	)

	err := row.Scan(
		&article.ID,
		&article.URL,
		&article.Title,
		&article.Source,
		&article.Published,
		&date,
		&content,
		&score,
		&analysisJSON,
		&errText,
		&article.CreatedTime,
		&updated,
	)
	if err != nil {
		return domain.Article{}, err
	}

	if date.Valid {
		article.Date = &date.String
	}
	if content.Valid {
		article.Content = &content.String
	}
	if score.Valid {
		v := int(score.Int64)
		article.ScorePertinence = &v
	}
	if len(analysisJSON) > 0 {
		var analysis domain.ArticleAnalysis
		if err := json.Unmarshal(analysisJSON, &analysis); err != nil {
			return domain.Article{}, fmt.Errorf("decode stored analysis: %w", err)
		}
		article.Analysis = &analysis
	}
	if errText.Valid {
		article.Error = &errText.String
	}
	if updated.Valid {
		article.UpdatedTime = &updated.Time
	}

	return article, nil
}

func marshalAnalysis(analysis *domain.ArticleAnalysis) ([]byte, error) {
	if analysis == nil {
		return nil, nil
	}
	raw, err := json.Marshal(analysis)
	if err != nil {
		return nil, fmt.Errorf("encode analysis: %w", err)
	}
	return raw, nil
}
