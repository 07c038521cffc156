package postgres

import (
	"context"

	"github.com/oksasatya/recipe-share-api/internal/domain/entity"
	"github.com/oksasatya/recipe-share-api/internal/domain/repository"
)

type NewsRepository struct {
	db DBTX
}

func NewNewsRepository(db DBTX) *NewsRepository {
	return &NewsRepository{db: db}
}

func (r *NewsRepository) Create(ctx context.Context, n *entity.News) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO news (title, subtitle, html, media)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, n.Title, n.Subtitle, n.HTML, n.Media).Scan(&n.ID)
}

func (r *NewsRepository) List(ctx context.Context) ([]entity.News, error) {
	rows, err := r.db.Query(ctx, `SELECT id, title, subtitle, html, media FROM news ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.News, 0)
	for rows.Next() {
		var n entity.News
		if err := rows.Scan(&n.ID, &n.Title, &n.Subtitle, &n.HTML, &n.Media); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

var _ repository.NewsRepository = (*NewsRepository)(nil)
