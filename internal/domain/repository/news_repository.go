package repository

import (
	"context"

	"github.com/oksasatya/recipe-share-api/internal/domain/entity"
)

type NewsRepository interface {
	Create(ctx context.Context, n *entity.News) error
	List(ctx context.Context) ([]entity.News, error)
}
