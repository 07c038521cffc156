package application

import (
	"context"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/recipe-share-api/internal/domain/entity"
	repo "github.com/oksasatya/recipe-share-api/internal/domain/repository"
	"github.com/oksasatya/recipe-share-api/pkg/helpers"
)

const newsCacheKey = "news:list"

// Upload is a file handed over by the transport layer.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type NewsService struct {
	Repo     repo.NewsRepository
	Media    helpers.MediaStore
	Redis    *redis.Client
	CacheTTL time.Duration
	Logger   *logrus.Logger
}

func NewNewsService(news repo.NewsRepository, media helpers.MediaStore, rdb *redis.Client, logger *logrus.Logger) *NewsService {
	return &NewsService{Repo: news, Media: media, Redis: rdb, CacheTTL: time.Minute, Logger: logger}
}

// ListNews returns every news item. The list is cached in Redis until the next create.
func (s *NewsService) ListNews(ctx context.Context) ([]entity.News, error) {
	if s.Redis != nil {
		var cached []entity.News
		ok, err := helpers.RedisGetJSON(ctx, s.Redis, newsCacheKey, &cached)
		if err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("news cache read failed")
		}
		if ok && cached != nil {
			return cached, nil
		}
	}
	items, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []entity.News{}
	}
	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, newsCacheKey, items, s.CacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("news cache write failed")
		}
	}
	return items, nil
}

type CreateNewsInput struct {
	Title    string
	Subtitle string
	HTML     string
	Media    Upload
}

// CreateNews stores the media blob and then the news row; the blob is removed
// again when the row cannot be written. Any authenticated caller may post.
func (s *NewsService) CreateNews(ctx context.Context, _ entity.Identity, in CreateNewsInput) (*entity.News, error) {
	url, err := s.Media.Save(ctx, "news", in.Media.Filename, in.Media.ContentType, in.Media.Body)
	if err != nil {
		return nil, err
	}
	n := &entity.News{Title: in.Title, HTML: in.HTML, Media: url}
	if in.Subtitle != "" {
		sub := in.Subtitle
		n.Subtitle = &sub
	}
	if err := s.Repo.Create(ctx, n); err != nil {
		discardMedia(ctx, s.Media, url, s.Logger)
		return nil, err
	}
	if s.Redis != nil {
		if err := helpers.RedisDel(ctx, s.Redis, newsCacheKey); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("news cache invalidation failed")
		}
	}
	return n, nil
}

// discardMedia removes a blob whose row was never written. Failures leave an
// orphan behind and are only logged.
func discardMedia(ctx context.Context, media helpers.MediaStore, url string, logger *logrus.Logger) {
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := media.Delete(c, url); err != nil {
		helpers.LogError(logger, "orphaned media not removed", err, logrus.Fields{"url": url})
	}
}
