// Package repositorytest provides in-memory repositories with the same
// cascade and uniqueness semantics as the Postgres schema. It backs the
// service and handler tests.
package repositorytest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/recipe-share-api/internal/domain/entity"
	"github.com/oksasatya/recipe-share-api/internal/domain/repository"
)

// Store holds every table behind one lock.
type Store struct {
	mu        sync.Mutex
	seq       int64
	users     map[int64]entity.User
	news      []entity.News
	recipes   map[int64]entity.Recipe
	favorites []entity.Favorite
}

func NewStore() *Store {
	return &Store{
		users:   map[int64]entity.User{},
		recipes: map[int64]entity.Recipe{},
	}
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *Store) Users() repository.UserRepository         { return userRepo{s} }
func (s *Store) News() repository.NewsRepository          { return newsRepo{s} }
func (s *Store) Recipes() repository.RecipeRepository     { return recipeRepo{s} }
func (s *Store) Favorites() repository.FavoriteRepository { return favoriteRepo{s} }

// FavoriteCount returns how many favorite rows exist for the pair.
func (s *Store) FavoriteCount(userID, recipeID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, f := range s.favorites {
		if f.UserID == userID && f.RecipeID == recipeID {
			n++
		}
	}
	return n
}

// RecipeCount returns how many recipes the user owns.
func (s *Store) RecipeCount(userID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.recipes {
		if r.UserID == userID {
			n++
		}
	}
	return n
}

// RenameUser changes a username in place, leaving recipe snapshots alone.
func (s *Store) RenameUser(userID int64, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		u.Username = &username
		s.users[userID] = u
	}
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return repository.ErrEmailTaken
		}
		if u.Username != nil && existing.Username != nil && *existing.Username == *u.Username {
			return repository.ErrUsernameTaken
		}
	}
	u.ID = r.s.nextID()
	u.CreatedAt = time.Now()
	r.s.users[u.ID] = *u
	return nil
}

func (r userRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r userRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r userRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username != nil && *u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r userRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, id)
	for rid, rec := range r.s.recipes {
		if rec.UserID == id {
			delete(r.s.recipes, rid)
		}
	}
	kept := r.s.favorites[:0]
	for _, f := range r.s.favorites {
		if f.UserID == id {
			continue
		}
		if _, ok := r.s.recipes[f.RecipeID]; !ok {
			continue
		}
		kept = append(kept, f)
	}
	r.s.favorites = kept
	return nil
}

type newsRepo struct{ s *Store }

func (r newsRepo) Create(_ context.Context, n *entity.News) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n.ID = r.s.nextID()
	r.s.news = append(r.s.news, *n)
	return nil
}

func (r newsRepo) List(_ context.Context) ([]entity.News, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.News, len(r.s.news))
	copy(out, r.s.news)
	return out, nil
}

type recipeRepo struct{ s *Store }

func (r recipeRepo) Create(_ context.Context, rec *entity.Recipe) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[rec.UserID]; !ok {
		return repository.ErrNotFound
	}
	rec.ID = r.s.nextID()
	rec.CreatedAt = time.Now()
	r.s.recipes[rec.ID] = *rec
	return nil
}

func (r recipeRepo) sorted(keep func(entity.Recipe) bool) []entity.Recipe {
	out := make([]entity.Recipe, 0)
	for _, rec := range r.s.recipes {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r recipeRepo) ListValidated(_ context.Context, f entity.RecipeFilter) ([]entity.Recipe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.sorted(func(rec entity.Recipe) bool {
		if !rec.IsValidate {
			return false
		}
		switch {
		case f.ID != nil:
			return rec.ID == *f.ID
		case f.Category != "":
			return strings.EqualFold(rec.Category, f.Category)
		case f.Search != "":
			return strings.Contains(strings.ToLower(rec.Title), strings.ToLower(f.Search))
		}
		return true
	}), nil
}

func (r recipeRepo) ListByOwner(_ context.Context, userID int64) ([]entity.Recipe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.sorted(func(rec entity.Recipe) bool { return rec.UserID == userID }), nil
}

func (r recipeRepo) Exists(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.recipes[id]
	return ok, nil
}

type favoriteRepo struct{ s *Store }

func (r favoriteRepo) Add(_ context.Context, userID, recipeID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.recipes[recipeID]; !ok {
		return false, repository.ErrNotFound
	}
	if _, ok := r.s.users[userID]; !ok {
		return false, repository.ErrNotFound
	}
	for _, f := range r.s.favorites {
		if f.UserID == userID && f.RecipeID == recipeID {
			return false, nil
		}
	}
	r.s.favorites = append(r.s.favorites, entity.Favorite{
		ID:        r.s.nextID(),
		UserID:    userID,
		RecipeID:  recipeID,
		CreatedAt: time.Now(),
	})
	return true, nil
}

func (r favoriteRepo) Remove(_ context.Context, userID, recipeID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, f := range r.s.favorites {
		if f.UserID == userID && f.RecipeID == recipeID {
			r.s.favorites = append(r.s.favorites[:i], r.s.favorites[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r favoriteRepo) Exists(_ context.Context, userID, recipeID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, f := range r.s.favorites {
		if f.UserID == userID && f.RecipeID == recipeID {
			return true, nil
		}
	}
	return false, nil
}

func (r favoriteRepo) ListRecipes(_ context.Context, userID int64) ([]entity.Recipe, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.Recipe, 0)
	for _, f := range r.s.favorites {
		if f.UserID != userID {
			continue
		}
		if rec, ok := r.s.recipes[f.RecipeID]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}
