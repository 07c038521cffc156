package application

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidIngredients = errors.New("ingredients and steps must be JSON arrays")
	ErrRecipeIDRequired   = errors.New("recipe id is required")
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrAlreadyFavorited   = errors.New("recipe already in favorites")
	ErrFavoriteNotFound   = errors.New("favorite not found")
)

// ValidationError carries per-field messages that go back to the client.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "invalid " + strings.Join(keys, ", ")
}

func fieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
