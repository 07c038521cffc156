package entity

import "time"

// Entries is an ordered list of free-form JSON values (strings or objects).
// Ingredients and steps use it because their inner shape is not constrained.
type Entries []any

// Recipe is a user-submitted recipe.
//
// Username is a snapshot of the owner's username taken at creation time and is
// never re-synced when the owner renames.
type Recipe struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Date        string    `json:"date"`
	Category    string    `json:"category"`
	Difficulty  string    `json:"difficulty"`
	Portions    int       `json:"portions"`
	Time        int       `json:"time"`
	Image       string    `json:"image"`
	Ingredients Entries   `json:"ingredients"`
	Steps       Entries   `json:"steps"`
	Tips        string    `json:"tips"`
	UserID      int64     `json:"userId"`
	Username    string    `json:"username"`
	IsValidate  bool      `json:"is_validate"`
	CreatedAt   time.Time `json:"-"`
}

// RecipeFilter selects validated recipes. At most one criterion applies,
// in the order ID, Category, Search.
type RecipeFilter struct {
	ID       *int64
	Category string
	Search   string
}
