package entity

import "time"

// Favorite pairs a user with a recipe. The pair is unique.
type Favorite struct {
	ID        int64
	UserID    int64
	RecipeID  int64
	CreatedAt time.Time
}

// FavoriteRecipe is how a favorite is presented: the full recipe it points to.
type FavoriteRecipe struct {
	Recipe Recipe `json:"recipe"`
}
