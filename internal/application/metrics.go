package application

import "expvar"

// Counters published at /api/debug/vars.
var (
	signups          = expvar.NewInt("signups")
	logins           = expvar.NewInt("logins")
	recipesCreated   = expvar.NewInt("recipes_created")
	favoritesAdded   = expvar.NewInt("favorites_added")
	favoritesRemoved = expvar.NewInt("favorites_removed")
)
