package router

import "github.com/gin-gonic/gin"

// Module is a feature slice (users, news, recipes, favorites, debug) that
// mounts its own routes and middleware on the API group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
