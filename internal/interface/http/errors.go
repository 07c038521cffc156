package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/recipe-share-api/internal/application"
	"github.com/oksasatya/recipe-share-api/pkg/response"
)

const (
	msgInvalidRecipeID    = "A valid integer is required for the recipe ID."
	msgMissingCredentials = "Both email and password are required."
)

var errorTable = []struct {
	err    error
	status int
	msg    string
}{
	{app.ErrUnauthenticated, http.StatusUnauthorized, "Authentication credentials were not provided."},
	{app.ErrMissingCredentials, http.StatusBadRequest, msgMissingCredentials},
	{app.ErrUserNotFound, http.StatusNotFound, "No account found with this email."},
	{app.ErrInvalidPassword, http.StatusUnauthorized, "Invalid password. Please try again."},
	{app.ErrInvalidIngredients, http.StatusBadRequest, "Invalid JSON format for ingredients or steps. Please provide valid JSON."},
	{app.ErrRecipeNotFound, http.StatusNotFound, "Recipe not found."},
	{app.ErrAlreadyFavorited, http.StatusBadRequest, "This recipe is already in your favorites."},
	{app.ErrFavoriteNotFound, http.StatusNotFound, "Favorite not found for the given recipe ID."},
}

// respondError maps service errors onto the envelope. failMsg is used for
// validation failures; anything unknown is logged and reported as a 500.
func respondError(c *gin.Context, logger *logrus.Logger, err error, failMsg string) {
	var verr *app.ValidationError
	if errors.As(err, &verr) {
		response.Error(c, http.StatusBadRequest, failMsg, verr.Fields)
		return
	}
	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			response.Error(c, e.status, e.msg, nil)
			return
		}
	}
	if logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Error("request failed")
	}
	response.Error(c, http.StatusInternalServerError, "Something went wrong. Please try again later.", nil)
}
