package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/recipe-share-api/internal/application"
	"github.com/oksasatya/recipe-share-api/internal/domain/entity"
	"github.com/oksasatya/recipe-share-api/internal/interface/middleware"
	"github.com/oksasatya/recipe-share-api/pkg/response"
)

type FavoriteHandler struct {
	Svc    *app.FavoriteService
	Logger *logrus.Logger
}

func NewFavoriteHandler(svc *app.FavoriteService, logger *logrus.Logger) *FavoriteHandler {
	return &FavoriteHandler{Svc: svc, Logger: logger}
}

// addFavoriteRequest accepts the id as a JSON number or a numeric string.
type addFavoriteRequest struct {
	ID json.Number `json:"id" form:"id"`
}

const (
	msgAddIDRequired    = "Recipe ID is required to add to favorites."
	msgRemoveIDRequired = "Recipe ID is required to remove from favorites."
)

func (h *FavoriteHandler) Add(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		respondError(c, h.Logger, app.ErrUnauthenticated, "")
		return
	}
	var req addFavoriteRequest
	if err := c.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, http.StatusBadRequest, msgInvalidRecipeID, nil)
		return
	}
	raw := strings.TrimSpace(req.ID.String())
	if raw == "" || raw == "0" {
		response.Error(c, http.StatusBadRequest, msgAddIDRequired, nil)
		return
	}
	recipeID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, msgInvalidRecipeID, nil)
		return
	}
	if err := h.Svc.AddFavorite(c.Request.Context(), id, recipeID); err != nil {
		if errors.Is(err, app.ErrRecipeIDRequired) {
			err = app.ErrRecipeNotFound
		}
		respondError(c, h.Logger, err, "")
		return
	}
	response.Message(c, http.StatusCreated, "Recipe added to favorites successfully.")
}

func (h *FavoriteHandler) List(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		respondError(c, h.Logger, app.ErrUnauthenticated, "")
		return
	}
	items, err := h.Svc.ListFavorites(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Logger, err, "")
		return
	}
	if len(items) == 0 {
		response.Success(c, http.StatusOK, []entity.FavoriteRecipe{}, "No favorite recipes found.")
		return
	}
	response.Success(c, http.StatusOK, items, "Favorite recipes fetched successfully.")
}

func (h *FavoriteHandler) Remove(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		respondError(c, h.Logger, app.ErrUnauthenticated, "")
		return
	}
	raw := strings.TrimSpace(c.Query("id"))
	if raw == "" {
		response.Error(c, http.StatusBadRequest, msgRemoveIDRequired, nil)
		return
	}
	recipeID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, msgInvalidRecipeID, nil)
		return
	}
	if err := h.Svc.RemoveFavorite(c.Request.Context(), id, recipeID); err != nil {
		if errors.Is(err, app.ErrRecipeIDRequired) {
			err = app.ErrFavoriteNotFound
		}
		respondError(c, h.Logger, err, "")
		return
	}
	response.Message(c, http.StatusOK, "Recipe removed from favorites successfully.")
}
