package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/recipe-share-api/internal/application"
	"github.com/oksasatya/recipe-share-api/internal/domain/entity"
	"github.com/oksasatya/recipe-share-api/internal/interface/middleware"
	"github.com/oksasatya/recipe-share-api/pkg/response"
	"github.com/oksasatya/recipe-share-api/pkg/validation"
)

type RecipeHandler struct {
	Svc    *app.RecipeService
	Logger *logrus.Logger
}

func NewRecipeHandler(svc *app.RecipeService, logger *logrus.Logger) *RecipeHandler {
	return &RecipeHandler{Svc: svc, Logger: logger}
}

type createRecipeForm struct {
	Title      string                `form:"title" binding:"required,max=255"`
	Date       string                `form:"date" binding:"required,datetime=2006-01-02"`
	Category   string                `form:"category" binding:"required,max=100"`
	Difficulty string                `form:"difficulty" binding:"required,max=100"`
	Portions   int                   `form:"portions" binding:"required,gt=0,lte=2147483647"`
	Time       int                   `form:"time" binding:"required,gt=0,lte=2147483647"`
	Tips       string                `form:"tips" binding:"required,max=100"`
	IsValidate *bool                 `form:"is_validate"`
	Image      *multipart.FileHeader `form:"image" binding:"required"`
}

const msgRecipeFailed = "Failed to add recipe. Please check the provided data."

// List serves GET /recipes?id=|category=|search=; only the first present filter applies.
func (h *RecipeHandler) List(c *gin.Context) {
	var f entity.RecipeFilter
	if raw := strings.TrimSpace(c.Query("id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, msgInvalidRecipeID, nil)
			return
		}
		f.ID = &id
	}
	f.Category = c.Query("category")
	f.Search = c.Query("search")

	items, err := h.Svc.ListRecipes(c.Request.Context(), f)
	if err != nil {
		respondError(c, h.Logger, err, "")
		return
	}
	response.Success(c, http.StatusOK, items, "Recipes fetched successfully.")
}

func (h *RecipeHandler) Create(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		respondError(c, h.Logger, app.ErrUnauthenticated, "")
		return
	}

	ingredients, err := app.ParseEntries(c.DefaultPostForm("ingredients", "[]"))
	if err != nil {
		respondError(c, h.Logger, err, "")
		return
	}
	steps, err := app.ParseEntries(c.DefaultPostForm("steps", "[]"))
	if err != nil {
		respondError(c, h.Logger, err, "")
		return
	}

	var form createRecipeForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error(c, http.StatusBadRequest, msgRecipeFailed, validation.ToDetails(err))
		return
	}
	upload, closeFn, err := openUpload(form.Image)
	if err != nil {
		response.Error(c, http.StatusBadRequest, msgRecipeFailed, map[string]string{"image": "The submitted file is empty or unreadable."})
		return
	}
	defer closeFn()

	r, err := h.Svc.CreateRecipe(c.Request.Context(), id, app.CreateRecipeInput{
		Title:       form.Title,
		Date:        form.Date,
		Category:    form.Category,
		Difficulty:  form.Difficulty,
		Portions:    form.Portions,
		Time:        form.Time,
		Tips:        form.Tips,
		Ingredients: ingredients,
		Steps:       steps,
		IsValidate:  form.IsValidate,
		Image:       upload,
	})
	if err != nil {
		respondError(c, h.Logger, err, msgRecipeFailed)
		return
	}
	response.Success(c, http.StatusCreated, r, "Recipe added successfully.")
}

func (h *RecipeHandler) Mine(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		respondError(c, h.Logger, app.ErrUnauthenticated, "")
		return
	}
	items, err := h.Svc.ListMyRecipes(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Logger, err, "")
		return
	}
	if len(items) == 0 {
		response.Success(c, http.StatusOK, []entity.Recipe{}, "No recipes found for this user.")
		return
	}
	response.Success(c, http.StatusOK, items, "Your recipes fetched successfully.")
}

// Search serves GET /recipes/search?q=&size=.
func (h *RecipeHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	items, err := h.Svc.SearchRecipes(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		respondError(c, h.Logger, err, "")
		return
	}
	response.Success(c, http.StatusOK, items, "Recipes fetched successfully.")
}
