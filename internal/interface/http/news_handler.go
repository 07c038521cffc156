package handlers

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/recipe-share-api/internal/application"
	"github.com/oksasatya/recipe-share-api/internal/interface/middleware"
	"github.com/oksasatya/recipe-share-api/pkg/response"
	"github.com/oksasatya/recipe-share-api/pkg/validation"
)

type NewsHandler struct {
	Svc    *app.NewsService
	Logger *logrus.Logger
}

func NewNewsHandler(svc *app.NewsService, logger *logrus.Logger) *NewsHandler {
	return &NewsHandler{Svc: svc, Logger: logger}
}

type createNewsForm struct {
	Title    string                `form:"title" binding:"required,max=255"`
	Subtitle string                `form:"subtitle" binding:"max=255"`
	HTML     string                `form:"html" binding:"required"`
	Media    *multipart.FileHeader `form:"media" binding:"required"`
}

const msgNewsFailed = "Failed to add news. Please check the provided data."

func (h *NewsHandler) List(c *gin.Context) {
	items, err := h.Svc.ListNews(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, err, "")
		return
	}
	response.Success(c, http.StatusOK, items, "News fetched successfully.")
}

func (h *NewsHandler) Create(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		respondError(c, h.Logger, app.ErrUnauthenticated, "")
		return
	}
	var form createNewsForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error(c, http.StatusBadRequest, msgNewsFailed, validation.ToDetails(err))
		return
	}
	upload, closeFn, err := openUpload(form.Media)
	if err != nil {
		response.Error(c, http.StatusBadRequest, msgNewsFailed, map[string]string{"media": "The submitted file is empty or unreadable."})
		return
	}
	defer closeFn()

	n, err := h.Svc.CreateNews(c.Request.Context(), id, app.CreateNewsInput{
		Title:    form.Title,
		Subtitle: form.Subtitle,
		HTML:     form.HTML,
		Media:    upload,
	})
	if err != nil {
		respondError(c, h.Logger, err, msgNewsFailed)
		return
	}
	response.Success(c, http.StatusCreated, n, "News added successfully.")
}

func openUpload(fh *multipart.FileHeader) (app.Upload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return app.Upload{}, nil, err
	}
	return app.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Body:        f,
	}, func() { _ = f.Close() }, nil
}
