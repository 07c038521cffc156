package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/recipe-share-api/internal/application"
	"github.com/oksasatya/recipe-share-api/internal/interface/middleware"
	"github.com/oksasatya/recipe-share-api/pkg/helpers"
	"github.com/oksasatya/recipe-share-api/pkg/response"
	"github.com/oksasatya/recipe-share-api/pkg/validation"
)

type UserHandler struct {
	Svc     *app.IdentityService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewUserHandler(svc *app.IdentityService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type signupRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email,max=254"`
	Password string `json:"password" form:"password" binding:"required,max=128"`
	Username string `json:"username" form:"username" binding:"omitempty,username"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

const msgSignupFailed = "User registration failed. Please check the provided data."

func (h *UserHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, msgSignupFailed, validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Register(c.Request.Context(), app.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
	})
	if err != nil {
		respondError(c, h.Logger, err, msgSignupFailed)
		return
	}
	h.setCookie(c, res)
	response.Success(c, http.StatusCreated, res, "User registered successfully.")
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	// An empty body falls through to the missing-credentials check.
	if err := c.ShouldBind(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, http.StatusBadRequest, msgMissingCredentials, validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.Logger, err, "")
		return
	}
	h.setCookie(c, res)
	response.Success(c, http.StatusOK, res, "Login successful.")
}

func (h *UserHandler) RemoveUser(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		respondError(c, h.Logger, app.ErrUnauthenticated, "")
		return
	}
	if err := h.Svc.RemoveSelf(c.Request.Context(), id); err != nil {
		respondError(c, h.Logger, err, "")
		return
	}
	if h.Cookies != nil {
		h.Cookies.Clear(c)
	}
	response.Message(c, http.StatusOK, "User account has been removed successfully.")
}

func (h *UserHandler) setCookie(c *gin.Context, res *app.AuthResult) {
	if h.Cookies == nil {
		return
	}
	h.Cookies.SetAccess(c, res.Token, res.ExpiresAt)
}
