// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/constants"
	"github.com/taibuivan/bookshelf/internal/platform/ctxutil"
	"github.com/taibuivan/bookshelf/internal/platform/middleware"
	requestutil "github.com/taibuivan/bookshelf/internal/platform/request"
	"github.com/taibuivan/bookshelf/internal/platform/respond"
)

// Handler exposes registration, login and session endpoints.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// loginInput accepts either "login" or the OAuth2-style "username" key.
type loginInput struct {
	Login    string `json:"login"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is the body returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)

	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)

		authed.Get("/me", handler.me)
		authed.Post("/logout", handler.logout)
	})
}

func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input RegisterInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Register(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, user)
}

// login accepts a JSON body or an application/x-www-form-urlencoded form with
// username and password fields.
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	input, err := decodeLogin(writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Authenticate(request.Context(), input.Login, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if user == nil {
		respond.Error(writer, request, apperr.Unauthorized("Incorrect username or password"))
		return
	}

	token, err := handler.service.CreateToken(request.Context(), user)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, TokenResponse{AccessToken: token, TokenType: constants.TokenTypeBearer})
}

func decodeLogin(writer http.ResponseWriter, request *http.Request) (loginInput, error) {
	mediaType, _, _ := mime.ParseMediaType(request.Header.Get(constants.HeaderContentType))

	var input loginInput
	switch mediaType {
	case "application/x-www-form-urlencoded":
		request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxJSONBodyBytes)
		if err := request.ParseForm(); err != nil {
			return input, apperr.ValidationError("Invalid form body")
		}
		input.Login = request.PostFormValue("username")
		input.Password = request.PostFormValue("password")
	default:
		if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
			return input, err
		}
		if input.Login == "" {
			input.Login = input.Username
		}
	}

	if input.Login == "" || input.Password == "" {
		return input, apperr.ValidationError("Login and password are required")
	}
	return input, nil
}

func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.Principal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, ok := principal.(*User)
	if !ok {
		respond.Error(writer, request, apperr.Unauthorized("Not authenticated"))
		return
	}
	respond.OK(writer, user)
}

func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Logout(request.Context(), ctxutil.GetAccessToken(request.Context())); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
