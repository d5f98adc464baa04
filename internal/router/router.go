// Package router wires the HTTP routes of the service onto a chi router.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/patric-chuzhbe/userauth/internal/auth"
	"github.com/patric-chuzhbe/userauth/internal/logger"
	"github.com/patric-chuzhbe/userauth/internal/models"
	"github.com/patric-chuzhbe/userauth/internal/user"
)

type authenticator interface {
	AuthenticateUser(h http.Handler) http.Handler
}

type userService interface {
	Login(ctx context.Context, username, password string) (string, string, error)
	Logout(ctx context.Context, token string) error
	ListUsers(ctx context.Context) ([]user.User, error)
	GetUser(ctx context.Context, id int) (user.User, error)
	CreateUser(ctx context.Context, caller user.User, newUser user.User) (user.User, error)
	DeleteUser(ctx context.Context, caller user.User, id int) error
}

// Router holds the handlers of the service.
type Router struct {
	svc userService
}

// New builds the handler tree:
//
//	/          redirect to /users
//	/login     issue a token
//	/logout    revoke the presented token
//	/users/... protected by the authentication middleware
func New(svc userService, theAuth authenticator) http.Handler {
	myRouter := &Router{
		svc: svc,
	}

	router := chi.NewRouter()
	router.Use(
		middleware.Recoverer,
		logger.WithLoggingHTTPMiddleware,
	)
	router.Handle(`/`, http.HandlerFunc(myRouter.RedirectToUsers))
	router.Post(`/login`, myRouter.PostLogin)
	router.Post(`/logout`, myRouter.PostLogout)
	router.Route(`/users`, func(r chi.Router) {
		r.Use(theAuth.AuthenticateUser)
		r.Get(`/`, myRouter.GetUsers)
		r.Post(`/`, myRouter.PostUser)
		r.Get(`/{id}`, myRouter.GetUser)
		r.Delete(`/{id}`, myRouter.DeleteUser)
	})

	return router
}

func writeJSON(response http.ResponseWriter, status int, payload interface{}) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(status)
	if err := json.NewEncoder(response).Encode(payload); err != nil {
		logger.Log.Debugw("Error calling the `json.NewEncoder(response).Encode()`", zap.Error(err))
	}
}

// writeServiceError maps the error kinds of the service to status codes.
// messages supplies the body for kinds that carry one.
func writeServiceError(response http.ResponseWriter, err error, messages map[error]string) {
	var status int
	switch {
	case errors.Is(err, models.ErrUnauthorized):
		response.WriteHeader(http.StatusUnauthorized)
		return
	case errors.Is(err, models.ErrNotAdmin), errors.Is(err, models.ErrForbidden):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		status = http.StatusConflict
	default:
		logger.Log.Errorw("unexpected service error", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	for kind, message := range messages {
		if errors.Is(err, kind) {
			writeJSON(response, status, message)
			return
		}
	}
	writeJSON(response, status, err.Error())
}

func parseUserID(response http.ResponseWriter, request *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(request, "id"))
	if err != nil {
		writeJSON(response, http.StatusBadRequest, "The user id must be an integer.")
		return 0, false
	}

	return id, true
}

// RedirectToUsers permanently redirects to the user list.
func (router *Router) RedirectToUsers(response http.ResponseWriter, request *http.Request) {
	response.Header().Set("Location", "/users")
	response.WriteHeader(http.StatusMovedPermanently)
}

// PostLogin checks the credentials and returns a new bearer token.
func (router *Router) PostLogin(response http.ResponseWriter, request *http.Request) {
	var loginRequest models.LoginRequest
	if err := json.NewDecoder(request.Body).Decode(&loginRequest); err != nil {
		writeJSON(response, http.StatusBadRequest, "Invalid request body.")
		return
	}

	token, message, err := router.svc.Login(request.Context(), loginRequest.Username, loginRequest.Password)
	if err != nil {
		writeServiceError(response, err, nil)
		return
	}

	writeJSON(response, http.StatusOK, models.LoginResponse{
		Token:   token,
		Message: message,
	})
}

// PostLogout revokes the bearer token of the request. It checks the
// Authorization header itself rather than going through the middleware.
func (router *Router) PostLogout(response http.ResponseWriter, request *http.Request) {
	token, ok := auth.BearerToken(request)
	if !ok {
		logger.Log.Debugln("logout: no Bearer token found in header")
		response.WriteHeader(http.StatusUnauthorized)
		return
	}

	if err := router.svc.Logout(request.Context(), token); err != nil {
		writeServiceError(response, err, nil)
		return
	}

	writeJSON(response, http.StatusOK, "Logged out successfully.")
}

func (router *Router) GetUsers(response http.ResponseWriter, request *http.Request) {
	users, err := router.svc.ListUsers(request.Context())
	if err != nil {
		writeServiceError(response, err, nil)
		return
	}

	writeJSON(response, http.StatusOK, users)
}

func (router *Router) GetUser(response http.ResponseWriter, request *http.Request) {
	id, ok := parseUserID(response, request)
	if !ok {
		return
	}

	usr, err := router.svc.GetUser(request.Context(), id)
	if err != nil {
		writeServiceError(response, err, map[error]string{
			models.ErrNotFound: "User doesn't exist.",
		})
		return
	}

	writeJSON(response, http.StatusOK, usr)
}

// PostUser creates a user. Admin only.
func (router *Router) PostUser(response http.ResponseWriter, request *http.Request) {
	caller, _ := auth.UserFromContext(request.Context())
	if !caller.IsAdmin {
		writeServiceError(response, models.ErrNotAdmin, map[error]string{
			models.ErrNotAdmin: "Only administrators can create new users.",
		})
		return
	}

	var newUser user.User
	if err := json.NewDecoder(request.Body).Decode(&newUser); err != nil {
		writeJSON(response, http.StatusBadRequest, "Invalid request body.")
		return
	}

	stored, err := router.svc.CreateUser(request.Context(), caller, newUser)
	if err != nil {
		writeServiceError(response, err, map[error]string{
			models.ErrNotAdmin: "Only administrators can create new users.",
			models.ErrConflict: fmt.Sprintf("User with an ID: %d already existed.", newUser.ID),
		})
		return
	}

	response.Header().Set("Location", fmt.Sprintf("/users/%d", stored.ID))
	writeJSON(response, http.StatusCreated, stored)
}

// DeleteUser removes a non-admin user. Admin only.
func (router *Router) DeleteUser(response http.ResponseWriter, request *http.Request) {
	caller, _ := auth.UserFromContext(request.Context())
	if !caller.IsAdmin {
		writeServiceError(response, models.ErrNotAdmin, map[error]string{
			models.ErrNotAdmin: "Only administrators can delete users.",
		})
		return
	}

	id, ok := parseUserID(response, request)
	if !ok {
		return
	}

	if err := router.svc.DeleteUser(request.Context(), caller, id); err != nil {
		writeServiceError(response, err, map[error]string{
			models.ErrNotAdmin:  "Only administrators can delete users.",
			models.ErrNotFound:  "This user doesn't exist.",
			models.ErrForbidden: "Removing admin is forbidden.",
		})
		return
	}

	response.WriteHeader(http.StatusNoContent)
}
