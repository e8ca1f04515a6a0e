// Copyright (c) 2026 LegitExchange. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package web serves the server-rendered LegitExchange pages.

Every page is rendered only after the page guard settles on [access.ViewContent]
for the request's session. The request gate normally redirects earlier, so the
check here only matters when the gate is not mounted in front of the pages.
Rendered pages load /static/guard.js, which re-asks /api/auth/guard while the
tab stays open and navigates away once the session no longer admits the page.
*/
package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/legitexchange/internal/access"
	"github.com/taibuivan/legitexchange/internal/platform/apperr"
	"github.com/taibuivan/legitexchange/internal/platform/constants"
	"github.com/taibuivan/legitexchange/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/legitexchange/internal/platform/request"
	"github.com/taibuivan/legitexchange/internal/platform/respond"
	"github.com/taibuivan/legitexchange/internal/platform/sec"
	"github.com/taibuivan/legitexchange/internal/users/auth"
)

// # Page Catalogue

type pageSpec struct {
	path  string
	file  string
	title string
}

var pageCatalogue = []pageSpec{
	{path: constants.PathHome, file: "home.html", title: "LegitExchange"},
	{path: "/properties", file: "properties.html", title: "Properties"},
	{path: "/properties/new", file: "property_new.html", title: "List a Property"},
	{path: constants.PathSignIn, file: "signin.html", title: "Sign In"},
	{path: constants.PathRegister, file: "register.html", title: "Create an Account"},
	{path: constants.PathAuthError, file: "auth_error.html", title: "Sign-in Problem"},
	{path: constants.PathUnauthorized, file: "unauthorized.html", title: "Unauthorized"},
	{path: constants.PathDashboard, file: "dashboard.html", title: "Dashboard"},
	{path: "/admin", file: "admin.html", title: "Administration"},
	{path: "/lawyer", file: "lawyer.html", title: "Lawyer Workspace"},
	{path: "/lawyers", file: "lawyers.html", title: "Find a Lawyer"},
	{path: "/help", file: "help.html", title: "Help"},
}

var pageFiles = func() []string {
	files := make([]string, 0, len(pageCatalogue))
	for _, page := range pageCatalogue {
		files = append(files, page.file)
	}
	return files
}()

// errorMessages maps error codes carried in ?error= to user-facing text.
var errorMessages = map[string]string{
	apperr.CodeMissingCredentials:      "Enter your email and password.",
	apperr.CodeInvalidCredentials:      "The email or password is incorrect.",
	apperr.CodeTooManyAttempts:         "Too many failed attempts. Try again later.",
	apperr.CodeDuplicateIdentity:       "An account with this email already exists.",
	apperr.CodeInvalidRole:             "Choose a valid account type.",
	apperr.CodeIncompleteLawyerProfile: "Lawyers must provide a bar number and at least one specialization.",
	apperr.CodeInvalidOrExpiredSession: "Your session has expired. Please sign in again.",
	"VALIDATION_ERROR":                 "Some fields are missing or invalid.",
}

func errorMessage(code string) string {
	if code == "" {
		return ""
	}
	if message, ok := errorMessages[code]; ok {
		return message
	}
	return "Something went wrong. Please try again."
}

// # Handler

// Handler renders the site pages.
type Handler struct {
	renderer *Renderer
	guard    *access.Guard
	routes   *access.RouteTable
}

// NewHandler creates a page handler that shares policy with the request gate.
func NewHandler(renderer *Renderer, policy *access.Policy) *Handler {
	return &Handler{
		renderer: renderer,
		guard:    access.NewGuard(policy),
		routes:   policy.Routes(),
	}
}

// Routes returns a [chi.Router] serving every page and the static assets.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(StaticFiles()))))
	for _, page := range pageCatalogue {
		router.Get(page.path, handler.page(page))
	}

	return router
}

// pageData is the view model shared by every template.
type pageData struct {
	Title       string
	Path        string
	Public      bool
	User        *auth.SessionUser
	ErrorCode   string
	Error       string
	CallbackURL string
	Registered  bool
	Roles       []sec.UserRole
}

func (handler *Handler) page(page pageSpec) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		claims := requestutil.Claims(request)

		result := handler.guard.Evaluate(request.URL.Path, access.Resolved(claims))
		if result.View != access.ViewContent {
			respond.Redirect(writer, request, result.Location)
			return
		}

		query := request.URL.Query()
		data := pageData{
			Title:       page.title,
			Path:        request.URL.Path,
			Public:      handler.isPublic(request.URL.Path),
			ErrorCode:   query.Get(constants.FieldError),
			CallbackURL: auth.SafeCallbackPath(query.Get(constants.CallbackURLParam)),
			Registered:  query.Get("registered") != "",
			Roles:       []sec.UserRole{sec.RoleBuyer, sec.RoleSeller, sec.RoleLawyer},
		}
		data.Error = errorMessage(data.ErrorCode)
		if claims != nil {
			data.User = auth.NewSessionUser(claims)
		}

		if err := handler.renderer.Render(writer, http.StatusOK, page.file, data); err != nil {
			ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "page_render_failed",
				slog.String("page", page.file),
				slog.Any("error", err),
			)
			respond.Error(writer, request, apperr.Internal(err))
		}
	}
}

func (handler *Handler) isPublic(pagePath string) bool {
	route, _, err := handler.routes.Classify(pagePath)
	return err == nil && route.Access == access.AccessPublic
}
