// Copyright (c) 2026 LegitExchange. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/legitexchange/internal/access"
	"github.com/taibuivan/legitexchange/internal/platform/apperr"
	"github.com/taibuivan/legitexchange/internal/platform/constants"
	"github.com/taibuivan/legitexchange/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/legitexchange/internal/platform/request"
	"github.com/taibuivan/legitexchange/internal/platform/respond"
	"github.com/taibuivan/legitexchange/internal/platform/sec"
)

// # Definitions & Constructors

// Handler implements the session endpoints mounted under /api/auth.
//
// Sign-in accepts both JSON and HTML form posts. Form posts are answered with
// a 303 so the browser lands on the callback page after a successful sign-in.
type Handler struct {
	authService  *Service
	guard        *access.Guard
	secureCookie bool
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, guard *access.Guard, secureCookie bool) *Handler {
	return &Handler{
		authService:  service,
		guard:        guard,
		secureCookie: secureCookie,
	}
}

// Routes returns a [chi.Router] configured with the session routes.
//
// # Endpoints
//   - POST /signin          : Verifies credentials and sets the session cookie.
//   - POST /register        : Creates a new identity.
//   - GET  /session         : Reports the current session.
//   - POST /session/refresh : Re-reads the identity and re-issues the token.
//   - POST /signout         : Expires the session cookie.
//   - GET  /guard           : Evaluates the page guard for ?path=.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/signin", handler.signIn)
	router.Post("/register", handler.register)
	router.Get("/session", handler.session)
	router.Post("/session/refresh", handler.refresh)
	router.Post("/signout", handler.signOut)
	router.Get("/guard", handler.guardView)

	return router
}

// # Request Payloads

type signInRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CallbackURL string `json:"callbackUrl"`
}

type registerRequest struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Password       string   `json:"password"`
	Phone          string   `json:"phone"`
	Role           string   `json:"role"`
	BarNumber      string   `json:"barNumber"`
	Specialization []string `json:"specialization"`
}

// # Response Payloads

type sessionResponse struct {
	Status    string       `json:"status"`
	User      *SessionUser `json:"user,omitempty"`
	ExpiresAt *time.Time   `json:"expires_at,omitempty"`
	Token     string       `json:"token,omitempty"`

	// CallbackURL is the sanitized page a JSON client should open after sign-in.
	CallbackURL string `json:"callback_url,omitempty"`
}

func newSessionResponse(claims *sec.AuthClaims) sessionResponse {
	if claims == nil {
		return sessionResponse{Status: access.StatusUnauthenticated.String()}
	}
	expiresAt := claims.ExpiresAtTime()
	return sessionResponse{
		Status:    access.StatusAuthenticated.String(),
		User:      NewSessionUser(claims),
		ExpiresAt: &expiresAt,
	}
}

// # Handlers

/*
SignIn authenticates an identity and establishes a session.

POST /api/auth/signin

Request:
  - Body: signInRequest as JSON, or the same fields as a form

Response:
  - 200: sessionResponse with the bearer token and the sanitized callback_url (JSON)
  - 303: Redirect to the callback page or back to the sign-in form (form)
  - 401: InvalidCredentials
  - 429: TooManyAttempts
*/
func (handler *Handler) signIn(writer http.ResponseWriter, request *http.Request) {
	if requestutil.IsForm(request) {
		handler.signInForm(writer, request)
		return
	}

	var input signInRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	grant, err := handler.authService.SignIn(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, sec.SessionCookie(grant.Token, grant.Claims.ExpiresAtTime(), handler.secureCookie))

	response := newSessionResponse(grant.Claims)
	response.Token = grant.Token
	response.CallbackURL = SafeCallbackPath(input.CallbackURL)
	respond.OK(writer, response)
}

func (handler *Handler) signInForm(writer http.ResponseWriter, request *http.Request) {
	if err := requestutil.ParseForm(writer, request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	callbackURL := SafeCallbackPath(request.PostForm.Get(FieldCallbackURL))

	grant, err := handler.authService.SignIn(
		request.Context(),
		request.PostForm.Get(FieldEmail),
		request.PostForm.Get(FieldPassword),
	)
	if err != nil {
		respond.SeeOther(writer, request, formErrorLocation(constants.PathSignIn, err, callbackURL))
		return
	}

	http.SetCookie(writer, sec.SessionCookie(grant.Token, grant.Claims.ExpiresAtTime(), handler.secureCookie))
	respond.SeeOther(writer, request, callbackURL)
}

/*
Register handles the creation of a new identity.

POST /api/auth/register

Response:
  - 201: Identity without its password hash (JSON)
  - 303: Redirect to the sign-in form, or back to the register form on error (form)
  - 400: VALIDATION_ERROR, InvalidRole or IncompleteLawyerProfile
  - 409: DuplicateIdentity
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	isForm := requestutil.IsForm(request)

	var input registerRequest
	if isForm {
		if err := requestutil.ParseForm(writer, request); err != nil {
			respond.Error(writer, request, err)
			return
		}
		input = registerRequest{
			Name:           request.PostForm.Get(FieldName),
			Email:          request.PostForm.Get(FieldEmail),
			Password:       request.PostForm.Get(FieldPassword),
			Phone:          request.PostForm.Get(FieldPhone),
			Role:           request.PostForm.Get(FieldRole),
			BarNumber:      request.PostForm.Get(FieldBarNumber),
			Specialization: splitList(request.PostForm[FieldSpecialization]),
		}
	} else if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	identity, err := handler.authService.Register(request.Context(), RegisterInput{
		Name:           input.Name,
		Email:          input.Email,
		Password:       input.Password,
		Phone:          input.Phone,
		Role:           input.Role,
		BarNumber:      input.BarNumber,
		Specialization: input.Specialization,
	})

	if isForm {
		if err != nil {
			respond.SeeOther(writer, request, formErrorLocation(constants.PathRegister, err, ""))
			return
		}
		respond.SeeOther(writer, request, constants.PathSignIn+"?registered=1")
		return
	}

	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, identity)
}

/*
Session reports the session the request gate attached to the request.

GET /api/auth/session

Response:
  - 200: sessionResponse, status "unauthenticated" without a session
*/
func (handler *Handler) session(writer http.ResponseWriter, request *http.Request) {
	writer.Header().Set(constants.HeaderCacheControl, "no-store")
	respond.OK(writer, newSessionResponse(requestutil.Claims(request)))
}

/*
Refresh re-issues the session from the stored identity.

POST /api/auth/session/refresh

Response:
  - 200: sessionResponse carrying the current role
  - 401: InvalidOrExpiredSession
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	grant, err := handler.authService.Refresh(request.Context(), claims)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeInvalidOrExpiredSession) {
			http.SetCookie(writer, sec.ExpiredSessionCookie(handler.secureCookie))
		}
		respond.Error(writer, request, err)
		return
	}

	response := newSessionResponse(grant.Claims)
	if _, source := sec.TokenFromRequest(request); source == sec.TokenFromBearer {
		response.Token = grant.Token
	} else {
		http.SetCookie(writer, sec.SessionCookie(grant.Token, grant.Claims.ExpiresAtTime(), handler.secureCookie))
	}
	respond.OK(writer, response)
}

/*
SignOut expires the session cookie.

POST /api/auth/signout

Response:
  - 204: No Content (JSON)
  - 303: Redirect to the home page (form)
*/
func (handler *Handler) signOut(writer http.ResponseWriter, request *http.Request) {
	http.SetCookie(writer, sec.ExpiredSessionCookie(handler.secureCookie))

	if requestutil.IsForm(request) {
		respond.SeeOther(writer, request, constants.PathHome)
		return
	}
	respond.NoContent(writer)
}

/*
GuardView evaluates the page guard for the current session.

GET /api/auth/guard?path=/dashboard

Response:
  - 200: GuardResult with the view to render and the redirect location
  - 400: VALIDATION_ERROR when path is missing
*/
func (handler *Handler) guardView(writer http.ResponseWriter, request *http.Request) {
	pagePath := request.URL.Query().Get(constants.GuardPathParam)
	if pagePath == "" {
		respond.Error(writer, request, apperr.ValidationError("Query parameter 'path' is required"))
		return
	}

	writer.Header().Set(constants.HeaderCacheControl, "no-store")
	result := handler.guard.Resolve(request.Context(), pagePath, gateSession{})
	respond.OK(writer, result)
}

// gateSession reads the claims the request gate attached to the context.
type gateSession struct{}

// ReadSession implements [access.SessionReader].
func (gateSession) ReadSession(context context.Context) (*sec.AuthClaims, error) {
	return ctxutil.GetSession(context), nil
}

// # Helpers

// SafeCallbackPath returns candidate when it is a local absolute path and the
// dashboard otherwise, so a crafted callbackUrl cannot leave the site.
func SafeCallbackPath(candidate string) string {
	if candidate == "" || strings.ContainsAny(candidate, "\\\x00") {
		return constants.PathDashboard
	}
	parsed, err := url.Parse(candidate)
	if err != nil || parsed.IsAbs() || parsed.Host != "" || !strings.HasPrefix(parsed.Path, "/") || strings.HasPrefix(candidate, "//") {
		return constants.PathDashboard
	}
	return candidate
}

// formErrorLocation sends a failed form post back to its page with the error code.
func formErrorLocation(pagePath string, err error, callbackURL string) string {
	code := apperr.CodeInternal
	if appError := apperr.As(err); appError != nil {
		code = appError.Code
	}

	query := url.Values{}
	query.Set(constants.FieldError, code)
	if callbackURL != "" {
		query.Set(constants.CallbackURLParam, callbackURL)
	}
	return pagePath + "?" + query.Encode()
}

// splitList accepts repeated form fields as well as one comma-separated field.
func splitList(values []string) []string {
	var items []string
	for _, value := range values {
		items = append(items, strings.Split(value, ",")...)
	}
	return items
}
