// Copyright (c) 2026 LegitExchange. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away common body decoding patterns and session lookups, ensuring
consistent error handling and type safety across handlers.
*/
package requestutil

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/taibuivan/legitexchange/internal/platform/apperr"
	"github.com/taibuivan/legitexchange/internal/platform/constants"
	"github.com/taibuivan/legitexchange/internal/platform/ctxutil"
	"github.com/taibuivan/legitexchange/internal/platform/sec"
	"github.com/taibuivan/legitexchange/internal/platform/validate"
)

// maxBodyBytes caps request bodies accepted by the auth endpoints.
const maxBodyBytes = 64 << 10

/*
DecodeJSON reads the request body and decodes it into the target structure.

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target interface{}) error {
	request.Body = http.MaxBytesReader(writer, request.Body, maxBodyBytes)

	decoder := json.NewDecoder(request.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
IsForm reports whether the request body is an HTML form submission.
*/
func IsForm(request *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(request.Header.Get(constants.HeaderContentType))
	if err != nil {
		return false
	}
	return mediaType == constants.ContentTypeForm || mediaType == constants.ContentTypeMultipart
}

/*
ParseForm parses a form body with the same size cap as [DecodeJSON].
*/
func ParseForm(writer http.ResponseWriter, request *http.Request) error {
	request.Body = http.MaxBytesReader(writer, request.Body, maxBodyBytes)
	if err := request.ParseForm(); err != nil {
		return apperr.ValidationError("Invalid form payload")
	}
	return nil
}

/*
Claims extracts the session claims from the request context.

Returns nil if the request is not authenticated.
*/
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetSession(request.Context())
}

/*
RequiredClaims ensures the request is authenticated and returns the session claims.

Returns:
  - error: apperr.InvalidOrExpiredSession if the request is not authenticated
*/
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {
	claims := ctxutil.GetSession(request.Context())
	if claims == nil {
		return nil, apperr.InvalidOrExpiredSession()
	}
	return claims, nil
}
