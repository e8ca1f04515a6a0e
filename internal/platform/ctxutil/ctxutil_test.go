// Copyright (c) 2026 LegitExchange. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/legitexchange/internal/platform/ctxutil"
	"github.com/taibuivan/legitexchange/internal/platform/sec"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, ctxutil.GetRequestID(ctx))

	ctx = ctxutil.WithRequestID(ctx, "test-request-id")
	assert.Equal(t, "test-request-id", ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies that a custom logger can be stored in context.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// 1. Initially should return the default logger
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_Session verifies claim storage and the role shortcut.
*/
func TestContext_Session(t *testing.T) {
	ctx := context.Background()

	_, ok := ctxutil.CurrentRole(ctx)
	assert.False(t, ok)
	assert.Nil(t, ctxutil.GetSession(ctx))

	// Nil claims leave the context anonymous
	assert.Nil(t, ctxutil.GetSession(ctxutil.WithSession(ctx, nil)))

	claims := &sec.AuthClaims{UserID: "user-123", Role: sec.RoleSeller}
	ctx = ctxutil.WithSession(ctx, claims)
	assert.Equal(t, claims, ctxutil.GetSession(ctx))

	role, ok := ctxutil.CurrentRole(ctx)
	assert.True(t, ok)
	assert.Equal(t, sec.RoleSeller, role)

	// Unknown roles never count as a session role
	_, ok = ctxutil.CurrentRole(ctxutil.WithSession(context.Background(), &sec.AuthClaims{Role: "admin"}))
	assert.False(t, ok)
}
