// Copyright (c) 2026 LegitExchange. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"sync"
	"time"

	"github.com/taibuivan/legitexchange/internal/platform/apperr"
	"github.com/taibuivan/legitexchange/internal/platform/dberr"
)

// MemoryIdentityRepository keeps identities in process memory.
//
// It is used when no DATABASE_URL is configured and in tests. Each instance is
// independent, so nothing leaks between servers or test cases.
type MemoryIdentityRepository struct {
	mu      sync.RWMutex
	byID    map[string]*Identity
	byEmail map[string]string
	now     func() time.Time
}

// NewMemoryIdentityRepository creates an empty repository.
func NewMemoryIdentityRepository() *MemoryIdentityRepository {
	return &MemoryIdentityRepository{
		byID:    make(map[string]*Identity),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

// FindByID implements [IdentityRepository].
func (repository *MemoryIdentityRepository) FindByID(_ context.Context, id string) (*Identity, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	identity, ok := repository.byID[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	return copyIdentity(identity), nil
}

// FindByEmail implements [IdentityRepository].
func (repository *MemoryIdentityRepository) FindByEmail(_ context.Context, email string) (*Identity, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	id, ok := repository.byEmail[email]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	return copyIdentity(repository.byID[id]), nil
}

// Create implements [IdentityRepository].
func (repository *MemoryIdentityRepository) Create(_ context.Context, identity *Identity) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, taken := repository.byEmail[identity.Email]; taken {
		return apperr.DuplicateIdentity()
	}

	now := repository.now()
	if identity.CreatedAt.IsZero() {
		identity.CreatedAt = now
	}
	identity.UpdatedAt = now

	repository.byID[identity.ID] = copyIdentity(identity)
	repository.byEmail[identity.Email] = identity.ID
	return nil
}

// copyIdentity keeps callers from mutating stored records.
func copyIdentity(identity *Identity) *Identity {
	clone := *identity
	clone.Specialization = append([]string(nil), identity.Specialization...)
	return &clone
}
