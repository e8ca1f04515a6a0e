// Copyright (c) 2026 LegitExchange. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/legitexchange/pkg/normalize"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"already_canonical", "demo@legitexchange.com", "demo@legitexchange.com"},
		{"mixed_case_and_spaces", "  Demo@LegitExchange.COM ", "demo@legitexchange.com"},
		{"full_width", "ｄｅｍｏ@legitexchange.com", "demo@legitexchange.com"},
		{"blank", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize.Email(tt.raw))
		})
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, "Jane Doe", normalize.Name("  Jane \t  Doe "))
	assert.Empty(t, normalize.Name("   "))
}

func TestSpecializations(t *testing.T) {
	got := normalize.Specializations([]string{" Property Law", "", "property law", "Tax  Law", "  "})
	assert.Equal(t, []string{"Property Law", "Tax Law"}, got)
	assert.Empty(t, normalize.Specializations(nil))
}
