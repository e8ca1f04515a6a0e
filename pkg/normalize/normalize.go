// Copyright (c) 2026 LegitExchange. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package normalize canonicalizes user-typed identifiers.

Registration and sign-in must map visually identical input to the same stored
key, otherwise a user could register "Jane@Example.com" twice or be unable to
sign in after typing a full-width character on a mobile keyboard.
*/
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Email trims surrounding whitespace, applies NFKC and folds case.
// A Caser is stateful, so each call builds its own.
func Email(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return cases.Fold().String(norm.NFKC.String(trimmed))
}

// Name trims and collapses internal whitespace in a display name.
func Name(raw string) string {
	return strings.Join(strings.Fields(norm.NFC.String(raw)), " ")
}

// Specializations trims every entry and drops blanks and duplicates,
// keeping first-seen order.
func Specializations(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))

	for _, entry := range raw {
		cleaned := Name(entry)
		if cleaned == "" {
			continue
		}
		key := cases.Fold().String(cleaned)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, cleaned)
	}

	return out
}
