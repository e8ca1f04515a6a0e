// Copyright (c) 2026 LegitExchange. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Registration Constraints

const (
	// MinPasswordLength matches the shortest password the demo account uses.
	MinPasswordLength = 6

	// MaxPasswordLength stays under bcrypt's 72-byte input limit.
	MaxPasswordLength = 72

	MaxNameLength  = 120
	MaxEmailLength = 254
)

// # Demo Identity

// Seeded for local development when SEED_DEMO_USER is set.
const (
	DemoName     = "Demo User"
	DemoEmail    = "demo@legitexchange.com"
	DemoPassword = "demo123"
)
