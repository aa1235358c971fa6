// Copyright 2025 LPK PB Merdeka
// Licensed under the EUPL-1.2

// Package ctxkeys defines typed context keys used across packages.
package ctxkeys

// User is the context key for the authenticated user.
type User struct{}

// SessionToken is the context key for the bearer token of the current session.
type SessionToken struct{}
