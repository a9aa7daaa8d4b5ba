// Package auth is the access gate: every inbound action is checked against
// the static allow-list before any other component runs.
package auth

import (
	"errors"

	"github.com/avolkova/duolist/internal/config"
)

// ErrUnauthorized is returned for users not on the allow-list.
var ErrUnauthorized = errors.New("user is not authorized")

// Gate answers allow/deny for user ids against the process-lifetime
// allow-list. It has no other state and no side effects on deny.
type Gate struct {
	allowed map[int64]struct{}
}

func NewGate(users []config.User) *Gate {
	allowed := make(map[int64]struct{}, len(users))
	for _, u := range users {
		allowed[u.ID] = struct{}{}
	}
	return &Gate{allowed: allowed}
}

// Check returns ErrUnauthorized when the user is not on the allow-list.
func (g *Gate) Check(userID int64) error {
	if _, ok := g.allowed[userID]; !ok {
		return ErrUnauthorized
	}
	return nil
}

// Allowed is a convenience boolean form of Check.
func (g *Gate) Allowed(userID int64) bool {
	return g.Check(userID) == nil
}
