package auth

import (
	"errors"
	"testing"

	"github.com/avolkova/duolist/internal/config"
)

func TestGate(t *testing.T) {
	gate := NewGate([]config.User{
		{ID: 101, DisplayName: "Ann"},
		{ID: 102, DisplayName: "Bea"},
	})

	t.Run("allows configured users", func(t *testing.T) {
		if err := gate.Check(101); err != nil {
			t.Errorf("Check(101) = %v, want nil", err)
		}
		if !gate.Allowed(102) {
			t.Error("Allowed(102) = false, want true")
		}
	})

	t.Run("denies everyone else", func(t *testing.T) {
		err := gate.Check(999)
		if !errors.Is(err, ErrUnauthorized) {
			t.Errorf("Check(999) = %v, want ErrUnauthorized", err)
		}
		if gate.Allowed(0) {
			t.Error("Allowed(0) = true, want false")
		}
	})
}

func TestGateEmptyAllowList(t *testing.T) {
	gate := NewGate(nil)
	if gate.Allowed(101) {
		t.Error("empty gate must deny every user")
	}
}
