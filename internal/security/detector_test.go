package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssess(t *testing.T) {
	d := NewDetector()

	tests := []struct {
		name        string
		action      string
		wantType    ActionType
		wantBlocked bool
		wantConfirm bool
	}{
		{"plain click is safe", "click the About link", ActionSafe, false, false},
		{"delete needs confirmation", "click the Delete button", ActionDelete, false, true},
		{"remove needs confirmation", "remove item from list", ActionDelete, false, true},
		{"unsubscribe matches subscribe first", "unsubscribe from newsletter", ActionPayment, false, true},
		{"send needs confirmation", "click Send", ActionSend, false, true},
		{"submit needs confirmation", "submit the form", ActionSend, false, true},
		{"payment needs confirmation", "click the Pay now button", ActionPayment, false, true},
		{"checkout needs confirmation", "proceed to checkout", ActionPayment, false, true},
		{"add to cart only warns", "add to cart", ActionPayment, false, false},
		{"password is blocked", "type into the password field", ActionPassword, true, false},
		{"sign in is blocked", "click Sign In", ActionPassword, true, false},
		{"mfa code is blocked", "enter the verification code", ActionMFA, true, false},
		{"2fa is blocked", "enter 2FA token", ActionMFA, true, false},
		{"case insensitive", "CLICK THE DELETE BUTTON", ActionDelete, false, true},
		{"payment beats send", "submit payment", ActionPayment, false, true},
		{"blocked beats payment", "pay with saved password", ActionPassword, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Assess(tt.action)
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantBlocked, got.Blocked)
			assert.Equal(t, tt.wantConfirm, got.RequiresConfirmation)
			if got.Type != ActionSafe {
				assert.NotEmpty(t, got.Matched)
			}
			if got.RequiresConfirmation {
				assert.NotEmpty(t, got.Prompt)
			}
		})
	}
}

func TestCheckPage(t *testing.T) {
	d := NewDetector()

	t.Run("payment page flagged", func(t *testing.T) {
		warnings := d.CheckPage("https://shop.example/checkout", "Checkout")
		assert.Len(t, warnings, 1)
		assert.Equal(t, ActionPayment, warnings[0].Type)
	})

	t.Run("login url flagged as blocked", func(t *testing.T) {
		warnings := d.CheckPage("https://example.com/login", "Welcome")
		assert.Len(t, warnings, 1)
		assert.True(t, warnings[0].Blocked)
	})

	t.Run("ordinary page is clean", func(t *testing.T) {
		assert.Empty(t, d.CheckPage("https://example.com/about", "About us"))
	})
}
