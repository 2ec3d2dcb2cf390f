// Package security classifies interaction targets before the engine
// acts on them: destructive actions need user confirmation, credential
// and MFA automation is refused outright.
package security

import (
	"fmt"
	"strings"
)

type ActionType string

const (
	ActionSafe     ActionType = "safe"
	ActionDelete   ActionType = "delete"
	ActionSend     ActionType = "send"
	ActionPayment  ActionType = "payment"
	ActionPassword ActionType = "password"
	ActionMFA      ActionType = "mfa"
)

// Assessment is the result of classifying one action description.
type Assessment struct {
	Type                 ActionType
	Matched              string
	Blocked              bool
	RequiresConfirmation bool
	Reason               string
	Prompt               string
}

// Detector matches action descriptions against pattern lists. Matching
// is case-insensitive substring search; blocked categories are checked
// before confirmable ones, and payment beats send beats delete.
type Detector struct {
	deletePatterns   []string
	sendPatterns     []string
	paymentPatterns  []string
	passwordPatterns []string
	mfaPatterns      []string
}

func NewDetector() *Detector {
	return &Detector{
		deletePatterns: []string{
			"delete", "remove", "erase", "clear", "trash", "discard",
			"destroy", "wipe", "purge", "unsubscribe", "deactivate",
			"cancel account", "close account",
		},
		sendPatterns: []string{
			"send", "submit", "post", "publish", "share", "forward",
			"reply", "compose", "tweet", "message", "email", "broadcast",
		},
		paymentPatterns: []string{
			"pay", "purchase", "buy", "checkout", "confirm order",
			"place order", "complete order", "payment", "billing",
			"credit card", "debit card", "subscribe", "donate",
			"transfer money", "wire transfer", "add to cart",
			"proceed to checkout",
		},
		passwordPatterns: []string{
			"password", "passwd", "passcode", "pin code", "secret",
			"credential", "login", "sign in", "sign up", "register",
			"create account", "authentication",
		},
		mfaPatterns: []string{
			"mfa", "2fa", "two-factor", "two factor", "verification code",
			"otp", "one-time", "authenticator", "security code", "sms code",
		},
	}
}

// Assess classifies one action description.
func (d *Detector) Assess(action string) Assessment {
	lower := strings.ToLower(action)

	if pattern, ok := matchAny(lower, d.passwordPatterns); ok {
		return Assessment{
			Type:    ActionPassword,
			Matched: pattern,
			Blocked: true,
			Reason:  fmt.Sprintf("password/login automation blocked: %q detected", pattern),
		}
	}
	if pattern, ok := matchAny(lower, d.mfaPatterns); ok {
		return Assessment{
			Type:    ActionMFA,
			Matched: pattern,
			Blocked: true,
			Reason:  fmt.Sprintf("MFA automation blocked: %q detected", pattern),
		}
	}

	if pattern, ok := matchAny(lower, d.paymentPatterns); ok {
		// Adding to a cart spends nothing yet, so it only warns.
		if pattern == "add to cart" {
			return Assessment{
				Type:    ActionPayment,
				Matched: pattern,
				Reason:  fmt.Sprintf("shopping action detected: %q", pattern),
			}
		}
		return Assessment{
			Type:                 ActionPayment,
			Matched:              pattern,
			RequiresConfirmation: true,
			Reason:               fmt.Sprintf("payment action detected: %q", pattern),
			Prompt:               "This is a PAYMENT action. Confirm purchase?",
		}
	}

	if pattern, ok := matchAny(lower, d.sendPatterns); ok {
		return Assessment{
			Type:                 ActionSend,
			Matched:              pattern,
			RequiresConfirmation: true,
			Reason:               fmt.Sprintf("send action detected: %q", pattern),
			Prompt:               "This will SEND/PUBLISH content. Continue?",
		}
	}

	if pattern, ok := matchAny(lower, d.deletePatterns); ok {
		return Assessment{
			Type:                 ActionDelete,
			Matched:              pattern,
			RequiresConfirmation: true,
			Reason:               fmt.Sprintf("deletion action detected: %q", pattern),
			Prompt:               "This will DELETE data. Continue?",
		}
	}

	return Assessment{Type: ActionSafe, Reason: "action is safe to proceed"}
}

// CheckPage flags pages whose URL or title suggests the agent is on a
// payment or login flow. The warnings are advisory.
func (d *Detector) CheckPage(url, title string) []Assessment {
	urlLower := strings.ToLower(url)
	titleLower := strings.ToLower(title)

	var warnings []Assessment

	for _, indicator := range []string{"checkout", "payment", "billing", "order summary"} {
		if strings.Contains(urlLower, indicator) || strings.Contains(titleLower, indicator) {
			warnings = append(warnings, Assessment{
				Type:    ActionPayment,
				Matched: indicator,
				Reason:  fmt.Sprintf("currently on a payment page: %q", indicator),
			})
			break
		}
	}

	for _, indicator := range []string{"login", "sign in", "signin", "auth"} {
		if strings.Contains(urlLower, indicator) {
			warnings = append(warnings, Assessment{
				Type:    ActionPassword,
				Matched: indicator,
				Blocked: true,
				Reason:  "login page detected, manual authentication required",
			})
			break
		}
	}

	return warnings
}

func matchAny(action string, patterns []string) (string, bool) {
	for _, pattern := range patterns {
		if strings.Contains(action, pattern) {
			return pattern, true
		}
	}
	return "", false
}
