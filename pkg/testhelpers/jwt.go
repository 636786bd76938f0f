// Package testhelpers provides utilities for testing campaign-engine components.
package testhelpers

import (
	"testing"
	"time"

	"github.com/ekaya-inc/campaign-engine/pkg/auth"
	"github.com/ekaya-inc/campaign-engine/pkg/models"
)

// TestJWTSecret signs tokens issued by NewTestTokenIssuer.
const TestJWTSecret = "test-jwt-secret"

// NewTestTokenIssuer returns an issuer with a fixed secret and a one hour TTL.
func NewTestTokenIssuer() *auth.TokenIssuer {
	return auth.NewTokenIssuer(TestJWTSecret, "campaign-engine-test", time.Hour)
}

// BearerFor issues a token for user and returns the Authorization header value.
func BearerFor(t *testing.T, issuer *auth.TokenIssuer, user *models.User) string {
	t.Helper()

	token, _, err := issuer.Issue(user)
	if err != nil {
		t.Fatalf("failed to issue test token: %v", err)
	}
	return "Bearer " + token
}
