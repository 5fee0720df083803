package auth

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "unit-test-signing-secret"

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc, err := NewTokenService(testSecret, time.Minute)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}

	token, err := svc.Issue("alice@example.com", "alice")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	email, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if email != "alice@example.com" {
		t.Errorf("Verify() subject = %q, want %q", email, "alice@example.com")
	}
}

func TestTokenService_VerifyRejects(t *testing.T) {
	svc, err := NewTokenService(testSecret, time.Minute)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	otherSvc, err := NewTokenService("a-different-signing-key", time.Minute)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	expiredSvc, err := NewTokenService(testSecret, time.Nanosecond)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}

	good, _ := svc.Issue("alice@example.com", "alice")
	foreign, _ := otherSvc.Issue("alice@example.com", "alice")
	expired, _ := expiredSvc.Issue("alice@example.com", "alice")
	time.Sleep(10 * time.Millisecond)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"wrong secret", foreign},
		{"expired", expired},
		{"truncated", good[:len(good)-5]},
		{"tampered payload", tamper(good)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Verify(tt.token); err == nil {
				t.Errorf("Verify(%s) succeeded, want error", tt.name)
			}
		})
	}
}

// tamper flips a character in the payload segment so the signature no
// longer matches.
func tamper(token string) string {
	parts := strings.Split(token, ".")
	if len(parts) != 3 || len(parts[1]) == 0 {
		return token
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	parts[1] = string(payload)
	return strings.Join(parts, ".")
}

func TestNewTokenService_Validation(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		ttl    time.Duration
	}{
		{"short secret", "short", time.Minute},
		{"zero ttl", testSecret, 0},
		{"negative ttl", testSecret, -time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTokenService(tt.secret, tt.ttl); err == nil {
				t.Errorf("NewTokenService(%q, %v) succeeded, want error", tt.secret, tt.ttl)
			}
		})
	}
}
