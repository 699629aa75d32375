package carpolling

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func testToken(t *testing.T, subject string, expiry time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiry),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestSessionClaims(t *testing.T) {
	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	session := NewSession(New("http://localhost:8082"), testToken(t, "u1", expiry))

	claims, err := session.Claims()
	if err != nil {
		t.Fatalf("claims: %v", err)
	}
	sub, err := claims.GetSubject()
	if err != nil || sub != "u1" {
		t.Fatalf("expected subject u1, got %q (%v)", sub, err)
	}

	got, ok := session.ExpiresAt()
	if !ok {
		t.Fatal("expected an expiry")
	}
	if !got.Equal(expiry) {
		t.Fatalf("expected expiry %v, got %v", expiry, got)
	}
}

func TestSessionOpaqueToken(t *testing.T) {
	session := NewSession(New("http://localhost:8082"), "abc")

	if _, err := session.Claims(); err == nil {
		t.Fatal("expected claim parsing of an opaque token to fail")
	}
	if _, ok := session.ExpiresAt(); ok {
		t.Fatal("expected no expiry from an opaque token")
	}
}

func TestSessionSetToken(t *testing.T) {
	session := NewSession(New("http://localhost:8082"), "old")
	session.SetToken("new")
	if session.Token() != "new" {
		t.Fatalf("expected replaced token, got %q", session.Token())
	}
}
