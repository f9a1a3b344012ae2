package token

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestIssueAndValidate(t *testing.T) {
	svc := NewService("test-signing-key", "visa-test", 24*time.Hour)
	subjectID := uuid.NewString()

	signed, err := svc.Issue(subjectID, "maria@example.com", KindUser, 0)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	claims, err := svc.Validate(signed)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.SubjectID != subjectID {
		t.Errorf("expected subject %s, got %s", subjectID, claims.SubjectID)
	}
	if claims.Kind != KindUser {
		t.Errorf("expected kind user, got %s", claims.Kind)
	}
	if claims.Email != "maria@example.com" {
		t.Errorf("unexpected email claim %s", claims.Email)
	}
}

func TestValidateExpired(t *testing.T) {
	svc := NewService("test-signing-key", "visa-test", 24*time.Hour)

	signed, err := svc.Issue(uuid.NewString(), "maria@example.com", KindUser, time.Millisecond)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	_, err = svc.Validate(signed)
	if !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestValidateWrongKey(t *testing.T) {
	svc := NewService("test-signing-key", "visa-test", 24*time.Hour)
	other := NewService("another-key", "visa-test", 24*time.Hour)

	signed, err := svc.Issue(uuid.NewString(), "maria@example.com", KindAdmin, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	_, err = other.Validate(signed)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestValidateGarbage(t *testing.T) {
	svc := NewService("test-signing-key", "visa-test", 24*time.Hour)

	_, err := svc.Validate("not-a-token")
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}
