package entity

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
)

func TestNewBid_PitchBoundary(t *testing.T) {
	short := strings.Repeat("a", 19)
	if _, err := NewBid(uuid.New(), uuid.New(), 100, "EUR", 3, short); !apperror.IsValidation(err) {
		t.Fatalf("expected validation error for 19 chars, got %v", err)
	}

	exact := strings.Repeat("a", 20)
	bid, err := NewBid(uuid.New(), uuid.New(), 100, "EUR", 3, exact)
	if err != nil {
		t.Fatalf("unexpected error for 20 chars: %v", err)
	}
	if bid.Pitch != exact {
		t.Errorf("expected pitch to be kept as is")
	}
}

func TestNewBid_PitchCountsRunesAfterTrim(t *testing.T) {
	pitch := "   " + strings.Repeat("я", 19) + "   "
	if _, err := NewBid(uuid.New(), uuid.New(), 100, "EUR", 3, pitch); !apperror.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	pitch = strings.Repeat("я", 20)
	if _, err := NewBid(uuid.New(), uuid.New(), 100, "EUR", 3, pitch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewBid_RejectsBadTerms(t *testing.T) {
	pitch := strings.Repeat("x", 30)
	if _, err := NewBid(uuid.New(), uuid.New(), 0, "EUR", 3, pitch); !apperror.IsValidation(err) {
		t.Errorf("expected validation error for zero amount, got %v", err)
	}
	if _, err := NewBid(uuid.New(), uuid.New(), 10, "EUR", 0, pitch); !apperror.IsValidation(err) {
		t.Errorf("expected validation error for zero delivery days, got %v", err)
	}
}

func TestBid_AcceptTwice(t *testing.T) {
	bid, err := NewBid(uuid.New(), uuid.New(), 100, "EUR", 3, strings.Repeat("x", 30))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := bid.Accept(bid.CreatedAt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := bid.Reject(bid.CreatedAt); !apperror.IsConflict(err) {
		t.Errorf("expected conflict, got %v", err)
	}
}
