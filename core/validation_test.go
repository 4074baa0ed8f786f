package core

import (
	"errors"
	"math"
	"testing"
)

func TestValidateProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider *Provider
		wantErr  error
	}{
		{
			name:     "valid provider",
			provider: &Provider{ID: 1, Name: "Test Plumber", Rating: 4.5},
			wantErr:  nil,
		},
		{
			name:     "valid provider with ID 0",
			provider: &Provider{ID: 0, Rating: 3},
			wantErr:  nil,
		},
		{
			name:     "valid provider on rating bounds",
			provider: &Provider{ID: 2, Rating: 5},
			wantErr:  nil,
		},
		{
			name:     "valid provider with empty text fields",
			provider: &Provider{ID: 3, Rating: 0},
			wantErr:  nil,
		},
		{
			name:     "nil provider",
			provider: nil,
			wantErr:  ErrInvalidProvider,
		},
		{
			name:     "negative ID",
			provider: &Provider{ID: -1, Rating: 4},
			wantErr:  ErrNegativeID,
		},
		{
			name:     "rating above range",
			provider: &Provider{ID: 1, Rating: 5.5},
			wantErr:  ErrRatingOutOfRange,
		},
		{
			name:     "rating below range",
			provider: &Provider{ID: 1, Rating: -0.1},
			wantErr:  ErrRatingOutOfRange,
		},
		{
			name:     "NaN rating",
			provider: &Provider{ID: 1, Rating: math.NaN()},
			wantErr:  ErrRatingOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProvider(tt.provider)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateProvider() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Errorf("ValidateProvider() error = nil, want %v", tt.wantErr)
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateProvider() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidProvider) {
				t.Errorf("ValidateProvider() error = %v, want wrapped %v", err, ErrInvalidProvider)
			}
		})
	}
}

func TestIsValidRating(t *testing.T) {
	tests := []struct {
		rating float64
		want   bool
	}{
		{0, true},
		{2.5, true},
		{5, true},
		{5.01, false},
		{-1, false},
		{math.Inf(1), false},
		{math.NaN(), false},
	}

	for _, tt := range tests {
		if got := IsValidRating(tt.rating); got != tt.want {
			t.Errorf("IsValidRating(%v) = %v, want %v", tt.rating, got, tt.want)
		}
	}
}

func TestValidateTopN(t *testing.T) {
	if err := ValidateTopN(1); err != nil {
		t.Errorf("ValidateTopN(1) error = %v, want nil", err)
	}
	if err := ValidateTopN(0); !errors.Is(err, ErrInvalidTopN) {
		t.Errorf("ValidateTopN(0) error = %v, want %v", err, ErrInvalidTopN)
	}
	if err := ValidateTopN(-3); !errors.Is(err, ErrInvalidTopN) {
		t.Errorf("ValidateTopN(-3) error = %v, want %v", err, ErrInvalidTopN)
	}
}
