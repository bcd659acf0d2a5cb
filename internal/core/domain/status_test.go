package domain

import (
	"testing"
	"time"
)

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name       string
		isRevoked  bool
		expiration *time.Time
		verified   *time.Time
		want       Status
	}{
		{
			name: "unverified student is pending",
			want: StatusPending,
		},
		{
			name:     "verified student is verified",
			verified: &past,
			want:     StatusVerified,
		},
		{
			name:       "past expiration overrides verified",
			expiration: &past,
			verified:   &past,
			want:       StatusExpired,
		},
		{
			name:       "future expiration does not expire",
			expiration: &future,
			verified:   &past,
			want:       StatusVerified,
		},
		{
			name:       "expiration exactly now is not expired",
			expiration: &now,
			verified:   &past,
			want:       StatusVerified,
		},
		{
			name:      "revoked overrides everything",
			isRevoked: true,
			verified:  &past,
			want:      StatusRevoked,
		},
		{
			name:       "revoked overrides expired",
			isRevoked:  true,
			expiration: &past,
			verified:   &past,
			want:       StatusRevoked,
		},
		{
			name:       "expired without verification",
			expiration: &past,
			want:       StatusExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveStatus(tt.isRevoked, tt.expiration, tt.verified, now)
			if got != tt.want {
				t.Errorf("DeriveStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDeriveStatusIsPure(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	expiration := now.Add(-time.Hour)
	verified := now.Add(-48 * time.Hour)

	// Same inputs at a later observation time flip expired, nothing is stored
	if got := DeriveStatus(false, &expiration, &verified, now.Add(-2*time.Hour)); got != StatusVerified {
		t.Errorf("before expiration: got %q, want %q", got, StatusVerified)
	}
	if got := DeriveStatus(false, &expiration, &verified, now); got != StatusExpired {
		t.Errorf("after expiration: got %q, want %q", got, StatusExpired)
	}
}
