package auth

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_Hash(t *testing.T) {
	hasher := NewPasswordHasherWithCost(bcrypt.MinCost)

	tests := []struct {
		name     string
		password string
	}{
		{
			name:     "simple password",
			password: "secret123",
		},
		{
			name:     "complex password",
			password: "P@ssw0rd!#$%^&*()",
		},
		{
			name:     "long password",
			password: "this-is-a-very-long-password-that-should-still-work-correctly",
		},
		{
			name:     "unicode password",
			password: "密码123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			digest, err := hasher.Hash(tt.password)
			if err != nil {
				t.Fatalf("Hash() error = %v", err)
			}

			if digest == "" {
				t.Error("Hash() returned empty string")
			}

			// Digest must not be the plaintext
			if digest == tt.password {
				t.Error("Hash() returned the original password")
			}

			if !hasher.Verify(tt.password, digest) {
				t.Error("Verify() returned false for correct password")
			}
		})
	}
}

func TestPasswordHasher_Verify(t *testing.T) {
	hasher := NewPasswordHasherWithCost(bcrypt.MinCost)
	password := "testpassword123"

	digest, err := hasher.Hash(password)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	tests := []struct {
		name     string
		password string
		digest   string
		want     bool
	}{
		{
			name:     "correct password",
			password: password,
			digest:   digest,
			want:     true,
		},
		{
			name:     "wrong password",
			password: "wrongpassword",
			digest:   digest,
			want:     false,
		},
		{
			name:     "empty password",
			password: "",
			digest:   digest,
			want:     false,
		},
		{
			name:     "similar password",
			password: password + "1",
			digest:   digest,
			want:     false,
		},
		{
			name:     "malformed digest",
			password: password,
			digest:   "not-a-bcrypt-digest",
			want:     false,
		},
		{
			name:     "empty digest",
			password: password,
			digest:   "",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := hasher.Verify(tt.password, tt.digest)
			if got != tt.want {
				t.Errorf("Verify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPasswordHasher_UniqueHashes(t *testing.T) {
	hasher := NewPasswordHasherWithCost(bcrypt.MinCost)
	password := "samepassword"

	digest1, err := hasher.Hash(password)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	digest2, err := hasher.Hash(password)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	// Same password must produce different digests (salted)
	if digest1 == digest2 {
		t.Error("Hash() produced identical digests for the same password")
	}

	// Both digests must verify
	if !hasher.Verify(password, digest1) {
		t.Error("Verify() failed for digest1")
	}
	if !hasher.Verify(password, digest2) {
		t.Error("Verify() failed for digest2")
	}
}

func TestPasswordHasher_BackendFailure(t *testing.T) {
	// bcrypt rejects costs above the maximum; the failure must surface as
	// an infrastructure error, never a digest.
	hasher := NewPasswordHasherWithCost(bcrypt.MaxCost + 1)

	_, err := hasher.Hash("password123")
	if err == nil {
		t.Fatal("Hash() should fail for an invalid cost")
	}
	if !errors.Is(err, ErrHashingBackend) {
		t.Errorf("expected ErrHashingBackend, got %v", err)
	}
}
