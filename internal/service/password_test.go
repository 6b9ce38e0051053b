package service

import (
	"strings"
	"testing"

	apperrors "github.com/aurora-digital/identity/internal/errors"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "valid", password: "Sup3rSecret", wantErr: false},
		{name: "too short", password: "Ab1", wantErr: true},
		{name: "no uppercase", password: "sup3rsecret", wantErr: true},
		{name: "no lowercase", password: "SUP3RSECRET", wantErr: true},
		{name: "no digit", password: "SuperSecret", wantErr: true},
		{name: "exactly eight", password: "Abcdef12", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr && !apperrors.ErrWeakPassword.Is(err) {
				t.Errorf("ValidatePassword(%q) = %v, want ErrWeakPassword", tt.password, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidatePassword(%q) = %v, want nil", tt.password, err)
			}
		})
	}
}

func TestHashPasswordTruncation(t *testing.T) {
	// bcrypt ignores bytes past 72; both sides of the comparison must
	// truncate identically or long passwords would never verify.
	long := strings.Repeat("A", 70) + "a1" + strings.Repeat("x", 30)

	hash, err := hashPassword(long)
	if err != nil {
		t.Fatalf("hashPassword() error = %v", err)
	}

	if !checkPassword(hash, long) {
		t.Error("long password does not verify against its own hash")
	}

	// Everything past byte 72 is not part of the effective password.
	sameSeventyTwo := long[:72] + "completely-different-tail"
	if !checkPassword(hash, sameSeventyTwo) {
		t.Error("passwords sharing the first 72 bytes should verify identically")
	}

	if checkPassword(hash, "Wr0ngPassword") {
		t.Error("wrong password verified")
	}
}
