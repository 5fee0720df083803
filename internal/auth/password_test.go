package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordService_HashAndVerify(t *testing.T) {
	svc := NewPasswordServiceWithCost(bcrypt.MinCost)

	hash, err := svc.Hash("hunter2")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "hunter2" {
		t.Fatal("Hash() returned the plaintext")
	}

	if !svc.Verify("hunter2", hash) {
		t.Error("Verify() = false for the original password")
	}
	if svc.Verify("hunter3", hash) {
		t.Error("Verify() = true for a wrong password")
	}
	if svc.Verify("hunter2", "not-a-bcrypt-hash") {
		t.Error("Verify() = true for a malformed hash")
	}
}

func TestPasswordService_HashesDiffer(t *testing.T) {
	svc := NewPasswordServiceWithCost(bcrypt.MinCost)

	a, err := svc.Hash("same password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	b, err := svc.Hash("same password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if a == b {
		t.Error("Hash() produced identical hashes; salt is missing")
	}
}

func TestPasswordService_RejectsOverlongPassword(t *testing.T) {
	svc := NewPasswordServiceWithCost(bcrypt.MinCost)

	if _, err := svc.Hash(strings.Repeat("x", 73)); err == nil {
		t.Error("Hash() accepted a password over the bcrypt length limit")
	}
}
