package password

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	Cost = bcrypt.MinCost
	defer func() { Cost = DefaultCost }()

	hash, err := Hash("student123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "student123" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !Verify("student123", hash) {
		t.Fatal("expected correct password to verify")
	}
	if Verify("student124", hash) {
		t.Fatal("expected wrong password to be rejected")
	}
}

func TestHashTokenIsStable(t *testing.T) {
	if HashToken("abc") != HashToken("abc") {
		t.Fatal("expected identical hashes for identical tokens")
	}
	if HashToken("abc") == HashToken("abd") {
		t.Fatal("expected different hashes for different tokens")
	}
}

func TestValidatePassword(t *testing.T) {
	if ValidatePassword("12345") {
		t.Fatal("expected short password to be rejected")
	}
	if !ValidatePassword("123456") {
		t.Fatal("expected six characters to be accepted")
	}
}

func TestDecoyHashMatchesCost(t *testing.T) {
	h := decoyHash(bcrypt.MinCost + 1)
	cost, err := bcrypt.Cost(h)
	if err != nil || cost != bcrypt.MinCost+1 {
		t.Fatalf("expected decoy hash at cost %d, got %d (%v)", bcrypt.MinCost+1, cost, err)
	}
	if string(decoyHash(bcrypt.MinCost+1)) != string(h) {
		t.Fatal("expected the decoy hash to be generated once per cost")
	}

	Cost = bcrypt.MinCost
	defer func() { Cost = DefaultCost }()
	VerifyAbsent("anything")
	if _, ok := decoyHashes[bcrypt.MinCost]; !ok {
		t.Fatal("expected VerifyAbsent to compare against a hash at the current cost")
	}
}
