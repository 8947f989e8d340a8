package bcrypt

import "testing"

func TestHashAndComparePassword(t *testing.T) {
	b := NewWithCost(4)

	hash, err := b.HashPassword("s3cret-password")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if hash == "s3cret-password" {
		t.Fatal("hash equals the plain password")
	}

	if err := b.ComparePassword(hash, "s3cret-password"); err != nil {
		t.Errorf("ComparePassword rejected the correct password: %v", err)
	}
}

func TestComparePasswordMismatch(t *testing.T) {
	b := NewWithCost(4)

	hash, err := b.HashPassword("s3cret-password")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if err := b.ComparePassword(hash, "wrong-password"); err == nil {
		t.Error("ComparePassword accepted a wrong password")
	}
}
