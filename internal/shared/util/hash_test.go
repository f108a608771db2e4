package util

import "testing"

func TestHashOwnerKey(t *testing.T) {
	id := "visitor-12345"
	got := HashOwnerKey(id)
	if got != HashOwnerKey(id) {
		t.Fatalf("expected stable hash, got %s", got)
	}
	if got == HashOwnerKey("visitor-12346") {
		t.Fatalf("expected different owners to hash differently")
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
	if len(got) != ownerKeyLen {
		t.Fatalf("expected %d hex characters, got %d", ownerKeyLen, len(got))
	}
}
