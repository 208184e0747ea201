//go:build !windows

package secret

import (
	"testing"

	"github.com/zalando/go-keyring"
)

func TestDefaultKeyringCRUD(t *testing.T) {
	keyring.MockInit()

	kr := DefaultKeyring()
	if _, ok := kr.(*osKeyring); !ok {
		t.Fatalf("expected *osKeyring, got %T", kr)
	}

	account := "acct"
	value := "secret"

	if err := kr.Set(ServiceName, account, value); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := kr.Get(ServiceName, account)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != value {
		t.Fatalf("Get returned %q, want %q", got, value)
	}

	if err := kr.Delete(ServiceName, account); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := kr.Get(ServiceName, account); err == nil {
		t.Fatal("expected error after Delete")
	}
}
