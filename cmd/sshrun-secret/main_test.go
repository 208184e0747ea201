package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/zalando/go-keyring"

	"github.com/zx06/sshrun/internal/errors"
	"github.com/zx06/sshrun/internal/secret"
)

func runWith(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(args, environ{
		Keyring: secret.DefaultKeyring(),
		Stdin:   strings.NewReader(stdin),
		Stdout:  &out,
		Stderr:  &errOut,
	})
	return code, out.String(), errOut.String()
}

func TestSetAndDelete(t *testing.T) {
	keyring.MockInit()

	code, out, stderr := runWith(t, "  hunter2 \n", "set", "lab")
	if code != 0 {
		t.Fatalf("set exit=%d stderr=%q", code, stderr)
	}
	if !strings.Contains(out, `"lab"`) {
		t.Errorf("stdout=%q", out)
	}
	got, err := keyring.Get(secret.ServiceName, "lab")
	if err != nil || got != "hunter2" {
		t.Fatalf("keyring.Get = %q, %v", got, err)
	}
	if strings.Contains(out+stderr, "hunter2") {
		t.Error("password must not be echoed")
	}

	if code, _, stderr := runWith(t, "", "delete", "lab"); code != 0 {
		t.Fatalf("delete exit=%d stderr=%q", code, stderr)
	}
	if _, err := keyring.Get(secret.ServiceName, "lab"); err == nil {
		t.Error("password should be gone after delete")
	}
}

func TestSetDefaultAccount(t *testing.T) {
	keyring.MockInit()

	if code, _, stderr := runWith(t, "pw\n", "set"); code != 0 {
		t.Fatalf("exit=%d stderr=%q", code, stderr)
	}
	if got, err := keyring.Get(secret.ServiceName, defaultAccount); err != nil || got != "pw" {
		t.Errorf("keyring.Get = %q, %v", got, err)
	}
}

func TestSetEmptyPassword(t *testing.T) {
	keyring.MockInit()

	code, _, stderr := runWith(t, "\n", "set")
	if code != int(errors.ExitCredential) {
		t.Fatalf("exit=%d want %d", code, errors.ExitCredential)
	}
	if !strings.Contains(stderr, string(errors.CodeSecretNotFound)) {
		t.Errorf("stderr=%q", stderr)
	}
}

func TestDeleteMissingAccount(t *testing.T) {
	keyring.MockInit()

	if code, _, _ := runWith(t, "", "delete", "nope"); code != int(errors.ExitCredential) {
		t.Errorf("exit=%d want %d", code, errors.ExitCredential)
	}
}

func TestTooManyArgs(t *testing.T) {
	keyring.MockInit()

	if code, _, _ := runWith(t, "", "set", "a", "b"); code != int(errors.ExitConfig) {
		t.Errorf("exit=%d want %d", code, errors.ExitConfig)
	}
}
