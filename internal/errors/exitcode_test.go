package errors

import (
	stderrors "errors"
	"testing"
)

func TestExitCodeFor(t *testing.T) {
	cases := []struct {
		code Code
		want ExitCode
	}{
		{CodeSecretNotFound, ExitCredential},
		{CodeSecretUnreadable, ExitCredential},
		{CodeCfgNotFound, ExitConfig},
		{CodeCfgInvalid, ExitConfig},
		{CodeSSHDialFailed, ExitDial},
		{CodeSSHConnectTimeout, ExitConnectTimeout},
		{CodeSSHAuthFailed, ExitAuth},
		{CodeSSHHostKeyMismatch, ExitHostKey},
		{CodeSSHHostKeyUnknown, ExitHostKey},
		{CodeExecTimeout, ExitExecTimeout},
		{CodeExecFailed, ExitInternal},
		{CodeInternal, ExitInternal},
		{Code("UNKNOWN_CODE"), ExitInternal}, // unknown code
	}
	for _, tc := range cases {
		if got := ExitCodeFor(tc.code); got != tc.want {
			t.Errorf("ExitCodeFor(%s)=%d want %d", tc.code, got, tc.want)
		}
	}
}

func TestExitCodeFor_NetworkFailuresAreDistinct(t *testing.T) {
	seen := map[ExitCode]Code{}
	for _, c := range []Code{CodeSSHDialFailed, CodeSSHConnectTimeout, CodeSSHAuthFailed, CodeSSHHostKeyMismatch, CodeExecTimeout} {
		ec := ExitCodeFor(c)
		if ec == ExitOK || ec == ExitCredential {
			t.Errorf("%s maps to reserved exit code %d", c, ec)
		}
		if prev, ok := seen[ec]; ok {
			t.Errorf("%s and %s share exit code %d", prev, c, ec)
		}
		seen[ec] = c
	}
}

func TestXError_Error(t *testing.T) {
	// Without cause
	xe := New(CodeCfgInvalid, "test message", nil)
	expected := "SSHRUN_CFG_INVALID: test message"
	if xe.Error() != expected {
		t.Errorf("Error()=%q, want %q", xe.Error(), expected)
	}

	// With cause
	cause := stderrors.New("underlying error")
	xe = Wrap(CodeExecFailed, "remote command failed", nil, cause)
	expected = "SSHRUN_EXEC_FAILED: remote command failed: underlying error"
	if xe.Error() != expected {
		t.Errorf("Error()=%q, want %q", xe.Error(), expected)
	}

	// Nil error
	var nilErr *XError
	if nilErr.Error() != "" {
		t.Errorf("nil XError.Error() should return empty string")
	}
}

func TestXError_Unwrap(t *testing.T) {
	cause := stderrors.New("cause")
	xe := Wrap(CodeExecFailed, "msg", nil, cause)
	if xe.Unwrap() != cause {
		t.Error("Unwrap should return cause")
	}

	xe2 := New(CodeCfgInvalid, "msg", nil)
	if xe2.Unwrap() != nil {
		t.Error("Unwrap should return nil when no cause")
	}
}

func TestXError_Details(t *testing.T) {
	details := map[string]any{"host": "10.0.0.1", "port": 22}
	xe := New(CodeSSHDialFailed, "msg", details)
	if xe.Details["host"] != "10.0.0.1" {
		t.Error("Details should contain host")
	}
	if xe.Details["port"] != 22 {
		t.Error("Details should contain port")
	}
}

func TestAs(t *testing.T) {
	xe := New(CodeCfgInvalid, "test", nil)
	got, ok := As(xe)
	if !ok || got != xe {
		t.Error("As should return XError")
	}

	// Wrapped error
	wrapped := stderrors.Join(stderrors.New("prefix"), xe)
	got, ok = As(wrapped)
	if !ok || got != xe {
		t.Error("As should unwrap to find XError")
	}

	// Non-XError
	_, ok = As(stderrors.New("plain error"))
	if ok {
		t.Error("As should return false for non-XError")
	}
}

func TestAsOrWrap(t *testing.T) {
	xe := New(CodeSSHAuthFailed, "auth", nil)
	if got := AsOrWrap(xe); got != xe {
		t.Errorf("AsOrWrap should return the same XError")
	}
	got := AsOrWrap(stderrors.New("boom"))
	if got.Code != CodeInternal {
		t.Errorf("AsOrWrap code=%s want %s", got.Code, CodeInternal)
	}
}

func TestAllCodes(t *testing.T) {
	codes := AllCodes()
	if len(codes) != 12 {
		t.Errorf("AllCodes() should return 12 codes, got %d", len(codes))
	}

	// Check for duplicates
	seen := make(map[Code]bool)
	for _, c := range codes {
		if seen[c] {
			t.Errorf("Duplicate code: %s", c)
		}
		seen[c] = true
	}
}
