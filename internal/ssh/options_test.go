package ssh

import (
	"testing"

	"github.com/zx06/sshrun/internal/errors"
)

func TestParseHostKeyPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    HostKeyPolicy
		wantErr bool
	}{
		{in: "strict", want: PolicyStrict},
		{in: "tofu", want: PolicyTOFU},
		{in: "trust-on-first-use", want: PolicyTOFU},
		{in: "", wantErr: true},
		{in: "yolo", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, xe := ParseHostKeyPolicy(tt.in)
			if tt.wantErr {
				if xe == nil || xe.Code != errors.CodeCfgInvalid {
					t.Fatalf("expected %s, got %v", errors.CodeCfgInvalid, xe)
				}
				return
			}
			if xe != nil {
				t.Fatalf("unexpected err: %v", xe)
			}
			if got != tt.want {
				t.Errorf("got %q want %q", got, tt.want)
			}
		})
	}
}

func TestDefaultKnownHostsPath(t *testing.T) {
	p := DefaultKnownHostsPath()
	if p != "~/.ssh/known_hosts" {
		t.Fatalf("unexpected: %q", p)
	}
}
