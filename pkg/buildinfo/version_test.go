package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	old := Version
	Version = "v9.9.9"
	defer func() { Version = old }()

	if !strings.Contains(String(), "orthonet v9.9.9") {
		t.Errorf("String() = %q", String())
	}
	if !strings.Contains(Template(), "v9.9.9") {
		t.Errorf("Template() = %q", Template())
	}
	if UserAgent() != "orthonet/v9.9.9" {
		t.Errorf("UserAgent() = %q", UserAgent())
	}
}
