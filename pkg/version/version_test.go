package version

import (
	"regexp"
	"testing"
)

func TestVersion(t *testing.T) {
	if !regexp.MustCompile(`^v\d+\.\d+\.\d+`).MatchString(Version) {
		t.Errorf("Version = %q, want a semantic version with a v prefix", Version)
	}
}
