package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var fullNamePattern = regexp.MustCompile(`^([A-Za-z0-9_.-]+)/([A-Za-z0-9_.-]+)$`)

// ParseFullName extracts the owner/name natural key from a repository
// reference, which may be a full GitHub URL or a bare "owner/name" pair.
func ParseFullName(ref string) (owner, name string, err error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", "", fmt.Errorf("repository reference is empty")
	}

	ref = strings.TrimPrefix(ref, "https://")
	ref = strings.TrimPrefix(ref, "http://")
	ref = strings.TrimPrefix(ref, "www.")
	ref = strings.TrimPrefix(ref, "github.com/")
	ref = strings.TrimSuffix(ref, "/")
	ref = strings.TrimSuffix(ref, ".git")

	m := fullNamePattern.FindStringSubmatch(ref)
	if m == nil {
		return "", "", fmt.Errorf("invalid GitHub repository reference: %s", ref)
	}

	return m[1], m[2], nil
}
