package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFullName(t *testing.T) {
	tests := []struct {
		name     string
		ref      string
		owner    string
		repo     string
		hasError bool
	}{
		{
			name:  "full URL",
			ref:   "https://github.com/test-owner/test-repo",
			owner: "test-owner",
			repo:  "test-repo",
		},
		{
			name:  "URL with trailing slash",
			ref:   "https://github.com/test-owner/test-repo/",
			owner: "test-owner",
			repo:  "test-repo",
		},
		{
			name:  "URL with .git suffix",
			ref:   "https://github.com/test-owner/test-repo.git",
			owner: "test-owner",
			repo:  "test-repo",
		},
		{
			name:  "bare host",
			ref:   "github.com/test-owner/test-repo",
			owner: "test-owner",
			repo:  "test-repo",
		},
		{
			name:  "owner/name pair",
			ref:   "test-owner/test-repo",
			owner: "test-owner",
			repo:  "test-repo",
		},
		{
			name:     "empty",
			ref:      "",
			hasError: true,
		},
		{
			name:     "missing name",
			ref:      "https://github.com/test-owner",
			hasError: true,
		},
		{
			name:     "not a repository reference",
			ref:      "not a url",
			hasError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, name, err := ParseFullName(tt.ref)
			if tt.hasError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.owner, owner)
			assert.Equal(t, tt.repo, name)
		})
	}
}
