package githubapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/truststars/ingestd/internal/errors"
)

const (
	acceptHeader = "application/vnd.github.v3+json"
	userAgent    = "truststars-ingestd"

	// The commits endpoint caps pages at 100 entries; the 30-day activity
	// window reads a single page.
	commitsPerPage = 100
)

// Client talks to the GitHub REST API with ordered credential fallback on
// every call. It performs no persistence.
type Client struct {
	baseURL  string
	resolver *CredentialResolver
	logger   *logrus.Logger
}

// NewClient creates a GitHub client. baseURL is the API root without a
// trailing slash, e.g. https://api.github.com.
func NewClient(baseURL, serviceToken string, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:  baseURL,
		resolver: NewCredentialResolver(serviceToken),
		logger:   logger,
	}
}

// get performs one API call, walking the credential chain. The chain advances
// on 401 and 403, and on 404 only when the failed attempt carried a token.
// A 2xx short-circuits; 5xx and transport errors surface immediately.
func (c *Client) get(ctx context.Context, path string, callerToken string, result interface{}) error {
	fullURL := c.baseURL + path

	var lastErr error
	for _, cred := range c.resolver.Chain(callerToken) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", acceptHeader)
		req.Header.Set("User-Agent", userAgent)

		resp, err := cred.client.Do(req)
		if err != nil {
			return errors.NewTransientError(fmt.Sprintf("request to %s failed", path), err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return errors.NewTransientError("failed to read response body", err)
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if result != nil {
				if err := json.Unmarshal(body, result); err != nil {
					return errors.NewInternalError("failed to decode response", err)
				}
			}
			return nil
		}

		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			lastErr = statusError(resp.StatusCode, path)
			c.logger.WithFields(logrus.Fields{
				"path":       path,
				"credential": cred.label,
				"status":     resp.StatusCode,
			}).Warn("GitHub request failed, falling back to next credential")
		case resp.StatusCode == http.StatusNotFound && cred.tokened:
			// A scoped token can see 404 where a broader one sees the repo.
			lastErr = statusError(resp.StatusCode, path)
			c.logger.WithFields(logrus.Fields{
				"path":       path,
				"credential": cred.label,
			}).Warn("GitHub returned 404 under a token, retrying with next credential")
		case resp.StatusCode == http.StatusNotFound:
			return statusError(resp.StatusCode, path)
		case resp.StatusCode >= 500:
			return errors.NewTransientError(fmt.Sprintf("GitHub returned %d for %s", resp.StatusCode, path), nil)
		default:
			return errors.NewInternalError(fmt.Sprintf("GitHub returned %d for %s: %s", resp.StatusCode, path, string(body)), nil)
		}
	}

	return lastErr
}

func statusError(status int, path string) error {
	switch status {
	case http.StatusUnauthorized:
		return errors.NewUnauthorizedError(fmt.Sprintf("credentials rejected for %s", path), nil)
	case http.StatusForbidden:
		return errors.NewRateLimitError(fmt.Sprintf("rate limit or access denied for %s", path), nil)
	case http.StatusNotFound:
		return errors.NewNotFoundError(fmt.Sprintf("resource not found: %s", path), nil)
	default:
		return errors.NewInternalError(fmt.Sprintf("GitHub returned %d for %s", status, path), nil)
	}
}

// GetRepository fetches repository details for owner/name.
func (c *Client) GetRepository(ctx context.Context, owner, name, callerToken string) (*RepoDetails, error) {
	if owner == "" || name == "" {
		return nil, errors.NewValidationError("owner and name cannot be empty", nil)
	}

	var repo RepoDetails
	path := fmt.Sprintf("/repos/%s/%s", url.PathEscape(owner), url.PathEscape(name))
	if err := c.get(ctx, path, callerToken, &repo); err != nil {
		return nil, err
	}
	return &repo, nil
}

// GetUser fetches profile details for a platform login.
func (c *Client) GetUser(ctx context.Context, login, callerToken string) (*UserDetails, error) {
	if login == "" {
		return nil, errors.NewValidationError("login cannot be empty", nil)
	}

	var user UserDetails
	if err := c.get(ctx, "/users/"+url.PathEscape(login), callerToken, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListRecentCommits fetches the commits since the given timestamp, newest
// first, capped at one page of 100 entries.
func (c *Client) ListRecentCommits(ctx context.Context, owner, name string, since time.Time, callerToken string) ([]CommitEntry, error) {
	if owner == "" || name == "" {
		return nil, errors.NewValidationError("owner and name cannot be empty", nil)
	}

	query := url.Values{}
	query.Set("since", since.UTC().Format(time.RFC3339))
	query.Set("per_page", fmt.Sprintf("%d", commitsPerPage))

	var commits []CommitEntry
	path := fmt.Sprintf("/repos/%s/%s/commits?%s", url.PathEscape(owner), url.PathEscape(name), query.Encode())
	if err := c.get(ctx, path, callerToken, &commits); err != nil {
		return nil, err
	}
	return commits, nil
}

// CountPRsOpenedSince returns the number of pull requests created in the
// repository after the given timestamp, via the issue search endpoint.
func (c *Client) CountPRsOpenedSince(ctx context.Context, fullName string, since time.Time, callerToken string) (int, error) {
	return c.searchCount(ctx, fullName, "created", since, callerToken)
}

// CountPRsMergedSince returns the number of pull requests merged in the
// repository after the given timestamp.
func (c *Client) CountPRsMergedSince(ctx context.Context, fullName string, since time.Time, callerToken string) (int, error) {
	return c.searchCount(ctx, fullName, "merged", since, callerToken)
}

func (c *Client) searchCount(ctx context.Context, fullName, qualifier string, since time.Time, callerToken string) (int, error) {
	if fullName == "" {
		return 0, errors.NewValidationError("full name cannot be empty", nil)
	}

	q := fmt.Sprintf("repo:%s is:pr %s:>%s", fullName, qualifier, since.UTC().Format(time.RFC3339))
	query := url.Values{}
	query.Set("q", q)

	var result searchResult
	if err := c.get(ctx, "/search/issues?"+query.Encode(), callerToken, &result); err != nil {
		return 0, err
	}
	return result.TotalCount, nil
}
