package githubapi

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

const requestTimeout = 30 * time.Second

// credential is one entry in the ordered fallback chain.
type credential struct {
	label  string
	client *http.Client
	// tokened distinguishes authenticated attempts: a 404 under a token may
	// mean an insufficiently scoped credential, so the chain advances; a 404
	// on the anonymous attempt is a real not-found.
	tokened bool
}

// CredentialResolver produces the ordered credential sequence for an
// outbound call: caller token (if present), service token (if configured),
// then anonymous. Caller tokens can be expired or unauthorized for a given
// resource while the service token still reads it, and anonymous access is
// the last resort that keeps public data reachable under degraded conditions.
type CredentialResolver struct {
	serviceClient *http.Client
	anonClient    *http.Client
}

// NewCredentialResolver builds a resolver around the optional service-level
// token. Pass the empty string to run without one.
func NewCredentialResolver(serviceToken string) *CredentialResolver {
	r := &CredentialResolver{
		anonClient: &http.Client{Timeout: requestTimeout},
	}
	if serviceToken != "" {
		r.serviceClient = tokenClient(serviceToken)
	}
	return r
}

// Chain returns the attempt sequence for one call. callerToken may be empty.
func (r *CredentialResolver) Chain(callerToken string) []credential {
	var chain []credential
	if callerToken != "" {
		chain = append(chain, credential{label: "caller", client: tokenClient(callerToken), tokened: true})
	}
	if r.serviceClient != nil {
		chain = append(chain, credential{label: "service", client: r.serviceClient, tokened: true})
	}
	return append(chain, credential{label: "anonymous", client: r.anonClient})
}

func tokenClient(token string) *http.Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := oauth2.NewClient(context.Background(), ts)
	client.Timeout = requestTimeout
	return client
}
