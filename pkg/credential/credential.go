// Package credential obtains bearer tokens for outbound collaborator calls.
//
// The "azure" provider wraps the ambient Azure credential chain
// (environment, workload identity, managed identity, CLI) and caches one
// token per scope until shortly before expiry. The "static" and "anonymous"
// providers exist for development, tests, and mock collaborators.
package credential

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// TokenProvider returns a bearer token valid for the given scope. An empty
// token means the outbound call is made without an Authorization header.
type TokenProvider interface {
	Token(ctx context.Context, scope string) (string, error)
}

// refreshMargin is how long before expiry a cached token is considered
// stale and refreshed.
const refreshMargin = 2 * time.Minute

// azureTokenGetter is the subset of azcore.TokenCredential used here,
// extracted so tests can substitute a fake.
type azureTokenGetter interface {
	GetToken(ctx context.Context, options policy.TokenRequestOptions) (azcore.AccessToken, error)
}

// AzureProvider acquires tokens from the ambient Azure credential chain and
// caches them per scope.
type AzureProvider struct {
	cred azureTokenGetter

	mu    sync.Mutex
	cache map[string]azcore.AccessToken

	now func() time.Time
}

// NewAzureProvider creates a provider backed by DefaultAzureCredential.
func NewAzureProvider() (*AzureProvider, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("creating azure credential: %w", err)
	}
	return newAzureProvider(cred), nil
}

func newAzureProvider(cred azureTokenGetter) *AzureProvider {
	return &AzureProvider{
		cred:  cred,
		cache: make(map[string]azcore.AccessToken),
		now:   time.Now,
	}
}

// Token returns a cached token for the scope, refreshing it when absent or
// within the refresh margin of expiry.
func (p *AzureProvider) Token(ctx context.Context, scope string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if tok, ok := p.cache[scope]; ok && p.now().Before(tok.ExpiresOn.Add(-refreshMargin)) {
		return tok.Token, nil
	}

	tok, err := p.cred.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{scope}})
	if err != nil {
		return "", fmt.Errorf("acquiring token for scope %s: %w", scope, err)
	}

	p.cache[scope] = tok
	return tok.Token, nil
}

// StaticProvider returns the same fixed token for every scope.
type StaticProvider struct {
	token string
}

// NewStaticProvider creates a provider that always returns token.
func NewStaticProvider(token string) *StaticProvider {
	return &StaticProvider{token: token}
}

// Token returns the fixed token.
func (p *StaticProvider) Token(_ context.Context, _ string) (string, error) {
	return p.token, nil
}

// AnonymousProvider returns an empty token, causing clients to omit the
// Authorization header entirely.
type AnonymousProvider struct{}

// Token returns an empty token.
func (AnonymousProvider) Token(_ context.Context, _ string) (string, error) {
	return "", nil
}

// New constructs the TokenProvider selected by mode: "azure", "static", or
// "none".
func New(mode, staticToken string) (TokenProvider, error) {
	switch mode {
	case "azure":
		return NewAzureProvider()
	case "static":
		return NewStaticProvider(staticToken), nil
	case "none":
		return AnonymousProvider{}, nil
	default:
		return nil, fmt.Errorf("unknown credential mode %q", mode)
	}
}
