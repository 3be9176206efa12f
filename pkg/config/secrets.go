// Secret resolution for the secret:// env scheme (spec §4.O). Mirrors the
// pluggable-provider shape of the teacher's own pkg/secrets (a Provider
// interface with an EnvironmentProvider default and a real vault-backed
// OnePasswordManager alternative), narrowed here to the one operation a
// backend env value needs: resolving a reference to plaintext.
package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/1password/onepassword-sdk-go"
)

// SecretResolver resolves a secret://NAME reference in a backend env value to
// its plaintext. The default resolver degrades to a process-env lookup of
// NAME, so the secret:// scheme works with no external secrets manager
// configured; a vault-backed resolver (NewOnePasswordResolver) can be
// installed with SetSecretResolver for deployments that have one.
type SecretResolver interface {
	Resolve(name string) (string, error)
}

const secretScheme = "secret://"

// envSecretResolver is the default SecretResolver, grounded on pkg/secrets'
// EnvironmentProvider: a secret name resolves to the process environment
// variable of the same name, read-only, no external dependency.
type envSecretResolver struct{}

func (envSecretResolver) Resolve(name string) (string, error) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return "", fmt.Errorf("secret %q not found in environment", name)
	}
	return v, nil
}

// onePasswordClient is the minimal surface this package needs from the
// 1Password SDK client, narrowed the same way pkg/secrets' own
// OnePasswordClient wrapper narrows it (see secrets/clients/mocks in the
// teacher tree), so it can be faked in tests without a live vault.
type onePasswordClient interface {
	Resolve(ctx context.Context, secretReference string) (string, error)
}

// onePasswordResolver resolves secret://op://vault/item/field references
// through a 1Password Connect/service-account session, grounded on
// pkg/secrets.OnePasswordManager: same OP_SERVICE_ACCOUNT_TOKEN
// precondition, same "op://vault/item/field" reference format, same
// read-only GetSecret/Resolve shape.
type onePasswordResolver struct {
	client onePasswordClient
}

const opServiceAccountTokenEnv = "OP_SERVICE_ACCOUNT_TOKEN"

// NewOnePasswordResolver builds a SecretResolver backed by a running
// 1Password service account, reading OP_SERVICE_ACCOUNT_TOKEN from the
// process environment exactly as pkg/secrets.NewOnePasswordManager does.
func NewOnePasswordResolver(ctx context.Context) (SecretResolver, error) {
	token := os.Getenv(opServiceAccountTokenEnv)
	if token == "" {
		return nil, fmt.Errorf("%s is not set", opServiceAccountTokenEnv)
	}
	client, err := onepassword.NewClient(ctx,
		onepassword.WithServiceAccountToken(token),
		onepassword.WithIntegrationInfo("mcpgw", "0.1.0"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating 1password client: %w", err)
	}
	return &onePasswordResolver{client: client.Secrets}, nil
}

// newOnePasswordResolverWithClient installs a fake onePasswordClient for
// tests, mirroring pkg/secrets.NewOnePasswordManagerWithClient.
func newOnePasswordResolverWithClient(client onePasswordClient) SecretResolver {
	return &onePasswordResolver{client: client}
}

func (r *onePasswordResolver) Resolve(name string) (string, error) {
	if !strings.HasPrefix(name, "op://") {
		return "", fmt.Errorf("invalid 1password secret reference %q: must start with op://", name)
	}
	value, err := r.client.Resolve(context.Background(), name)
	if err != nil {
		return "", fmt.Errorf("error resolving secret: %w", err)
	}
	return value, nil
}

var activeSecretResolver SecretResolver = envSecretResolver{}

// SetSecretResolver installs the SecretResolver used by ResolveSecret. Tests
// and future vault integrations can call this to override the default
// process-env lookup.
func SetSecretResolver(r SecretResolver) {
	if r == nil {
		r = envSecretResolver{}
	}
	activeSecretResolver = r
}

// ResolveSecret resolves value if it has the form secret://NAME, via the
// currently installed SecretResolver. Values that don't use the secret://
// scheme are returned unchanged.
func ResolveSecret(value string) (string, error) {
	name, ok := strings.CutPrefix(value, secretScheme)
	if !ok {
		return value, nil
	}
	if name == "" {
		return "", fmt.Errorf("secret:// reference is missing a name")
	}
	return activeSecretResolver.Resolve(name)
}
