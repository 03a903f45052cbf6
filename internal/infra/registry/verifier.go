// Where: internal/infra/registry/verifier.go
// What: Image preflight through the Docker daemon's distribution endpoint.
// Why: Fail before touching the app when the image reference does not resolve.
package registry

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/docker/docker/api/types/registry"
	"github.com/docker/docker/client"
)

// DistributionClient is the subset of the Docker SDK used for preflight.
type DistributionClient interface {
	DistributionInspect(ctx context.Context, imageRef, encodedRegistryAuth string) (registry.DistributionInspect, error)
}

// Credentials authenticate against the image's registry.
type Credentials struct {
	Username string
	Password string
}

// Verifier resolves image manifests without pulling them.
type Verifier struct {
	client DistributionClient
	creds  Credentials
}

// NewDockerClient connects to the daemon configured by DOCKER_HOST and friends.
func NewDockerClient() (*client.Client, error) {
	dockerClient, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}
	return dockerClient, nil
}

// NewVerifier returns a Verifier using client.
func NewVerifier(client DistributionClient, creds Credentials) *Verifier {
	return &Verifier{client: client, creds: creds}
}

// Verify returns the manifest digest of image.
func (v *Verifier) Verify(ctx context.Context, image string) (string, error) {
	if v == nil || v.client == nil {
		return "", fmt.Errorf("docker client is nil")
	}
	auth, err := v.encodedAuth(image)
	if err != nil {
		return "", err
	}
	inspect, err := v.client.DistributionInspect(ctx, image, auth)
	if err != nil {
		return "", fmt.Errorf("inspect %s: %w", image, err)
	}
	digest := string(inspect.Descriptor.Digest)
	if digest == "" {
		return "", fmt.Errorf("registry returned no digest for %s", image)
	}
	return digest, nil
}

func (v *Verifier) encodedAuth(image string) (string, error) {
	if v.creds.Username == "" && v.creds.Password == "" {
		return "", nil
	}
	auth, err := registry.EncodeAuthConfig(registry.AuthConfig{
		Username:      v.creds.Username,
		Password:      v.creds.Password,
		ServerAddress: RegistryHost(image),
	})
	if err != nil {
		return "", fmt.Errorf("encode registry auth: %w", err)
	}
	return auth, nil
}

// RegistryHost returns the registry host of an image reference, or
// "docker.io" for references without one.
func RegistryHost(image string) string {
	first, _, found := strings.Cut(image, "/")
	if !found {
		return "docker.io"
	}
	if strings.ContainsAny(first, ".:") || first == "localhost" {
		return first
	}
	return "docker.io"
}

// Close releases c when it holds resources.
func Close(c DistributionClient) error {
	if closer, ok := c.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
