package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	gh "github.com/google/go-github/v60/github"
)

// Client downloads prebuilt interpreter binaries from GitHub releases.
type Client struct {
	gh         *gh.Client
	httpClient *http.Client
	pattern    *AssetPattern
}

// New creates a GitHub client. The token may be empty for public repositories.
func New(token, assetPattern string) (*Client, error) {
	httpClient := &http.Client{}
	ghClient := gh.NewClient(httpClient)
	if token != "" {
		ghClient = ghClient.WithAuthToken(token)
	}
	return newWithClients(ghClient, httpClient, assetPattern)
}

// newWithClients creates a Client with injected HTTP and GitHub clients (for testing).
func newWithClients(ghClient *gh.Client, httpClient *http.Client, assetPattern string) (*Client, error) {
	pattern, err := ParseAssetPattern(assetPattern)
	if err != nil {
		return nil, err
	}
	return &Client{
		gh:         ghClient,
		httpClient: httpClient,
		pattern:    pattern,
	}, nil
}

// ResolveVersion resolves "latest" to the actual release tag, or returns the version as-is.
func (c *Client) ResolveVersion(ctx context.Context, owner, repo, version string) (string, error) {
	if version == "latest" || version == "" {
		release, _, err := c.gh.Repositories.GetLatestRelease(ctx, owner, repo)
		if err != nil {
			return "", fmt.Errorf("getting latest release for %s/%s: %w", owner, repo, err)
		}
		return release.GetTagName(), nil
	}
	return version, nil
}

// DownloadAsset downloads the release asset for tool at version into
// destDir as <tool>-<version>, makes it executable, and points the
// <tool> symlink at it. It returns the path of the versioned binary.
func (c *Client) DownloadAsset(ctx context.Context, owner, repo, version, tool, destDir string) (string, error) {
	release, _, err := c.gh.Repositories.GetReleaseByTag(ctx, owner, repo, version)
	if err != nil {
		return "", fmt.Errorf("getting release %s for %s/%s: %w", version, owner, repo, err)
	}

	expected, err := c.pattern.Name(tool, version)
	if err != nil {
		return "", err
	}
	asset, err := FindAsset(release.Assets, expected)
	if err != nil {
		return "", err
	}

	rc, _, err := c.gh.Repositories.DownloadReleaseAsset(ctx, owner, repo, asset.GetID(), c.httpClient)
	if err != nil {
		return "", fmt.Errorf("downloading asset %s: %w", expected, err)
	}
	defer rc.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("creating tools dir %s: %w", destDir, err)
	}

	filename := fmt.Sprintf("%s-%s", tool, version)
	destPath := filepath.Join(destDir, filename)

	// Write beside the destination and rename, so a running pipeline never
	// sees a half-written interpreter.
	f, err := os.CreateTemp(destDir, "."+filename+"-*")
	if err != nil {
		return "", fmt.Errorf("creating file in %s: %w", destDir, err)
	}
	if _, err := io.Copy(f, rc); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("writing asset to %s: %w", f.Name(), err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("closing %s: %w", f.Name(), err)
	}
	if err := os.Chmod(f.Name(), 0755); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("chmod %s: %w", f.Name(), err)
	}
	if err := os.Rename(f.Name(), destPath); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("installing %s: %w", destPath, err)
	}

	symlinkPath := filepath.Join(destDir, tool)
	os.Remove(symlinkPath) // remove existing symlink if any
	if err := os.Symlink(filename, symlinkPath); err != nil {
		return "", fmt.Errorf("creating symlink %s -> %s: %w", symlinkPath, filename, err)
	}

	return destPath, nil
}
