package github

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	gh "github.com/google/go-github/v60/github"
)

// AssetPattern names the release asset for a tool version. The template
// sees {{.Name}} (the tool name) and {{.Version}} (the release tag).
type AssetPattern struct {
	tmpl *template.Template
}

// ParseAssetPattern compiles an asset name template.
func ParseAssetPattern(pattern string) (*AssetPattern, error) {
	tmpl, err := template.New("asset").Option("missingkey=error").Parse(pattern)
	if err != nil {
		return nil, fmt.Errorf("parsing asset pattern %q: %w", pattern, err)
	}
	return &AssetPattern{tmpl: tmpl}, nil
}

// Name renders the asset name for the given tool and version.
func (p *AssetPattern) Name(tool, version string) (string, error) {
	var buf bytes.Buffer
	data := map[string]string{
		"Name":    tool,
		"Version": version,
	}
	if err := p.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing asset pattern template: %w", err)
	}
	return buf.String(), nil
}

// FindAsset returns the release asset called expected, or an error listing
// the assets the release does have.
func FindAsset(assets []*gh.ReleaseAsset, expected string) (*gh.ReleaseAsset, error) {
	names := make([]string, 0, len(assets))
	for _, a := range assets {
		if a.GetName() == expected {
			return a, nil
		}
		names = append(names, a.GetName())
	}
	return nil, fmt.Errorf("no asset matching %q found; available assets: %s", expected, strings.Join(names, ", "))
}
