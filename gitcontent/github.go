package gitcontent

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/anschmieg/quartier/internal/apperrors"
)

const defaultAPIBase = "https://api.github.com"

var _ Gateway = (*GitHubGateway)(nil)

// GitHubGateway reads repository contents through the GitHub REST API,
// authenticating each request with the caller's own token.
type GitHubGateway struct {
	apiBase   string
	userAgent string
}

type GitHubOption func(*GitHubGateway)

// WithAPIBase points the gateway at a different API root, for tests.
func WithAPIBase(base string) GitHubOption {
	return func(g *GitHubGateway) {
		g.apiBase = base
	}
}

func NewGitHubGateway(options ...GitHubOption) *GitHubGateway {
	g := &GitHubGateway{
		apiBase:   defaultAPIBase,
		userAgent: "Quartier",
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

func (g *GitHubGateway) Fetch(ctx context.Context, token, owner, repo, path string) (*Result, error) {
	// An empty token means an unauthenticated read of a public repo.
	client := http.DefaultClient
	if token != "" {
		client = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	}

	endpoint := fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		g.apiBase, url.PathEscape(owner), url.PathEscape(repo), path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "[GitHubGateway.Fetch] build request")
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, apperrors.Internal(err, "content provider unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to read content provider response")
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, apperrors.NotFound("file or directory not found")
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, apperrors.Permission("content provider rejected credentials")
	default:
		return nil, apperrors.Internal(
			errors.Errorf("content provider returned %s", resp.Status),
			"content provider error")
	}

	// The contents endpoint returns an array for directories and an
	// object for files.
	var entries []Entry
	if err := json.Unmarshal(body, &entries); err == nil {
		return &Result{IsDir: true, Entries: entries}, nil
	}

	var file File
	if err := json.Unmarshal(body, &file); err != nil {
		return nil, apperrors.Internal(err, "unexpected content provider response")
	}
	return &Result{File: &file}, nil
}
