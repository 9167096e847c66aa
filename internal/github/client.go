// Package github provides a thin client for the GitHub API, used to map
// managed branches to their open pull requests.
package github

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"
)

// PullRequestInfo contains information about a pull request.
// This is a simplified struct to avoid coupling callers to go-github.
type PullRequestInfo struct {
	Number  int
	Title   string
	State   string
	Draft   bool
	Base    string // base branch name
	Head    string // head branch name
	HTMLURL string
}

// Client wraps a GitHub API client bound to a single repository
type Client struct {
	client *github.Client
	owner  string
	repo   string
}

// NewClient creates a client for the repository behind remoteURL. The token
// comes from GITHUB_TOKEN or, failing that, the gh CLI.
func NewClient(ctx context.Context, remoteURL string) (*Client, error) {
	token, err := getToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get GitHub token: %w", err)
	}

	owner, repo, err := ParseRemoteURL(remoteURL)
	if err != nil {
		return nil, err
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		client: github.NewClient(tc),
		owner:  owner,
		repo:   repo,
	}, nil
}

// GetOwnerRepo returns the repository owner and name
func (c *Client) GetOwnerRepo() (string, string) {
	return c.owner, c.repo
}

// ListOpenPRs returns every open pull request of the repository
func (c *Client) ListOpenPRs(ctx context.Context) ([]PullRequestInfo, error) {
	opts := &github.PullRequestListOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var result []PullRequestInfo
	for {
		prs, resp, err := c.client.PullRequests.List(ctx, c.owner, c.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list pull requests: %w", err)
		}
		for _, pr := range prs {
			result = append(result, toPullRequestInfo(pr))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return result, nil
}

// PRForBranch gets the most recent pull request whose head is branchName,
// or nil when there is none.
func (c *Client) PRForBranch(ctx context.Context, branchName string) (*PullRequestInfo, error) {
	prs, _, err := c.client.PullRequests.List(ctx, c.owner, c.repo, &github.PullRequestListOptions{
		Head:  fmt.Sprintf("%s:%s", c.owner, branchName),
		State: "all",
		ListOptions: github.ListOptions{
			PerPage: 1,
		},
	})
	if err != nil {
		return nil, err
	}
	if len(prs) == 0 {
		return nil, nil
	}
	info := toPullRequestInfo(prs[0])
	return &info, nil
}

func toPullRequestInfo(pr *github.PullRequest) PullRequestInfo {
	info := PullRequestInfo{
		Number:  pr.GetNumber(),
		Title:   pr.GetTitle(),
		State:   strings.ToUpper(pr.GetState()),
		Draft:   pr.GetDraft(),
		HTMLURL: pr.GetHTMLURL(),
	}
	if pr.Base != nil {
		info.Base = pr.Base.GetRef()
	}
	if pr.Head != nil {
		info.Head = pr.Head.GetRef()
	}
	return info
}

// getToken gets a GitHub token from the environment or the gh CLI
func getToken(ctx context.Context) (string, error) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}

	output, err := exec.CommandContext(ctx, "gh", "auth", "token").Output()
	if err != nil {
		return "", fmt.Errorf("GITHUB_TOKEN is not set and gh CLI is unavailable: %w", err)
	}

	token := strings.TrimSpace(string(output))
	if token == "" {
		return "", fmt.Errorf("empty GitHub token")
	}

	return token, nil
}

// ParseRemoteURL extracts owner and repository name from a git remote URL.
// Both https and ssh forms are handled:
//
//	https://github.com/owner/repo.git
//	git@github.com:owner/repo.git
func ParseRemoteURL(url string) (string, string, error) {
	url = strings.TrimSuffix(strings.TrimSpace(url), ".git")

	if strings.Contains(url, "@") && strings.Contains(url, ":") && !strings.Contains(url, "://") {
		// SSH format: git@github.com:owner/repo
		sshParts := strings.SplitN(url, ":", 2)
		pathParts := strings.Split(sshParts[1], "/")
		if len(pathParts) < 2 {
			return "", "", fmt.Errorf("invalid SSH remote URL: %s", url)
		}
		return pathParts[len(pathParts)-2], pathParts[len(pathParts)-1], nil
	}

	// HTTPS format: https://github.com/owner/repo
	parts := strings.Split(url, "/")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("invalid remote URL: %s", url)
	}
	return parts[len(parts)-2], parts[len(parts)-1], nil
}
