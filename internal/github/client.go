package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

var ErrRepoNotFound = errors.New("repository not found")

// Client is a minimal GitHub REST client covering the calls this service
// needs: repository creation/lookup and Pages configuration.
type Client struct {
	client *resty.Client
	owner  string
}

func NewClient(baseURL, token, owner string, timeout time.Duration) *Client {
	return &Client{
		client: resty.New().
			SetBaseURL(baseURL).
			SetAuthToken(token).
			SetTimeout(timeout).
			SetHeader("Accept", "application/vnd.github.v3+json"),
		owner: owner,
	}
}

func (c *Client) Owner() string { return c.owner }

type Repo struct {
	Name          string `json:"name"`
	HTMLURL       string `json:"html_url"`
	CloneURL      string `json:"clone_url"`
	DefaultBranch string `json:"default_branch"`
}

func (c *Client) GetRepo(ctx context.Context, name string) (*Repo, error) {
	res, err := c.client.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/repos/%s/%s", c.owner, name))
	if err != nil {
		return nil, fmt.Errorf("error looking up repository %s: %w", name, err)
	}

	if res.StatusCode() == http.StatusNotFound {
		return nil, ErrRepoNotFound
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("repository lookup returned status %d: %s", res.StatusCode(), res.String())
	}

	var repo Repo
	if err := json.Unmarshal(res.Body(), &repo); err != nil {
		return nil, fmt.Errorf("error parsing repository response: %w", err)
	}
	return &repo, nil
}

// EnsureRepo creates a public repository, reusing the existing one when the
// name is already taken. Repositories are created with auto_init so a clone
// always has a head commit to diff against.
func (c *Client) EnsureRepo(ctx context.Context, name, description string) (*Repo, error) {
	body := map[string]any{
		"name":        name,
		"description": description,
		"private":     false,
		"auto_init":   true,
	}

	res, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/user/repos")
	if err != nil {
		return nil, fmt.Errorf("error creating repository %s: %w", name, err)
	}

	if res.StatusCode() == http.StatusUnprocessableEntity {
		// Name already exists on this account.
		slog.Warn("repository already exists, reusing it", "repo", name)
		return c.GetRepo(ctx, name)
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("repository creation returned status %d: %s", res.StatusCode(), res.String())
	}

	var repo Repo
	if err := json.Unmarshal(res.Body(), &repo); err != nil {
		return nil, fmt.Errorf("error parsing repository response: %w", err)
	}
	slog.Info("created repository", "repo", name, "url", repo.HTMLURL)
	return &repo, nil
}

type pagesConfig struct {
	Source struct {
		Branch string `json:"branch"`
		Path   string `json:"path"`
	} `json:"source"`
}

type pagesResponse struct {
	HTMLURL string `json:"html_url"`
}

// EnablePages configures GitHub Pages to serve the repository from the root
// of the given branch and returns the published URL. A site that is already
// configured is updated in place, which the API acknowledges with 204.
func (c *Client) EnablePages(ctx context.Context, repo, branch string) (string, error) {
	endpoint := fmt.Sprintf("/repos/%s/%s/pages", c.owner, repo)

	var body pagesConfig
	body.Source.Branch = branch
	body.Source.Path = "/"

	check, err := c.client.R().SetContext(ctx).Get(endpoint)
	if err != nil {
		return "", fmt.Errorf("error checking pages status for %s: %w", repo, err)
	}

	var res *resty.Response
	switch check.StatusCode() {
	case http.StatusNotFound:
		res, err = c.client.R().SetContext(ctx).SetBody(body).Post(endpoint)
	case http.StatusOK:
		res, err = c.client.R().SetContext(ctx).SetBody(body).Put(endpoint)
	default:
		return "", fmt.Errorf("pages status check returned status %d: %s", check.StatusCode(), check.String())
	}
	if err != nil {
		return "", fmt.Errorf("error configuring pages for %s: %w", repo, err)
	}
	if !res.IsSuccess() {
		return "", fmt.Errorf("pages configuration returned status %d: %s", res.StatusCode(), res.String())
	}

	var pages pagesResponse
	if len(res.Body()) > 0 {
		// PUT responds 204 with no body; fall through to the derived URL.
		if err := json.Unmarshal(res.Body(), &pages); err != nil {
			slog.Warn("could not parse pages response, deriving url", "repo", repo, "error", err)
		}
	}
	if pages.HTMLURL == "" {
		pages.HTMLURL = c.PagesURL(repo)
	}

	slog.Info("github pages configured", "repo", repo, "pages_url", pages.HTMLURL)
	return pages.HTMLURL, nil
}

// PagesURL derives the canonical Pages URL for a repository owned by the
// configured account.
func (c *Client) PagesURL(repo string) string {
	return fmt.Sprintf("https://%s.github.io/%s/", c.owner, repo)
}
