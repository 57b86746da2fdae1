package publisher

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// gitRepo runs git commands inside a working tree. Command output is folded
// into errors with the access token scrubbed, so a failed push can be logged
// without leaking credentials.
type gitRepo struct {
	dir   string
	token string
}

func cloneRepo(ctx context.Context, cloneURL, dir, token string) (*gitRepo, error) {
	cmd := exec.CommandContext(ctx, "git", "clone", cloneURL, dir)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	repo := &gitRepo{dir: dir, token: token}
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git clone: %v: %s", err, repo.scrub(out.String()))
	}
	return repo, nil
}

func (g *gitRepo) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.dir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %v: %s", args[0], err, g.scrub(out.String()))
	}
	return strings.TrimSpace(out.String()), nil
}

func (g *gitRepo) scrub(s string) string {
	if g.token == "" {
		return s
	}
	return strings.ReplaceAll(s, g.token, "***")
}
