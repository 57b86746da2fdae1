package publisher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sitegen-backend/internal/generator"
	"sitegen-backend/internal/github"
)

// ErrPublish indicates that the repository could not be created, committed
// to, pushed, or configured for Pages.
var ErrPublish = errors.New("publish failed")

type Options struct {
	Token        string
	GitUserName  string
	GitUserEmail string
	PushTimeout  time.Duration

	// TempBaseDir is where per-task clones are created. Empty means the OS
	// default temp directory.
	TempBaseDir string
}

// Publisher pushes generated file sets into a GitHub repository served by
// GitHub Pages.
type Publisher struct {
	github *github.Client
	opts   Options
}

func New(gh *github.Client, opts Options) *Publisher {
	return &Publisher{github: gh, opts: opts}
}

type Request struct {
	TaskID string
	Round  int

	// RepoURL optionally carries the round 1 repository into a round 2
	// request. When empty the repository name is re-derived from the task id.
	RepoURL string

	Files       generator.FileSet
	Attachments map[string][]byte
}

type Result struct {
	RepoName  string
	RepoURL   string
	Branch    string
	CommitSHA string
	PagesURL  string
}

func (p *Publisher) Publish(ctx context.Context, req Request) (*Result, error) {
	name := RepoName(req.TaskID)
	if req.RepoURL != "" {
		explicit, err := RepoNameFromURL(req.RepoURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPublish, err)
		}
		name = explicit
	}

	repo, err := p.github.EnsureRepo(ctx, name, fmt.Sprintf("Auto-generated site for task %s", req.TaskID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPublish, err)
	}

	branch := repo.DefaultBranch
	if branch == "" {
		branch = "main"
	}

	workdir, err := os.MkdirTemp(p.opts.TempBaseDir, "sitegen-"+name+"-")
	if err != nil {
		return nil, fmt.Errorf("%w: error creating working directory: %v", ErrPublish, err)
	}
	defer os.RemoveAll(workdir) //nolint:errcheck

	commit, err := p.pushFiles(ctx, repo.CloneURL, branch, commitMessage(req.Round), req.Files, req.Attachments, workdir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPublish, err)
	}

	pagesURL, err := p.github.EnablePages(ctx, name, branch)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPublish, err)
	}

	slog.Info("published repository", "repo", name, "branch", branch, "commit", commit)
	return &Result{
		RepoName:  name,
		RepoURL:   repo.HTMLURL,
		Branch:    branch,
		CommitSHA: commit,
		PagesURL:  pagesURL,
	}, nil
}

// pushFiles clones the repository, overlays the generated files and
// attachments, and pushes a commit when the staged diff is non-empty. An
// unchanged tree returns the current head commit unchanged, so republishing
// identical content never produces a no-op commit.
func (p *Publisher) pushFiles(ctx context.Context, cloneURL, branch, message string, files generator.FileSet, attachments map[string][]byte, workdir string) (string, error) {
	cloneCtx, cancel := context.WithTimeout(ctx, p.opts.PushTimeout)
	defer cancel()

	repo, err := cloneRepo(cloneCtx, p.authURL(cloneURL), workdir, p.opts.Token)
	if err != nil {
		return "", err
	}

	if _, err := repo.run(ctx, "checkout", "-B", branch); err != nil {
		return "", err
	}
	if _, err := repo.run(ctx, "config", "user.email", p.opts.GitUserEmail); err != nil {
		return "", err
	}
	if _, err := repo.run(ctx, "config", "user.name", p.opts.GitUserName); err != nil {
		return "", err
	}

	for name, content := range files {
		if err := writeWorkFile(workdir, name, []byte(content)); err != nil {
			return "", err
		}
	}
	for name, content := range attachments {
		if err := writeWorkFile(workdir, name, content); err != nil {
			return "", err
		}
	}

	if _, err := repo.run(ctx, "add", "-A"); err != nil {
		return "", err
	}

	// diff --cached exits non-zero when there are staged changes; a clean
	// exit means the tree is unchanged and the current head is reused.
	if _, err := repo.run(ctx, "diff", "--cached", "--quiet"); err == nil {
		slog.Info("no changes to commit, reusing head", "dir", workdir)
		return repo.run(ctx, "rev-parse", "HEAD")
	}

	if _, err := repo.run(ctx, "commit", "-m", message); err != nil {
		return "", err
	}

	pushCtx, cancelPush := context.WithTimeout(ctx, p.opts.PushTimeout)
	defer cancelPush()
	if _, err := repo.run(pushCtx, "push", "-u", "origin", branch); err != nil {
		return "", err
	}

	return repo.run(ctx, "rev-parse", "HEAD")
}

// writeWorkFile writes one generated file under the working tree, rejecting
// names that would escape it.
func writeWorkFile(workdir, name string, content []byte) error {
	clean := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("refusing to write file outside working tree: %q", name)
	}

	path := filepath.Join(workdir, clean)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creating directory for %s: %w", name, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", name, err)
	}
	return nil
}

// authURL injects the access token into an https clone URL. Non-https URLs
// (local paths in tests) pass through unchanged.
func (p *Publisher) authURL(cloneURL string) string {
	if p.opts.Token == "" || !strings.HasPrefix(cloneURL, "https://") {
		return cloneURL
	}
	return "https://" + p.opts.Token + "@" + strings.TrimPrefix(cloneURL, "https://")
}

func commitMessage(round int) string {
	if round == 2 {
		return "Revise generated site"
	}
	return "Add generated site"
}
