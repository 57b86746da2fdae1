package publisher

import (
	"crypto/sha256"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// RepoName derives the GitHub repository name for a task id. The same task id
// always maps to the same name, which is how a round 2 request locates the
// repository created in round 1 without an explicit reference. The sanitized
// prefix is capped at 15 characters and an 8-hex-char hash of the full task
// id keeps names distinct for ids that share a long prefix. The result
// satisfies GitHub naming rules: lowercase alphanumerics and hyphens, no
// leading, trailing, or consecutive hyphens.
func RepoName(taskID string) string {
	base := nonAlnum.ReplaceAllString(strings.ToLower(taskID), "-")
	base = strings.Trim(base, "-")
	if len(base) > 15 {
		base = strings.TrimRight(base[:15], "-")
	}
	if base == "" {
		base = "task"
	}

	sum := sha256.Sum256([]byte(taskID))
	return fmt.Sprintf("%s-%x", base, sum[:4])
}

// RepoNameFromURL extracts the repository name from a GitHub repository URL
// such as https://github.com/owner/repo or its .git clone form.
func RepoNameFromURL(repoURL string) (string, error) {
	u, err := url.Parse(repoURL)
	if err != nil {
		return "", fmt.Errorf("invalid repository url %q: %w", repoURL, err)
	}

	name := path.Base(strings.TrimSuffix(u.Path, "/"))
	name = strings.TrimSuffix(name, ".git")
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("repository url %q has no repository name", repoURL)
	}
	return name, nil
}
