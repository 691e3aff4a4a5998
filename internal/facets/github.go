package facets

import (
	"regexp"
	"strings"
)

var githubRepoPattern = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)`)

// GitHubRepo identifies a repository hosted on GitHub.
type GitHubRepo struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
	URL   string `json:"url"`
}

// GitHubInfo extracts the owner and repository from a GitHub URL.
// A trailing ".git" is removed from the repository name.
// The second return value is false when the URL does not point at GitHub.
func GitHubInfo(repoURL string) (GitHubRepo, bool) {
	m := githubRepoPattern.FindStringSubmatch(repoURL)
	if m == nil {
		return GitHubRepo{}, false
	}

	return GitHubRepo{
		Owner: m[1],
		Repo:  strings.TrimSuffix(m[2], ".git"),
		URL:   repoURL,
	}, true
}
