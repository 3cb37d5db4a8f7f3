package datasight

import (
	"strings"

	"github.com/kurihiro0119/datasight-dora-metrics/internal/domain"
)

// Enrich returns a copy of rec with commits_url and source_code_diff_url
// derived from repo_link and commit_id. When either input is missing both
// URLs are empty strings. Enrich is pure and idempotent: re-enriching an
// already enriched record yields identical values.
func Enrich(rec *domain.Record) *domain.Record {
	out := rec.Clone()
	commitsURL, diffURL := deriveURLs(rec.String("repo_link"), rec.String("commit_id"))
	out.Set("commits_url", commitsURL)
	out.Set("source_code_diff_url", diffURL)
	return out
}

// deriveURLs maps a repository link to its host's commit-view and diff-view
// URL formats, matched by case-insensitive substring.
func deriveURLs(repoLink, commitID string) (commitsURL, diffURL string) {
	if repoLink == "" || commitID == "" {
		return "", ""
	}

	lower := strings.ToLower(repoLink)
	switch {
	case strings.Contains(lower, "github"):
		return repoLink + "/commit/" + commitID, repoLink + "/commit/" + commitID + ".diff"
	case strings.Contains(lower, "gitlab"):
		return repoLink + "/-/commit/" + commitID, repoLink + "/-/commit/" + commitID + ".diff"
	case strings.Contains(lower, "bitbucket"):
		return repoLink + "/commits/" + commitID, repoLink + "/diff/" + commitID
	default:
		return repoLink + "/commit/" + commitID, repoLink + "/diff/" + commitID
	}
}
