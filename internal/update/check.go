// Package update performs a best-effort check for a newer released version.
// It never blocks a scan: any network problem silently disables the hint.
package update

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Result holds the outcome of a version check.
type Result struct {
	Latest    string // e.g. "v0.4.0"
	Current   string
	UpdateURL string
}

// NeedsUpdate returns true if Latest differs from Current and Current is not
// "dev".
func (r *Result) NeedsUpdate() bool {
	return r.Latest != r.Current && r.Current != "dev"
}

// githubRelease is the minimal JSON shape we need from the GitHub API.
type githubRelease struct {
	TagName string `json:"tag_name"`
}

// defaultBaseURL is the GitHub API base URL, overridable for testing.
var defaultBaseURL = "https://api.github.com"

// CheckLatest queries the GitHub Releases API for the latest release of repo
// (e.g. "LetsJonnTV/CodeAnalytics"). Returns nil on timeout, network
// failure, or non-release versions. Never returns an error to the caller.
func CheckLatest(currentVersion, repo string) *Result {
	if currentVersion == "dev" {
		return nil
	}
	return checkLatestWithBase(defaultBaseURL, currentVersion, repo)
}

func checkLatestWithBase(baseURL, currentVersion, repo string) *Result {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(1 * time.Second)

	var release githubRelease
	resp, err := client.R().
		SetResult(&release).
		Get(fmt.Sprintf("/repos/%s/releases/latest", repo))
	if err != nil || !resp.IsSuccess() {
		return nil
	}
	if release.TagName == "" {
		return nil
	}

	return &Result{
		Latest:    release.TagName,
		Current:   currentVersion,
		UpdateURL: fmt.Sprintf("go install github.com/%s/cmd/codeanalytics@latest", repo),
	}
}
