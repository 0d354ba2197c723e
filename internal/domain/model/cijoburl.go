package model

import (
	"strconv"
	"strings"
)

// IsCIJobURL reports whether a check detail URL points at CircleCI.
func IsCIJobURL(url string) bool {
	return strings.Contains(url, "circleci.com")
}

// ParseCIJobURL extracts job coordinates from a CircleCI check detail URL.
// Two shapes are recognized:
//
//	https://circleci.com/gh/owner/repo/12345
//	https://app.circleci.com/pipelines/github/owner/repo/456/workflows/abc/jobs/789
//
// Query strings and trailing slashes are tolerated. The second result is
// false for anything else.
func ParseCIJobURL(url string) (CIJobInfo, bool) {
	if info, ok := parseAppJobURL(url); ok {
		return info, true
	}
	return parseClassicJobURL(url)
}

func parseClassicJobURL(url string) (CIJobInfo, bool) {
	url, _, _ = strings.Cut(url, "?")
	url = strings.TrimSuffix(url, "/")

	parts := strings.Split(url, "/")
	hostIdx := -1
	for i, p := range parts {
		if p == "circleci.com" {
			hostIdx = i
			break
		}
	}
	if hostIdx < 0 || len(parts) < hostIdx+5 {
		return CIJobInfo{}, false
	}

	jobNumber, err := strconv.Atoi(parts[hostIdx+4])
	if err != nil {
		return CIJobInfo{}, false
	}

	return CIJobInfo{
		VCS:       parts[hostIdx+1],
		Owner:     parts[hostIdx+2],
		Repo:      parts[hostIdx+3],
		JobNumber: jobNumber,
	}, true
}

func parseAppJobURL(url string) (CIJobInfo, bool) {
	url, _, _ = strings.Cut(url, "?")
	if !strings.Contains(url, "app.circleci.com") {
		return CIJobInfo{}, false
	}

	_, afterJobs, found := strings.Cut(url, "/jobs/")
	if !found {
		return CIJobInfo{}, false
	}
	jobNumberStr, _, _ := strings.Cut(afterJobs, "/")
	jobNumber, err := strconv.Atoi(jobNumberStr)
	if err != nil {
		return CIJobInfo{}, false
	}

	_, afterPipelines, found := strings.Cut(url, "/pipelines/")
	if !found {
		return CIJobInfo{}, false
	}
	parts := strings.Split(afterPipelines, "/")
	if len(parts) < 3 {
		return CIJobInfo{}, false
	}

	vcs := parts[0]
	switch vcs {
	case "github":
		vcs = "gh"
	case "bitbucket":
		vcs = "bb"
	}

	return CIJobInfo{
		VCS:       vcs,
		Owner:     parts[1],
		Repo:      parts[2],
		JobNumber: jobNumber,
	}, true
}
