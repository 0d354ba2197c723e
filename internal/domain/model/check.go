// Package model contains the domain types for PR triage: CI checks,
// review threads, snapshots, and recommended actions.
package model

import (
	"fmt"
	"path"
)

// CheckStatus classifies a CI check into one of five states.
type CheckStatus string

const (
	CheckPass      CheckStatus = "pass"
	CheckFail      CheckStatus = "fail"
	CheckPending   CheckStatus = "pending"
	CheckSkipping  CheckStatus = "skipping"
	CheckCancelled CheckStatus = "cancelled"
)

// StatusFromBucket maps a provider "bucket" string to a CheckStatus.
// Unrecognized buckets map to CheckPending: treating an unknown state as
// "still running" is safer than misreporting it as passed or failed.
func StatusFromBucket(bucket string) CheckStatus {
	switch bucket {
	case "pass":
		return CheckPass
	case "fail":
		return CheckFail
	case "pending":
		return CheckPending
	case "skipping":
		return CheckSkipping
	case "cancel":
		return CheckCancelled
	default:
		return CheckPending
	}
}

// Check is a single CI check result for a pull request.
type Check struct {
	Name      string
	Status    CheckStatus
	DetailURL string // provider detail page; empty when the provider gave none
}

// CheckSummary holds the filtered set of checks for one decision cycle.
type CheckSummary struct {
	Checks []Check
}

// Failed returns the checks with Fail status, in input order.
func (s CheckSummary) Failed() []Check {
	var failed []Check
	for _, c := range s.Checks {
		if c.Status == CheckFail {
			failed = append(failed, c)
		}
	}
	return failed
}

// Pending returns the checks with Pending status, in input order.
func (s CheckSummary) Pending() []Check {
	var pending []Check
	for _, c := range s.Checks {
		if c.Status == CheckPending {
			pending = append(pending, c)
		}
	}
	return pending
}

// FailedNames returns the names of failed checks, in input order.
func (s CheckSummary) FailedNames() []string {
	return checkNames(s.Failed())
}

// PendingNames returns the names of pending checks, in input order.
func (s CheckSummary) PendingNames() []string {
	return checkNames(s.Pending())
}

func checkNames(checks []Check) []string {
	names := make([]string, 0, len(checks))
	for _, c := range checks {
		names = append(names, c.Name)
	}
	return names
}

// FilterChecks applies include/exclude glob patterns to a check list.
// A check is kept iff its name matches at least one include pattern (or the
// include list is empty) and matches no exclude pattern. Matching both is
// possible; exclude wins. Globs use shell-style wildcards (*, ?, character
// classes). An invalid pattern is a hard error: it is a caller configuration
// bug and must not be silently ignored.
func FilterChecks(checks []Check, includePatterns, excludePatterns []string) ([]Check, error) {
	for _, p := range includePatterns {
		if _, err := path.Match(p, ""); err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", p, err)
		}
	}
	for _, p := range excludePatterns {
		if _, err := path.Match(p, ""); err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
	}

	filtered := make([]Check, 0, len(checks))
	for _, check := range checks {
		included := len(includePatterns) == 0
		for _, p := range includePatterns {
			if ok, _ := path.Match(p, check.Name); ok {
				included = true
				break
			}
		}

		excluded := false
		for _, p := range excludePatterns {
			if ok, _ := path.Match(p, check.Name); ok {
				excluded = true
				break
			}
		}

		if included && !excluded {
			filtered = append(filtered, check)
		}
	}
	return filtered, nil
}
