package main

import (
	"fmt"
	"regexp"
	"strings"
)

// RevisionInfo identifies the checked-out state of a source tree: the HEAD
// commit hash and, when a release is checked out, its version tag with the
// "v" prefix stripped.
type RevisionInfo struct {
	CommitHash string
	VersionTag string
}

// One run observes a single immutable checkout per path, so the lookup is
// memoized in an explicit table populated on first use.
var revisions = map[string]RevisionInfo{}

var versionTagPattern = regexp.MustCompile(`^v[0-9]`)

// InspectRevision returns the revision identity of the repository at path.
func InspectRevision(path string) (RevisionInfo, error) {
	if info, ok := revisions[path]; ok {
		return info, nil
	}
	head, _, err := RunCommand("git", []string{"rev-parse", "HEAD"}, path, nil)
	if err != nil {
		return RevisionInfo{}, fmt.Errorf("failed to inspect the revision of %v: %w", path, err)
	}
	info := RevisionInfo{CommitHash: strings.TrimSpace(head)}

	tagList, _, err := RunCommand("git", []string{"tag", "--points-at", "HEAD"}, path, nil)
	if err != nil {
		return RevisionInfo{}, fmt.Errorf("failed to list tags of %v: %w", path, err)
	}
	versionTags := make([]string, 0)
	for _, tag := range strings.Fields(tagList) {
		if versionTagPattern.MatchString(tag) {
			versionTags = append(versionTags, tag)
		}
	}
	if len(versionTags) > 1 {
		return RevisionInfo{}, fmt.Errorf("found multiple version tags at the HEAD of %v: %v", path, versionTags)
	}
	if len(versionTags) == 1 {
		info.VersionTag = strings.TrimPrefix(versionTags[0], "v")
	}
	revisions[path] = info
	return info, nil
}
