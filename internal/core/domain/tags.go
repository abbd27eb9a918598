package domain

import (
	"regexp"
	"sort"
	"strings"
)

var tagDisallowed = regexp.MustCompile(`[^a-z0-9_-]`)

// NormalizeTag trims and lowercases a tag, turns spaces into hyphens and
// drops every other character outside [a-z0-9_-].
//
//	NormalizeTag(" Go Lang! ")  // returns "go-lang"
func NormalizeTag(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	tag = strings.ReplaceAll(tag, " ", "-")
	return tagDisallowed.ReplaceAllString(tag, "")
}

// NormalizeTags normalizes every tag and drops the ones left empty.
// Duplicates are removed, keeping the first occurrence.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = NormalizeTag(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// ParseTags splits the admin form's tag field. Tags are comma separated
// when the field contains a comma and whitespace separated otherwise.
//
//	ParseTags("go, web dev")  // returns ["go", "web-dev"]
//	ParseTags("go web")       // returns ["go", "web"]
func ParseTags(raw string) []string {
	raw = strings.ToLower(raw)
	var parts []string
	if strings.Contains(raw, ",") {
		parts = strings.Split(raw, ",")
	} else {
		parts = strings.Fields(raw)
	}
	return NormalizeTags(parts)
}

// =============================================================================
// Tag Cloud
// =============================================================================

// TagWeight is a tag with its share of all tag uses, between 0 and 1.
type TagWeight struct {
	Tag    string  `json:"tag"`
	Count  int     `json:"count"`
	Weight float64 `json:"weight"`
}

// TagCloud turns raw tag counts into weights, heaviest first. Ties are
// ordered by tag, descending.
func TagCloud(counts map[string]int) []TagWeight {
	total := 0
	for _, c := range counts {
		total += c
	}

	cloud := make([]TagWeight, 0, len(counts))
	for tag, c := range counts {
		if c <= 0 {
			continue
		}
		cloud = append(cloud, TagWeight{
			Tag:    tag,
			Count:  c,
			Weight: float64(c) / float64(total),
		})
	}

	sort.Slice(cloud, func(i, j int) bool {
		if cloud[i].Count != cloud[j].Count {
			return cloud[i].Count > cloud[j].Count
		}
		return cloud[i].Tag > cloud[j].Tag
	})
	return cloud
}
