package icp

import (
	"strconv"
	"strings"
)

// Slugify lowercases the name, collapses every run of non-alphanumeric
// characters into a single hyphen, and trims hyphens from both ends.
// A name with no usable characters slugs to "workspace".
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "workspace"
	}
	return slug
}

// UniqueSlug appends an incrementing numeric suffix until the slug is
// free: acme-corp, acme-corp-1, acme-corp-2. exists reports whether a
// candidate is already taken; its error aborts the search.
func UniqueSlug(base string, exists func(slug string) (bool, error)) (string, error) {
	candidate := base
	for suffix := 1; ; suffix++ {
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(suffix)
	}
}
