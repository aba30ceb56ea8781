package hound

import (
	"context"
	"sort"
	"strings"
)

// RepoLister lists the repository ids a server indexes.
type RepoLister interface {
	ListRepos(ctx context.Context) ([]string, error)
}

// ResolveRepos turns the include/exclude selectors into the comma-joined
// repository list the search endpoint expects. When nothing is excluded
// the include selector passes through untouched (including "*"). With an
// exclusion, "*" is expanded via the repository listing endpoint and the
// difference is returned sorted.
func ResolveRepos(ctx context.Context, lister RepoLister, include, exclude string) (string, error) {
	if exclude == "" {
		return include, nil
	}

	var repos []string
	if include == "*" {
		all, err := lister.ListRepos(ctx)
		if err != nil {
			return "", err
		}
		repos = all
	} else {
		repos = splitList(include)
	}

	excluded := make(map[string]bool)
	for _, name := range splitList(exclude) {
		excluded[name] = true
	}

	kept := repos[:0]
	for _, name := range repos {
		if !excluded[name] {
			kept = append(kept, name)
		}
	}
	sort.Strings(kept)
	return strings.Join(kept, ","), nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
