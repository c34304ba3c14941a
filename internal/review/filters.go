package review

import "prwatch/internal/model"

// FilterByStatus keeps only PRs with the given status.
func FilterByStatus(prs []model.ProcessedPR, status model.Status) []model.ProcessedPR {
	filtered := make([]model.ProcessedPR, 0, len(prs))
	for _, pr := range prs {
		if pr.Status == status {
			filtered = append(filtered, pr)
		}
	}
	return filtered
}

// FilterOutDrafts removes draft PRs.
func FilterOutDrafts(prs []model.ProcessedPR) []model.ProcessedPR {
	filtered := make([]model.ProcessedPR, 0, len(prs))
	for _, pr := range prs {
		if pr.Draft {
			continue
		}
		filtered = append(filtered, pr)
	}
	return filtered
}

// FilterByExcludedAuthors removes PRs authored by users in the exclude list.
// This is useful for filtering out bot accounts like dependabot, renovate, etc.
func FilterByExcludedAuthors(prs []model.ProcessedPR, excludedAuthors []string) []model.ProcessedPR {
	if len(excludedAuthors) == 0 {
		return prs
	}

	excludeSet := make(map[string]bool, len(excludedAuthors))
	for _, author := range excludedAuthors {
		excludeSet[author] = true
	}

	filtered := make([]model.ProcessedPR, 0, len(prs))
	for _, pr := range prs {
		if excludeSet[pr.Author] {
			continue
		}
		filtered = append(filtered, pr)
	}
	return filtered
}
