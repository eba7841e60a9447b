package gitcred

import "sort"

// languageStats derives a size-weighted language breakdown, using each
// repository's total size as an approximation of bytes in its primary
// language. Repositories without a language or with zero size are excluded
// from the denominator entirely.
func languageStats(repos []Repository) []LanguageStat {
	bytesByLanguage := make(map[string]int)
	totalBytes := 0

	for _, repo := range repos {
		if repo.Language == "" || repo.SizeKB <= 0 {
			continue
		}
		bytesByLanguage[repo.Language] += repo.SizeKB
		totalBytes += repo.SizeKB
	}

	if totalBytes == 0 {
		return nil
	}

	stats := make([]LanguageStat, 0, len(bytesByLanguage))
	for language, bytes := range bytesByLanguage {
		stats = append(stats, LanguageStat{
			Language:   language,
			Bytes:      bytes,
			Percentage: float64(bytes) / float64(totalBytes) * 100,
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Percentage != stats[j].Percentage {
			return stats[i].Percentage > stats[j].Percentage
		}
		return stats[i].Language < stats[j].Language
	})
	return stats
}
