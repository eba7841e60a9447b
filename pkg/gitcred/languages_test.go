package gitcred

import (
	"math"
	"testing"
)

func TestLanguageStats(t *testing.T) {
	repos := []Repository{
		{Name: "a", Language: "TypeScript", SizeKB: 1000},
		{Name: "b", Language: "Python", SizeKB: 500},
		{Name: "c", Language: "", SizeKB: 9999},  // no language, excluded
		{Name: "d", Language: "Rust", SizeKB: 0}, // zero size, excluded
	}

	stats := languageStats(repos)
	if len(stats) != 2 {
		t.Fatalf("got %d language stats, want 2", len(stats))
	}

	if stats[0].Language != "TypeScript" || stats[1].Language != "Python" {
		t.Errorf("order = [%s, %s], want [TypeScript, Python]", stats[0].Language, stats[1].Language)
	}
	if math.Abs(stats[0].Percentage-66.666) > 0.01 {
		t.Errorf("TypeScript percentage = %f, want ~66.67", stats[0].Percentage)
	}
	if math.Abs(stats[1].Percentage-33.333) > 0.01 {
		t.Errorf("Python percentage = %f, want ~33.33", stats[1].Percentage)
	}

	total := 0.0
	for _, s := range stats {
		total += s.Percentage
	}
	if math.Abs(total-100) > 0.01 {
		t.Errorf("percentages sum to %f, want 100", total)
	}
}

func TestLanguageStatsAggregatesSameLanguage(t *testing.T) {
	repos := []Repository{
		{Name: "a", Language: "Go", SizeKB: 300},
		{Name: "b", Language: "Go", SizeKB: 700},
	}

	stats := languageStats(repos)
	if len(stats) != 1 {
		t.Fatalf("got %d language stats, want 1", len(stats))
	}
	if stats[0].Bytes != 1000 {
		t.Errorf("Go bytes = %d, want 1000", stats[0].Bytes)
	}
	if stats[0].Percentage != 100 {
		t.Errorf("Go percentage = %f, want 100", stats[0].Percentage)
	}
}

func TestLanguageStatsEmpty(t *testing.T) {
	if stats := languageStats(nil); len(stats) != 0 {
		t.Errorf("languageStats(nil) = %v, want empty", stats)
	}
	if stats := languageStats([]Repository{{Language: "", SizeKB: 100}}); len(stats) != 0 {
		t.Errorf("languageStats with no usable repos = %v, want empty", stats)
	}
}
