// Package suggestion derives habit recommendations from completion history.
// All analysis is deterministic; the same history always yields the same
// suggestions in the same order.
package suggestion

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/habitloop/habitloop/store"
)

// Kind tags where a suggestion came from.
type Kind string

const (
	KindOptimalTime   Kind = "OPTIMAL_TIME"
	KindCategoryFocus Kind = "CATEGORY_FOCUS"
	KindComplementary Kind = "COMPLEMENTARY"
	KindPopular       Kind = "POPULAR"
)

// Suggestion is one recommendation. Confidence is in [0, 1]. Title and
// Description are display-ready copy derived from the same fields.
type Suggestion struct {
	Kind        Kind    `json:"kind"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	HabitName   string  `json:"habitName,omitempty"`
	Category    string  `json:"category,omitempty"`
	HourOfDay   int     `json:"hourOfDay,omitempty"`
	Confidence  float64 `json:"confidence"`
}

// Config holds the analyzer's reference tables and gates. The analysis
// algorithms are fixed; everything the analysis consults is data here.
type Config struct {
	// MinTimeSamples is the completion count needed before the hour-of-day
	// pattern is trusted.
	MinTimeSamples int
	// MinCategorySamples is the completion count a category needs before
	// its success rate is trusted.
	MinCategorySamples int
	// Complementary maps a tracked category to habits that pair well with
	// it. Entries the user already tracks are filtered out.
	Complementary map[string][]string
	// ComplementaryConfidence is assigned to every complementary pairing.
	ComplementaryConfidence float64
	// Popular is the fallback reference list for users with little
	// history, ordered by popularity.
	Popular []Suggestion
}

// DefaultConfig returns the stock reference tables.
func DefaultConfig() Config {
	return Config{
		MinTimeSamples:          5,
		MinCategorySamples:      5,
		ComplementaryConfidence: 0.5,
		Complementary: map[string][]string{
			"fitness":      {"Stretching", "Meal prep"},
			"health":       {"Drink water", "Sleep by 11pm"},
			"learning":     {"Review notes", "Read 20 minutes"},
			"mindfulness":  {"Journaling", "Evening walk"},
			"productivity": {"Plan tomorrow", "Inbox zero"},
		},
		Popular: []Suggestion{
			{Kind: KindPopular, Title: "Try Drink water", Description: "A popular health habit to get started with", HabitName: "Drink water", Category: "health", Confidence: 0.35},
			{Kind: KindPopular, Title: "Try Read 20 minutes", Description: "A popular learning habit to get started with", HabitName: "Read 20 minutes", Category: "learning", Confidence: 0.32},
			{Kind: KindPopular, Title: "Try Morning walk", Description: "A popular fitness habit to get started with", HabitName: "Morning walk", Category: "fitness", Confidence: 0.30},
			{Kind: KindPopular, Title: "Try Meditate", Description: "A popular mindfulness habit to get started with", HabitName: "Meditate", Category: "mindfulness", Confidence: 0.28},
			{Kind: KindPopular, Title: "Try Journaling", Description: "A popular mindfulness habit to get started with", HabitName: "Journaling", Category: "mindfulness", Confidence: 0.25},
		},
	}
}

// Suggest analyzes the user's habits and completion logs. tz locates the
// hour-of-day analysis; logs carry real completion timestamps in CreatedTs.
func Suggest(habits []*store.Habit, logs []*store.HabitLog, tz *time.Location, config Config) []Suggestion {
	suggestions := make([]Suggestion, 0, 8)

	if s, ok := optimalTime(logs, tz, config.MinTimeSamples); ok {
		suggestions = append(suggestions, s)
	}
	suggestions = append(suggestions, categoryFocus(logs, config.MinCategorySamples)...)
	suggestions = append(suggestions, complementary(habits, config)...)
	suggestions = append(suggestions, popular(habits, config.Popular)...)

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Confidence > suggestions[j].Confidence
	})
	return suggestions
}

// optimalTime finds the hour of day where completions cluster. Confidence is
// the peak hour's share of all completions.
func optimalTime(logs []*store.HabitLog, tz *time.Location, minSamples int) (Suggestion, bool) {
	if len(logs) < minSamples {
		return Suggestion{}, false
	}
	var hours [24]int
	for _, log := range logs {
		hours[time.Unix(log.CreatedTs, 0).In(tz).Hour()]++
	}
	peakHour, peakCount := 0, 0
	for hour, count := range hours {
		if count > peakCount {
			peakHour, peakCount = hour, count
		}
	}
	confidence := float64(peakCount) / float64(len(logs))
	return Suggestion{
		Kind:        KindOptimalTime,
		Title:       "Your best time of day",
		Description: fmt.Sprintf("%.0f%% of your completions happen around %02d:00", confidence*100, peakHour),
		HourOfDay:   peakHour,
		Confidence:  confidence,
	}, true
}

// categoryFocus surfaces up to three categories where the user demonstrably
// succeeds. Categories with fewer than minSamples completions are ignored
// rather than guessed at.
func categoryFocus(logs []*store.HabitLog, minSamples int) []Suggestion {
	if len(logs) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, log := range logs {
		if log.Category != "" {
			counts[log.Category]++
		}
	}

	categories := make([]string, 0, len(counts))
	for category, count := range counts {
		if count >= minSamples {
			categories = append(categories, category)
		}
	}
	sort.Slice(categories, func(i, j int) bool {
		if counts[categories[i]] != counts[categories[j]] {
			return counts[categories[i]] > counts[categories[j]]
		}
		return categories[i] < categories[j]
	})
	if len(categories) > 3 {
		categories = categories[:3]
	}

	total := len(logs)
	suggestions := make([]Suggestion, 0, len(categories))
	for _, category := range categories {
		share := float64(counts[category]) / float64(total)
		suggestions = append(suggestions, Suggestion{
			Kind:        KindCategoryFocus,
			Title:       fmt.Sprintf("Double down on %s", category),
			Description: fmt.Sprintf("%.0f%% of your completions are %s habits", share*100, category),
			Category:    category,
			Confidence:  share,
		})
	}
	return suggestions
}

func complementary(habits []*store.Habit, config Config) []Suggestion {
	tracked := trackedNames(habits)
	categories := make([]string, 0, len(habits))
	seen := make(map[string]bool)
	for _, habit := range habits {
		category := strings.ToLower(habit.Category)
		if category != "" && !seen[category] {
			seen[category] = true
			categories = append(categories, category)
		}
	}
	sort.Strings(categories)

	suggestions := make([]Suggestion, 0)
	for _, category := range categories {
		for _, name := range config.Complementary[category] {
			if tracked[strings.ToLower(name)] {
				continue
			}
			suggestions = append(suggestions, Suggestion{
				Kind:        KindComplementary,
				Title:       fmt.Sprintf("Try %s", name),
				Description: fmt.Sprintf("Pairs well with your %s habits", category),
				HabitName:   name,
				Category:    category,
				Confidence:  config.ComplementaryConfidence,
			})
		}
	}
	return suggestions
}

func popular(habits []*store.Habit, reference []Suggestion) []Suggestion {
	tracked := trackedNames(habits)
	suggestions := make([]Suggestion, 0, len(reference))
	for _, s := range reference {
		if tracked[strings.ToLower(s.HabitName)] {
			continue
		}
		suggestions = append(suggestions, s)
	}
	return suggestions
}

func trackedNames(habits []*store.Habit) map[string]bool {
	tracked := make(map[string]bool, len(habits))
	for _, habit := range habits {
		tracked[strings.ToLower(habit.Name)] = true
	}
	return tracked
}
