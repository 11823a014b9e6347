package analytics

import (
	"time"

	"github.com/newswatchhq/newswatch/internal/models"
)

// AssessCrisisLevel scores recent negative military and diplomatic
// volume into a four-level severity. The evaluation time is an explicit
// parameter so the assessment stays deterministic under test.
//
// Within the rolling window ending at now, with M the count of military
// articles and D the count of diplomatic articles below the crisis
// sentiment cutoff, the first matching rule wins:
//
//	severe:   M >= 5 or M+D >= 8
//	elevated: M >= 3 or M+D >= 5
//	moderate: M >= 1 or D >= 2
//	normal:   otherwise
func (g *Aggregator) AssessCrisisLevel(articles []models.AnnotatedArticle, now time.Time) models.CrisisLevel {
	military, diplomatic := 0, 0

	for _, a := range articles {
		age := now.Sub(a.PublishedAt)
		if age < 0 || age > g.thresholds.CrisisWindow {
			continue
		}
		if a.SentimentScore >= g.thresholds.CrisisNegative {
			continue
		}
		switch a.Category {
		case models.CategoryMilitary:
			military++
		case models.CategoryDiplomatic:
			diplomatic++
		}
	}

	combined := military + diplomatic
	switch {
	case military >= g.thresholds.SevereMilitary || combined >= g.thresholds.SevereCombined:
		return models.CrisisSevere
	case military >= g.thresholds.ElevatedMilitary || combined >= g.thresholds.ElevatedCombined:
		return models.CrisisElevated
	case military >= g.thresholds.ModerateMilitary || diplomatic >= g.thresholds.ModerateDiplomatic:
		return models.CrisisModerate
	default:
		return models.CrisisNormal
	}
}
