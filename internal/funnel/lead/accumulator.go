// Package lead derives the qualification tier from the cumulative score and
// owns the tag union semantic applied to stored sessions.
package lead

import "funnel-engine/internal/models"

// Tier score thresholds. Tiers are half-open ranges over the cumulative
// score; anything below the cold floor is nurture.
const (
	HotThreshold  = 150
	WarmThreshold = 100
	ColdThreshold = 50
)

// TierInfo describes a qualification tier for display and routing.
type TierInfo struct {
	Tier        string `json:"tier"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Tier maps a cumulative qualification score onto a tier name.
func Tier(score int) string {
	switch {
	case score >= HotThreshold:
		return models.TierHot
	case score >= WarmThreshold:
		return models.TierWarm
	case score >= ColdThreshold:
		return models.TierCold
	default:
		return models.TierNurture
	}
}

// TierFor returns the full tier descriptor for a score.
func TierFor(score int) TierInfo {
	switch Tier(score) {
	case models.TierHot:
		return TierInfo{
			Tier:        models.TierHot,
			Label:       "Hot Lead",
			Description: "High intent, ready to buy, reach out immediately",
		}
	case models.TierWarm:
		return TierInfo{
			Tier:        models.TierWarm,
			Label:       "Warm Lead",
			Description: "Good potential, follow up within 24 hours",
		}
	case models.TierCold:
		return TierInfo{
			Tier:        models.TierCold,
			Label:       "Cold Lead",
			Description: "Early stage, add to nurture sequence",
		}
	default:
		return TierInfo{
			Tier:        models.TierNurture,
			Label:       "Nurture",
			Description: "Low intent, long-term follow up",
		}
	}
}

// MergeTags unions additions into existing, preserving the order of existing
// and the first-seen order of new tags. This is the union semantic for stored
// session tags; the store applies it inside its update transaction.
func MergeTags(existing, additions []string) []string {
	seen := make(map[string]struct{}, len(existing))
	out := make([]string, 0, len(existing)+len(additions))
	for _, tag := range existing {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	for _, tag := range additions {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
