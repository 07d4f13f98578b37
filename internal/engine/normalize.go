package engine

import "github.com/hyperengineering/attire/internal/types"

// Occasions that are folded into an internal occasion plus a cultural context.
const (
	occasionFestival  = "festival"
	occasionReligious = "religious"

	culturalFestive      = "festive"
	culturalConservative = "conservative"
)

// criteria is a request after occasion normalization. The embedded context keeps
// the caller's original occasion; filterOccasion and cultural are what the
// filter and scorer use.
type criteria struct {
	types.RequestContext
	filterOccasion string
	cultural       string
	colours        []string
}

// NormalizeOccasion maps user-facing occasions onto the catalog vocabulary.
// festival becomes party with a festive context, religious becomes casual with a
// conservative context; everything else passes through with the caller's
// cultural preference.
func NormalizeOccasion(occasion, cultural string) (string, string) {
	switch occasion {
	case occasionFestival:
		return "party", culturalFestive
	case occasionReligious:
		return "casual", culturalConservative
	default:
		return occasion, cultural
	}
}

func newCriteria(req types.RequestContext) criteria {
	occasion, cultural := NormalizeOccasion(req.Occasion, req.CulturalPreferences)

	var colours []string
	for _, c := range req.PreferredColours {
		if c != "" {
			colours = append(colours, c)
		}
	}

	return criteria{
		RequestContext: req,
		filterOccasion: occasion,
		cultural:       cultural,
		colours:        colours,
	}
}

// occasionLabel is the occasion used in generated copy.
func (c criteria) occasionLabel() string {
	if c.Occasion == "" {
		return "everyday"
	}
	return c.Occasion
}
