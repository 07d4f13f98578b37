package engine

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/hyperengineering/attire/internal/types"
)

const (
	baseConfidence    = 70
	colourBonus       = 15
	culturalBonus     = 10
	countryStyleBonus = 25
	visualMatchBonus  = 20
	maxConfidence     = 100

	// visualMatchThreshold gives the placeholder roughly a 30% hit rate.
	visualMatchThreshold = 0.7
)

// score turns retrieved items into catalog recommendations, sorted by
// descending confidence. Ties keep catalog order.
//
// The visual-match bonus is a stochastic placeholder: when a reference image is
// supplied, each item independently has a ~30% chance of being treated as
// visually similar. No image content is inspected.
func score(items []types.ClothingItem, c criteria, profile *types.StyleProfile, rng Rand) []types.Recommendation {
	recs := make([]types.Recommendation, 0, len(items))
	for _, item := range items {
		recs = append(recs, scoreItem(item, c, profile, rng))
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Confidence > recs[j].Confidence
	})
	return recs
}

func scoreItem(item types.ClothingItem, c criteria, profile *types.StyleProfile, rng Rand) types.Recommendation {
	points := baseConfidence

	if matchesColour(item.Color, c.colours) {
		points += colourBonus
	}
	if c.cultural == culturalConservative && item.Style != "revealing" {
		points += culturalBonus
	}
	if c.cultural == culturalFestive && (item.Style == "glam" || item.Style == "chic") {
		points += culturalBonus
	}
	if profile != nil && matchesProfile(item, profile.Keywords) {
		points += countryStyleBonus
	}

	why := fmt.Sprintf("Matches %s and %s shape.", c.occasionLabel(), c.BodyShape)
	if c.HasReferenceImage() && rng.Float64() > visualMatchThreshold {
		points += visualMatchBonus
		why = "Visually similar to your upload."
	}

	return types.Recommendation{
		ClothingItem:  item,
		Source:        types.SourceCatalog,
		Confidence:    clampConfidence(points),
		Why:           why,
		SocialContent: catalogSocial(item, c),
	}
}

func clampConfidence(points int) int {
	return max(0, min(points, maxConfidence))
}

func matchesColour(itemColour string, colours []string) bool {
	lower := strings.ToLower(itemColour)
	for _, c := range colours {
		if strings.Contains(lower, strings.ToLower(c)) {
			return true
		}
	}
	return false
}

// matchesProfile reports whether any keyword appears in the item's tags,
// style, description or name, ignoring case.
func matchesProfile(item types.ClothingItem, keywords []string) bool {
	style := strings.ToLower(item.Style)
	description := strings.ToLower(item.Description)
	name := strings.ToLower(item.Name)

	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if kw == "" {
			continue
		}
		for _, tag := range item.Tags {
			if strings.Contains(strings.ToLower(tag), kw) {
				return true
			}
		}
		if strings.Contains(style, kw) || strings.Contains(description, kw) || strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

func catalogSocial(item types.ClothingItem, c criteria) types.SocialContent {
	weather := "any"
	if c.Weather != nil && c.Weather.Condition != "" {
		weather = "the " + c.Weather.Condition
	}

	return types.SocialContent{
		Caption: fmt.Sprintf("Loving this %s! Perfect for %s weather.", item.Name, weather),
		Hashtags: hashtags(
			"Fashion",
			hashtagWord(item.Style),
			hashtagWord(c.Occasion),
			suffixed(hashtagWord(c.BodyShape), "Style"),
			suffixed(hashtagWord(item.Color), "Fashion"),
			"StyleGenius",
		),
		MarketingTitle: item.Name,
	}
}

// hashtags prefixes each non-empty word with '#' and drops duplicates, keeping order.
func hashtags(words ...string) []string {
	seen := make(map[string]bool, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		tag := "#" + w
		if seen[strings.ToLower(tag)] {
			continue
		}
		seen[strings.ToLower(tag)] = true
		out = append(out, tag)
	}
	return out
}

// hashtagWord strips everything but letters and digits so labels like
// "navy blue" or "cotton-blend" become usable hashtags.
func hashtagWord(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

func suffixed(word, suffix string) string {
	if word == "" {
		return ""
	}
	return word + suffix
}
