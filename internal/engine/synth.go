package engine

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/hyperengineering/attire/internal/types"
)

const (
	generatedBaseConfidence = 85
	generatedJitter         = 10

	coldThreshold = 15.0
	hotThreshold  = 25.0

	tempRangeSpread = 5.0
	neutralColour   = "neutral"

	imagePreviewBase = "https://source.unsplash.com/featured/?"
)

// fabrics is the palette synthetic items draw from.
var fabrics = []string{
	"cotton-blend",
	"sustainable linen",
	"recycled polyester",
	"bamboo fiber",
	"silk",
	"khadi",
}

// synthesizer fabricates stand-in items when the catalog cannot fill a request.
// It reads the caller's original occasion, not the normalized one.
type synthesizer struct {
	c       criteria
	profile *types.StyleProfile
	rng     Rand
	ids     IDGenerator
}

func (s synthesizer) generate(n int) []types.Recommendation {
	out := make([]types.Recommendation, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, s.item(i))
	}
	return out
}

// item builds the index-th synthetic recommendation. Randomness is consumed in a
// fixed order (fabric, garment pick, confidence jitter) so a seeded Rand
// reproduces the same items.
func (s synthesizer) item(index int) types.Recommendation {
	c := s.c
	w := c.Weather
	occasion := c.occasionLabel()
	seq := index + 1

	colour := neutralColour
	if len(c.colours) > 0 {
		colour = c.colours[index%len(c.colours)]
	}
	fabric := fabrics[s.rng.IntN(len(fabrics))]

	condition := "current"
	if w != nil && w.Condition != "" {
		condition = w.Condition
	}

	garment := "outfit"
	name := fmt.Sprintf("AI Designed %s Look %d", occasion, seq)
	why := fmt.Sprintf("Synthesized for %s body type in %s weather.", c.BodyShape, condition)
	visual := fmt.Sprintf("Tailored for %s, modern cut, %s fashion", c.BodyShape, c.Gender)

	ethnic := false
	if p := s.profile; p != nil {
		name = fmt.Sprintf("%s Inspired %s Look %d", p.Adjective, occasion, seq)
		why += fmt.Sprintf(" Adapted for %s cultural style.", p.Adjective)
		visual += fmt.Sprintf(", %s aesthetic", p.Style)

		if set, ok := p.GarmentsFor(c.Gender); ok {
			pick := set.Options[0]
			if len(set.Options) > 1 && s.rng.Float64() <= 0.5 {
				pick = set.Options[1]
			}
			garment = pick.Type
			name = fmt.Sprintf("%s %s %s %d", set.NamePrefix, colour, pick.Label, seq)
			if set.Embellishment != "" {
				visual += ", " + set.Embellishment
			}
			ethnic = true
		}
	}

	// Temperature overlay. Ethnic garments keep their type and name but still
	// carry the climate rationale.
	switch {
	case w != nil && w.Temp < coldThreshold:
		if !ethnic {
			garment = "jacket"
			name = fmt.Sprintf("Smart-Heat %s Layer %d", colour, seq)
		}
		why += " Added thermal retention properties."
	case w != nil && w.Temp > hotThreshold:
		if !ethnic {
			if c.Gender == types.GenderMale {
				garment = "shirt"
				name = fmt.Sprintf("Breezy %s Summer Shirt %d", colour, seq)
			} else {
				garment = "dress"
				name = fmt.Sprintf("Breezy %s Summer Fit %d", colour, seq)
			}
		}
		why += " Maximized breathability."
	}

	confidence := generatedBaseConfidence + s.rng.IntN(generatedJitter)

	low, high := 20.0, 30.0
	if w != nil {
		low, high = roundHalfUp(w.Temp-tempRangeSpread), roundHalfUp(w.Temp+tempRangeSpread)
	}

	tags := []string{"ai-generated", occasion, c.BodyShape, colour, c.Gender}
	style := ""
	if s.profile != nil {
		style = s.profile.Style
		tags = append(tags, style)
	}

	var occasions []string
	if c.Occasion != "" {
		occasions = []string{c.Occasion}
	}

	return types.Recommendation{
		ClothingItem: types.ClothingItem{
			ID:                   s.ids.Next(),
			Name:                 name,
			Type:                 garment,
			Gender:               c.Gender,
			BodyShapeSuitability: []string{c.BodyShape},
			Occasion:             occasions,
			WeatherSuitability: types.WeatherSuitability{
				MinTemp: low,
				MaxTemp: high,
				Rain:    w != nil && isRainy(w),
			},
			Style:  style,
			Color:  colour,
			Fabric: fabric,
			Tags:   tags,
		},
		Source:        types.SourceGenerated,
		Confidence:    clampConfidence(confidence),
		Why:           why,
		SocialContent: s.social(colour, garment, occasion),
		VisualStyle:   visual,
		TempRange:     fmt.Sprintf("%.0f-%.0f°C", low, high),
		ImagePreview:  imagePreview(colour, garment, style),
	}
}

// imagePreview builds a stock-photo search URL for a generated item. It is a
// placeholder picture, not a rendering of the item.
func imagePreview(colour, garment, style string) string {
	terms := []string{colour, garment, "fashion"}
	if style != "" {
		terms = append(terms, style)
	}
	for i, t := range terms {
		terms[i] = url.QueryEscape(t)
	}
	return imagePreviewBase + strings.Join(terms, ",")
}

func (s synthesizer) social(colour, garment, occasion string) types.SocialContent {
	occasionTag := hashtagWord(occasion)
	caption := fmt.Sprintf("Feeling fabulous in this %s %s! Perfect for %s. #StyleGenius #AIStyle #%s",
		colour, garment, occasion, occasionTag)

	words := []string{
		occasionTag,
		suffixed(hashtagWord(s.c.BodyShape), "Style"),
		suffixed(hashtagWord(colour), "Fashion"),
		"OOTD",
	}
	if p := s.profile; p != nil {
		caption += fmt.Sprintf(" #%sFashion", hashtagWord(p.Adjective))
		words = append(words, suffixed(hashtagWord(p.Adjective), "Style"))
	}

	return types.SocialContent{
		Caption:        caption,
		Hashtags:       hashtags(words...),
		MarketingTitle: fmt.Sprintf("The Ultimate %s Upgrade", occasion),
	}
}

// roundHalfUp rounds halves toward positive infinity, so -2.5 becomes -2.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
