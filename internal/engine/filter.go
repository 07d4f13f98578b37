package engine

import (
	"slices"
	"strings"

	"github.com/hyperengineering/attire/internal/types"
)

// retrieve returns the catalog items compatible with every dimension of the
// request, in catalog order. Optional dimensions left empty do not filter.
func retrieve(items []types.ClothingItem, c criteria) []types.ClothingItem {
	var out []types.ClothingItem
	for _, item := range items {
		if matches(item, c) {
			out = append(out, item)
		}
	}
	return out
}

// GenderCompatible reports whether an item can be offered to gender. Unisex
// items suit everyone.
func GenderCompatible(itemGender, gender string) bool {
	return itemGender == types.GenderUnisex || itemGender == gender
}

func matches(item types.ClothingItem, c criteria) bool {
	if !GenderCompatible(item.Gender, c.Gender) {
		return false
	}
	if len(c.ClothType) > 0 && !slices.Contains(c.ClothType, item.Type) {
		return false
	}
	if !slices.Contains(item.BodyShapeSuitability, c.BodyShape) {
		return false
	}
	if c.filterOccasion != "" && !slices.Contains(item.Occasion, c.filterOccasion) {
		return false
	}
	if c.LocalityContext != "" && !slices.Contains(item.Locality, c.LocalityContext) {
		return false
	}
	if w := c.Weather; w != nil {
		ws := item.WeatherSuitability
		if w.Temp < ws.MinTemp || w.Temp > ws.MaxTemp {
			return false
		}
		if isRainy(w) && !ws.Rain {
			return false
		}
	}
	return true
}

func isRainy(w *types.WeatherSnapshot) bool {
	return strings.Contains(strings.ToLower(w.Condition), "rain")
}
