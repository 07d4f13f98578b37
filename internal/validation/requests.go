package validation

import (
	"fmt"
	"strings"

	"github.com/hyperengineering/attire/internal/types"
)

const (
	// MaxResultsLimit caps how many recommendations a single request may ask for.
	MaxResultsLimit = 50

	// MaxLabelLength bounds free-form context labels (body shape, occasion, ...).
	MaxLabelLength = 64

	// MaxDescriptionLength bounds outfit descriptions sent to the renderer.
	MaxDescriptionLength = 1000
)

// ValidGenders lists the genders accepted on requests and catalog items.
var ValidGenders = []string{types.GenderMale, types.GenderFemale, types.GenderUnisex}

// ValidModes lists the accepted recommendation modes.
var ValidModes = []string{
	string(types.ModeHybrid),
	string(types.ModeCatalogRetrieval),
	string(types.ModeGenerative),
}

// ValidateRecommendRequest checks the fields the engine cannot default.
// gender, body_shape, mode and max_results are required; the rest are optional labels.
func ValidateRecommendRequest(req types.RequestContext) []ValidationError {
	var c Collector

	if err := ValidateRequired("gender", req.Gender); err != nil {
		c.Add(err)
	} else {
		c.Add(ValidateEnum("gender", req.Gender, ValidGenders))
	}

	if err := ValidateRequired("body_shape", req.BodyShape); err != nil {
		c.Add(err)
	} else {
		c.Add(validateLabel("body_shape", req.BodyShape))
	}

	if err := ValidateRequired("mode", string(req.Mode)); err != nil {
		c.Add(err)
	} else {
		c.Add(ValidateEnum("mode", string(req.Mode), ValidModes))
	}

	c.Add(ValidateIntRange("max_results", req.MaxResults, 1, MaxResultsLimit))

	c.Add(validateLabel("occasion", req.Occasion))
	c.Add(validateLabel("locality_context", req.LocalityContext))
	c.Add(validateLabel("cultural_preferences", req.CulturalPreferences))

	for i, colour := range req.PreferredColours {
		c.Add(validateLabel(fmt.Sprintf("preferred_colours[%d]", i), colour))
	}
	for i, ct := range req.ClothType {
		c.Add(validateLabel(fmt.Sprintf("cloth_type[%d]", i), ct))
	}

	if req.Weather != nil {
		c.Add(ValidateMaxLength("weather.country", req.Weather.Country, 2))
	}

	return c.Errors()
}

// ValidateClothingItem checks a catalog entry before it is admitted into a snapshot.
// The index is used in field names so batch imports report which entry failed.
func ValidateClothingItem(index int, item types.ClothingItem) []ValidationError {
	var c Collector
	prefix := fmt.Sprintf("items[%d]", index)

	c.Add(ValidateRequired(prefix+".id", item.ID))
	c.Add(ValidateRequired(prefix+".name", item.Name))
	c.Add(ValidateRequired(prefix+".type", item.Type))
	if err := ValidateRequired(prefix+".gender", item.Gender); err != nil {
		c.Add(err)
	} else {
		c.Add(ValidateEnum(prefix+".gender", item.Gender, ValidGenders))
	}
	if len(item.BodyShapeSuitability) == 0 {
		c.Add(&ValidationError{Field: prefix + ".body_shape_suitability", Message: "must not be empty"})
	}
	if item.WeatherSuitability.MinTemp > item.WeatherSuitability.MaxTemp {
		c.Add(&ValidationError{Field: prefix + ".weather_suitability", Message: "min_temp must not exceed max_temp"})
	}
	c.Add(ValidateNoNullBytes(prefix+".description", item.Description))
	c.Add(ValidateUTF8(prefix+".description", item.Description))

	return c.Errors()
}

// ValidateRenderRequest checks a render request. Gender and skin tone are defaulted downstream.
func ValidateRenderRequest(req types.RenderRequest) []ValidationError {
	var c Collector

	if err := ValidateRequired("outfit_description", req.OutfitDescription); err != nil {
		c.Add(err)
	} else {
		c.Add(ValidateMaxLength("outfit_description", req.OutfitDescription, MaxDescriptionLength))
		c.Add(ValidateNoNullBytes("outfit_description", req.OutfitDescription))
		c.Add(ValidateUTF8("outfit_description", req.OutfitDescription))
	}
	c.Add(validateLabel("body_shape", req.BodyShape))
	c.Add(validateLabel("skin_tone", req.SkinTone))
	if req.GenderIdentity != "" {
		c.Add(ValidateEnum("gender_identity", strings.ToLower(req.GenderIdentity), ValidGenders))
	}

	return c.Errors()
}

func validateLabel(field, value string) *ValidationError {
	if err := ValidateMaxLength(field, value, MaxLabelLength); err != nil {
		return err
	}
	if err := ValidateNoNullBytes(field, value); err != nil {
		return err
	}
	return ValidateUTF8(field, value)
}
