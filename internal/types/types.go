package types

import (
	"strings"

	"github.com/goccy/go-json"
)

// Gender labels shared by catalog items and requests.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderUnisex = "unisex"
)

// Mode selects how the engine balances catalog retrieval against synthesis.
type Mode string

const (
	ModeHybrid           Mode = "hybrid"
	ModeCatalogRetrieval Mode = "catalog_retrieval"
	ModeGenerative       Mode = "generative"
)

// Source tells whether a recommendation came from the catalog or was synthesized.
type Source string

const (
	SourceCatalog   Source = "catalog"
	SourceGenerated Source = "generated"
)

// WeatherSuitability bounds the conditions an item can be worn in.
type WeatherSuitability struct {
	MinTemp float64 `json:"min_temp" yaml:"min_temp"`
	MaxTemp float64 `json:"max_temp" yaml:"max_temp"`
	Rain    bool    `json:"rain" yaml:"rain"`
}

// ClothingItem is a catalog entry. Items are shared read-only across requests.
type ClothingItem struct {
	ID                   string             `json:"id" yaml:"id"`
	Name                 string             `json:"name" yaml:"name"`
	Description          string             `json:"description" yaml:"description"`
	Type                 string             `json:"type" yaml:"type"`
	Gender               string             `json:"gender" yaml:"gender"`
	BodyShapeSuitability []string           `json:"body_shape_suitability" yaml:"body_shape_suitability"`
	Occasion             []string           `json:"occasion" yaml:"occasion"`
	Locality             []string           `json:"locality" yaml:"locality"`
	WeatherSuitability   WeatherSuitability `json:"weather_suitability" yaml:"weather_suitability"`
	Style                string             `json:"style" yaml:"style"`
	Color                string             `json:"color" yaml:"color"`
	Fabric               string             `json:"fabric" yaml:"fabric"`
	Tags                 []string           `json:"tags" yaml:"tags"`
}

// WeatherSnapshot is the current weather at the requester's location.
type WeatherSnapshot struct {
	Temp        float64 `json:"temp"`
	Humidity    float64 `json:"humidity"`
	Condition   string  `json:"condition"`
	Description string  `json:"description"`
	WindSpeed   float64 `json:"wind_speed"`
	City        string  `json:"city"`
	Country     string  `json:"country"`
}

// RequestContext carries everything the engine needs for one recommendation call.
// ReferenceImage is only checked for presence.
type RequestContext struct {
	Weather             *WeatherSnapshot `json:"weather"`
	BodyShape           string           `json:"body_shape"`
	PreferredColours    []string         `json:"preferred_colours"`
	LocalityContext     string           `json:"locality_context"`
	Occasion            string           `json:"occasion"`
	ClothType           []string         `json:"cloth_type"`
	CulturalPreferences string           `json:"cultural_preferences"`
	Mode                Mode             `json:"mode"`
	MaxResults          int              `json:"max_results"`
	Gender              string           `json:"gender"`
	ReferenceImage      string           `json:"reference_image,omitempty"`
}

// HasReferenceImage reports whether the caller uploaded a reference image.
func (r RequestContext) HasReferenceImage() bool {
	return r.ReferenceImage != ""
}

// RecommendRequest is the HTTP body for POST /recommend. Weather is resolved from
// Location; omitted Mode and MaxResults take the server defaults.
type RecommendRequest struct {
	Location            string   `json:"location"`
	BodyShape           string   `json:"body_shape"`
	PreferredColours    []string `json:"preferred_colours"`
	LocalityContext     string   `json:"locality_context"`
	Occasion            string   `json:"occasion"`
	ClothType           []string `json:"cloth_type"`
	CulturalPreferences string   `json:"cultural_preferences"`
	Mode                Mode     `json:"mode"`
	MaxResults          *int     `json:"max_results"`
	Gender              string   `json:"gender"`
	ReferenceImage      string   `json:"reference_image"`
}

// Context maps the body onto an engine request. Mode and MaxResults fall back to
// the given defaults when omitted; gender and cultural preference are trimmed
// and lowercased.
func (r RecommendRequest) Context(weather *WeatherSnapshot, defaultMode Mode, defaultMaxResults int) RequestContext {
	mode := r.Mode
	if mode == "" {
		mode = defaultMode
	}
	maxResults := defaultMaxResults
	if r.MaxResults != nil {
		maxResults = *r.MaxResults
	}

	return RequestContext{
		Weather:             weather,
		BodyShape:           r.BodyShape,
		PreferredColours:    r.PreferredColours,
		LocalityContext:     r.LocalityContext,
		Occasion:            r.Occasion,
		ClothType:           r.ClothType,
		CulturalPreferences: strings.ToLower(strings.TrimSpace(r.CulturalPreferences)),
		Mode:                mode,
		MaxResults:          maxResults,
		Gender:              strings.ToLower(strings.TrimSpace(r.Gender)),
		ReferenceImage:      r.ReferenceImage,
	}
}

// SocialContent is ready-to-post copy attached to every recommendation.
type SocialContent struct {
	Caption        string   `json:"caption"`
	Hashtags       []string `json:"hashtags"`
	MarketingTitle string   `json:"marketing_title"`
}

// Recommendation is a ClothingItem enriched with a score and presentation fields.
// VisualStyle, TempRange and ImagePreview are only set on generated items.
type Recommendation struct {
	ClothingItem
	Source        Source        `json:"source"`
	Confidence    int           `json:"confidence"`
	Why           string        `json:"why"`
	SocialContent SocialContent `json:"social_content"`
	VisualStyle   string        `json:"visual_style,omitempty"`
	TempRange     string        `json:"temp_range,omitempty"`
	ImagePreview  string        `json:"image_preview,omitempty"`
}

// Analytics summarises one engine run.
type Analytics struct {
	RetrievedCount int   `json:"retrieved_count"`
	GeneratedCount int   `json:"generated_count"`
	TimeMS         int64 `json:"time_ms"`
}

// RecommendationResult is the engine's output for one request.
type RecommendationResult struct {
	Recommendations []Recommendation `json:"recommendations"`
	Analytics       Analytics        `json:"analytics"`
}

// Garment is one culturally specific archetype a profile can synthesize.
type Garment struct {
	Type  string `json:"type" yaml:"type"`
	Label string `json:"label" yaml:"label"`
}

// GarmentSet holds the two archetypes offered for a gender, plus naming and decoration.
type GarmentSet struct {
	NamePrefix    string    `json:"name_prefix" yaml:"name_prefix"`
	Options       []Garment `json:"options" yaml:"options"`
	Embellishment string    `json:"embellishment" yaml:"embellishment"`
}

// DefaultGarments keys the garment set used for genders without their own entry.
const DefaultGarments = "default"

// StyleProfile is the cultural style metadata for a country.
// Garments is keyed by gender, with DefaultGarments as the fallback; a profile
// with garments drives the ethnic overlay.
type StyleProfile struct {
	Style     string                `json:"style" yaml:"style"`
	Adjective string                `json:"adjective" yaml:"adjective"`
	Keywords  []string              `json:"keywords" yaml:"keywords"`
	Garments  map[string]GarmentSet `json:"garments,omitempty" yaml:"garments,omitempty"`
}

// GarmentsFor returns the garment set for gender, falling back to the
// DefaultGarments entry. Sets without options do not count.
func (p StyleProfile) GarmentsFor(gender string) (GarmentSet, bool) {
	if set, ok := p.Garments[gender]; ok && len(set.Options) > 0 {
		return set, true
	}
	set, ok := p.Garments[DefaultGarments]
	return set, ok && len(set.Options) > 0
}

// RenderRequest asks the image renderer for model shots of an outfit.
type RenderRequest struct {
	OutfitDescription string `json:"outfit_description"`
	BodyShape         string `json:"body_shape"`
	GenderIdentity    string `json:"gender_identity"`
	SkinTone          string `json:"skin_tone"`
}

// RenderResult holds image references for three camera angles.
type RenderResult struct {
	Front string `json:"front"`
	Side  string `json:"side"`
	Angle string `json:"angle"`
}

// RecommendResponse is the HTTP response for POST /recommend.
type RecommendResponse struct {
	Weather         *WeatherSnapshot `json:"weather"`
	Recommendations []Recommendation `json:"recommendations"`
	Analytics       Analytics        `json:"analytics"`
	Debug           RecommendDebug   `json:"debug"`
}

// RecommendDebug reports how a response was produced.
type RecommendDebug struct {
	Mode          Mode   `json:"mode"`
	WeatherSource string `json:"weather_source"`
}

// CatalogResponse lists the current catalog snapshot.
type CatalogResponse struct {
	Count int            `json:"count"`
	Items []ClothingItem `json:"items"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	CatalogItems int    `json:"catalog_items"`
	Profiles     int    `json:"profiles"`
	Renderer     string `json:"renderer"`
}

// MarshalJSON ensures nil slices in Recommendation marshal as [] not null.
func (r Recommendation) MarshalJSON() ([]byte, error) {
	if r.BodyShapeSuitability == nil {
		r.BodyShapeSuitability = []string{}
	}
	if r.Occasion == nil {
		r.Occasion = []string{}
	}
	if r.Locality == nil {
		r.Locality = []string{}
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if r.SocialContent.Hashtags == nil {
		r.SocialContent.Hashtags = []string{}
	}
	type Alias Recommendation
	return json.Marshal(Alias(r))
}

// MarshalJSON ensures nil slices in RecommendationResult marshal as [] not null.
func (r RecommendationResult) MarshalJSON() ([]byte, error) {
	if r.Recommendations == nil {
		r.Recommendations = []Recommendation{}
	}
	type Alias RecommendationResult
	return json.Marshal(Alias(r))
}

// MarshalJSON ensures nil slices in RecommendResponse marshal as [] not null.
func (r RecommendResponse) MarshalJSON() ([]byte, error) {
	if r.Recommendations == nil {
		r.Recommendations = []Recommendation{}
	}
	type Alias RecommendResponse
	return json.Marshal(Alias(r))
}

// MarshalJSON ensures nil slices in CatalogResponse marshal as [] not null.
func (c CatalogResponse) MarshalJSON() ([]byte, error) {
	if c.Items == nil {
		c.Items = []ClothingItem{}
	}
	type Alias CatalogResponse
	return json.Marshal(Alias(c))
}
