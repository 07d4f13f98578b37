package types

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRecommendation_JSONSnakeCaseKeys(t *testing.T) {
	rec := Recommendation{
		ClothingItem: ClothingItem{
			ID:                   "SYNTH_01",
			Name:                 "Modern Kurta",
			BodyShapeSuitability: []string{"athletic"},
			WeatherSuitability:   WeatherSuitability{MinTemp: 25, MaxTemp: 35},
		},
		Source:        SourceGenerated,
		Confidence:    88,
		SocialContent: SocialContent{MarketingTitle: "Modern Kurta"},
		VisualStyle:   "Bohemian fusion",
		TempRange:     "25-35°C",
		ImagePreview:  "https://source.unsplash.com/featured/?ivory,kurta,fashion",
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	// Embedded item fields are flattened alongside the enrichment fields
	for _, key := range []string{
		"id", "name", "body_shape_suitability", "weather_suitability",
		"source", "confidence", "why", "social_content", "visual_style", "temp_range",
		"image_preview",
	} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing key %q in %s", key, data)
		}
	}
	if _, ok := m["ClothingItem"]; ok {
		t.Error("embedded struct should not appear as a nested key")
	}

	ws, ok := m["weather_suitability"].(map[string]interface{})
	if !ok {
		t.Fatalf("weather_suitability not an object: %v", m["weather_suitability"])
	}
	for _, key := range []string{"min_temp", "max_temp", "rain"} {
		if _, ok := ws[key]; !ok {
			t.Errorf("weather_suitability missing key %q", key)
		}
	}
}

func TestRecommendation_CatalogOmitsGeneratedFields(t *testing.T) {
	rec := Recommendation{
		ClothingItem: ClothingItem{ID: "c1", Name: "Linen Shirt"},
		Source:       SourceCatalog,
		Confidence:   72,
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	s := string(data)
	if strings.Contains(s, "visual_style") || strings.Contains(s, "temp_range") || strings.Contains(s, "image_preview") {
		t.Errorf("catalog recommendation should omit generated-only fields: %s", s)
	}
}

func TestRecommendation_NilSlicesMarshalAsArrays(t *testing.T) {
	data, err := json.Marshal(Recommendation{})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	s := string(data)
	for _, want := range []string{
		`"body_shape_suitability":[]`,
		`"occasion":[]`,
		`"locality":[]`,
		`"tags":[]`,
		`"hashtags":[]`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %s in %s", want, s)
		}
	}
}

func TestRecommendationResult_NilRecommendationsMarshalAsArray(t *testing.T) {
	data, err := json.Marshal(RecommendationResult{})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"recommendations":[]`) {
		t.Errorf("expected empty recommendations array, got %s", data)
	}
}

func TestRecommendResponse_NullWeather(t *testing.T) {
	data, err := json.Marshal(RecommendResponse{Debug: RecommendDebug{Mode: ModeHybrid, WeatherSource: "None"}})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"weather":null`) {
		t.Errorf("expected null weather, got %s", s)
	}
	if !strings.Contains(s, `"recommendations":[]`) {
		t.Errorf("expected empty recommendations array, got %s", s)
	}
	if !strings.Contains(s, `"debug":{"mode":"hybrid","weather_source":"None"}`) {
		t.Errorf("unexpected debug block in %s", s)
	}
}

func TestCatalogResponse_NilItemsMarshalAsArray(t *testing.T) {
	data, err := json.Marshal(CatalogResponse{})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"count":0,"items":[]}` {
		t.Errorf("got %s, want {\"count\":0,\"items\":[]}", data)
	}
}

func TestRequestContext_HasReferenceImage(t *testing.T) {
	if (RequestContext{}).HasReferenceImage() {
		t.Error("empty request should not report a reference image")
	}
	if !(RequestContext{ReferenceImage: "data:image/png;base64,AAAA"}).HasReferenceImage() {
		t.Error("request with image should report a reference image")
	}
}

func TestRecommendRequest_MaxResultsOmittedVsZero(t *testing.T) {
	var omitted RecommendRequest
	if err := json.Unmarshal([]byte(`{"gender":"male"}`), &omitted); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if omitted.MaxResults != nil {
		t.Errorf("MaxResults = %v, want nil when omitted", *omitted.MaxResults)
	}

	var zero RecommendRequest
	if err := json.Unmarshal([]byte(`{"max_results":0}`), &zero); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if zero.MaxResults == nil || *zero.MaxResults != 0 {
		t.Errorf("MaxResults = %v, want pointer to 0", zero.MaxResults)
	}
}

func TestStyleProfile_OmitsEmptyGarments(t *testing.T) {
	data, err := json.Marshal(StyleProfile{Style: "Parisian chic", Adjective: "effortless"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Contains(string(data), "garments") {
		t.Errorf("expected garments omitted, got %s", data)
	}
}

func TestStyleProfile_GarmentsFor(t *testing.T) {
	men := GarmentSet{NamePrefix: "Modern", Options: []Garment{{Type: "kurta", Label: "Kurta"}}}
	rest := GarmentSet{NamePrefix: "Fusion", Options: []Garment{{Type: "saree-gown", Label: "Saree"}}}
	p := StyleProfile{Garments: map[string]GarmentSet{GenderMale: men, DefaultGarments: rest}}

	tests := []struct {
		gender string
		want   string
		ok     bool
	}{
		{GenderMale, "Modern", true},
		{GenderFemale, "Fusion", true},
		{GenderUnisex, "Fusion", true},
	}
	for _, tt := range tests {
		set, ok := p.GarmentsFor(tt.gender)
		if ok != tt.ok || set.NamePrefix != tt.want {
			t.Errorf("GarmentsFor(%q) = %q, %v; want %q, %v", tt.gender, set.NamePrefix, ok, tt.want, tt.ok)
		}
	}

	empty := StyleProfile{Garments: map[string]GarmentSet{GenderMale: {NamePrefix: "Bare"}}}
	if _, ok := empty.GarmentsFor(GenderMale); ok {
		t.Error("a set without options must not drive the overlay")
	}
	if _, ok := (StyleProfile{}).GarmentsFor(GenderFemale); ok {
		t.Error("a profile without garments has no set")
	}
}

func TestRecommendRequest_Context(t *testing.T) {
	three := 3
	snap := &WeatherSnapshot{Temp: 12, Country: "FR"}

	got := RecommendRequest{Gender: "  FEMALE ", BodyShape: "pear", CulturalPreferences: " Conservative", MaxResults: &three}.Context(snap, ModeHybrid, 5)
	if got.Gender != GenderFemale {
		t.Errorf("Gender = %q, want female", got.Gender)
	}
	if got.CulturalPreferences != "conservative" {
		t.Errorf("CulturalPreferences = %q, want conservative", got.CulturalPreferences)
	}
	if got.Mode != ModeHybrid {
		t.Errorf("Mode = %q, want default hybrid", got.Mode)
	}
	if got.MaxResults != 3 {
		t.Errorf("MaxResults = %d, want 3", got.MaxResults)
	}
	if got.Weather != snap {
		t.Error("Weather should be the supplied snapshot")
	}

	got = RecommendRequest{Mode: ModeGenerative}.Context(nil, ModeHybrid, 5)
	if got.Mode != ModeGenerative || got.MaxResults != 5 {
		t.Errorf("Mode/MaxResults = %q/%d, want generative/5", got.Mode, got.MaxResults)
	}
}
