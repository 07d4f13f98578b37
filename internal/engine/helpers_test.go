package engine

import (
	"fmt"
	"time"

	"github.com/hyperengineering/attire/internal/types"
)

// staticCatalog implements Catalog over a fixed slice.
type staticCatalog []types.ClothingItem

func (c staticCatalog) Items() []types.ClothingItem { return c }

// profileMap implements Profiles over a map.
type profileMap map[string]types.StyleProfile

func (m profileMap) Lookup(country string) (types.StyleProfile, bool) {
	p, ok := m[country]
	return p, ok
}

// stubRand replays fixed values, cycling when exhausted.
type stubRand struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (s *stubRand) Float64() float64 {
	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[s.fi%len(s.floats)]
	s.fi++
	return v
}

func (s *stubRand) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[s.ii%len(s.ints)]
	s.ii++
	return v % n
}

// counterIDs issues predictable ids.
type counterIDs struct{ n int }

func (c *counterIDs) Next() string {
	c.n++
	return fmt.Sprintf("SYNTH_TEST_%d", c.n)
}

func fixedClock() func() time.Time {
	t := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func testProfiles() profileMap {
	return profileMap{
		"IN": {
			Style:     "ethnic",
			Adjective: "Indian",
			Keywords:  []string{"kurta", "saree", "sherwani", "lehenga", "traditional", "indian"},
			Garments: map[string]types.GarmentSet{
				types.GenderMale: {
					NamePrefix: "Modern",
					Options: []types.Garment{
						{Type: "kurta", Label: "Kurta"},
						{Type: "sherwani-fusion", Label: "Sherwani"},
					},
					Embellishment: "intricate embroidery, vibrant patterns",
				},
				types.DefaultGarments: {
					NamePrefix: "Fusion",
					Options: []types.Garment{
						{Type: "saree-gown", Label: "Saree"},
						{Type: "lehenga-skirt", Label: "Lehenga"},
					},
					Embellishment: "intricate embroidery, vibrant patterns",
				},
			},
		},
		"FR": {
			Style:     "chic",
			Adjective: "French",
			Keywords:  []string{"chic", "tailored", "elegant", "classic"},
		},
	}
}

func allWeather() types.WeatherSuitability {
	return types.WeatherSuitability{MinTemp: -30, MaxTemp: 50, Rain: true}
}

func testCatalog() staticCatalog {
	return staticCatalog{
		{
			ID: "w-dress", Name: "Floral Wrap Dress", Description: "Flowy wrap dress",
			Type: "dress", Gender: types.GenderFemale,
			BodyShapeSuitability: []string{"pear", "hourglass"},
			Occasion:             []string{"casual", "party"},
			Locality:             []string{"urban", "suburban"},
			WeatherSuitability:   types.WeatherSuitability{MinTemp: 18, MaxTemp: 35},
			Style:                "chic", Color: "Sky Blue", Fabric: "cotton", Tags: []string{"summer", "floral"},
		},
		{
			ID: "w-slip", Name: "Satin Slip Dress", Description: "Low-back satin slip",
			Type: "dress", Gender: types.GenderFemale,
			BodyShapeSuitability: []string{"pear", "rectangle"},
			Occasion:             []string{"party", "casual"},
			Locality:             []string{"urban"},
			WeatherSuitability:   types.WeatherSuitability{MinTemp: 20, MaxTemp: 35},
			Style:                "revealing", Color: "red", Fabric: "satin", Tags: []string{"evening"},
		},
		{
			ID: "m-kurta", Name: "Linen Kurta", Description: "Traditional straight-cut kurta",
			Type: "kurta", Gender: types.GenderMale,
			BodyShapeSuitability: []string{"rectangle", "inverted-triangle"},
			Occasion:             []string{"casual", "party"},
			Locality:             []string{"urban", "rural"},
			WeatherSuitability:   allWeather(),
			Style:                "ethnic", Color: "white", Fabric: "linen", Tags: []string{"traditional"},
		},
		{
			ID: "u-trench", Name: "Classic Trench", Description: "Tailored waterproof trench coat",
			Type: "jacket", Gender: types.GenderUnisex,
			BodyShapeSuitability: []string{"pear", "rectangle", "hourglass"},
			Occasion:             []string{"casual", "formal"},
			Locality:             []string{"urban"},
			WeatherSuitability:   types.WeatherSuitability{MinTemp: 0, MaxTemp: 18, Rain: true},
			Style:                "classic", Color: "beige", Fabric: "gabardine", Tags: []string{"outerwear"},
		},
		{
			ID: "w-sequin", Name: "Sequin Party Top", Description: "Sparkling sequin top",
			Type: "top", Gender: types.GenderFemale,
			BodyShapeSuitability: []string{"pear", "hourglass"},
			Occasion:             []string{"party"},
			Locality:             []string{"urban"},
			WeatherSuitability:   allWeather(),
			Style:                "glam", Color: "gold", Fabric: "polyester", Tags: []string{"sparkle"},
		},
	}
}

func baseRequest() types.RequestContext {
	return types.RequestContext{
		BodyShape:  "pear",
		Occasion:   "casual",
		Mode:       types.ModeHybrid,
		MaxResults: 5,
		Gender:     types.GenderFemale,
	}
}

func newTestEngine(catalog Catalog, opts ...Option) *Engine {
	opts = append([]Option{
		WithClock(fixedClock()),
		WithIDGenerator(func(time.Time) IDGenerator { return &counterIDs{} }),
	}, opts...)
	return New(catalog, testProfiles(), opts...)
}
