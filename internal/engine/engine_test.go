package engine

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hyperengineering/attire/internal/types"
)

func TestRecommend_NeverExceedsMaxResults(t *testing.T) {
	modes := []types.Mode{types.ModeHybrid, types.ModeCatalogRetrieval, types.ModeGenerative}
	for _, mode := range modes {
		for _, n := range []int{1, 2, 3, 5, 12} {
			req := baseRequest()
			req.Mode = mode
			req.MaxResults = n

			res, err := newTestEngine(testCatalog()).Recommend(req)
			if err != nil {
				t.Fatalf("%s/%d: unexpected error: %v", mode, n, err)
			}
			if len(res.Recommendations) > n {
				t.Errorf("%s/%d: got %d recommendations", mode, n, len(res.Recommendations))
			}
			for _, r := range res.Recommendations {
				if r.Confidence < 0 || r.Confidence > 100 {
					t.Errorf("%s/%d: confidence %d out of range", mode, n, r.Confidence)
				}
			}
		}
	}
}

func TestRecommend_ModeInvariants(t *testing.T) {
	tests := []struct {
		mode      types.Mode
		wantCount int
		want      func(types.Source) bool
	}{
		{types.ModeCatalogRetrieval, 3, func(s types.Source) bool { return s == types.SourceCatalog }},
		{types.ModeGenerative, 5, func(s types.Source) bool { return s == types.SourceGenerated }},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			req := baseRequest()
			req.Mode = tt.mode

			res, err := newTestEngine(testCatalog()).Recommend(req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(res.Recommendations) != tt.wantCount {
				t.Errorf("len = %d, want %d", len(res.Recommendations), tt.wantCount)
			}
			for _, r := range res.Recommendations {
				if !tt.want(r.Source) {
					t.Errorf("unexpected source %q for %s", r.Source, r.ID)
				}
			}
			if res.Analytics.RetrievedCount != 3 {
				t.Errorf("RetrievedCount = %d, want 3", res.Analytics.RetrievedCount)
			}
		})
	}
}

func TestRecommend_HybridFillsShortfallAfterCatalog(t *testing.T) {
	req := baseRequest()
	req.PreferredColours = []string{"beige"}

	res, err := newTestEngine(testCatalog()).Recommend(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Recommendations) != 5 {
		t.Fatalf("len = %d, want 5", len(res.Recommendations))
	}
	if res.Analytics.RetrievedCount != 3 || res.Analytics.GeneratedCount != 2 {
		t.Errorf("Analytics = %+v, want retrieved 3 generated 2", res.Analytics)
	}

	seenGenerated := false
	prev := 101
	for i, r := range res.Recommendations {
		if r.Source == types.SourceGenerated {
			seenGenerated = true
			continue
		}
		if seenGenerated {
			t.Errorf("catalog item %s at %d follows a generated item", r.ID, i)
		}
		if r.Confidence > prev {
			t.Errorf("catalog items not sorted: %d after %d", r.Confidence, prev)
		}
		prev = r.Confidence
	}
}

func TestRecommend_HybridTruncatesCatalog(t *testing.T) {
	req := baseRequest()
	req.MaxResults = 2

	res, err := newTestEngine(testCatalog()).Recommend(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Recommendations) != 2 || res.Analytics.GeneratedCount != 0 {
		t.Errorf("got %d recs, %d generated; want 2, 0", len(res.Recommendations), res.Analytics.GeneratedCount)
	}
	if res.Analytics.RetrievedCount != 3 {
		t.Errorf("RetrievedCount = %d, want 3", res.Analytics.RetrievedCount)
	}
}

func TestRecommend_GenderInvariant(t *testing.T) {
	for _, gender := range []string{types.GenderMale, types.GenderFemale} {
		req := baseRequest()
		req.Gender = gender
		req.BodyShape = "rectangle"
		req.Occasion = ""

		res, err := newTestEngine(testCatalog()).Recommend(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, r := range res.Recommendations {
			if r.Source != types.SourceCatalog {
				continue
			}
			if r.Gender != gender && r.Gender != types.GenderUnisex {
				t.Errorf("%s request got %s item %s", gender, r.Gender, r.ID)
			}
		}
	}
}

func TestRecommend_ReligiousOccasion(t *testing.T) {
	req := baseRequest()
	req.Occasion = "religious"
	req.Mode = types.ModeCatalogRetrieval

	res, err := newTestEngine(testCatalog()).Recommend(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byID := map[string]types.Recommendation{}
	for _, r := range res.Recommendations {
		byID[r.ID] = r
	}
	if len(byID) != 3 {
		t.Fatalf("retrieved %d items, want the 3 casual ones", len(byID))
	}
	if got := byID["w-slip"].Confidence; got != 70 {
		t.Errorf("revealing item confidence = %d, want 70 (no conservative bonus)", got)
	}
	if got := byID["w-dress"].Confidence; got != 80 {
		t.Errorf("modest item confidence = %d, want 80", got)
	}
}

func TestRecommend_ZeroMatchesHybridGeneratesAll(t *testing.T) {
	req := types.RequestContext{
		Gender:     types.GenderMale,
		BodyShape:  "pear",
		Occasion:   "casual",
		Mode:       types.ModeHybrid,
		MaxResults: 5,
	}
	catalog := staticCatalog{testCatalog()[0], testCatalog()[2]}

	res, err := newTestEngine(catalog).Recommend(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Analytics.RetrievedCount != 0 || res.Analytics.GeneratedCount != 5 {
		t.Errorf("Analytics = %+v, want retrieved 0 generated 5", res.Analytics)
	}
	for _, r := range res.Recommendations {
		if r.Source != types.SourceGenerated {
			t.Errorf("Source = %q, want generated", r.Source)
		}
	}
}

func TestRecommend_EmptyCatalog(t *testing.T) {
	req := baseRequest()
	req.Mode = types.ModeCatalogRetrieval

	res, err := newTestEngine(staticCatalog{}).Recommend(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Recommendations) != 0 {
		t.Errorf("len = %d, want 0", len(res.Recommendations))
	}
}

func TestRecommend_HotWeatherWithoutProfile(t *testing.T) {
	req := baseRequest()
	req.Mode = types.ModeGenerative
	req.Weather = &types.WeatherSnapshot{Temp: 30, Condition: "Clear", Country: "BR"}

	res, err := newTestEngine(testCatalog()).Recommend(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range res.Recommendations {
		if r.Type != "dress" {
			t.Errorf("Type = %q, want dress", r.Type)
		}
		if !strings.Contains(r.Why, "breathability") {
			t.Errorf("Why = %q, want breathability rationale", r.Why)
		}
	}
}

func TestRecommend_IndiaMale(t *testing.T) {
	req := baseRequest()
	req.Gender = types.GenderMale
	req.Mode = types.ModeGenerative
	req.Weather = &types.WeatherSnapshot{Temp: 31, Condition: "Clear", Country: "IN"}

	res, err := newTestEngine(testCatalog()).Recommend(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range res.Recommendations {
		if r.Type != "kurta" && r.Type != "sherwani-fusion" {
			t.Errorf("Type = %q, want kurta or sherwani-fusion", r.Type)
		}
		if !strings.Contains(r.Name, "Kurta") && !strings.Contains(r.Name, "Sherwani") {
			t.Errorf("Name = %q, want Kurta or Sherwani", r.Name)
		}
	}
}

func TestRecommend_SeededRunsAreReproducible(t *testing.T) {
	req := baseRequest()
	req.Mode = types.ModeHybrid
	req.MaxResults = 8
	req.ReferenceImage = "upload"
	req.PreferredColours = []string{"blue", "gold"}
	req.Weather = &types.WeatherSnapshot{Temp: 22, Condition: "Clear", Country: "FR"}

	e := newTestEngine(testCatalog())
	a, err := e.RecommendWithRand(req, NewSeededRand(42))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := e.RecommendWithRand(req, NewSeededRand(42))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(a.Recommendations) != len(b.Recommendations) {
		t.Fatalf("lengths differ: %d vs %d", len(a.Recommendations), len(b.Recommendations))
	}
	for i := range a.Recommendations {
		ra, rb := a.Recommendations[i], b.Recommendations[i]
		if ra.ID != rb.ID || ra.Name != rb.Name || ra.Type != rb.Type ||
			ra.Confidence != rb.Confidence || ra.Fabric != rb.Fabric || ra.Why != rb.Why {
			t.Errorf("rec %d differs:\n%+v\n%+v", i, ra, rb)
		}
	}
}

func TestRecommend_GeneratedIDsUniqueWithinCall(t *testing.T) {
	req := baseRequest()
	req.Mode = types.ModeGenerative
	req.MaxResults = 50

	e := New(testCatalog(), testProfiles(), WithClock(fixedClock()))
	res, err := e.Recommend(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := map[string]bool{}
	for _, r := range res.Recommendations {
		if !strings.HasPrefix(r.ID, "SYNTH_") {
			t.Errorf("ID = %q, want SYNTH_ prefix", r.ID)
		}
		if seen[r.ID] {
			t.Fatalf("duplicate id %q", r.ID)
		}
		seen[r.ID] = true
	}
}

func TestRecommend_InvalidRequest(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*types.RequestContext)
		field  string
	}{
		{"missing gender", func(r *types.RequestContext) { r.Gender = "" }, "gender"},
		{"missing body shape", func(r *types.RequestContext) { r.BodyShape = "" }, "body_shape"},
		{"unknown mode", func(r *types.RequestContext) { r.Mode = "psychic" }, "mode"},
		{"zero max results", func(r *types.RequestContext) { r.MaxResults = 0 }, "max_results"},
		{"negative max results", func(r *types.RequestContext) { r.MaxResults = -4 }, "max_results"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := baseRequest()
			tt.modify(&req)

			res, err := newTestEngine(testCatalog()).Recommend(req)
			if res != nil {
				t.Error("expected nil result on validation failure")
			}
			if !errors.Is(err, ErrInvalidRequest) {
				t.Fatalf("err = %v, want ErrInvalidRequest", err)
			}
			var reqErr *RequestError
			if !errors.As(err, &reqErr) {
				t.Fatalf("err is %T, want *RequestError", err)
			}
			found := false
			for _, fe := range reqErr.Errors {
				if fe.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("errors %v do not name %q", reqErr.Errors, tt.field)
			}
		})
	}
}

func TestRecommend_TimeMS(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	clock := func() time.Time {
		calls++
		return base.Add(time.Duration(calls-1) * 7 * time.Millisecond)
	}

	res, err := newTestEngine(testCatalog(), WithClock(clock)).Recommend(baseRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Analytics.TimeMS != 7 {
		t.Errorf("TimeMS = %d, want 7", res.Analytics.TimeMS)
	}
}

func TestRecommend_ConcurrentCallsShareCatalog(t *testing.T) {
	catalog := testCatalog()
	e := New(catalog, testProfiles())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := baseRequest()
			req.ReferenceImage = "img"
			if _, err := e.Recommend(req); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if catalog[0].Name != "Floral Wrap Dress" {
		t.Error("catalog mutated by concurrent recommendations")
	}
}
