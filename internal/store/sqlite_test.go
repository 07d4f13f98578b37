package store

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/hyperengineering/attire/internal/types"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleItem(id string) types.ClothingItem {
	return types.ClothingItem{
		ID:                   id,
		Name:                 "Linen Shirt " + id,
		Description:          "Breathable summer shirt",
		Type:                 "shirt",
		Gender:               types.GenderMale,
		BodyShapeSuitability: []string{"rectangle", "triangle"},
		Occasion:             []string{"casual"},
		Locality:             []string{"IN", "US"},
		WeatherSuitability:   types.WeatherSuitability{MinTemp: 22, MaxTemp: 38, Rain: true},
		Style:                "relaxed",
		Color:                "white",
		Fabric:               "linen",
		Tags:                 []string{"summer", "breathable"},
	}
}

func TestStore_NewSQLiteStore(t *testing.T) {
	db, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
}

func TestImportItems_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := sampleItem("m-linen")
	res, err := s.ImportItems(ctx, []types.ClothingItem{want})
	if err != nil {
		t.Fatalf("ImportItems() error = %v", err)
	}
	if res.Inserted != 1 || res.Updated != 0 {
		t.Errorf("result = %+v, want 1 inserted", res)
	}

	got, err := s.GetItem(ctx, "m-linen")
	if err != nil {
		t.Fatalf("GetItem() error = %v", err)
	}
	if got.Name != want.Name || got.Fabric != "linen" || got.WeatherSuitability != want.WeatherSuitability {
		t.Errorf("GetItem() = %+v", got)
	}
	if !slices.Equal(got.BodyShapeSuitability, want.BodyShapeSuitability) || !slices.Equal(got.Tags, want.Tags) {
		t.Errorf("list columns not preserved: %+v", got)
	}
}

func TestImportItems_AssignsULIDs(t *testing.T) {
	s := newTestStore(t)

	res, err := s.ImportItems(context.Background(), []types.ClothingItem{sampleItem(""), sampleItem("")})
	if err != nil {
		t.Fatalf("ImportItems() error = %v", err)
	}
	if len(res.IDs) != 2 {
		t.Fatalf("IDs = %v", res.IDs)
	}
	for _, id := range res.IDs {
		if len(id) != 26 {
			t.Errorf("id %q is not a ULID", id)
		}
	}
	if res.IDs[0] == res.IDs[1] {
		t.Error("generated ids must be unique")
	}
}

func TestImportItems_Upsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.ImportItems(ctx, []types.ClothingItem{sampleItem("a")})

	changed := sampleItem("a")
	changed.Color = "navy"
	res, err := s.ImportItems(ctx, []types.ClothingItem{changed, sampleItem("b")})
	if err != nil {
		t.Fatalf("ImportItems() error = %v", err)
	}
	if res.Inserted != 1 || res.Updated != 1 {
		t.Errorf("result = %+v, want 1 inserted 1 updated", res)
	}

	got, _ := s.GetItem(ctx, "a")
	if got.Color != "navy" {
		t.Errorf("Color = %q, want navy", got.Color)
	}
}

func TestImportItems_InvalidRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	bad := sampleItem("bad")
	bad.Gender = "robot"
	_, err := s.ImportItems(ctx, []types.ClothingItem{sampleItem("good"), bad})
	if !errors.Is(err, ErrInvalidItem) {
		t.Fatalf("error = %v, want ErrInvalidItem", err)
	}

	n, _ := s.CountItems(ctx)
	if n != 0 {
		t.Errorf("CountItems() = %d, want 0 after rejected batch", n)
	}
}

func TestImportItems_Empty(t *testing.T) {
	s := newTestStore(t)
	res, err := s.ImportItems(context.Background(), nil)
	if err != nil {
		t.Fatalf("ImportItems(nil) error = %v", err)
	}
	if res.Inserted != 0 || res.IDs == nil {
		t.Errorf("result = %+v", res)
	}
}

func TestListItems_InsertionOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.ImportItems(ctx, []types.ClothingItem{sampleItem("z"), sampleItem("a"), sampleItem("m")})

	items, err := s.ListItems(ctx)
	if err != nil {
		t.Fatalf("ListItems() error = %v", err)
	}
	var ids []string
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	if !slices.Equal(ids, []string{"z", "a", "m"}) {
		t.Errorf("ids = %v, want [z a m]", ids)
	}
}

func TestListItems_EmptyIsNotNil(t *testing.T) {
	s := newTestStore(t)
	items, err := s.ListItems(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if items == nil {
		t.Error("ListItems() should return an empty slice, not nil")
	}
}

func TestDeleteItem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	s.ImportItems(ctx, []types.ClothingItem{sampleItem("a"), sampleItem("b")})

	if err := s.DeleteItem(ctx, "a"); err != nil {
		t.Fatalf("DeleteItem() error = %v", err)
	}
	if _, err := s.GetItem(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetItem(deleted) error = %v, want ErrNotFound", err)
	}
	if err := s.DeleteItem(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteItem() error = %v, want ErrNotFound", err)
	}
	if n, _ := s.CountItems(ctx); n != 1 {
		t.Errorf("CountItems() = %d, want 1", n)
	}

	res, err := s.ImportItems(ctx, []types.ClothingItem{sampleItem("a")})
	if err != nil {
		t.Fatal(err)
	}
	if res.Inserted != 1 {
		t.Errorf("re-import of deleted id should count as inserted, got %+v", res)
	}
	if _, err := s.GetItem(ctx, "a"); err != nil {
		t.Errorf("re-imported item not restored: %v", err)
	}
}

func TestGetItem_NotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetItem(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestTimestamps_UseClock(t *testing.T) {
	s := newTestStore(t)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	s.ImportItems(context.Background(), []types.ClothingItem{sampleItem("a")})

	var createdAt string
	if err := s.db.QueryRow(`SELECT created_at FROM catalog_items WHERE id = 'a'`).Scan(&createdAt); err != nil {
		t.Fatal(err)
	}
	if createdAt != "2026-03-01T12:00:00Z" {
		t.Errorf("created_at = %q", createdAt)
	}
}

func TestConcurrentImportAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			item := sampleItem("")
			if _, err := s.ImportItems(ctx, []types.ClothingItem{item}); err != nil {
				t.Errorf("ImportItems() error = %v", err)
			}
			if _, err := s.ListItems(ctx); err != nil {
				t.Errorf("ListItems() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	if n, _ := s.CountItems(ctx); n != 4 {
		t.Errorf("CountItems() = %d, want 4", n)
	}
}
