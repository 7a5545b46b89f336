package promptstate

import (
	"fmt"
	"testing"
	"time"

	"github.com/soraformula/soraformula/internal/localstore"
	"github.com/soraformula/soraformula/internal/model"
)

func newTestStore(t *testing.T) (*Store, *localstore.Memory) {
	t.Helper()
	storage := localstore.NewMemory()
	s := New(model.GeneratorLifestyle, storage)
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return s, storage
}

func TestUpdateSelection_Toggle(t *testing.T) {
	s, _ := newTestStore(t)

	s.UpdateSelection("angle", "Low Angle")
	if got := s.Snapshot().Selections["angle"]; got != "Low Angle" {
		t.Fatalf("after first select = %q, want %q", got, "Low Angle")
	}

	s.UpdateSelection("angle", "Low Angle")
	if got := s.Snapshot().Selections["angle"]; got != "" {
		t.Errorf("after second select = %q, want empty", got)
	}

	s.UpdateSelection("angle", "Drone Aerial")
	s.UpdateSelection("angle", "Low Angle")
	if got := s.Snapshot().Selections["angle"]; got != "Low Angle" {
		t.Errorf("after switching option = %q, want %q", got, "Low Angle")
	}
}

func TestSetGenerator_DiscardsWork(t *testing.T) {
	s, _ := newTestStore(t)
	s.UpdateSelection("mood", "Joyful")
	s.SetCustomInstructions("A cat")
	s.SetUploadedFiles([]model.ProcessedFile{{ID: "f1", Name: "a.png"}})
	s.AddFavorite(model.SavedPrompt{ID: "fav"})

	s.SetGenerator(model.GeneratorGraphic)

	st := s.Snapshot()
	if st.CurrentGenerator != model.GeneratorGraphic {
		t.Errorf("CurrentGenerator = %q, want graphic", st.CurrentGenerator)
	}
	if len(st.Selections) != 0 || st.CustomInstructions != "" || len(st.UploadedFiles) != 0 {
		t.Errorf("work not cleared: %+v", st)
	}
	if len(st.Favorites) != 1 {
		t.Errorf("favorites lost on generator switch")
	}
}

func TestResetAll_KeepsFavoritesAndHistory(t *testing.T) {
	s, _ := newTestStore(t)
	s.UpdateSelection("mood", "Joyful")
	s.AddToHistory(model.PromptVersion{ID: "v1"})
	s.AddFavorite(model.SavedPrompt{ID: "fav"})

	s.ResetAll()

	st := s.Snapshot()
	if st.Selections.Count() != 0 {
		t.Errorf("selections not cleared")
	}
	if st.CurrentGenerator != model.GeneratorLifestyle {
		t.Errorf("generator changed to %q", st.CurrentGenerator)
	}
	if len(st.History) != 1 || len(st.Favorites) != 1 {
		t.Errorf("history/favorites = %d/%d, want 1/1", len(st.History), len(st.Favorites))
	}
}

func TestAddToHistory_Capped(t *testing.T) {
	s, _ := newTestStore(t)
	for i := 0; i < MaxHistory+1; i++ {
		s.AddToHistory(model.PromptVersion{ID: fmt.Sprintf("v%d", i)})
	}

	h := s.Snapshot().History
	if len(h) != MaxHistory {
		t.Fatalf("len(History) = %d, want %d", len(h), MaxHistory)
	}
	if h[0].ID != "v50" {
		t.Errorf("newest = %q, want v50", h[0].ID)
	}
	if h[len(h)-1].ID != "v1" {
		t.Errorf("oldest = %q, want v1 (v0 dropped)", h[len(h)-1].ID)
	}
}

func TestFavorites_CappedAndRemove(t *testing.T) {
	s, _ := newTestStore(t)
	for i := 0; i < 25; i++ {
		s.AddFavorite(model.SavedPrompt{ID: fmt.Sprintf("f%d", i)})
	}
	if n := len(s.Snapshot().Favorites); n != MaxFavorites {
		t.Fatalf("len(Favorites) = %d, want %d", n, MaxFavorites)
	}

	s.RemoveFavorite("f24")
	favs := s.Snapshot().Favorites
	if len(favs) != MaxFavorites-1 {
		t.Errorf("len(Favorites) after remove = %d", len(favs))
	}
	if favs[0].ID != "f23" {
		t.Errorf("first favorite = %q, want f23", favs[0].ID)
	}
}

func TestSaveLoadState(t *testing.T) {
	s, storage := newTestStore(t)
	s.UpdateSelection("mood", "Joyful")
	s.AddToHistory(model.PromptVersion{ID: "v1", Formula: "capturing joyful", Quality: 10})
	s.AddFavorite(model.SavedPrompt{ID: "fav", Formula: "capturing joyful"})

	if err := s.SaveState(); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	restored := New(model.GeneratorProduct, storage)
	if err := restored.LoadState(); err != nil {
		t.Fatalf("LoadState: %v", err)
	}

	st := restored.Snapshot()
	if len(st.History) != 1 || st.History[0].Formula != "capturing joyful" {
		t.Errorf("History = %+v", st.History)
	}
	if len(st.Favorites) != 1 || st.Favorites[0].ID != "fav" {
		t.Errorf("Favorites = %+v", st.Favorites)
	}
	if st.LastSaved != 1700000000000 {
		t.Errorf("LastSaved = %d", st.LastSaved)
	}
	if st.Selections.Count() != 0 {
		t.Errorf("selections were persisted: %v", st.Selections)
	}
	if st.CurrentGenerator != model.GeneratorProduct {
		t.Errorf("generator was persisted: %q", st.CurrentGenerator)
	}
}

func TestLoadState_Missing(t *testing.T) {
	s, _ := newTestStore(t)
	if err := s.LoadState(); err != nil {
		t.Errorf("LoadState on empty storage = %v, want nil", err)
	}
}

func TestComputed(t *testing.T) {
	s, _ := newTestStore(t)
	for _, k := range []string{"scene", "people", "environment", "lighting"} {
		s.UpdateSelection(k, "x")
	}
	s.SetCustomInstructions("  A cat  ")

	c := s.Computed()
	if c.SelectedCount != 4 || !c.IsComplete {
		t.Errorf("SelectedCount, IsComplete = %d, %v, want 4, true", c.SelectedCount, c.IsComplete)
	}
	if c.TotalComponents != 5 {
		t.Errorf("TotalComponents = %d, want 5", c.TotalComponents)
	}
	if c.PromptQuality != 55 {
		t.Errorf("PromptQuality = %d, want 55", c.PromptQuality)
	}
}

func TestPromptQuality(t *testing.T) {
	cases := []struct {
		selected     int
		instructions bool
		files        bool
		want         int
	}{
		{0, false, false, 0},
		{3, false, false, 30},
		{6, false, false, 65},
		{6, true, true, 90},
		{9, true, true, 100},
	}
	for _, tc := range cases {
		got := PromptQuality(tc.selected, tc.instructions, tc.files)
		if got != tc.want {
			t.Errorf("PromptQuality(%d, %v, %v) = %d, want %d", tc.selected, tc.instructions, tc.files, got, tc.want)
		}
	}
}

func TestFormulaAndFavorite(t *testing.T) {
	s, _ := newTestStore(t)
	s.SetCustomInstructions("A cat")
	s.UpdateSelection("mood", "Joyful")
	s.SetUploadedFiles([]model.ProcessedFile{{Name: "ref.png", Type: "image/png", ProcessingStatus: model.FileStatusComplete}})

	formula := s.Formula()
	if formula != "A cat, capturing joyful, referencing visual style from ref" {
		t.Errorf("Formula() = %q", formula)
	}

	fav := s.NewFavorite(formula, s.Computed().PromptQuality)
	if fav.ID == "" || fav.GeneratorType != model.GeneratorLifestyle {
		t.Errorf("favorite = %+v", fav)
	}
	if len(fav.UploadedFiles) != 1 || fav.UploadedFiles[0] != "ref.png" {
		t.Errorf("UploadedFiles = %v, want [ref.png]", fav.UploadedFiles)
	}
	if fav.Quality != 35 {
		t.Errorf("Quality = %d, want 35", fav.Quality)
	}
}
