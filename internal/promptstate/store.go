// Package promptstate holds the in-progress prompt (generator, selections,
// instructions, reference files) together with the saved favorites and
// history. Only favorites and history survive SaveState/LoadState.
package promptstate

import (
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/soraformula/soraformula/internal/localstore"
	"github.com/soraformula/soraformula/internal/model"
	"github.com/soraformula/soraformula/internal/prompt"
)

const (
	MaxFavorites = 20
	MaxHistory   = 50

	// StorageKey is the local store key holding the persisted favorites and history
	StorageKey = "promptGeneratorState"
)

type State struct {
	CurrentGenerator   model.GeneratorType   `json:"currentGenerator"`
	Selections         model.Selections      `json:"selections"`
	CustomInstructions string                `json:"customInstructions"`
	UploadedFiles      []model.ProcessedFile `json:"uploadedFiles"`
	Favorites          []model.SavedPrompt   `json:"favorites"`
	History            []model.PromptVersion `json:"history"`
	IsGenerating       bool                  `json:"isGenerating"`
	LastSaved          int64                 `json:"lastSaved"` // epoch ms, 0 if never saved
}

// persisted is the subset of State written to the local store
type persisted struct {
	Favorites []model.SavedPrompt   `json:"favorites"`
	History   []model.PromptVersion `json:"history"`
	LastSaved int64                 `json:"lastSaved"`
}

type Store struct {
	mu      sync.Mutex
	state   State
	storage localstore.Store
	now     func() time.Time
}

func New(generator model.GeneratorType, storage localstore.Store) *Store {
	return &Store{
		state: State{
			CurrentGenerator: generator,
			Selections:       model.Selections{},
		},
		storage: storage,
		now:     time.Now,
	}
}

// Snapshot returns a deep copy of the current state
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Store) snapshot() State {
	st := s.state
	st.Selections = st.Selections.Clone()
	st.UploadedFiles = slices.Clone(st.UploadedFiles)
	st.Favorites = slices.Clone(st.Favorites)
	st.History = slices.Clone(st.History)
	return st
}

// SetGenerator switches generator type and discards in-progress work
func (s *Store) SetGenerator(g model.GeneratorType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CurrentGenerator = g
	s.clearWork()
}

// UpdateSelection sets a category's option; choosing the current option again clears it
func (s *Store) UpdateSelection(category, option string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Selections[category] == option {
		s.state.Selections[category] = ""
		return
	}
	s.state.Selections[category] = option
}

func (s *Store) SetCustomInstructions(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CustomInstructions = text
}

func (s *Store) SetUploadedFiles(files []model.ProcessedFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.UploadedFiles = slices.Clone(files)
}

func (s *Store) SetGenerating(generating bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsGenerating = generating
}

// AddFavorite prepends p, keeping the newest MaxFavorites
func (s *Store) AddFavorite(p model.SavedPrompt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Favorites = prependCapped(s.state.Favorites, p, MaxFavorites)
}

func (s *Store) RemoveFavorite(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Favorites = slices.DeleteFunc(s.state.Favorites, func(p model.SavedPrompt) bool {
		return p.ID == id
	})
}

// AddToHistory prepends v, keeping the newest MaxHistory
func (s *Store) AddToHistory(v model.PromptVersion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.History = prependCapped(s.state.History, v, MaxHistory)
}

// ResetAll clears in-progress work but keeps generator, favorites and history
func (s *Store) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearWork()
}

func (s *Store) clearWork() {
	s.state.Selections = model.Selections{}
	s.state.CustomInstructions = ""
	s.state.UploadedFiles = nil
}

// SaveState writes favorites, history and the save time to the local store
func (s *Store) SaveState() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lastSaved := s.now().UnixMilli()
	data, err := json.Marshal(persisted{
		Favorites: s.state.Favorites,
		History:   s.state.History,
		LastSaved: lastSaved,
	})
	if err != nil {
		return fmt.Errorf("failed to encode prompt state: %w", err)
	}

	err = s.storage.Set(StorageKey, string(data))
	if err != nil {
		return fmt.Errorf("failed to save prompt state: %w", err)
	}

	s.state.LastSaved = lastSaved
	return nil
}

// LoadState restores favorites, history and the save time. A missing entry is not an error.
func (s *Store) LoadState() error {
	raw, ok := s.storage.Get(StorageKey)
	if !ok {
		return nil
	}

	var p persisted
	err := json.Unmarshal([]byte(raw), &p)
	if err != nil {
		return fmt.Errorf("failed to decode prompt state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Favorites = p.Favorites
	s.state.History = p.History
	s.state.LastSaved = p.LastSaved
	return nil
}

// Formula runs the prompt engine on the current state
func (s *Store) Formula() string {
	st := s.Snapshot()
	return prompt.GenerateFormula(st.CurrentGenerator, st.Selections, st.CustomInstructions, st.UploadedFiles)
}

// Analysis runs the prompt analyzer on the current state
func (s *Store) Analysis() prompt.Analysis {
	st := s.Snapshot()
	return prompt.AnalyzePrompt(st.CurrentGenerator, st.Selections, st.CustomInstructions, st.UploadedFiles)
}

// NewVersion builds a history entry stamped with the store's clock
func (s *Store) NewVersion(formula string, quality int) model.PromptVersion {
	return model.PromptVersion{
		ID:        uuid.New().String(),
		Formula:   formula,
		Timestamp: s.now().UnixMilli(),
		Quality:   quality,
	}
}

// NewFavorite captures the current state as a favorite
func (s *Store) NewFavorite(formula string, quality int) model.SavedPrompt {
	st := s.Snapshot()
	names := make([]string, 0, len(st.UploadedFiles))
	for _, f := range st.UploadedFiles {
		names = append(names, f.Name)
	}
	return model.SavedPrompt{
		ID:                 uuid.New().String(),
		GeneratorType:      st.CurrentGenerator,
		Formula:            formula,
		Selections:         st.Selections,
		CustomInstructions: st.CustomInstructions,
		UploadedFiles:      names,
		Timestamp:          s.now().UnixMilli(),
		Quality:            quality,
	}
}

func prependCapped[T any](list []T, item T, limit int) []T {
	out := make([]T, 0, min(len(list)+1, limit))
	out = append(out, item)
	for _, v := range list {
		if len(out) == limit {
			break
		}
		out = append(out, v)
	}
	return out
}
