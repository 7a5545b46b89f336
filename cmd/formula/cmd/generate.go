package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/soraformula/soraformula/internal/client"
	"github.com/soraformula/soraformula/internal/model"
	"github.com/soraformula/soraformula/internal/prompt"
	"github.com/soraformula/soraformula/internal/promptstate"
	"github.com/soraformula/soraformula/internal/usage"
	"github.com/spf13/cobra"
)

type generateFlags struct {
	generator    string
	selections   []string
	instructions string
	refs         []string
	enhance      bool
	favorite     bool
}

func generateCmd(sess *session) *cobra.Command {
	f := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a prompt formula",
		Example: `  formula generate -g lifestyle -s environment="Tokyo Street" -s angle="Low Angle"
  formula generate -i "A cat on a windowsill" -s mood=Joyful --ref cat.png --favorite`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, sess, f)
		},
	}

	cmd.Flags().StringVarP(&f.generator, "generator", "g", string(model.GeneratorProduct), "generator type (product, lifestyle, graphic)")
	cmd.Flags().StringArrayVarP(&f.selections, "select", "s", nil, "category selection as key=value (repeatable)")
	cmd.Flags().StringVarP(&f.instructions, "instructions", "i", "", "custom instructions")
	cmd.Flags().StringArrayVar(&f.refs, "ref", nil, "reference image file (repeatable)")
	cmd.Flags().BoolVar(&f.enhance, "enhance", false, "append quality and professional markers")
	cmd.Flags().BoolVar(&f.favorite, "favorite", false, "save the result to favorites")
	return cmd
}

func parseSelections(generator model.GeneratorType, raw []string) (map[string]string, error) {
	out := map[string]string{}
	for _, s := range raw {
		key, value, ok := strings.Cut(s, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid selection %q, want key=value", s)
		}
		if !prompt.HasCategory(generator, key) {
			slog.Warn("category not in generator table", "generator", generator, "category", key)
		}
		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}

func runGenerate(cmd *cobra.Command, sess *session, f *generateFlags) error {
	ctx := cmd.Context()

	generator := model.GeneratorType(f.generator)
	if !generator.Valid() {
		return fmt.Errorf("unknown generator type: %s", f.generator)
	}

	selections, err := parseSelections(generator, f.selections)
	if err != nil {
		return err
	}

	var checker usage.PaidChecker
	if sess.api != nil {
		checker = sess.api
	}
	tracker := usage.NewTracker(sess.store, checker, sess.email)
	allowed, err := tracker.CanUseFeature(ctx, usage.FeatureOutputs)
	if err != nil {
		return err
	}
	if !allowed {
		limit := usage.Limits[usage.FeatureOutputs]
		return fmt.Errorf("free tier limit reached: %d outputs per day, upgrade to keep generating", limit.Daily)
	}

	state := promptstate.New(generator, sess.store)
	if err := state.LoadState(); err != nil {
		slog.Warn("ignoring unreadable prompt state", "error", err)
	}
	for key, value := range selections {
		state.UpdateSelection(key, value)
	}
	state.SetCustomInstructions(f.instructions)

	files, err := referenceFiles(ctx, sess.api, f.refs)
	if err != nil {
		return err
	}
	state.SetUploadedFiles(files)

	formula := state.Formula()
	analysis := state.Analysis()
	computed := state.Computed()
	if f.enhance {
		formula = prompt.EnhanceFormula(formula, generator, analysis.Quality).Enhanced
	}

	printf(cmd, "%s\n\n", formula)
	printf(cmd, "quality %d  completeness %d  coherence %d  creativity %d  (builder score %d)\n",
		analysis.Quality, analysis.Completeness, analysis.Coherence, analysis.Creativity, computed.PromptQuality)
	for _, r := range analysis.Recommendations {
		printf(cmd, "  - %s\n", r)
	}

	if formula == prompt.Placeholder {
		return nil
	}

	state.AddToHistory(state.NewVersion(formula, analysis.Quality))
	if f.favorite {
		fav := state.NewFavorite(formula, analysis.Quality)
		state.AddFavorite(fav)
		printf(cmd, "saved favorite %s\n", fav.ID)
	}
	if err := state.SaveState(); err != nil {
		return err
	}
	if err := tracker.Track(usage.FeatureOutputs); err != nil {
		return err
	}

	if sess.api != nil && sess.email != "" {
		err := sess.api.TrackAction(ctx, client.Action{
			UserID:    sess.identity(),
			UserEmail: sess.email,
			Type:      model.ActivityOutput,
			Details:   "Generated " + generator.Label() + " prompt",
			Metadata:  map[string]any{"quality": analysis.Quality, "generatorType": generator},
		})
		if err != nil {
			slog.Warn("failed to track output", "error", err)
		}
	}
	return nil
}

// referenceFiles uploads each image through the API, or describes it locally
// as already processed when offline
func referenceFiles(ctx context.Context, api *client.Client, paths []string) ([]model.ProcessedFile, error) {
	files := make([]model.ProcessedFile, 0, len(paths))
	for _, p := range paths {
		if api != nil {
			file, err := api.UploadReference(ctx, p)
			if err != nil {
				return nil, fmt.Errorf("uploading %s: %w", p, err)
			}
			files = append(files, *file)
			continue
		}
		files = append(files, model.ProcessedFile{
			ID:               uuid.New().String(),
			Name:             filepath.Base(p),
			Type:             mime.TypeByExtension(strings.ToLower(filepath.Ext(p))),
			ProcessingStatus: model.FileStatusComplete,
		})
	}
	return files, nil
}
