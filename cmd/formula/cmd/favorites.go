package cmd

import (
	"fmt"
	"time"

	"github.com/soraformula/soraformula/internal/model"
	"github.com/soraformula/soraformula/internal/promptstate"
	"github.com/spf13/cobra"
)

func favoritesCmd(sess *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Manage favorite prompts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List favorites, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := loadState(sess)
			if err != nil {
				return err
			}
			favorites := state.Snapshot().Favorites
			if len(favorites) == 0 {
				printf(cmd, "no favorites yet\n")
				return nil
			}
			for _, f := range favorites {
				printf(cmd, "%s  %s  q%-3d %s\n  %s\n", f.ID, stamp(f.Timestamp), f.Quality, f.GeneratorType.Label(), f.Formula)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := loadState(sess)
			if err != nil {
				return err
			}
			before := len(state.Snapshot().Favorites)
			state.RemoveFavorite(args[0])
			if len(state.Snapshot().Favorites) == before {
				return fmt.Errorf("no favorite with id %s", args[0])
			}
			if err := state.SaveState(); err != nil {
				return err
			}
			printf(cmd, "removed %s\n", args[0])
			return nil
		},
	})

	return cmd
}

func historyCmd(sess *session) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently generated prompts",
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := loadState(sess)
			if err != nil {
				return err
			}
			history := state.Snapshot().History
			if limit > 0 && len(history) > limit {
				history = history[:limit]
			}
			for _, v := range history {
				printf(cmd, "%s  q%-3d %s\n", stamp(v.Timestamp), v.Quality, v.Formula)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of entries (0 for all)")
	return cmd
}

func loadState(sess *session) (*promptstate.Store, error) {
	state := promptstate.New(model.GeneratorProduct, sess.store)
	if err := state.LoadState(); err != nil {
		return nil, err
	}
	return state, nil
}

func stamp(ms int64) string {
	return time.UnixMilli(ms).Format("2006-01-02 15:04")
}
