package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/soraformula/soraformula/internal/client"
	"github.com/soraformula/soraformula/internal/localstore"
	"github.com/soraformula/soraformula/internal/logger"
	"github.com/spf13/cobra"
)

const (
	keyUserID    = "user:id"
	keyUserEmail = "user:email"
)

// session is what every command gets: the local state file and the API client
type session struct {
	store  *localstore.File
	api    *client.Client // nil with --offline
	email  string
	userID string
}

type globalFlags struct {
	apiURL    string
	statePath string
	email     string
	offline   bool
	verbose   bool
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".soraformula", "state.json")
	}
	return filepath.Join(home, ".soraformula", "state.json")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// RootCmd builds the formula command tree
func RootCmd() *cobra.Command {
	flags := &globalFlags{}
	sess := &session{}

	rootCmd := &cobra.Command{
		Use:           "formula",
		Short:         "Build Sora prompt formulas from the terminal",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flags.verbose {
				logger.InitWriter(cmd.ErrOrStderr(), true, "")
			} else {
				slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
			}

			sess.store = localstore.OpenFile(flags.statePath)
			if !flags.offline {
				sess.api = client.New(flags.apiURL)
			}
			sess.userID, _ = sess.store.Get(keyUserID)
			sess.email = flags.email
			if sess.email == "" {
				sess.email, _ = sess.store.Get(keyUserEmail)
			}
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.apiURL, "api", envOr("FORMULA_API_URL", "http://localhost:3001"), "API base URL")
	pf.StringVar(&flags.statePath, "state", defaultStatePath(), "local state file")
	pf.StringVar(&flags.email, "email", os.Getenv("FORMULA_EMAIL"), "user email (defaults to the signed up email)")
	pf.BoolVar(&flags.offline, "offline", false, "do not call the API")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log to stderr")

	rootCmd.AddCommand(generateCmd(sess))
	rootCmd.AddCommand(favoritesCmd(sess))
	rootCmd.AddCommand(historyCmd(sess))
	rootCmd.AddCommand(usageCmd(sess))
	rootCmd.AddCommand(categoriesCmd())
	rootCmd.AddCommand(signupCmd(sess))
	rootCmd.AddCommand(adminTokenCmd())
	rootCmd.AddCommand(migrateCmd())

	return rootCmd
}

// identity returns the user id for activity tracking, falling back to the email
func (s *session) identity() string {
	if s.userID != "" {
		return s.userID
	}
	return s.email
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
