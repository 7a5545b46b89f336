package cmd

import (
	"errors"
	"fmt"

	"github.com/soraformula/soraformula/internal/client"
	"github.com/soraformula/soraformula/internal/config"
	"github.com/soraformula/soraformula/internal/service"
	"github.com/spf13/cobra"
)

func signupCmd(sess *session) *cobra.Command {
	var name, email, source string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Sign up and remember the email for usage checks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if sess.api == nil {
				return errors.New("signup needs the API, drop --offline")
			}
			res, err := sess.api.Signup(cmd.Context(), client.SignupRequest{
				FullName:        name,
				Email:           email,
				HowDidYouFindUs: source,
				UserAgent:       "formula-cli",
			})
			if err != nil {
				return err
			}
			if err := sess.store.Set(keyUserEmail, email); err != nil {
				return err
			}
			if res.UserID != "" {
				if err := sess.store.Set(keyUserID, res.UserID); err != nil {
					return err
				}
			}
			printf(cmd, "%s\n", res.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&source, "source", "cli", "how did you find us")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func adminTokenCmd() *cobra.Command {
	var subject string

	cmd := &cobra.Command{
		Use:   "admin-token",
		Short: "Mint an admin API token from ADMIN_JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			auth := service.NewAuthService(cfg.AdminJWTSecret, cfg.AdminTokenExpiry)
			token, expiry, err := auth.GenerateAdminToken(subject)
			if err != nil {
				return err
			}
			printf(cmd, "%s\n", token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expiry.Format("2006-01-02 15:04 MST"))
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "admin", "token subject")
	return cmd
}
