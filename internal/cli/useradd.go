package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/erazemk/visitorlog/internal/auth"
	"github.com/erazemk/visitorlog/internal/model"
	"github.com/erazemk/visitorlog/internal/store"
)

// generatedPasswordLength is the length of passwords created by useradd.
const generatedPasswordLength = 16

func newUseraddCmd() *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "useradd",
		Short: "Create an account with a generated password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name = strings.TrimSpace(name)
			email = store.NormalizeEmail(email)
			if name == "" {
				return errors.New("--name is required")
			}
			if !model.ValidEmail(email) {
				return fmt.Errorf("invalid email address %q", email)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			database, err := openDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeDB(database)

			password, err := auth.GeneratePassword(generatedPasswordLength)
			if err != nil {
				return fmt.Errorf("generating password: %w", err)
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}

			user, err := store.NewUserStore(database).Create(cmd.Context(), name, email, hash)
			if errors.Is(err, store.ErrEmailTaken) {
				return fmt.Errorf("an account for %s already exists", email)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Account created:")
			fmt.Fprintf(out, "  ID:       %s\n", user.ID)
			fmt.Fprintf(out, "  Email:    %s\n", user.Email)
			fmt.Fprintf(out, "  Password: %s\n", password)
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Save this password, it cannot be recovered.")
			fmt.Fprintln(out, "It can be changed from the profile page after logging in.")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
