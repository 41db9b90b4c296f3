package cli

import (
	"errors"
	"fmt"

	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/fixtures"
	"yatube/internal/forms"
	"yatube/internal/models"
	"yatube/internal/store"
	"yatube/internal/utils"

	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database tables and indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := openDatabase(config.Load()); err != nil {
				return err
			}
			defer database.CloseDB()

			fmt.Fprintln(cmd.OutOrStdout(), success("Schema is up to date"))
			return nil
		},
	}
}

func newLoadDataCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "loaddata FILE...",
		Short: "Load groups, users and posts from YAML fixture files in one transaction",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := openDatabase(config.Load()); err != nil {
				return err
			}
			defer database.CloseDB()

			err := fixtures.LoadFiles(cmd.Context(), database.DB, args, func(path string, result fixtures.Result) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n", success("Loaded"), path, result)
			})
			if err != nil {
				return fmt.Errorf("loaddata rolled back: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), success("Committed"), len(args), "file(s)")
			return nil
		},
	}
}

type createUserOptions struct {
	username  string
	password  string
	email     string
	firstName string
	lastName  string
}

// validate applies the signup rules to the command line values.
func (o createUserOptions) validate() error {
	form := forms.NewSignupForm()
	form.Username = o.username
	form.Email = o.email
	form.FirstName = o.firstName
	form.LastName = o.lastName
	form.Password1 = o.password
	form.Password2 = o.password
	if form.Validate() {
		return nil
	}

	var errs []error
	for _, field := range form.Fields() {
		for _, message := range field.Errors {
			errs = append(errs, fmt.Errorf("%s: %s", field.Name, message))
		}
	}
	return errors.Join(errs...)
}

func newCreateUserCommand() *cobra.Command {
	var opts createUserOptions

	cmd := &cobra.Command{
		Use:   "createuser",
		Short: "Create a user account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			if err := openDatabase(config.Load()); err != nil {
				return err
			}
			defer database.CloseDB()

			hashed, err := utils.HashPassword(opts.password)
			if err != nil {
				return err
			}
			user := &models.User{
				Username:  opts.username,
				Email:     opts.email,
				FirstName: opts.firstName,
				LastName:  opts.lastName,
				Password:  hashed,
			}
			if err := store.NewUserStore(database.DB).Create(cmd.Context(), user); err != nil {
				if errors.Is(err, store.ErrDuplicate) {
					return fmt.Errorf("user %q already exists", opts.username)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s user %s (id=%d)\n", success("Created"), user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.username, "username", "", "username (required)")
	cmd.Flags().StringVar(&opts.password, "password", "", "password (required)")
	cmd.Flags().StringVar(&opts.email, "email", "", "email address")
	cmd.Flags().StringVar(&opts.firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&opts.lastName, "last-name", "", "last name")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
