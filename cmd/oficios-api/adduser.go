package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/gof-esteira/oficios-api/internal/store"
	"github.com/gof-esteira/oficios-api/internal/store/model"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	addUserFullName string
	addUserRole     string
)

var addUserCmd = &cobra.Command{
	Use:   "adduser <username> <password>",
	Short: "Create a console user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, cleanup, err := setup()
		if err != nil {
			return err
		}
		defer cleanup()

		s := store.NewStore(db)
		defer s.Close()

		if err := s.InitialMigration(); err != nil {
			zap.S().Fatalw("running initial migration", "error", err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(args[1]), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hashing password: %w", err)
		}

		user, err := s.User().Create(context.Background(), model.User{
			Username:     args[0],
			FullName:     addUserFullName,
			PasswordHash: string(hash),
			Role:         addUserRole,
			Active:       true,
		})
		if err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				return fmt.Errorf("user %q already exists", args[0])
			}
			return err
		}

		zap.S().Infow("user created", "username", user.Username, "role", user.Role)
		return nil
	},
}

func init() {
	addUserCmd.Flags().StringVar(&addUserFullName, "full-name", "", "Full name of the user")
	addUserCmd.Flags().StringVar(&addUserRole, "role", "usuario", "Role of the user")
}
