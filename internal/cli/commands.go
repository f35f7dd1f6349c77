// Package cli holds the nyumbactl administration commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/nyumba-backend/internal/services"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// Opener returns a database connection for one command run.
type Opener func() (*gorm.DB, error)

func NewRootCmd(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "nyumbactl",
		Short:         "Nyumba marketplace administration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		migrateCmd(open),
		grantRoleCmd(open),
		setUserTypeCmd(open),
		setStatusCmd(open),
		statsCmd(open),
		pruneLogsCmd(open),
	)
	return root
}

func migrateCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update all tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open()
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated %d tables\n", len(database.Models()))
			return nil
		},
	}
}

func grantRoleCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "grant-role <user-id> <role>",
		Short: "Assign user, moderator or admin to a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id %q: %w", args[0], err)
			}
			role, err := models.ParseRole(args[1])
			if err != nil {
				return err
			}

			db, err := open()
			if err != nil {
				return err
			}
			if err := services.NewProfileService(db).UpsertRole(cmd.Context(), userID, role); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", userID, role)
			return nil
		},
	}
}

func setUserTypeCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "set-user-type <profile-id> <owner|seeker>",
		Short: "Change whether a user may post listings",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			profileID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid profile id %q: %w", args[0], err)
			}
			userType, err := models.ParseUserType(args[1])
			if err != nil {
				return err
			}

			db, err := open()
			if err != nil {
				return err
			}
			if err := services.NewProfileService(db).UpdateUserType(cmd.Context(), profileID, userType); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", profileID, userType)
			return nil
		},
	}
}

func setStatusCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <listing-id> <pending|approved|rejected>",
		Short: "Moderate a listing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			listingID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid listing id %q: %w", args[0], err)
			}
			status, err := models.ParseListingStatus(args[1])
			if err != nil {
				return err
			}

			db, err := open()
			if err != nil {
				return err
			}
			if err := services.NewListingService(db, nil).UpdateStatus(cmd.Context(), listingID, status); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "listing %s is now %s\n", listingID, status)
			return nil
		},
	}
}

func statsCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the dashboard summary as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open()
			if err != nil {
				return err
			}
			listings := services.NewListingService(db, nil)
			admin := services.NewAdminService(
				listings,
				services.NewProfileService(db),
				services.NewInquiryService(db, listings, nil),
			)
			return writeJSON(cmd.OutOrStdout(), admin.Stats(cmd.Context()))
		},
	}
}

func pruneLogsCmd(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune-logs",
		Short: "Delete stored error logs past retention",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			days, _ := cmd.Flags().GetInt("days")
			if days <= 0 {
				return fmt.Errorf("--days must be positive")
			}

			db, err := open()
			if err != nil {
				return err
			}
			deleted, err := logging.Cleanup(cmd.Context(), db, time.Duration(days)*24*time.Hour)
			if err != nil {
				return fmt.Errorf("prune logs: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d log records\n", deleted)
			return nil
		},
	}
	cmd.Flags().Int("days", int(logging.Retention.Hours()/24), "Keep logs newer than this many days")
	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
