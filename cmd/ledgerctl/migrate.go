package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/rentledger/internal/database"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}

			db, err := database.New(cmd.Context(), e.cfg.ConnectionString(), database.PoolConfig{})
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := database.Migrate(cmd.Context(), db)
			if err != nil {
				return err
			}

			if len(applied) == 0 {
				e.log.Info("database is up to date")
				return nil
			}

			e.log.Info("applied migrations", zap.Strings("versions", applied))

			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the state of every migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}

			db, err := database.New(cmd.Context(), e.cfg.ConnectionString(), database.PoolConfig{})
			if err != nil {
				return err
			}
			defer db.Close()

			status, err := database.Status(cmd.Context(), db)
			if err != nil {
				return err
			}

			t := table.New().Headers("Version", "Name", "Status")
			for _, m := range status {
				state := "pending"
				if m.Applied {
					state = "applied"
				}

				t.Row(m.Version, m.Name, state)
			}

			fmt.Fprintln(cmd.OutOrStdout(), t.Render())

			return nil
		},
	})

	return cmd
}
