package main

import (
	"github.com/spf13/cobra"

	"rvpark-listings/internal/database"
	"rvpark-listings/internal/repository"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Create the listings and listing_images tables if missing",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := repository.EnsureSchema(ctx, db); err != nil {
			return err
		}
		log.Info("schema is up to date")
		return nil
	},
}
