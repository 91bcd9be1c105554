package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/kirana/config"
	"github.com/shashiranjanraj/kirana/database/indexes"
	"github.com/shashiranjanraj/kirana/pkg/database"
)

// kirana db:index — create the MongoDB indexes.
var dbIndexCmd = &cobra.Command{
	Use:   "db:index",
	Short: "Ensure all MongoDB indexes exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := database.Connect(ctx); err != nil {
			return err
		}
		defer database.Disconnect(context.Background())

		if err := indexes.Ensure(ctx, database.DB()); err != nil {
			return err
		}
		fmt.Println("Indexes ensured.")
		return nil
	},
}
