// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"

	"github.com/momeni/dealership/pkg/adapter/config"
	"github.com/momeni/dealership/pkg/adapter/db/postgres"
	"github.com/momeni/dealership/pkg/core/repo"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management actions",
	Long: `Database management actions can be chosen by sub-commands.
For a fresh installation, the init sub-command creates the inventory
tables (if they do not exist yet) using the admin role.`,
}

var dbInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the inventory tables",
	RunE:  initDatabase,
}

func initDatabase(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	p, err := c.ConnectionPool(ctx, repo.AdminRole)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer p.Close()
	err = p.Conn(ctx, func(ctx context.Context, conn repo.Conn) error {
		return postgres.InitSchema(ctx, conn)
	})
	if err != nil {
		return fmt.Errorf("initializing DB schema: %w", err)
	}
	return nil
}

func init() {
	dbCmd.AddCommand(dbInitCmd)
	rootCmd.AddCommand(dbCmd)
}
