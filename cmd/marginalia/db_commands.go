package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"marginalia/internal/config"
	"marginalia/internal/store"
)

func newDBCommand(ctx *commandContext) *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Catalog database utilities",
	}

	dbCmd.AddCommand(newDBCheckCommand(ctx))

	return dbCmd
}

func newDBCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check catalog database health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				health, err := st.CheckHealth(cmd.Context())
				if err != nil {
					return err
				}

				rows := [][]string{
					{"Database", health.DBPath},
					{"Exists", yesNo(health.DatabaseExists)},
					{"Readable", yesNo(health.DatabaseReadable)},
					{"Journal mode", health.JournalMode},
					{"Foreign keys", yesNo(health.ForeignKeysOn)},
					{"Integrity", yesNo(health.IntegrityCheck)},
					{"Tables", strings.Join(health.TablesPresent, ", ")},
					{"Resources", strconv.Itoa(health.Resources)},
					{"Comments", strconv.Itoa(health.Comments)},
					{"Ratings", strconv.Itoa(health.Ratings)},
					{"Import runs", strconv.Itoa(health.Runs)},
				}
				if len(health.MissingTables) > 0 {
					rows = append(rows, []string{"Missing tables", strings.Join(health.MissingTables, ", ")})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Check", "Value"}, rows, []columnAlignment{alignLeft, alignLeft}))

				if len(health.MissingTables) > 0 || !health.IntegrityCheck {
					return errors.New("catalog database reported problems")
				}
				return nil
			})
		},
	}
}
