package cmd

import (
	"fmt"
	"sort"
	"strings"

	"peer-feedback/core/database"
	"peer-feedback/feature/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var verifyOnly bool

// migrateCmd creates or updates the schema and verifies the columns reconciliation depends on.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the database schema",
	Long: `Creates or updates all tables, then checks that every column identity
reconciliation reads or rewrites is present.

Examples:
  # Migrate and verify
  migrate

  # Only verify an existing schema
  migrate --verify-only`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		if !verifyOnly {
			if err := models.AutoMigrate(rt.db); err != nil {
				return err
			}
			rt.logger.Info("Schema migrated")
		}

		return verifySchema(rt)
	},
}

func verifySchema(rt *runtime) error {
	l := rt.logger
	tables := make([]string, 0, len(models.RequiredColumns))
	for table := range models.RequiredColumns {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	var problems []string
	for _, table := range tables {
		missing, err := database.MissingColumns(rt.db, table, models.RequiredColumns[table])
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			l.Error("Table is missing columns", zap.String("table", table), zap.Strings("columns", missing))
			problems = append(problems, table+"("+strings.Join(missing, ",")+")")
			continue
		}
		l.Info("Table verified", zap.String("table", table))
	}

	if len(problems) > 0 {
		return fmt.Errorf("schema verification failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

func init() {
	migrateCmd.Flags().BoolVar(&verifyOnly, "verify-only", false, "Only verify the schema, do not migrate")
	RootCmd.AddCommand(migrateCmd)
}
