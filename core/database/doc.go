// Package database handles database connections and schema verification.
//
// It wraps GORM to configure MySQL connections for production and SQLite
// connections for local runs and tests. Every connection is opened with
// error translation enabled, so unique-constraint violations surface as
// gorm.ErrDuplicatedKey regardless of the driver.
//
// # Schema Verification
//
// GetTableColumns and MissingColumns inspect live tables through the GORM
// migrator. The migrate command uses them to confirm that the columns the
// identity reconciler depends on exist after AutoMigrate.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "users", []string{"email"})
package database
