package identity

import (
	"fmt"
	"strings"
	"testing"

	"peer-feedback/core/database"
	"peer-feedback/feature/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Connect(database.Config{
		Driver: database.DriverSQLite,
		Name:   fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, providerUserID string) *models.User {
	t.Helper()
	u := &models.User{Email: email, FirstName: "Seed"}
	if providerUserID != "" {
		u.ProviderUserID = &providerUserID
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func webhookBody(eventType, providerUserID, email string) string {
	return fmt.Sprintf(`{"type":%q,"object":"event","data":{"id":%q,`+
		`"email_addresses":[{"id":"idn_1","email_address":%q}],"primary_email_address_id":"idn_1",`+
		`"first_name":"Grace","last_name":"Hopper"}}`, eventType, providerUserID, email)
}
