package testhelpers

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/consultafit/nutriplan/backend/internal/database"
)

var dbSeq atomic.Int64

// NewTestDB opens an in-memory SQLite database with the application schema.
// Each call gets its own named shared-cache database so gorm's connection
// pool sees one schema while tests stay isolated from each other.
//
// Substitute suggestions fall back to the in-process ranking on SQLite; the
// pgvector path is covered by the containerized database in testdb.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := database.RunMigrations(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}
