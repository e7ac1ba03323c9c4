package migrations

import (
	"fmt"
	"os"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigrateStore applies all pending goose migrations from migrationFolder to
// the store's database.
func MigrateStore(db *gorm.DB, migrationFolder string) error {
	goose.SetLogger(&gooseLogger{})

	fi, err := os.Stat(migrationFolder)
	if err != nil {
		return fmt.Errorf("failed to open migration folder: %w", err)
	}
	if !fi.Mode().IsDir() {
		return fmt.Errorf("migration folder %s is not a directory", migrationFolder)
	}

	goose.SetBaseFS(os.DirFS(migrationFolder))

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return goose.Up(sqlDB, ".")
}

// gooseLogger routes goose output through zap.
type gooseLogger struct{}

func (g *gooseLogger) Printf(format string, v ...interface{}) { zap.S().Infof(format, v...) }
func (g *gooseLogger) Fatalf(format string, v ...interface{}) { zap.S().Fatalf(format, v...) }
