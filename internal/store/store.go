package store

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/licenseprep/curricula/pkg/logger"
	"github.com/licenseprep/curricula/pkg/models"
)

// Store is the persistence collaborator for the import pipeline and the
// review surface. It is the only component that touches the database;
// everything above it depends on narrow per-package interfaces.
type Store struct {
	db  *gorm.DB
	log *logger.Logger
}

// Open connects per the configured driver and migrates the schema.
func Open(driver, dsn string, log *logger.Logger) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite", "":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	if err := db.AutoMigrate(
		&models.Track{},
		&models.Module{},
		&models.Lesson{},
		&models.ContentChunk{},
		&models.QuestionBank{},
		&models.Question{},
		&models.Checkpoint{},
		&models.CheckpointProgress{},
		&models.Flashcard{},
		&models.ExamConfig{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &Store{db: db, log: log.With("component", "store")}, nil
}

// NewWithDB wraps an already-open gorm handle; used by tests.
func NewWithDB(db *gorm.DB, log *logger.Logger) *Store {
	return &Store{db: db, log: log.With("component", "store")}
}
