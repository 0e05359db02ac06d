// database.go - Opens the SQLite store, migrates the schema and seeds the optional user

package database // Declares the package name

import ( // Import required packages
	"context"  // Request-scoped queries
	"errors"   // Sentinel errors
	"fmt"      // Error wrapping
	"log/slog" // Structured logging (feeds the GORM logger)
	"strings"  // DSN inspection
	"time"     // Slow query threshold

	"course-api/models" // User and Course models

	"gorm.io/driver/sqlite" // SQLite driver for GORM
	"gorm.io/gorm"          // GORM ORM
	"gorm.io/gorm/logger"   // GORM logger adapter
)

// Outcomes of course mutations that are not validation failures.
var (
	ErrNotFound = errors.New("record not found")
	ErrNotOwner = errors.New("course belongs to another user")
)

// Store wraps the GORM connection and exposes the persistence operations.
// It is safe for concurrent use.
type Store struct {
	db *gorm.DB
}

// Open connects to the SQLite database at dsn and migrates the schema.
// Foreign keys are always enforced.
func Open(dsn string, log *slog.Logger) (*Store, error) {
	// STEP 1: Open SQLite with foreign keys on and driver errors translated
	db, err := gorm.Open(sqlite.Open(withForeignKeys(dsn)), &gorm.Config{
		TranslateError: true, // Map driver errors to gorm.ErrDuplicatedKey and friends
		Logger: logger.New(slog.NewLogLogger(log.Handler(), slog.LevelWarn), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// STEP 2: Limit the pool to a single connection
	sqlDB, err := db.DB() // Underlying *sql.DB
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1) // SQLite serializes writers anyway

	// STEP 3: Create or update the users and courses tables
	if err := db.AutoMigrate(&models.User{}, &models.Course{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SeedUser creates user unless an account with the same email already exists.
// The password must already be hashed.
func (s *Store) SeedUser(ctx context.Context, user *models.User) (created bool, err error) {
	if _, err := s.FindUserByEmail(ctx, user.EmailAddress); err == nil { // Already there
		return false, nil
	} else if !errors.Is(err, ErrNotFound) {
		return false, err
	}
	if err := s.CreateUser(ctx, user); err != nil {
		return false, err
	}
	return true, nil
}

// withForeignKeys turns on go-sqlite3's per-connection foreign key pragma.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}
