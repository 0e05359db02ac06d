// users.go - Persistence operations for users

package database

import ( // Import required packages
	"context" // Request-scoped queries
	"errors"  // Sentinel error checks
	"fmt"     // Error wrapping

	"course-api/models" // User model

	"gorm.io/gorm"        // GORM ORM
	"gorm.io/gorm/clause" // clause.Associations
)

// CreateUser inserts user. A taken email address is reported as a
// *models.ValidationError, whether caught by the lookup or by the unique index.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// STEP 1: Check the unique email
		var count int64
		if err := tx.Model(&models.User{}).Where("email_address = ?", user.EmailAddress).Count(&count).Error; err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if count > 0 {
			return models.NewValidationError(models.MsgEmailInUse)
		}
		// STEP 2: Save the user
		err := tx.Omit(clause.Associations).Create(user).Error // Save the user only, never its courses
		if errors.Is(err, gorm.ErrDuplicatedKey) {             // Lost a race on the unique index
			return models.NewValidationError(models.MsgEmailInUse)
		}
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
}

// FindUserByID returns the user with id or ErrNotFound.
func (s *Store) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// FindUserByEmail looks the user up through the unique email index.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email_address = ?", email).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
