// courses.go - Persistence operations for courses

package database

import ( // Import required packages
	"context" // Request-scoped queries
	"errors"  // Sentinel error checks
	"fmt"     // Error wrapping

	"course-api/models" // Course and User models

	"gorm.io/gorm"        // GORM ORM
	"gorm.io/gorm/clause" // clause.Associations
)

// ListCourses returns every course with its owner, ordered by id.
func (s *Store) ListCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := s.db.WithContext(ctx).Preload("User").Order("id").Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindCourse returns the course with id and its owner, or ErrNotFound.
func (s *Store) FindCourse(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := s.db.WithContext(ctx).Preload("User").First(&course, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &course, nil
}

// CreateCourse inserts course. An owner that does not exist is reported as a
// *models.ValidationError.
func (s *Store) CreateCourse(ctx context.Context, course *models.Course) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// STEP 1: The owner must exist
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", course.UserID).Count(&count).Error; err != nil {
			return fmt.Errorf("check owner: %w", err)
		}
		if count == 0 {
			return models.NewValidationError(models.MsgUnknownOwner)
		}
		// STEP 2: Save the course without touching the owner row
		err := tx.Omit(clause.Associations).Create(course).Error
		if errors.Is(err, gorm.ErrForeignKeyViolated) { // Owner deleted in between
			return models.NewValidationError(models.MsgUnknownOwner)
		}
		if err != nil {
			return fmt.Errorf("create course: %w", err)
		}
		return nil
	})
}

// UpdateCourse applies changes to course id if, and only if, it is owned by
// ownerID. The ownership check and the write are a single conditional UPDATE.
// It returns ErrNotFound or ErrNotOwner when nothing was written.
func (s *Store) UpdateCourse(ctx context.Context, id, ownerID uint, changes models.CourseChanges) error {
	values := map[string]any{
		"title":       changes.Title,
		"description": changes.Description,
	}
	if changes.EstimatedTime != nil { // Optional fields are only written when sent
		values["estimated_time"] = *changes.EstimatedTime
	}
	if changes.MaterialsNeeded != nil {
		values["materials_needed"] = *changes.MaterialsNeeded
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Course{}).Where("id = ? AND user_id = ?", id, ownerID).Updates(values) // Ownership check and write in one statement
		if res.Error != nil {
			return fmt.Errorf("update course: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return whyUntouched(tx, id) // Missing or someone else's
		}
		return nil
	})
}

// DeleteCourse removes course id if it is owned by ownerID, with the same
// outcomes as UpdateCourse.
func (s *Store) DeleteCourse(ctx context.Context, id, ownerID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, ownerID).Delete(&models.Course{}) // Owner-only delete
		if res.Error != nil {
			return fmt.Errorf("delete course: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return whyUntouched(tx, id)
		}
		return nil
	})
}

// whyUntouched tells a missing course from one owned by someone else.
func whyUntouched(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&models.Course{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("check course: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrNotOwner
}
