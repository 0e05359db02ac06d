// course.go - Defines the Course model and its request/response shapes

package models

import "time"

// Course belongs to exactly one user for its whole lifetime.
type Course struct {
	ID              uint      `gorm:"primaryKey"`
	UserID          uint      `gorm:"not null;index" validate:"required"` // Owning user (foreign key)
	User            User      `validate:"-"`
	Title           string    `gorm:"not null" validate:"required,notblank"`
	Description     string    `gorm:"type:text;not null" validate:"required,notblank"`
	EstimatedTime   *string   `validate:"-"` // Optional free text
	MaterialsNeeded *string   `validate:"-"` // Optional free text
	CreatedAt       time.Time `validate:"-"`
	UpdatedAt       time.Time `validate:"-"`
}

// Response returns the course with its owner embedded. The owner must have
// been preloaded.
func (c *Course) Response() CourseResponse {
	return CourseResponse{
		ID:              c.ID,
		UserID:          c.UserID,
		Title:           c.Title,
		Description:     c.Description,
		EstimatedTime:   c.EstimatedTime,
		MaterialsNeeded: c.MaterialsNeeded,
		User:            c.User.Response(),
	}
}

// CourseResponse is the JSON shape of a course in every response.
type CourseResponse struct {
	ID              uint         `json:"id"`
	UserID          uint         `json:"userId"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	EstimatedTime   *string      `json:"estimatedTime"`
	MaterialsNeeded *string      `json:"materialsNeeded"`
	User            UserResponse `json:"User"`
}

// CourseInput is the body accepted by POST and PUT /courses. Pointer fields
// distinguish an absent key (required) from a blank value (notblank).
type CourseInput struct {
	UserID          *uint   `json:"userId"`
	Title           *string `json:"title" validate:"required,notblank"`
	Description     *string `json:"description" validate:"required,notblank"`
	EstimatedTime   *string `json:"estimatedTime"`
	MaterialsNeeded *string `json:"materialsNeeded"`
}

// Course builds an unsaved course. owner is used when the body omits userId.
func (in CourseInput) Course(owner uint) *Course {
	course := &Course{
		UserID:          owner,
		Title:           deref(in.Title),
		Description:     deref(in.Description),
		EstimatedTime:   in.EstimatedTime,
		MaterialsNeeded: in.MaterialsNeeded,
	}
	if in.UserID != nil {
		course.UserID = *in.UserID
	}
	return course
}

// Missing lists the messages for the keys an update must carry.
func (in CourseInput) Missing() []string {
	var msgs []string
	if in.Title == nil {
		msgs = append(msgs, "Please populate title!")
	}
	if in.Description == nil {
		msgs = append(msgs, "Please populate description!")
	}
	if in.UserID == nil {
		msgs = append(msgs, "Please populate User Id!")
	}
	return msgs
}

// Changes returns the fields an update writes. The owner is never among them.
func (in CourseInput) Changes() CourseChanges {
	return CourseChanges{
		Title:           deref(in.Title),
		Description:     deref(in.Description),
		EstimatedTime:   in.EstimatedTime,
		MaterialsNeeded: in.MaterialsNeeded,
	}
}

// CourseChanges is an update to an existing course. Nil optional fields are
// left untouched.
type CourseChanges struct {
	Title           string
	Description     string
	EstimatedTime   *string
	MaterialsNeeded *string
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
