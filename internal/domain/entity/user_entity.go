package entity

import (
	"time"
)

// User is the aggregate root for accounts.
// Passwords are stored as bcrypt hashes in Password field.
// TokenBalance is only mutated by the ledger.
type User struct {
	ID              string
	Name            string
	Email           string
	Password        string
	Role            Role
	TokenBalance    int64
	EnrolledCourses []Enrollment
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Enrollment links a user to a course. CompletedSections has set semantics.
type Enrollment struct {
	ID                string    `json:"_id"`
	CourseID          string    `json:"course"`
	CompletedSections []string  `json:"completedSections"`
	EnrolledAt        time.Time `json:"enrolledAt"`
}

// HasCompleted reports whether sectionID is already marked complete.
func (e *Enrollment) HasCompleted(sectionID string) bool {
	for _, s := range e.CompletedSections {
		if s == sectionID {
			return true
		}
	}
	return false
}

// Enrollment returns the user's enrollment for courseID, or nil.
func (u *User) Enrollment(courseID string) *Enrollment {
	for i := range u.EnrolledCourses {
		if u.EnrolledCourses[i].CourseID == courseID {
			return &u.EnrolledCourses[i]
		}
	}
	return nil
}
