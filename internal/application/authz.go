package application

import "github.com/oksasatya/course-marketplace/internal/domain/entity"

// IsOwner compares identities, never display names.
func IsOwner(actorID, authorID string) bool {
	return actorID != "" && actorID == authorID
}

func HasRole(u *entity.User, role entity.Role) bool {
	return u != nil && u.Role == role
}

func IsEnrolled(u *entity.User, courseID string) bool {
	return u != nil && u.Enrollment(courseID) != nil
}
