package handlers

import (
	"time"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
)

// userView is the public shape of a user; the password hash never leaves
// the service.
type userView struct {
	ID              string              `json:"_id"`
	Name            string              `json:"name"`
	Email           string              `json:"email"`
	Role            string              `json:"role"`
	TokenBalance    int64               `json:"tokenBalance"`
	EnrolledCourses []entity.Enrollment `json:"enrolledCourses"`
	CreatedAt       time.Time           `json:"createdAt"`
}

func toUserView(u *entity.User) userView {
	enrolled := u.EnrolledCourses
	if enrolled == nil {
		enrolled = []entity.Enrollment{}
	}
	return userView{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Role:            string(u.Role),
		TokenBalance:    u.TokenBalance,
		EnrolledCourses: enrolled,
		CreatedAt:       u.CreatedAt,
	}
}

type studentView struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toStudentViews(users []entity.User) []studentView {
	out := make([]studentView, 0, len(users))
	for _, u := range users {
		out = append(out, studentView{ID: u.ID, Name: u.Name, Email: u.Email})
	}
	return out
}
