package memory

import (
	"sync"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
)

// DB is an in-process document store. A single mutex serializes every
// operation, which makes multi-document writes such as Enroll atomic.
type DB struct {
	mu           sync.RWMutex
	users        map[string]*entity.User
	courses      map[string]*entity.Course
	courseOrder  []string
	transactions []entity.Transaction
}

func NewDB() *DB {
	return &DB{
		users:   map[string]*entity.User{},
		courses: map[string]*entity.Course{},
	}
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	c.EnrolledCourses = make([]entity.Enrollment, len(u.EnrolledCourses))
	for i, e := range u.EnrolledCourses {
		c.EnrolledCourses[i] = cloneEnrollment(e)
	}
	return &c
}

func cloneEnrollment(e entity.Enrollment) entity.Enrollment {
	e.CompletedSections = append([]string{}, e.CompletedSections...)
	return e
}

func cloneCourse(c *entity.Course) *entity.Course {
	out := *c
	out.Sections = append([]entity.Section{}, c.Sections...)
	out.Comments = append([]entity.Comment{}, c.Comments...)
	return &out
}
