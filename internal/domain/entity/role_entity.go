package entity

// Role is the capability a user registered with.
// Teachers author courses, students enroll in them.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleTeacher || r == RoleStudent
}
