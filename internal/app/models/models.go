package models

// Role defines the permission tier of a user account
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// IsValid checks whether the role is one of the known values
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

// StudentStatus defines the enrollment state of a student record
type StudentStatus string

const (
	StatusActive    StudentStatus = "active"
	StatusGraduated StudentStatus = "graduated"
	StatusSuspended StudentStatus = "suspended"
	StatusWithdrawn StudentStatus = "withdrawn"
)

// AllStudentStatuses lists every valid status value
var AllStudentStatuses = []StudentStatus{StatusActive, StatusGraduated, StatusSuspended, StatusWithdrawn}

// IsValid checks whether the status is one of the known values
func (s StudentStatus) IsValid() bool {
	for _, v := range AllStudentStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Gender defines the gender field on a student record
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// IsValid checks whether the gender is one of the known values
func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale || g == GenderOther
}

// Actor identifies the authenticated caller of a service operation.
// It is extracted from the session token by the auth middleware and passed
// explicitly into every service call; services never read session state
// from ambient request context.
type Actor struct {
	ID       int64
	Email    string
	Role     Role
	IsActive bool
}

// IsAdmin reports whether the actor holds the admin role
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
