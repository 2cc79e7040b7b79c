package dto

// UserDetailResponse extends UserResponse with the number of student
// records this user has created.
type UserDetailResponse struct {
	UserResponse
	CreatedStudents int64 `json:"createdStudents"`
}

// SelfProfilePatch is the update shape available to a non-admin user
// editing their own profile. Restricting the type restricts the permission:
// any other field sent by the client simply has nowhere to land.
type SelfProfilePatch struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
}

// AdminUserPatch is the update shape available to admins. Nil means the
// field is left untouched; role and isActive apply only when present.
type AdminUserPatch struct {
	Email     *string `json:"email,omitempty"`
	Password  *string `json:"password,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Role      *string `json:"role,omitempty"`
	IsActive  *bool   `json:"isActive,omitempty"`
}
