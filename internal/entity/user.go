package entity

// DefaultRole is stored when a create request leaves role out.
const DefaultRole = "user"

// User is a staff member record. Username is the unique key and never changes.
type User struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// CreateUserRequest is the POST /users payload. Optional fields are pointers so
// an explicit empty string can be told apart from an absent field.
type CreateUserRequest struct {
	Username  string  `json:"username" validate:"required"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Role      *string `json:"role"`
}

// ToUser builds the record to insert, filling in defaults for absent fields.
func (r CreateUserRequest) ToUser() User {
	user := User{Username: r.Username, Role: DefaultRole}
	if r.FirstName != nil {
		user.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		user.LastName = *r.LastName
	}
	if r.Role != nil {
		user.Role = *r.Role
	}
	return user
}

// DeleteUserRequest is the DELETE /users payload.
type DeleteUserRequest struct {
	Username string `json:"username" validate:"required"`
}

/*
Schema (MySQL flavour, see migrations for the others):

CREATE TABLE users (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	username VARCHAR(255) NOT NULL UNIQUE,
	first_name VARCHAR(255) NOT NULL DEFAULT '',
	last_name VARCHAR(255) NOT NULL DEFAULT '',
	role VARCHAR(64) NOT NULL DEFAULT 'user'
);

id only fixes the default listing order; it is never exposed.
*/
