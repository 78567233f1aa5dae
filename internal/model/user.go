package model

import "time"

// AuthMethod records how an account was first created.
type AuthMethod string

const (
	AuthMethodLocal    AuthMethod = "local"
	AuthMethodGoogle   AuthMethod = "google"
	AuthMethodFacebook AuthMethod = "facebook" // reserved
)

// Valid reports whether m is one of the known methods.
func (m AuthMethod) Valid() bool {
	switch m {
	case AuthMethodLocal, AuthMethodGoogle, AuthMethodFacebook:
		return true
	}
	return false
}

// User is the single account record shared by local and third-party sign-in.
type User struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	Name           string     `json:"name" gorm:"column:user_name;size:255;not null"`
	Email          string     `json:"email" gorm:"uniqueIndex:idx_users_email;size:255;not null"`
	PasswordHash   string     `json:"-" gorm:"column:password;size:255;not null"` // Never expose in JSON
	FirebaseUID    *string    `json:"firebase_uid,omitempty" gorm:"column:firebase_uid;uniqueIndex:idx_users_firebase_uid;size:128"`
	ProfilePicture *string    `json:"profile_picture,omitempty" gorm:"column:profile_picture;size:1024"`
	AuthMethod     AuthMethod `json:"authentication_method" gorm:"column:authentication_method;size:20;not null;default:'local'"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName pins the table name used by migrations and raw queries.
func (User) TableName() string { return "users" }

// CreateAttrs are the optional columns supplied when a user is created.
// Zero values mean "use the column default".
type CreateAttrs struct {
	FirebaseUID    string
	ProfilePicture string
	AuthMethod     AuthMethod
}

// ProfileUpdate is a partial update; only non-nil fields are written. updated_at is not touched.
type ProfileUpdate struct {
	Name           *string
	ProfilePicture *string
	FirebaseUID    *string
	AuthMethod     *AuthMethod
}

// Columns returns the column/value pairs that the update supplies.
func (p ProfileUpdate) Columns() map[string]interface{} {
	cols := make(map[string]interface{}, 4)
	if p.Name != nil {
		cols["user_name"] = *p.Name
	}
	if p.ProfilePicture != nil {
		cols["profile_picture"] = *p.ProfilePicture
	}
	if p.FirebaseUID != nil {
		cols["firebase_uid"] = *p.FirebaseUID
	}
	if p.AuthMethod != nil {
		cols["authentication_method"] = string(*p.AuthMethod)
	}
	return cols
}

// Empty reports whether no field is supplied.
func (p ProfileUpdate) Empty() bool {
	return p.Name == nil && p.ProfilePicture == nil && p.FirebaseUID == nil && p.AuthMethod == nil
}
