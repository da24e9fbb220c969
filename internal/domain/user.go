package domain

import "time"

// User roles. Role is fixed at creation.
const (
	RoleAdmin    = "admin"
	RoleAdvocate = "advocate"
	RoleClient   = "client"
)

// User lifecycle states. Only admins move users between states,
// except that clients start out active.
const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusInactive  = "inactive"
)

// User represents an account in any of the three portals
type User struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username       string    `gorm:"size:64;uniqueIndex" json:"username"`
	Email          string    `gorm:"size:255;uniqueIndex" json:"email"`
	FullName       string    `gorm:"size:255" json:"full_name"`
	PasswordHash   string    `gorm:"size:255" json:"-"`
	Role           string    `gorm:"size:16;index" json:"role"`
	Status         string    `gorm:"size:16;index" json:"status"`
	BarNumber      string    `gorm:"size:64" json:"bar_number,omitempty"`
	Specialization string    `gorm:"size:128" json:"specialization,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	FullName       string `json:"full_name"`
	Role           string `json:"role"`
	Status         string `json:"status"`
	BarNumber      string `json:"bar_number,omitempty"`
	Specialization string `json:"specialization,omitempty"`
	CreatedAt      string `json:"created_at"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		FullName:       u.FullName,
		Role:           u.Role,
		Status:         u.Status,
		BarNumber:      u.BarNumber,
		Specialization: u.Specialization,
		CreatedAt:      u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// ParticipantInfo is the sender/counterpart display metadata attached
// to conversations and messages
type ParticipantInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// ToParticipantInfo converts User to ParticipantInfo
func (u *User) ToParticipantInfo() *ParticipantInfo {
	return &ParticipantInfo{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Role:     u.Role,
	}
}

// UserFilter enumerates the recognized admin listing filters.
// Replaces ad-hoc WHERE fragment assembly with a typed parameter object.
type UserFilter struct {
	Role    string
	Status  string
	Keyword string // matches username, email, full name
}
