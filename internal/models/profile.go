package models

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleTasker   Role = "tasker"
	RoleBoth     Role = "both"
)

// Mode selects which side of the marketplace a signed-in user is looking at.
// It is a view toggle carried in the session token, never stored on the profile.
type Mode string

const (
	ModeCustomer Mode = "customer"
	ModeTasker   Mode = "tasker"
)

func ValidRole(r Role) bool {
	return r == RoleCustomer || r == RoleTasker || r == RoleBoth
}

func ValidMode(m Mode) bool {
	return m == ModeCustomer || m == ModeTasker
}

// DefaultMode picks the starting view for a role: taskers land on the tasker
// side, everyone else (customer, both) starts as a customer.
func DefaultMode(r Role) Mode {
	if r == RoleTasker {
		return ModeTasker
	}
	return ModeCustomer
}

type Profile struct {
	ID                 string     `json:"id"`
	Phone              string     `json:"phone"`
	FullName           string     `json:"full_name"`
	Username           string     `json:"username"`
	Email              *string    `json:"email,omitempty"`
	Bio                *string    `json:"bio,omitempty"`
	Role               Role       `json:"role"`
	Available          bool       `json:"available"`
	PhoneVerified      bool       `json:"phone_verified"`
	VerificationStatus string     `json:"verification_status"`
	Skills             []string   `json:"skills,omitempty"`
	Languages          []string   `json:"languages,omitempty"`
	Certifications     []string   `json:"certifications,omitempty"`
	HourlyRate         *float64   `json:"hourly_rate,omitempty"`
	ExperienceYears    int        `json:"experience_years"`
	City               *string    `json:"city,omitempty"`
	RatingAverage      float64    `json:"rating_average"`
	RatingCount        int        `json:"rating_count"`
	CompletedTasks     int        `json:"completed_tasks"`
	IsAdmin            bool       `json:"is_admin"`
	PasswordHash       *string    `json:"-"` // set only for admin console accounts
	LastActive         time.Time  `json:"last_active"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	// opaque refresh token storage, never serialized
	RefreshToken     *string    `json:"-"`
	RefreshExpiresAt *time.Time `json:"-"`
	RefreshRevoked   bool       `json:"-"`
}

// SessionUser is the normalized in-memory user the rest of the application
// sees after a successful verification or session restore.
type SessionUser struct {
	ID          string   `json:"id"`
	Phone       string   `json:"phone"`
	Name        string   `json:"name"`
	Role        Role     `json:"role"`
	CurrentMode Mode     `json:"current_mode"`
	Profile     *Profile `json:"profile,omitempty"`
}

func NewSessionUser(p *Profile, mode Mode) *SessionUser {
	if !ValidMode(mode) {
		mode = DefaultMode(p.Role)
	}
	return &SessionUser{
		ID:          p.ID,
		Phone:       p.Phone,
		Name:        p.FullName,
		Role:        p.Role,
		CurrentMode: mode,
		Profile:     p,
	}
}
