package models

import "time"

// PhoneVerification is a single issued code. Every send creates a new row;
// earlier rows stay valid until they expire or get used.
type PhoneVerification struct {
	ID          string    `json:"id"`
	PhoneNumber string    `json:"phone_number"`
	Code        string    `json:"-"`
	ExpiresAt   time.Time `json:"expires_at"`
	Used        bool      `json:"used"`
	CreatedAt   time.Time `json:"created_at"`
}

// PendingRegistration bridges "code sent" and "code verified" for a phone
// that has no profile yet. Held server-side with its own TTL.
type PendingRegistration struct {
	Phone     string    `json:"phone"`
	FullName  string    `json:"full_name"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
