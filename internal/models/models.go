package models

import "time"

// UserRole is the application-level role attached to a profile
type UserRole string

const (
	RoleModel        UserRole = "model"
	RolePhotographer UserRole = "photographer"
	RoleAdmin        UserRole = "admin"
)

// AccountStatus is the moderation state of a profile
type AccountStatus string

const (
	AccountPending  AccountStatus = "pending"
	AccountApproved AccountStatus = "approved"
	AccountRejected AccountStatus = "rejected"
)

// Identity represents a row in the identity table (credentials only)
type Identity struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session represents an authenticated credential bound to one identity
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// User is the application-level profile projection of an identity
type User struct {
	ID            string        `json:"id"`
	Email         string        `json:"email"`
	FullName      string        `json:"full_name"`
	AvatarURL     *string       `json:"avatar_url,omitempty"`
	Role          UserRole      `json:"role"`
	AccountStatus AccountStatus `json:"account_status"`
	PushToken     *string       `json:"push_token,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// ChatMessage represents one immutable message row
type ChatMessage struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Text       string    `json:"text"`
	ImageURL   *string   `json:"image_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Involves reports whether userID is a participant of the message
func (m *ChatMessage) Involves(userID string) bool {
	return m.SenderID == userID || m.ReceiverID == userID
}

// ModelProfile is the discovery projection of a model account
type ModelProfile struct {
	ID              string    `json:"id"`
	FullName        string    `json:"full_name"`
	AvatarURL       *string   `json:"avatar_url,omitempty"`
	Bio             string    `json:"bio"`
	HourlyRate      float64   `json:"hourly_rate"`
	PortfolioImages []string  `json:"portfolio_images"`
	Categories      []string  `json:"categories"`
	Rating          float64   `json:"rating"`
	ReviewCount     int       `json:"review_count"`
	Latitude        *float64  `json:"latitude,omitempty"`
	Longitude       *float64  `json:"longitude,omitempty"`
	LocationAddress string    `json:"location_address"`
	CreatedAt       time.Time `json:"created_at"`
}

// RecommendedLocation is a curated shooting location
type RecommendedLocation struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	ImageURL    string    `json:"image_url"`
	Address     string    `json:"address"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Category    string    `json:"category"`
	Rating      float64   `json:"rating"`
	CreatedAt   time.Time `json:"created_at"`
}

// ModelDetailsUpdate carries the optional fields of a model detail edit;
// nil fields are left untouched
type ModelDetailsUpdate struct {
	Bio             *string   `json:"bio,omitempty"`
	HourlyRate      *float64  `json:"hourly_rate,omitempty"`
	LocationAddress *string   `json:"location_address,omitempty"`
	PortfolioImages *[]string `json:"portfolio_images,omitempty"`
	Latitude        *float64  `json:"latitude,omitempty"`
	Longitude       *float64  `json:"longitude,omitempty"`
}

// BookingStatus is the lifecycle state of a booking
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// ValidBookingStatus reports whether s is a known booking status
func ValidBookingStatus(s BookingStatus) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// Booking represents a photographer/model booking
type Booking struct {
	ID             string        `json:"id"`
	PhotographerID string        `json:"photographer_id"`
	ModelID        string        `json:"model_id"`
	StartTime      time.Time     `json:"start_time"`
	EndTime        time.Time     `json:"end_time"`
	Status         BookingStatus `json:"status"`
	TotalPrice     float64       `json:"total_price"`
	Notes          *string       `json:"notes,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}
