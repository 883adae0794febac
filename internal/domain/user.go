package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Certificate is a qualification listed on a trainer profile.
type Certificate struct {
	Name     string     `bson:"name,omitempty" json:"name,omitempty"`
	Issuer   string     `bson:"issuer,omitempty" json:"issuer,omitempty"`
	Date     *time.Time `bson:"date,omitempty" json:"date,omitempty"`
	ImageURL string     `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
}

type SocialLinks struct {
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
	Facebook  string `bson:"facebook,omitempty" json:"facebook,omitempty"`
	Youtube   string `bson:"youtube,omitempty" json:"youtube,omitempty"`
	Website   string `bson:"website,omitempty" json:"website,omitempty"`
}

// Profile holds the descriptive attributes of a user.
// Specialization, Experience, Certificates and SocialLinks are used by trainers only.
type Profile struct {
	FirstName    string   `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName     string   `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Age          *int     `bson:"age,omitempty" json:"age,omitempty"`
	Gender       string   `bson:"gender,omitempty" json:"gender,omitempty"`
	Height       *float64 `bson:"height,omitempty" json:"height,omitempty"` // cm
	Weight       *float64 `bson:"weight,omitempty" json:"weight,omitempty"` // kg
	Goal         string   `bson:"goal,omitempty" json:"goal,omitempty"`
	ProfileImage string   `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	Bio          string   `bson:"bio,omitempty" json:"bio,omitempty"`

	Specialization []string      `bson:"specialization,omitempty" json:"specialization,omitempty"`
	Experience     *int          `bson:"experience,omitempty" json:"experience,omitempty"` // years
	Certificates   []Certificate `bson:"certificates,omitempty" json:"certificates,omitempty"`
	SocialLinks    *SocialLinks  `bson:"socialLinks,omitempty" json:"socialLinks,omitempty"`
}

// HasTrainerAttributes reports whether any trainer-only attribute is set.
func (p Profile) HasTrainerAttributes() bool {
	return len(p.Specialization) > 0 || p.Experience != nil || len(p.Certificates) > 0 || p.SocialLinks != nil
}

// User represents an account in the system (either a regular user or a trainer).
type User struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username         string             `bson:"username" json:"username"` // unique
	Email            string             `bson:"email" json:"email"`       // unique, lowercased
	PasswordHash     string             `bson:"passwordHash" json:"-"`    // Never expose this via JSON
	Role             Role               `bson:"role" json:"role"`
	Profile          `bson:",inline"`
	IsVerified       bool      `bson:"isVerified" json:"isVerified"`
	RegistrationDate time.Time `bson:"registrationDate" json:"registrationDate"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsTrainer() bool {
	return u.Role == RoleTrainer
}

// FullName joins first and last name, skipping the empty parts.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// NormalizeEmail trims and lowercases an address the way it is stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
