package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleUser    Role = "user"
	RoleTrainer Role = "trainer"
)

// ParseRole converts a raw value into a Role. An empty value maps to RoleUser.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case "", RoleUser:
		return RoleUser, true
	case RoleTrainer:
		return RoleTrainer, true
	}
	return "", false
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleTrainer
}

// Capability names an action guarded by role.
type Capability int

const (
	CapManageAccount Capability = iota
	CapManageCourses
	CapViewTrainerStats
	CapInteractWithCourses
	CapTrackFitness
)

func (c Capability) String() string {
	switch c {
	case CapManageAccount:
		return "manage_account"
	case CapManageCourses:
		return "manage_courses"
	case CapViewTrainerStats:
		return "view_trainer_stats"
	case CapInteractWithCourses:
		return "interact_with_courses"
	case CapTrackFitness:
		return "track_fitness"
	}
	return "unknown"
}

// permissions is the single table deciding what each role may do.
var permissions = map[Role]map[Capability]bool{
	RoleUser: {
		CapManageAccount:       true,
		CapInteractWithCourses: true,
		CapTrackFitness:        true,
	},
	RoleTrainer: {
		CapManageAccount:    true,
		CapManageCourses:    true,
		CapViewTrainerStats: true,
	},
}

// Can reports whether the role grants the capability.
func (r Role) Can(c Capability) bool {
	return permissions[r][c]
}

// Identity is the authenticated caller resolved from a bearer token.
type Identity struct {
	UserID primitive.ObjectID
	Role   Role
}

// Can reports whether the caller's role grants the capability.
func (i Identity) Can(c Capability) bool {
	return i.Role.Can(c)
}
