package entities

// Role represents a position in the platform hierarchy
type Role string

const (
	RoleUser        Role = "user"
	RoleAgent       Role = "agent"
	RoleAdmin       Role = "admin"
	RoleMasterAdmin Role = "master_admin"
)

// roleRanks is the flat rank table governing who may act on whose accounts
var roleRanks = map[Role]int{
	RoleUser:        1,
	RoleAgent:       2,
	RoleAdmin:       3,
	RoleMasterAdmin: 4,
}

// Rank returns the numeric rank of the role, 0 for unknown roles
func (r Role) Rank() int {
	return roleRanks[r]
}

// IsValid returns true if the role is one of the four known roles
func (r Role) IsValid() bool {
	_, ok := roleRanks[r]
	return ok
}

// Outranks returns true if r is strictly above other in the hierarchy
func (r Role) Outranks(other Role) bool {
	return r.Rank() > other.Rank()
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// Principal is an authenticated caller as supplied by the external auth collaborator
type Principal struct {
	UserID int64
	Role   Role
}
