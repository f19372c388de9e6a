package persona

// Role is the requester's role flag, carried on every generation request.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// IsAdmin reports whether the role may select admin-scoped personas.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Persona is a named configuration of audience, tone, and identity used to
// steer generation. AdminOnly personas are selectable only by admins.
type Persona struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Audience  string `json:"audience" yaml:"audience"`
	Tone      string `json:"tone" yaml:"tone"`
	Identity  string `json:"identity" yaml:"identity"`
	AdminOnly bool   `json:"admin_only" yaml:"admin_only"`
}
