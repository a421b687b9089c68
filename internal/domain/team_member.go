package domain

// TeamMember is a roster entry tickets can be assigned to.
// Workload is supplied by the roster source and never recomputed here.
type TeamMember struct {
	ID       string
	Name     string
	Email    string
	Role     Role
	Avatar   string
	Workload int
}
