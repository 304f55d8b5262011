package app

// User entity
type User struct {
	ID    int
	Login string
}

// Project entity
type Project struct {
	ID    int
	Name  string
	Owner User
}

// FullName returns project's "owner/name" path.
func (p Project) FullName() string {
	return p.Owner.Login + "/" + p.Name
}

// Contributor entity
type Contributor struct {
	User          User
	Contributions int
}

// RiskEntry describes project with a single dominant contributor.
// Share is the fraction of top contributors' combined contributions attributed to TopLogin.
type RiskEntry struct {
	ProjectID int
	TopLogin  string
	Share     float64
}

// ReportEntry pairs a risky project with its risk details.
type ReportEntry struct {
	Project Project
	Risk    RiskEntry
}

// ProjectFailure describes project that couldn't be analyzed.
type ProjectFailure struct {
	Project Project
	Err     error
}
