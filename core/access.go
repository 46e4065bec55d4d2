package core

// Action is what a request wants to do with a project.
type Action string

const (
	ActionRead    Action = "read"
	ActionWrite   Action = "write"
	ActionArchive Action = "archive"
)

// Decision is the outcome of an authorization check. NotFound is kept
// separate from Deny so callers can answer 404 instead of 403.
type Decision int

const (
	DecisionDeny Decision = iota
	DecisionAllow
	DecisionNotFound
)

func (d Decision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionNotFound:
		return "not_found"
	default:
		return "deny"
	}
}

// PolicyFunc decides whether an authenticated principal may perform an
// action on an existing project. Swapping the policy changes the grant
// rules without touching the Authorize contract.
type PolicyFunc func(p Principal, project *Project, action Action) bool

// OwnerOrAdmin is the default policy: admins may do anything, owners
// may act on their own projects, nobody else gets in.
func OwnerOrAdmin(p Principal, project *Project, _ Action) bool {
	if p.IsAdmin {
		return true
	}
	return p.ID == project.OwnerID
}

// AccessGuard is a pure decision function over a principal, a project
// snapshot and an action. It never mutates state and reports a missing
// project through the return value rather than an error.
type AccessGuard struct {
	policy PolicyFunc
}

func NewAccessGuard(policy PolicyFunc) *AccessGuard {
	if policy == nil {
		policy = OwnerOrAdmin
	}
	return &AccessGuard{policy: policy}
}

// Authorize evaluates, in order: existence, authentication, policy.
// The project pointer must be the same snapshot the caller goes on to
// mutate; re-reading between check and write would reopen the race the
// guard exists to close.
func (g *AccessGuard) Authorize(p Principal, project *Project, action Action) Decision {
	if project == nil {
		return DecisionNotFound
	}
	if !p.IsAuthenticated {
		return DecisionDeny
	}
	if g.policy(p, project, action) {
		return DecisionAllow
	}
	return DecisionDeny
}
