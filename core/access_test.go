package core

import (
	"testing"
	"time"
)

// Requirement: Authorize checks existence first, then authentication, then
// the grant policy, and reports each outcome as a distinct decision.
func TestAccessGuard_Authorize(t *testing.T) {
	project := &Project{ID: "p1", OwnerID: "alice", Status: StatusActive}

	tests := []struct {
		name      string
		principal Principal
		project   *Project
		action    Action
		want      Decision
	}{
		{
			name:      "missing project wins over everything, even for admins",
			principal: Principal{ID: "root", IsAdmin: true, IsAuthenticated: true},
			project:   nil,
			action:    ActionRead,
			want:      DecisionNotFound,
		},
		{
			name:      "unauthenticated caller is denied on an existing project",
			principal: Principal{},
			project:   project,
			action:    ActionRead,
			want:      DecisionDeny,
		},
		{
			name:      "unauthenticated caller still gets not found for a missing project",
			principal: Principal{},
			project:   nil,
			action:    ActionRead,
			want:      DecisionNotFound,
		},
		{
			name:      "admin may act on someone else's project",
			principal: Principal{ID: "root", IsAdmin: true, IsAuthenticated: true},
			project:   project,
			action:    ActionArchive,
			want:      DecisionAllow,
		},
		{
			name:      "owner may act on their own project",
			principal: Principal{ID: "alice", IsAuthenticated: true},
			project:   project,
			action:    ActionWrite,
			want:      DecisionAllow,
		},
		{
			name:      "authenticated non-owner is denied",
			principal: Principal{ID: "bob", IsAuthenticated: true},
			project:   project,
			action:    ActionRead,
			want:      DecisionDeny,
		},
		{
			name:      "admin flag without authentication does not grant access",
			principal: Principal{ID: "root", IsAdmin: true},
			project:   project,
			action:    ActionRead,
			want:      DecisionDeny,
		},
	}

	guard := NewAccessGuard(nil)

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			got := guard.Authorize(test.principal, test.project, test.action)
			if got != test.want {
				t.Errorf("Authorize() = %v, want %v", got, test.want)
			}
		})
	}
}

// Requirement: the decision is the same for every action; ownership, not
// the verb, is what the default policy looks at.
func TestAccessGuard_ActionIndependent(t *testing.T) {
	guard := NewAccessGuard(nil)
	owner := Principal{ID: "alice", IsAuthenticated: true}
	project := &Project{ID: "p1", OwnerID: "alice"}

	for _, action := range []Action{ActionRead, ActionWrite, ActionArchive} {
		if got := guard.Authorize(owner, project, action); got != DecisionAllow {
			t.Errorf("Authorize(owner, %q) = %v, want allow", action, got)
		}
	}
}

// Requirement: a custom policy replaces the grant rules but not the
// existence and authentication checks.
func TestAccessGuard_CustomPolicy(t *testing.T) {
	denyAll := func(Principal, *Project, Action) bool { return false }
	guard := NewAccessGuard(denyAll)

	admin := Principal{ID: "root", IsAdmin: true, IsAuthenticated: true}
	project := &Project{ID: "p1", OwnerID: "root"}

	if got := guard.Authorize(admin, project, ActionRead); got != DecisionDeny {
		t.Errorf("Authorize() with deny-all policy = %v, want deny", got)
	}
	if got := guard.Authorize(admin, nil, ActionRead); got != DecisionNotFound {
		t.Errorf("Authorize() on nil project = %v, want not_found", got)
	}
}

// Requirement: the guard never mutates the snapshot it decides over.
func TestAccessGuard_PureDecision(t *testing.T) {
	guard := NewAccessGuard(nil)
	archivedAt := time.Date(2026, 1, 20, 16, 45, 0, 0, time.UTC)
	project := &Project{
		ID:         "p1",
		OwnerID:    "alice",
		Status:     StatusArchived,
		ArchivedAt: &archivedAt,
	}
	before := *project

	guard.Authorize(Principal{ID: "alice", IsAuthenticated: true}, project, ActionWrite)

	if *project != before {
		t.Error("Authorize() mutated the project snapshot")
	}
}
