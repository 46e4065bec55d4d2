package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tracklite/tracklite/core"
)

func newProjectService(storage *FakeStorage) *ProjectService {
	return NewProjectService(storage, core.NewAccessGuard(nil))
}

func seedProject(storage *FakeStorage, id, ownerID string, status core.ProjectStatus) {
	p := &core.Project{
		ID:        id,
		OwnerID:   ownerID,
		Name:      "seed " + id,
		Status:    status,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if status == core.StatusArchived {
		ts := time.Now().Add(-time.Hour)
		p.ArchivedAt = &ts
	}
	_ = storage.CreateProject(p)
}

// Requirement: Create rejects a blank name and stores a new active
// project owned by the caller.
func TestProjectService_Create(t *testing.T) {
	tests := []struct {
		name    string
		input   CreateProjectInput
		wantErr error
	}{
		{
			name:  "creates an active project",
			input: CreateProjectInput{Name: "Website redesign", Description: "Refresh the UI"},
		},
		{
			name:    "rejects empty name",
			input:   CreateProjectInput{Name: ""},
			wantErr: core.ErrProjectNameRequired,
		},
		{
			name:    "rejects whitespace-only name",
			input:   CreateProjectInput{Name: "   "},
			wantErr: core.ErrProjectNameRequired,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			service := newProjectService(NewFakeStorage())
			owner := core.Principal{ID: "alice", IsAuthenticated: true}

			// Act
			project, err := service.Create(owner, test.input)

			// Assert
			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Fatalf("Create() error = %v, want %v", err, test.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if project.OwnerID != "alice" {
				t.Errorf("OwnerID = %q, want alice", project.OwnerID)
			}
			if project.Status != core.StatusActive {
				t.Errorf("Status = %q, want active", project.Status)
			}
			if project.ID == "" {
				t.Error("Create() should assign an id")
			}
		})
	}
}

// Requirement: Get applies the authorization matrix: owner and admin see
// the project, strangers are denied, a missing id is not found, and an
// unauthenticated caller is denied before any grant rule runs.
func TestProjectService_Get(t *testing.T) {
	tests := []struct {
		name      string
		principal core.Principal
		projectID string
		wantErr   error
	}{
		{
			name:      "owner reads own project",
			principal: core.Principal{ID: "alice", IsAuthenticated: true},
			projectID: "p1",
		},
		{
			name:      "admin reads someone else's project",
			principal: core.Principal{ID: "root", IsAdmin: true, IsAuthenticated: true},
			projectID: "p1",
		},
		{
			name:      "stranger is denied",
			principal: core.Principal{ID: "bob", IsAuthenticated: true},
			projectID: "p1",
			wantErr:   core.ErrAccessDenied,
		},
		{
			name:      "unauthenticated caller is denied",
			principal: core.Principal{},
			projectID: "p1",
			wantErr:   core.ErrAccessDenied,
		},
		{
			name:      "missing project is not found even for admin",
			principal: core.Principal{ID: "root", IsAdmin: true, IsAuthenticated: true},
			projectID: "ghost",
			wantErr:   core.ErrProjectNotFound,
		},
		{
			name:      "missing project is not found for unauthenticated caller",
			principal: core.Principal{},
			projectID: "ghost",
			wantErr:   core.ErrProjectNotFound,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			storage := NewFakeStorage()
			seedProject(storage, "p1", "alice", core.StatusActive)
			service := newProjectService(storage)

			project, err := service.Get(test.principal, test.projectID)

			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Fatalf("Get() error = %v, want %v", err, test.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if project.ID != test.projectID {
				t.Errorf("Get() returned project %q, want %q", project.ID, test.projectID)
			}
		})
	}
}

// Requirement: Update patches only name and description of an active
// project; an archived project answers with a conflict, not a denial.
func TestProjectService_Update(t *testing.T) {
	name := "New name"
	description := "New description"
	empty := "  "

	tests := []struct {
		name      string
		status    core.ProjectStatus
		principal core.Principal
		input     UpdateProjectInput
		wantErr   error
	}{
		{
			name:      "owner updates active project",
			status:    core.StatusActive,
			principal: core.Principal{ID: "alice", IsAuthenticated: true},
			input:     UpdateProjectInput{Name: &name, Description: &description},
		},
		{
			name:      "archived project is read-only",
			status:    core.StatusArchived,
			principal: core.Principal{ID: "alice", IsAuthenticated: true},
			input:     UpdateProjectInput{Name: &name},
			wantErr:   core.ErrProjectArchived,
		},
		{
			name:      "stranger denied before the archived check",
			status:    core.StatusArchived,
			principal: core.Principal{ID: "bob", IsAuthenticated: true},
			input:     UpdateProjectInput{Name: &name},
			wantErr:   core.ErrAccessDenied,
		},
		{
			name:      "blank name patch is rejected",
			status:    core.StatusActive,
			principal: core.Principal{ID: "alice", IsAuthenticated: true},
			input:     UpdateProjectInput{Name: &empty},
			wantErr:   core.ErrProjectNameRequired,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			storage := NewFakeStorage()
			seedProject(storage, "p1", "alice", test.status)
			service := newProjectService(storage)

			updated, err := service.Update(test.principal, "p1", test.input)

			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Fatalf("Update() error = %v, want %v", err, test.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Update() error = %v", err)
			}
			if updated.Name != name || updated.Description != description {
				t.Errorf("Update() = %q/%q, want %q/%q", updated.Name, updated.Description, name, description)
			}
		})
	}
}

// Requirement: a nil field means "leave alone"; updating only the
// description keeps the name.
func TestProjectService_UpdatePartial(t *testing.T) {
	storage := NewFakeStorage()
	seedProject(storage, "p1", "alice", core.StatusActive)
	service := newProjectService(storage)
	owner := core.Principal{ID: "alice", IsAuthenticated: true}

	description := "only this changes"
	updated, err := service.Update(owner, "p1", UpdateProjectInput{Description: &description})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Name != "seed p1" {
		t.Errorf("Name = %q, want untouched seed name", updated.Name)
	}
	if updated.Description != description {
		t.Errorf("Description = %q, want %q", updated.Description, description)
	}
}

// Requirement: Archive is terminal and idempotent. The first call stamps
// ArchivedAt; every later call succeeds without moving it.
func TestProjectService_ArchiveIdempotent(t *testing.T) {
	storage := NewFakeStorage()
	seedProject(storage, "p1", "alice", core.StatusActive)
	service := newProjectService(storage)
	owner := core.Principal{ID: "alice", IsAuthenticated: true}

	first, err := service.Archive(owner, "p1")
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	if !first.Archived() || first.ArchivedAt == nil {
		t.Fatal("Archive() should leave the project archived with a timestamp")
	}

	second, err := service.Archive(owner, "p1")
	if err != nil {
		t.Fatalf("second Archive() error = %v", err)
	}
	if !second.ArchivedAt.Equal(*first.ArchivedAt) {
		t.Errorf("second Archive() moved ArchivedAt from %v to %v", first.ArchivedAt, second.ArchivedAt)
	}

	// The archived project is now read-only.
	name := "too late"
	if _, err := service.Update(owner, "p1", UpdateProjectInput{Name: &name}); !errors.Is(err, core.ErrProjectArchived) {
		t.Errorf("Update() after archive error = %v, want %v", err, core.ErrProjectArchived)
	}
}

// Requirement: Archive honors the same authorization matrix as the
// other operations.
func TestProjectService_ArchiveAuthorization(t *testing.T) {
	tests := []struct {
		name      string
		principal core.Principal
		projectID string
		wantErr   error
	}{
		{
			name:      "stranger cannot archive",
			principal: core.Principal{ID: "bob", IsAuthenticated: true},
			projectID: "p1",
			wantErr:   core.ErrAccessDenied,
		},
		{
			name:      "admin can archive",
			principal: core.Principal{ID: "root", IsAdmin: true, IsAuthenticated: true},
			projectID: "p1",
		},
		{
			name:      "missing project is not found",
			principal: core.Principal{ID: "alice", IsAuthenticated: true},
			projectID: "ghost",
			wantErr:   core.ErrProjectNotFound,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			storage := NewFakeStorage()
			seedProject(storage, "p1", "alice", core.StatusActive)
			service := newProjectService(storage)

			_, err := service.Archive(test.principal, test.projectID)
			if !errors.Is(err, test.wantErr) {
				t.Errorf("Archive() error = %v, want %v", err, test.wantErr)
			}
		})
	}
}

// Requirement: concurrent archives of the same project agree on a single
// ArchivedAt; the entity lock serializes the check-then-mutate window.
func TestProjectService_ArchiveConcurrent(t *testing.T) {
	storage := NewFakeStorage()
	seedProject(storage, "p1", "alice", core.StatusActive)
	service := newProjectService(storage)
	owner := core.Principal{ID: "alice", IsAuthenticated: true}

	var wg sync.WaitGroup
	results := make([]*core.Project, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := service.Archive(owner, "p1")
			if err != nil {
				t.Errorf("Archive() error = %v", err)
				return
			}
			results[i] = p
		}(i)
	}
	wg.Wait()

	want := results[0].ArchivedAt
	for i, p := range results {
		if p == nil || p.ArchivedAt == nil {
			t.Fatalf("result %d missing ArchivedAt", i)
		}
		if !p.ArchivedAt.Equal(*want) {
			t.Errorf("result %d ArchivedAt = %v, want %v", i, p.ArchivedAt, want)
		}
	}
}

// Requirement: List requires authentication and returns snapshots,
// not the stored records.
func TestProjectService_List(t *testing.T) {
	storage := NewFakeStorage()
	seedProject(storage, "p1", "alice", core.StatusActive)
	seedProject(storage, "p2", "bob", core.StatusArchived)
	service := newProjectService(storage)

	if _, err := service.List(core.Principal{}); !errors.Is(err, core.ErrAccessDenied) {
		t.Errorf("List() unauthenticated error = %v, want %v", err, core.ErrAccessDenied)
	}

	projects, err := service.List(core.Principal{ID: "alice", IsAuthenticated: true})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(projects) != 2 {
		t.Errorf("List() returned %d projects, want 2", len(projects))
	}
}
