package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tracklite/tracklite/core"
	"github.com/tracklite/tracklite/pkg/crypto"
)

// ProjectService drives the project lifecycle: creation, whitelisted
// updates while active, and the one-way archive transition. Every
// check-then-mutate sequence runs under the project's entity lock so
// authorization always matches the snapshot that gets written.
type ProjectService struct {
	storage core.ProjectStorage
	guard   *core.AccessGuard
	locks   *entityLocks
	nanoid  *crypto.NanoIDGenerator
	now     func() time.Time
}

func NewProjectService(storage core.ProjectStorage, guard *core.AccessGuard) *ProjectService {
	nanoid, _ := crypto.NewNanoID()
	return &ProjectService{
		storage: storage,
		guard:   guard,
		locks:   newEntityLocks(),
		nanoid:  nanoid,
		now:     time.Now,
	}
}

// decisionErr maps a guard decision onto the fault a caller sees.
func decisionErr(d core.Decision) error {
	switch d {
	case core.DecisionAllow:
		return nil
	case core.DecisionNotFound:
		return core.ErrProjectNotFound
	default:
		return core.ErrAccessDenied
	}
}

// load fetches the project snapshot for an id; a storage miss becomes
// a nil project so the guard can answer NotFound itself.
func (s *ProjectService) load(id string) (*core.Project, error) {
	project, err := s.storage.GetProjectByID(id)
	if err != nil {
		if errors.Is(err, core.ErrProjectNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	return project, nil
}

// CreateProjectInput is the payload for a new project.
type CreateProjectInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Create registers a new active project owned by the principal.
func (s *ProjectService) Create(p core.Principal, input CreateProjectInput) (*core.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, core.ErrProjectNameRequired
	}

	id, err := s.nanoid.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate project id: %w", err)
	}

	now := s.now()
	project := &core.Project{
		ID:          id,
		OwnerID:     p.ID,
		Name:        input.Name,
		Description: input.Description,
		Status:      core.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.storage.CreateProject(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project.Clone(), nil
}

// List returns every project visible to an authenticated caller.
func (s *ProjectService) List(p core.Principal) ([]*core.Project, error) {
	if !p.IsAuthenticated {
		return nil, core.ErrAccessDenied
	}

	projects, err := s.storage.ListProjects()
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	out := make([]*core.Project, 0, len(projects))
	for _, project := range projects {
		out = append(out, project.Clone())
	}
	return out, nil
}

// Get returns a read-authorized project snapshot.
func (s *ProjectService) Get(p core.Principal, id string) (*core.Project, error) {
	project, err := s.load(id)
	if err != nil {
		return nil, err
	}

	if err := decisionErr(s.guard.Authorize(p, project, core.ActionRead)); err != nil {
		return nil, err
	}

	return project.Clone(), nil
}

// UpdateProjectInput carries the patchable fields. Nil means "leave
// alone"; OwnerID, Status and ID cannot be changed through this path.
type UpdateProjectInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Update patches the whitelisted fields of an active project. An
// archived project is read-only and answers with a conflict, which is
// a different fault than a denial.
func (s *ProjectService) Update(p core.Principal, id string, input UpdateProjectInput) (*core.Project, error) {
	unlock := s.locks.acquire(id)
	defer unlock()

	project, err := s.load(id)
	if err != nil {
		return nil, err
	}

	// Ownership is checked against this snapshot; the entity lock
	// keeps a concurrent archive from sliding in after the check.
	if err := decisionErr(s.guard.Authorize(p, project, core.ActionWrite)); err != nil {
		return nil, err
	}

	if project.Archived() {
		return nil, core.ErrProjectArchived
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, core.ErrProjectNameRequired
		}
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	project.UpdatedAt = s.now()

	if err := s.storage.UpdateProject(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project.Clone(), nil
}

// Archive soft-deletes a project. The transition is terminal and
// idempotent: archiving an archived project succeeds without touching
// ArchivedAt again.
func (s *ProjectService) Archive(p core.Principal, id string) (*core.Project, error) {
	unlock := s.locks.acquire(id)
	defer unlock()

	project, err := s.load(id)
	if err != nil {
		return nil, err
	}

	if err := decisionErr(s.guard.Authorize(p, project, core.ActionArchive)); err != nil {
		return nil, err
	}

	if !project.MarkArchived(s.now()) {
		// Already archived: no-op success, no re-stamp.
		return project.Clone(), nil
	}

	if err := s.storage.UpdateProject(project); err != nil {
		return nil, fmt.Errorf("failed to archive project: %w", err)
	}

	return project.Clone(), nil
}
