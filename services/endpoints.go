package services

import (
	"fmt"

	"github.com/tracklite/tracklite/core"
)

// BaseEndpoints returns framework-agnostic endpoint specifications for
// every core route. Handlers are attached by adapters, matched on
// OperationID, which lets multiple HTTP adapters share one route table.
func BaseEndpoints() []core.Endpoint {
	return []core.Endpoint{
		{
			Path:   "/auth/sign-up",
			Method: "POST",
			Metadata: core.EndpointMetadata{
				OperationID: "signUp",
				Description: "Register an account with email and password",
			},
		},
		{
			Path:   "/auth/sign-in",
			Method: "POST",
			Metadata: core.EndpointMetadata{
				OperationID: "signIn",
				Description: "Authenticate and receive a bearer credential",
			},
		},
		{
			Path:   "/auth/sign-out",
			Method: "POST",
			Metadata: core.EndpointMetadata{
				OperationID: "signOut",
				Description: "Invalidate the presenting credential and session",
				Protected:   true,
			},
		},
		{
			Path:   "/auth/session",
			Method: "GET",
			Metadata: core.EndpointMetadata{
				OperationID: "getSession",
				Description: "Get the current session data",
				Protected:   true,
			},
		},
		{
			Path:   "/projects",
			Method: "GET",
			Metadata: core.EndpointMetadata{
				OperationID: "listProjects",
				Description: "List projects",
				Protected:   true,
			},
		},
		{
			Path:   "/projects",
			Method: "POST",
			Metadata: core.EndpointMetadata{
				OperationID: "createProject",
				Description: "Create a project owned by the caller",
				Protected:   true,
			},
		},
		{
			Path:   "/projects/:id",
			Method: "GET",
			Metadata: core.EndpointMetadata{
				OperationID: "getProject",
				Description: "Get a project snapshot",
				Protected:   true,
			},
		},
		{
			Path:   "/projects/:id",
			Method: "PUT",
			Metadata: core.EndpointMetadata{
				OperationID: "updateProject",
				Description: "Patch name/description of an active project",
				Protected:   true,
			},
		},
		{
			Path:   "/projects/:id",
			Method: "DELETE",
			Metadata: core.EndpointMetadata{
				OperationID: "archiveProject",
				Description: "Archive (soft-delete) a project",
				Protected:   true,
			},
		},
		{
			Path:   "/accounts/me",
			Method: "DELETE",
			Metadata: core.EndpointMetadata{
				OperationID: "deactivateAccount",
				Description: "Deactivate the caller's account and revoke all credentials",
				Protected:   true,
			},
		},
	}
}

// EndpointRegistry manages a collection of framework-agnostic endpoints
// and handles conflict detection for duplicate METHOD:PATH combinations.
type EndpointRegistry struct {
	endpoints map[string]*core.Endpoint // keyed by "METHOD:PATH"
	order     []string
}

// NewEndpointRegistry creates a new registry with all base endpoints
// pre-registered.
func NewEndpointRegistry() *EndpointRegistry {
	reg := &EndpointRegistry{
		endpoints: make(map[string]*core.Endpoint),
	}

	base := BaseEndpoints()
	for i := range base {
		_ = reg.register(&base[i])
	}

	return reg
}

func (r *EndpointRegistry) register(ep *core.Endpoint) error {
	key := fmt.Sprintf("%s:%s", ep.Method, ep.Path)

	if _, exists := r.endpoints[key]; exists {
		return fmt.Errorf("endpoint conflict: %s %s already registered", ep.Method, ep.Path)
	}

	r.endpoints[key] = ep
	r.order = append(r.order, key)
	return nil
}

// RegisterPlugin registers additional endpoints. If any endpoint
// conflicts with an existing one, or the batch contains a duplicate,
// nothing from the batch is registered.
func (r *EndpointRegistry) RegisterPlugin(endpoints []core.Endpoint) error {
	seen := make(map[string]bool)
	for i := range endpoints {
		ep := &endpoints[i]
		key := fmt.Sprintf("%s:%s", ep.Method, ep.Path)

		if _, exists := r.endpoints[key]; exists {
			return fmt.Errorf("plugin endpoint conflict: %s %s already registered", ep.Method, ep.Path)
		}
		if seen[key] {
			return fmt.Errorf("plugin contains duplicate endpoint: %s %s", ep.Method, ep.Path)
		}
		seen[key] = true
	}

	for i := range endpoints {
		_ = r.register(&endpoints[i])
	}

	return nil
}

// Endpoints returns all registered endpoints in registration order.
func (r *EndpointRegistry) Endpoints() []*core.Endpoint {
	result := make([]*core.Endpoint, 0, len(r.order))
	for _, key := range r.order {
		result = append(result, r.endpoints[key])
	}
	return result
}
