package crm

import (
	"strings"
	"time"

	"github.com/erp/proposals/internal/domain/shared"
	"github.com/google/uuid"
)

// Project roles assigned on conversion
const (
	RoleProjectManager = "Project Manager"
	RoleMember         = "Member"
)

// Project is created when a proposal is won
type Project struct {
	shared.BaseAggregateRoot
	Name        string
	Description string
	CustomerID  uuid.UUID
	LeadID      *uuid.UUID
	ProposalID  *uuid.UUID
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedBy   uuid.UUID
	Assignments []ProjectAssignment
}

// ProjectAssignment links a user to a project with a role
type ProjectAssignment struct {
	ID        uuid.UUID
	ProjectID uuid.UUID
	UserID    uuid.UUID
	Role      string
	CreatedAt time.Time
}

// NewProject creates a project
func NewProject(name, description string, customerID, createdBy uuid.UUID) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("project name cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("project customer is required")
	}
	return &Project{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
		CustomerID:        customerID,
		CreatedBy:         createdBy,
	}, nil
}

// SetSchedule sets the planned dates
func (p *Project) SetSchedule(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return shared.NewValidationError("project end date cannot be before start date")
	}
	p.StartDate = start
	p.EndDate = end
	return nil
}

// TeamCandidates are the users considered for a new project's team
type TeamCandidates struct {
	ProjectManagerID *uuid.UUID
	PriorAssigneeID  *uuid.UUID
	ActingUserID     uuid.UUID
}

// AssignTeam adds the project manager, the lead's prior assignee and the acting
// user in that order. A user already on the team is not added again.
func (p *Project) AssignTeam(c TeamCandidates, now time.Time) {
	seen := make(map[uuid.UUID]bool, len(p.Assignments)+3)
	for _, a := range p.Assignments {
		seen[a.UserID] = true
	}
	add := func(userID *uuid.UUID, role string) {
		if userID == nil || *userID == uuid.Nil || seen[*userID] {
			return
		}
		seen[*userID] = true
		p.Assignments = append(p.Assignments, ProjectAssignment{
			ID:        uuid.New(),
			ProjectID: p.ID,
			UserID:    *userID,
			Role:      role,
			CreatedAt: now,
		})
	}
	add(c.ProjectManagerID, RoleProjectManager)
	add(c.PriorAssigneeID, RoleMember)
	acting := c.ActingUserID
	add(&acting, RoleMember)
}
