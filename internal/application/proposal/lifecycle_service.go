package proposal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/erp/proposals/internal/domain/crm"
	"github.com/erp/proposals/internal/domain/proposal"
	"github.com/erp/proposals/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LifecycleServiceConfig holds the collaborators of a LifecycleService
type LifecycleServiceConfig struct {
	ProposalRepo proposal.Repository
	TxScope      TransactionScope
	Events       shared.EventPublisher
	Metrics      Metrics
	Logger       *zap.Logger
	Clock        func() time.Time
}

// LifecycleService moves proposals through their commercial lifecycle and
// converts the originating lead when a proposal is won.
type LifecycleService struct {
	proposalRepo proposal.Repository
	txScope      TransactionScope
	events       shared.EventPublisher
	metrics      Metrics
	logger       *zap.Logger
	now          func() time.Time
}

// NewLifecycleService creates a new LifecycleService
func NewLifecycleService(cfg LifecycleServiceConfig) *LifecycleService {
	s := &LifecycleService{
		proposalRepo: cfg.ProposalRepo,
		txScope:      cfg.TxScope,
		events:       cfg.Events,
		metrics:      cfg.Metrics,
		logger:       cfg.Logger,
		now:          cfg.Clock,
	}
	if s.metrics == nil {
		s.metrics = noopMetrics{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// GetProposal returns a proposal by ID
func (s *LifecycleService) GetProposal(ctx context.Context, id uuid.UUID) (*ProposalResponse, error) {
	p, err := s.proposalRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProposalResponse(p)
	return &resp, nil
}

// TransitionStatus moves a proposal to the requested status.
//
// Moving to ACCEPTED or WON with a lead attached closes the lead as won and
// creates a project with its team. The proposal, lead, audit row and project
// are written in one transaction: any failure leaves all of them untouched.
// A lead that is already closed is not converted again.
func (s *LifecycleService) TransitionStatus(ctx context.Context, id uuid.UUID, req TransitionStatusRequest, actor shared.Actor) (*TransitionResult, error) {
	target, err := proposal.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}
	if req.ProjectStartDate != nil && req.ProjectEndDate != nil && req.ProjectEndDate.Before(*req.ProjectStartDate) {
		return nil, shared.NewValidationError("project end date cannot be before start date")
	}

	var (
		p       *proposal.Proposal
		from    proposal.Status
		changed bool
		project *crm.Project
	)
	now := s.now()
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		p, err = repos.ProposalRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		from = p.Status
		convert := p.RequiresConversion(target)
		changed, err = p.TransitionTo(target, actor.UserID, req.Note, now)
		if err != nil || !changed {
			return err
		}

		if convert {
			project, err = s.convertLead(ctx, repos, p, req, actor, now)
			if err != nil {
				return err
			}
		}
		return repos.ProposalRepo().Save(ctx, p)
	})
	if err != nil {
		s.logger.Warn("proposal status transition failed",
			zap.String("proposal_id", id.String()),
			zap.String("target", target.String()),
			zap.Error(err),
		)
		return nil, err
	}

	result := &TransitionResult{Changed: changed}
	if changed {
		publishEvents(ctx, s.events, s.logger, p)
		s.metrics.RecordStatusTransition(ctx, from.String(), target.String())
		s.logger.Info("proposal status changed",
			zap.String("proposal_id", p.ID.String()),
			zap.String("from", from.String()),
			zap.String("to", target.String()),
			zap.String("actor", actor.UserID.String()),
		)
	}
	if project != nil {
		s.metrics.RecordLeadConversion(ctx)
		s.logger.Info("lead converted to project",
			zap.String("proposal_id", p.ID.String()),
			zap.String("lead_id", p.LeadID.String()),
			zap.String("project_id", project.ID.String()),
			zap.Int("team_size", len(project.Assignments)),
		)
		result.LeadConverted = true
		result.Project = ToProjectResponse(project)
	}
	result.Proposal = ToProposalResponse(p)
	return result, nil
}

// convertLead closes the proposal's lead as won and creates its project.
// It returns a nil project when the lead was already closed.
func (s *LifecycleService) convertLead(
	ctx context.Context,
	repos TransactionalRepositories,
	p *proposal.Proposal,
	req TransitionStatusRequest,
	actor shared.Actor,
	now time.Time,
) (*crm.Project, error) {
	lead, err := repos.LeadRepo().FindByID(ctx, *p.LeadID)
	if err != nil {
		return nil, fmt.Errorf("load lead %s: %w", *p.LeadID, err)
	}
	if lead.IsClosed() {
		s.logger.Info("lead already closed, skipping conversion",
			zap.String("proposal_id", p.ID.String()),
			zap.String("lead_id", lead.ID.String()),
		)
		return nil, nil
	}

	change, err := lead.CloseAsWon(actor.UserID, fmt.Sprintf("Proposal %s moved to %s", p.ID, p.Status), now)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(p.Title)
	if name == "" {
		name = lead.Title
	}
	customerID := p.CustomerID
	if customerID == uuid.Nil && lead.CustomerID != nil {
		customerID = *lead.CustomerID
	}
	project, err := crm.NewProject(name, p.Description, customerID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if err := project.SetSchedule(firstDate(req.ProjectStartDate, p.PlannedStartDate), firstDate(req.ProjectEndDate, p.PlannedEndDate)); err != nil {
		return nil, err
	}
	leadID, proposalID := lead.ID, p.ID
	project.LeadID = &leadID
	project.ProposalID = &proposalID
	project.AssignTeam(crm.TeamCandidates{
		ProjectManagerID: req.ProjectManagerID,
		PriorAssigneeID:  lead.AssigneeID,
		ActingUserID:     actor.UserID,
	}, now)
	lead.LinkProject(project.ID)

	if err := repos.ProjectRepo().Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	if err := repos.LeadRepo().Save(ctx, lead); err != nil {
		return nil, fmt.Errorf("close lead: %w", err)
	}
	if err := repos.LeadRepo().AppendStatusChange(ctx, &change); err != nil {
		return nil, fmt.Errorf("append lead status change: %w", err)
	}
	p.AddDomainEvent(proposal.NewLeadConvertedEvent(p, lead.ID, project.ID))
	return project, nil
}

// RecordSend records a delivery of the proposal to its recipients
func (s *LifecycleService) RecordSend(ctx context.Context, id uuid.UUID, req RecordSendRequest, actor shared.Actor) (*ProposalResponse, error) {
	var (
		p    *proposal.Proposal
		from proposal.Status
	)
	now := s.now()
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		p, err = repos.ProposalRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		from = p.Status
		if err := p.RecordSend(req.Recipients, actor.UserID, now); err != nil {
			return err
		}
		return repos.ProposalRepo().Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	publishEvents(ctx, s.events, s.logger, p)
	if from != p.Status {
		s.metrics.RecordStatusTransition(ctx, from.String(), p.Status.String())
	}
	s.logger.Info("proposal sent",
		zap.String("proposal_id", p.ID.String()),
		zap.Int("recipients", len(p.Recipients)),
		zap.Int("sent_count", p.SentCount),
	)
	resp := ToProposalResponse(p)
	return &resp, nil
}

func firstDate(candidates ...*time.Time) *time.Time {
	for _, c := range candidates {
		if c != nil {
			return c
		}
	}
	return nil
}
