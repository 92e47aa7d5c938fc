package handler

import (
	"context"

	proposalapp "github.com/erp/proposals/internal/application/proposal"
	"github.com/erp/proposals/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProposalGenerator creates or refreshes proposals from source documents
type ProposalGenerator interface {
	Generate(ctx context.Context, req proposalapp.GenerateProposalRequest, actor shared.Actor) (*proposalapp.GenerateResult, error)
}

// ProposalLifecycle reads proposals and moves them through their statuses
type ProposalLifecycle interface {
	GetProposal(ctx context.Context, id uuid.UUID) (*proposalapp.ProposalResponse, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, req proposalapp.TransitionStatusRequest, actor shared.Actor) (*proposalapp.TransitionResult, error)
	RecordSend(ctx context.Context, id uuid.UUID, req proposalapp.RecordSendRequest, actor shared.Actor) (*proposalapp.ProposalResponse, error)
}

// ProposalERPSync validates and pushes proposals to the ERP
type ProposalERPSync interface {
	ValidateLines(ctx context.Context, id uuid.UUID) (*proposalapp.LineValidationResult, error)
	SendToERP(ctx context.Context, id uuid.UUID, req proposalapp.SendToERPRequest, actor shared.Actor) (*proposalapp.ERPSyncResult, error)
}

// ProposalHandler serves proposal generation, lifecycle and ERP sync
type ProposalHandler struct {
	BaseHandler
	generator ProposalGenerator
	lifecycle ProposalLifecycle
	erp       ProposalERPSync
}

// NewProposalHandler creates a new ProposalHandler
func NewProposalHandler(generator ProposalGenerator, lifecycle ProposalLifecycle, erp ProposalERPSync) *ProposalHandler {
	return &ProposalHandler{
		generator: generator,
		lifecycle: lifecycle,
		erp:       erp,
	}
}

// Generate handles POST /proposals/generate. A new proposal answers 201,
// a refreshed one 200.
func (h *ProposalHandler) Generate(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req proposalapp.GenerateProposalRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.generator.Generate(c.Request.Context(), req, actor)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	if result.Created {
		h.Created(c, result)
		return
	}
	h.Success(c, result)
}

// Get handles GET /proposals/:id
func (h *ProposalHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.lifecycle.GetProposal(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, p)
}

// TransitionStatus handles POST /proposals/:id/status
func (h *ProposalHandler) TransitionStatus(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req proposalapp.TransitionStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.lifecycle.TransitionStatus(c.Request.Context(), id, req, actor)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// SendToERP handles POST /proposals/:id/erp
func (h *ProposalHandler) SendToERP(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req proposalapp.SendToERPRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}
	result, err := h.erp.SendToERP(c.Request.Context(), id, req, actor)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// ValidateERPLines handles POST /proposals/:id/erp/validate
func (h *ProposalHandler) ValidateERPLines(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.erp.ValidateLines(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// RecordSend handles POST /proposals/:id/send
func (h *ProposalHandler) RecordSend(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req proposalapp.RecordSendRequest
	if !h.bindJSON(c, &req) {
		return
	}
	p, err := h.lifecycle.RecordSend(c.Request.Context(), id, req, actor)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, p)
}
