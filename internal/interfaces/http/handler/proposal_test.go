package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	proposalapp "github.com/erp/proposals/internal/application/proposal"
	"github.com/erp/proposals/internal/domain/proposal"
	"github.com/erp/proposals/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newProposalRouter(svc *MockProposalService, actor *shared.Actor) *gin.Engine {
	h := NewProposalHandler(svc, svc, svc)
	router := newTestRouter(actor, nil)
	router.POST("/proposals/generate", h.Generate)
	router.GET("/proposals/:id", h.Get)
	router.POST("/proposals/:id/status", h.TransitionStatus)
	router.POST("/proposals/:id/erp", h.SendToERP)
	router.POST("/proposals/:id/erp/validate", h.ValidateERPLines)
	router.POST("/proposals/:id/send", h.RecordSend)
	return router
}

func generateBody() map[string]any {
	return map[string]any{
		"customer_id":    uuid.New(),
		"site_survey_id": uuid.New(),
		"title":          "Rooftop PV 50kW",
		"equipment": []map[string]any{
			{"name": "Inverter", "quantity": "2", "unit_price": "1500"},
		},
	}
}

func TestProposalHandler_Generate(t *testing.T) {
	actor := testActor("sales")

	t.Run("created", func(t *testing.T) {
		svc := new(MockProposalService)
		id := uuid.New()
		svc.On("Generate", mock.Anything, mock.MatchedBy(func(req proposalapp.GenerateProposalRequest) bool {
			return req.Title == "Rooftop PV 50kW" && len(req.Equipment) == 1
		}), *actor).Return(&proposalapp.GenerateResult{Proposal: proposalapp.ProposalResponse{ID: id}, Created: true}, nil)

		w := doJSON(newProposalRouter(svc, actor), http.MethodPost, "/proposals/generate", generateBody())
		require.Equal(t, http.StatusCreated, w.Code)

		var got proposalapp.GenerateResult
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &got))
		assert.True(t, got.Created)
		assert.Equal(t, id, got.Proposal.ID)
	})

	t.Run("refreshed", func(t *testing.T) {
		svc := new(MockProposalService)
		svc.On("Generate", mock.Anything, mock.Anything, *actor).
			Return(&proposalapp.GenerateResult{Proposal: proposalapp.ProposalResponse{ID: uuid.New()}}, nil)

		w := doJSON(newProposalRouter(svc, actor), http.MethodPost, "/proposals/generate", generateBody())
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing source", func(t *testing.T) {
		svc := new(MockProposalService)
		svc.On("Generate", mock.Anything, mock.Anything, *actor).Return(nil, proposal.ErrSourceRequired)

		body := generateBody()
		delete(body, "site_survey_id")
		w := doJSON(newProposalRouter(svc, actor), http.MethodPost, "/proposals/generate", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "SOURCE_REQUIRED", decodeEnvelope(t, w).Error.Code)
	})

	t.Run("lock held", func(t *testing.T) {
		svc := new(MockProposalService)
		svc.On("Generate", mock.Anything, mock.Anything, *actor).Return(nil, shared.ErrLockNotAcquired)

		w := doJSON(newProposalRouter(svc, actor), http.MethodPost, "/proposals/generate", generateBody())
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		svc := new(MockProposalService)
		w := doJSON(newProposalRouter(svc, actor), http.MethodPost, "/proposals/generate", `{"title":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "ERR_INVALID_JSON", decodeEnvelope(t, w).Error.Code)
		svc.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing title", func(t *testing.T) {
		svc := new(MockProposalService)
		body := generateBody()
		delete(body, "title")
		w := doJSON(newProposalRouter(svc, actor), http.MethodPost, "/proposals/generate", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, shared.CodeValidation, decodeEnvelope(t, w).Error.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		svc := new(MockProposalService)
		w := doJSON(newProposalRouter(svc, nil), http.MethodPost, "/proposals/generate", generateBody())
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestProposalHandler_Get(t *testing.T) {
	id := uuid.New()
	svc := new(MockProposalService)
	svc.On("GetProposal", mock.Anything, id).Return(&proposalapp.ProposalResponse{ID: id, Status: "DRAFT"}, nil)
	svc.On("GetProposal", mock.Anything, mock.Anything).Return(nil, shared.NewNotFoundError("proposal"))
	router := newProposalRouter(svc, testActor())

	w := doJSON(router, http.MethodGet, "/proposals/"+id.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decodeEnvelope(t, w).Data), `"status":"DRAFT"`)

	assert.Equal(t, http.StatusNotFound, doJSON(router, http.MethodGet, "/proposals/"+uuid.NewString(), nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(router, http.MethodGet, "/proposals/not-a-uuid", nil).Code)
}

func TestProposalHandler_TransitionStatus(t *testing.T) {
	actor := testActor("sales")
	id := uuid.New()

	t.Run("won converts the lead", func(t *testing.T) {
		svc := new(MockProposalService)
		svc.On("TransitionStatus", mock.Anything, id, mock.MatchedBy(func(req proposalapp.TransitionStatusRequest) bool {
			return req.Status == "WON"
		}), *actor).Return(&proposalapp.TransitionResult{
			Proposal:      proposalapp.ProposalResponse{ID: id, Status: "WON"},
			Changed:       true,
			LeadConverted: true,
			Project:       &proposalapp.ProjectResponse{ID: uuid.New()},
		}, nil)

		w := doJSON(newProposalRouter(svc, actor), http.MethodPost, "/proposals/"+id.String()+"/status", map[string]any{"status": "WON"})
		require.Equal(t, http.StatusOK, w.Code)

		var got proposalapp.TransitionResult
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &got))
		assert.True(t, got.LeadConverted)
		require.NotNil(t, got.Project)
	})

	t.Run("errors map to statuses", func(t *testing.T) {
		tests := []struct {
			name       string
			err        error
			wantStatus int
		}{
			{"unknown status", proposal.ErrUnknownStatus, http.StatusBadRequest},
			{"invalid transition", shared.ErrInvalidState, http.StatusUnprocessableEntity},
			{"lead closed", shared.NewDomainError("LEAD_ALREADY_CLOSED", "Lead is already closed"), http.StatusConflict},
			{"concurrent update", shared.ErrConcurrencyConflict, http.StatusConflict},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc := new(MockProposalService)
				svc.On("TransitionStatus", mock.Anything, id, mock.Anything, *actor).Return(nil, tt.err)

				w := doJSON(newProposalRouter(svc, actor), http.MethodPost, "/proposals/"+id.String()+"/status", map[string]any{"status": "LOST"})
				assert.Equal(t, tt.wantStatus, w.Code)
			})
		}
	})

	t.Run("status required", func(t *testing.T) {
		svc := new(MockProposalService)
		w := doJSON(newProposalRouter(svc, actor), http.MethodPost, "/proposals/"+id.String()+"/status", map[string]any{"note": "x"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProposalHandler_SendToERP(t *testing.T) {
	actor := testActor("sales")
	id := uuid.New()

	t.Run("empty body", func(t *testing.T) {
		svc := new(MockProposalService)
		svc.On("SendToERP", mock.Anything, id, proposalapp.SendToERPRequest{}, *actor).Return(&proposalapp.ERPSyncResult{
			ProposalNumber: "QUO-000123",
			ERPData:        proposalapp.ERPDataResponse{QuoteNumber: "QUO-000123", FinDoc: "98765"},
		}, nil)

		w := doJSON(newProposalRouter(svc, actor), http.MethodPost, "/proposals/"+id.String()+"/erp", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, string(decodeEnvelope(t, w).Data), `"findoc":"98765"`)
		svc.AssertExpectations(t)
	})

	t.Run("with series", func(t *testing.T) {
		svc := new(MockProposalService)
		svc.On("SendToERP", mock.Anything, id, proposalapp.SendToERPRequest{Series: "7001"}, *actor).
			Return(&proposalapp.ERPSyncResult{ProposalNumber: "QUO-1"}, nil)

		w := doJSON(newProposalRouter(svc, actor), http.MethodPost, "/proposals/"+id.String()+"/erp", map[string]any{"series": "7001"})
		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("missing erp codes", func(t *testing.T) {
		svc := new(MockProposalService)
		err := proposal.ErrMissingERPCodes.WithDetail("missingCodes", []string{"Inverter"})
		svc.On("SendToERP", mock.Anything, id, mock.Anything, *actor).Return(nil, err)

		w := doJSON(newProposalRouter(svc, actor), http.MethodPost, "/proposals/"+id.String()+"/erp", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)

		env := decodeEnvelope(t, w)
		assert.Equal(t, shared.CodeMissingERPCodes, env.Error.Code)
		assert.Equal(t, []any{"Inverter"}, env.Error.Details["missingCodes"])
	})

	t.Run("erp business error", func(t *testing.T) {
		svc := new(MockProposalService)
		err := shared.NewDomainError(shared.CodeERPBusinessError, "Customer is blocked").WithDetail("errorcode", float64(-101))
		svc.On("SendToERP", mock.Anything, id, mock.Anything, *actor).Return(nil, err)

		w := doJSON(newProposalRouter(svc, actor), http.MethodPost, "/proposals/"+id.String()+"/erp", nil)
		require.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, float64(-101), decodeEnvelope(t, w).Error.Details["errorcode"])
	})

	t.Run("customer without erp id", func(t *testing.T) {
		svc := new(MockProposalService)
		err := shared.NewPreconditionError(shared.CodeCustomerMissingERP, "Customer has no ERP identifier")
		svc.On("SendToERP", mock.Anything, id, mock.Anything, *actor).Return(nil, err)

		w := doJSON(newProposalRouter(svc, actor), http.MethodPost, "/proposals/"+id.String()+"/erp", nil)
		assert.Equal(t, http.StatusPreconditionFailed, w.Code)
	})

	t.Run("unexpected failure", func(t *testing.T) {
		svc := new(MockProposalService)
		svc.On("SendToERP", mock.Anything, id, mock.Anything, *actor).Return(nil, errors.New("connection reset"))

		w := doJSON(newProposalRouter(svc, actor), http.MethodPost, "/proposals/"+id.String()+"/erp", nil)
		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection reset")
	})
}

func TestProposalHandler_ValidateERPLines(t *testing.T) {
	id := uuid.New()
	svc := new(MockProposalService)
	svc.On("ValidateLines", mock.Anything, id).Return(&proposalapp.LineValidationResult{
		Valid:        false,
		MissingCodes: []string{"Line 2"},
	}, nil)

	w := doJSON(newProposalRouter(svc, testActor()), http.MethodPost, "/proposals/"+id.String()+"/erp/validate", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got proposalapp.LineValidationResult
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &got))
	assert.False(t, got.Valid)
	assert.Equal(t, []string{"Line 2"}, got.MissingCodes)
}

func TestProposalHandler_RecordSend(t *testing.T) {
	actor := testActor("sales")
	id := uuid.New()
	svc := new(MockProposalService)
	svc.On("RecordSend", mock.Anything, id, proposalapp.RecordSendRequest{Recipients: []string{"buyer@example.com"}}, *actor).
		Return(&proposalapp.ProposalResponse{ID: id, Status: "SENT"}, nil)
	router := newProposalRouter(svc, actor)

	w := doJSON(router, http.MethodPost, "/proposals/"+id.String()+"/send", map[string]any{"recipients": []string{"buyer@example.com"}})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPost, "/proposals/"+id.String()+"/send", map[string]any{"recipients": []string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNumberOfCalls(t, "RecordSend", 1)
}
