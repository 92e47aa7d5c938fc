package proposal

import (
	"strings"

	"github.com/erp/proposals/internal/domain/shared"
)

// Status is the commercial lifecycle status of a proposal
type Status string

const (
	StatusDraft    Status = "DRAFT"
	StatusInReview Status = "IN_REVIEW"
	StatusApproved Status = "APPROVED"
	StatusSent     Status = "SENT"
	StatusAccepted Status = "ACCEPTED"
	StatusRevised  Status = "REVISED"
	StatusRejected Status = "REJECTED"
	StatusWon      Status = "WON"
	StatusLost     Status = "LOST"
	StatusExpired  Status = "EXPIRED"
)

// AllStatuses lists every status in lifecycle order
var AllStatuses = []Status{
	StatusDraft, StatusInReview, StatusApproved, StatusSent, StatusAccepted,
	StatusRevised, StatusRejected, StatusWon, StatusLost, StatusExpired,
}

// IsValid checks if the status is a known Status
func (s Status) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsApproval reports whether the status stamps the approved date and
// may convert the originating lead
func (s Status) IsApproval() bool {
	return s == StatusAccepted || s == StatusWon
}

// IsRejection reports whether the status stamps the rejected date
func (s Status) IsRejection() bool {
	return s == StatusRejected || s == StatusLost
}

// ErrUnknownStatus is returned for a status value outside the lifecycle
var ErrUnknownStatus = shared.NewDomainError(shared.CodeInvalidStatus, "Unknown proposal status")

// ParseStatus parses a status value case-insensitively
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", ErrUnknownStatus.WithDetail("status", s)
	}
	return status, nil
}

// Stage marks pipeline progress independently of the commercial status
type Stage string

const (
	StageInitial          Stage = "INITIAL"
	StageContentGenerated Stage = "CONTENT_GENERATED"
	StageERPSynced        Stage = "ERP_SYNCED"
	StageSent             Stage = "SENT"
)
