package proposal

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TransitionTo moves the proposal to the target status.
//
// Any status may follow any other; the lifecycle only constrains side effects:
//   - the current status is a no-op and returns changed == false
//   - ACCEPTED and WON stamp ApprovedDate, REJECTED and LOST stamp RejectedDate,
//     WON stamps WonDate; each stamp is set once and never moved
//   - every applied transition appends a timestamped note
func (p *Proposal) TransitionTo(target Status, actor uuid.UUID, note string, now time.Time) (bool, error) {
	if !target.IsValid() {
		return false, ErrUnknownStatus.WithDetail("status", string(target))
	}
	if target == p.Status {
		return false, nil
	}

	from := p.Status
	p.Status = target

	stamp := now
	if target.IsApproval() && p.ApprovedDate == nil {
		p.ApprovedDate = &stamp
	}
	if target.IsRejection() && p.RejectedDate == nil {
		p.RejectedDate = &stamp
	}
	if target == StatusWon && p.WonDate == nil {
		p.WonDate = &stamp
	}

	text := fmt.Sprintf("Status %s -> %s by %s", from, target, actor)
	if note != "" {
		text += ": " + note
	}
	p.appendNote(now, text)
	p.touch(now)
	p.AddDomainEvent(NewProposalStatusChangedEvent(p, from, target, actor))
	return true, nil
}

// RequiresConversion reports whether moving to target converts the originating lead
func (p *Proposal) RequiresConversion(target Status) bool {
	return target.IsApproval() && p.LeadID != nil && *p.LeadID != uuid.Nil
}
