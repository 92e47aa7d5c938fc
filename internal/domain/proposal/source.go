package proposal

import (
	"context"
	"errors"

	"github.com/erp/proposals/internal/domain/shared"
	"github.com/google/uuid"
)

// SourceKey identifies the document a proposal originated from.
// The site survey is the preferred key, the RFP the fallback.
type SourceKey struct {
	SiteSurveyID *uuid.UUID
	RFPID        *uuid.UUID
}

// ErrSourceRequired is returned when neither a site survey nor an RFP is given
var ErrSourceRequired = shared.NewDomainError(shared.CodeSourceRequired, "A site survey or RFP is required to identify the proposal source")

// Validate checks that at least one key is present
func (k SourceKey) Validate() error {
	if isSet(k.SiteSurveyID) || isSet(k.RFPID) {
		return nil
	}
	return ErrSourceRequired
}

// LockKey returns the key that serializes writes for this source document
func (k SourceKey) LockKey() string {
	if isSet(k.SiteSurveyID) {
		return "proposal-source:site_survey:" + k.SiteSurveyID.String()
	}
	if isSet(k.RFPID) {
		return "proposal-source:rfp:" + k.RFPID.String()
	}
	return ""
}

func isSet(id *uuid.UUID) bool {
	return id != nil && *id != uuid.Nil
}

// FindBySource looks up the live proposal for a source document, trying the
// site survey first and then the RFP. It returns shared.ErrNotFound when none exists.
func FindBySource(ctx context.Context, repo Repository, key SourceKey) (*Proposal, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	if isSet(key.SiteSurveyID) {
		p, err := repo.FindBySiteSurvey(ctx, *key.SiteSurveyID)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}
	if isSet(key.RFPID) {
		return repo.FindByRFP(ctx, *key.RFPID)
	}
	return nil, shared.ErrNotFound
}
