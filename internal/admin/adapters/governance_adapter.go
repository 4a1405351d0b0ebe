package adapters

import (
	"context"
	"time"

	"ecohubs/internal/admin/types"
	"ecohubs/internal/integrations/snapshot"
)

// SnapshotClient is the part of the Snapshot client the admin area uses.
type SnapshotClient interface {
	Proposal(ctx context.Context, id string) (*snapshot.Proposal, error)
	FindDraftProposal(ctx context.Context, title string) (string, error)
	ProposalURL(id string) string
	Now() time.Time
}

// GovernanceAdapter adapts the Snapshot client to admin's Governance interface.
type GovernanceAdapter struct {
	client SnapshotClient
}

// NewGovernanceAdapter creates a new adapter wrapping a Snapshot client.
func NewGovernanceAdapter(client SnapshotClient) *GovernanceAdapter {
	return &GovernanceAdapter{client: client}
}

// FindDraftProposal looks up the publication proposal for a draft title.
func (a *GovernanceAdapter) FindDraftProposal(ctx context.Context, title string) (string, error) {
	return a.client.FindDraftProposal(ctx, title)
}

// ProposalState returns the proposal mapped to admin types.
func (a *GovernanceAdapter) ProposalState(ctx context.Context, id string) (*types.ProposalState, error) {
	p, err := a.client.Proposal(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapProposal(p, a.client.Now(), a.client.ProposalURL(p.ID)), nil
}

func mapProposal(p *snapshot.Proposal, now time.Time, url string) *types.ProposalState {
	status := types.ProposalClosed
	if p.Status(now) == snapshot.StatusActive {
		status = types.ProposalActive
	}
	return &types.ProposalState{
		ID:       p.ID,
		Status:   status,
		End:      p.End,
		Approved: p.Approved(now),
		URL:      url,
	}
}
