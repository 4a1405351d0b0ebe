package admin

import (
	"strings"

	"ecohubs/internal/integrations/airtable"
	dErrors "ecohubs/pkg/domain-errors"
	audit "ecohubs/pkg/platform/audit"
)

// UserInfo describes the signed-in admin.
type UserInfo struct {
	Address string `json:"address"`
	IsOwner bool   `json:"isOwner"`
}

type DashboardStats struct {
	SafeOwnersCount int `json:"safe_owners_count"`
}

// DashboardResponse is the body of GET /admin.
type DashboardResponse struct {
	User  UserInfo       `json:"user"`
	Stats DashboardStats `json:"stats"`
}

// ApplicationsResponse lists applications for proposal drafting.
type ApplicationsResponse struct {
	Applications   []airtable.Application `json:"applications"`
	SnapshotSpace  string                 `json:"snapshotSpace"`
	VotingDuration int64                  `json:"votingDuration"`
}

// Draft is a CMS draft with its publication proposal.
type Draft struct {
	ID             string   `json:"id"`
	Slug           string   `json:"slug"`
	Title          string   `json:"title"`
	Excerpt        string   `json:"excerpt"`
	Author         string   `json:"author"`
	UpdatedAt      string   `json:"updated_at"`
	Tags           []string `json:"tags"`
	ProposalID     *string  `json:"proposalId"`
	ProposalStatus string   `json:"proposalStatus"`
	IsApproved     bool     `json:"isApproved"`
	ProposalEnd    int64    `json:"proposalEnd,omitempty"`
	ProposalURL    string   `json:"proposalUrl,omitempty"`
}

// DraftsResponse lists drafts awaiting publication.
type DraftsResponse struct {
	Drafts         []Draft `json:"drafts"`
	SnapshotSpace  string  `json:"snapshotSpace"`
	VotingDuration int64   `json:"votingDuration"`
}

// ResultResponse acknowledges a write.
type ResultResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ApplicationProposalRequest links an application to its proposal.
type ApplicationProposalRequest struct {
	RecordID   string `json:"recordId"`
	ProposalID string `json:"proposalId"`
}

func (r *ApplicationProposalRequest) Validate() error {
	r.RecordID = strings.TrimSpace(r.RecordID)
	r.ProposalID = strings.TrimSpace(r.ProposalID)
	if r.RecordID == "" || r.ProposalID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "Missing required fields: recordId, proposalId")
	}
	return nil
}

// DraftProposalRequest records a draft's proposal.
type DraftProposalRequest struct {
	ProposalID string `json:"proposalId"`
}

func (r *DraftProposalRequest) Validate() error {
	r.ProposalID = strings.TrimSpace(r.ProposalID)
	if r.ProposalID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "Proposal ID is required")
	}
	return nil
}

// AuditResponse lists recent admin activity.
type AuditResponse struct {
	Events []audit.Event `json:"events"`
}
