// Package types holds admin-area types shared with the adapters.
package types

// Proposal vote states.
const (
	ProposalNone   = "none"
	ProposalActive = "active"
	ProposalClosed = "closed"
)

// ProposalState is a governance proposal as the publication gate sees it.
type ProposalState struct {
	ID       string
	Status   string
	End      int64
	Approved bool
	URL      string
}

// Closed reports whether voting has ended.
func (p *ProposalState) Closed() bool {
	return p != nil && p.Status == ProposalClosed
}
