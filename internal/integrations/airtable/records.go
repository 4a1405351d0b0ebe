package airtable

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"ecohubs/pkg/email"
)

// Column names shared with the Airtable base.
const (
	FieldMemberName       = "Member Name"
	FieldEmail            = "E-Mail"
	FieldLocation         = "Location"
	FieldTimeAvailability = "Time Availability"
	FieldLanguages        = "Languages"

	FieldApplicationID    = "Application ID"
	FieldRelatedMember    = "Related Member"
	FieldSubmittedAt      = "Submitted At"
	FieldStatus           = "Status"
	FieldProposalID       = "Snapshot Proposal ID"
	FieldAIRecommendation = "Recommendation (AI)"

	StatusNew = "New"
)

// Member is the person behind one or more applications.
type Member struct {
	Name             string
	Email            string
	Location         string
	TimeAvailability string
	Languages        string
}

// NewApplication is the record written for one submission.
type NewApplication struct {
	ApplicationID string
	MemberID      string
	Answers       map[string]any
	SubmittedAt   time.Time
}

// Application is an Applications row joined with its member.
type Application struct {
	RecordID         string            `json:"id"`
	ApplicationID    string            `json:"applicationId"`
	FullName         string            `json:"fullName"`
	Email            string            `json:"email"`
	Location         string            `json:"location"`
	TimeAvailability string            `json:"timeAvailability"`
	Languages        string            `json:"languages"`
	Answers          map[string]string `json:"answers"`
	SubmittedAt      string            `json:"submittedAt"`
	Status           string            `json:"status"`
	AIRecommendation string            `json:"aiRecommendation,omitempty"`
	ProposalID       string            `json:"snapshotProposalId,omitempty"`
}

// FindOrCreateMember returns the id of the member whose e-mail matches,
// creating one when none exists.
func (c *Client) FindOrCreateMember(ctx context.Context, m Member) (string, error) {
	addr := email.Normalize(m.Email)
	found, err := c.List(ctx, c.members, ListQuery{
		Formula:    fmt.Sprintf("LOWER({%s}) = %s", FieldEmail, quote(addr)),
		MaxRecords: 1,
	})
	if err != nil {
		return "", err
	}
	if len(found) > 0 {
		return found[0].ID, nil
	}

	rec, err := c.Create(ctx, c.members, map[string]any{
		FieldMemberName:       m.Name,
		FieldEmail:            addr,
		FieldLocation:         m.Location,
		FieldTimeAvailability: m.TimeAvailability,
		FieldLanguages:        m.Languages,
	})
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

// CreateApplication writes an Applications row linked to its member.
func (c *Client) CreateApplication(ctx context.Context, app NewApplication) (string, error) {
	fields := make(map[string]any, len(app.Answers)+4)
	for k, v := range app.Answers {
		fields[k] = v
	}
	fields[FieldApplicationID] = app.ApplicationID
	fields[FieldSubmittedAt] = app.SubmittedAt.UTC().Format(time.RFC3339)
	fields[FieldStatus] = StatusNew
	if app.MemberID != "" {
		fields[FieldRelatedMember] = []string{app.MemberID}
	}

	rec, err := c.Create(ctx, c.applications, fields)
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

// ListApplications returns all applications, newest first, each joined with
// its related member. A member that cannot be fetched leaves the member
// fields empty rather than failing the list.
func (c *Client) ListApplications(ctx context.Context) ([]Application, error) {
	records, err := c.List(ctx, c.applications, ListQuery{
		Sort: []SortField{{Field: FieldSubmittedAt, Direction: "desc"}},
	})
	if err != nil {
		return nil, err
	}

	apps := make([]Application, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(RequestsPerSecond)
	for i, rec := range records {
		apps[i] = toApplication(rec)
		memberID := firstLink(rec.Fields[FieldRelatedMember])
		if memberID == "" {
			apps[i].FullName = "Unknown"
			continue
		}
		g.Go(func() error {
			member, err := c.Get(gctx, c.members, memberID)
			if err != nil {
				apps[i].FullName = "Unknown"
				return nil
			}
			apps[i].FullName = orDefault(stringField(member.Fields, FieldMemberName), "Unknown")
			apps[i].Email = stringField(member.Fields, FieldEmail)
			apps[i].Location = stringField(member.Fields, FieldLocation)
			apps[i].TimeAvailability = stringField(member.Fields, FieldTimeAvailability)
			apps[i].Languages = stringField(member.Fields, FieldLanguages)
			return nil
		})
	}
	_ = g.Wait()
	return apps, nil
}

// UpdateProposalID records the governance proposal for an application.
func (c *Client) UpdateProposalID(ctx context.Context, recordID, proposalID string) error {
	return c.Update(ctx, c.applications, recordID, map[string]any{FieldProposalID: proposalID})
}

var reserved = map[string]bool{
	FieldApplicationID:    true,
	FieldRelatedMember:    true,
	FieldSubmittedAt:      true,
	FieldStatus:           true,
	FieldProposalID:       true,
	FieldAIRecommendation: true,
}

func toApplication(rec Record) Application {
	app := Application{
		RecordID:         rec.ID,
		ApplicationID:    stringField(rec.Fields, FieldApplicationID),
		SubmittedAt:      stringField(rec.Fields, FieldSubmittedAt),
		Status:           orDefault(stringField(rec.Fields, FieldStatus), StatusNew),
		AIRecommendation: stringField(rec.Fields, FieldAIRecommendation),
		ProposalID:       stringField(rec.Fields, FieldProposalID),
		Answers:          make(map[string]string),
	}
	for k, v := range rec.Fields {
		if reserved[k] {
			continue
		}
		if s := stringify(v); s != "" {
			app.Answers[k] = s
		}
	}
	return app
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return fmt.Sprint(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, p := range t {
			parts = append(parts, stringify(p))
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

func firstLink(v any) string {
	links, ok := v.([]any)
	if !ok || len(links) == 0 {
		return ""
	}
	id, _ := links[0].(string)
	return id
}
