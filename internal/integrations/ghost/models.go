// Package ghost reads and edits posts through the Ghost Content and Admin
// APIs (v5).
package ghost

// Post statuses.
const (
	StatusPublished = "published"
	StatusDraft     = "draft"
)

// ProposalField is the custom field carrying a draft's governance proposal.
const ProposalField = "snapshot_proposal_id"

type Author struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Tag struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Post struct {
	ID              string         `json:"id"`
	Slug            string         `json:"slug"`
	Title           string         `json:"title"`
	Excerpt         string         `json:"excerpt,omitempty"`
	CustomExcerpt   string         `json:"custom_excerpt,omitempty"`
	MetaDescription string         `json:"meta_description,omitempty"`
	HTML            string         `json:"html,omitempty"`
	PublishedAt     string         `json:"published_at,omitempty"`
	UpdatedAt       string         `json:"updated_at,omitempty"`
	FeatureImage    string         `json:"feature_image,omitempty"`
	Authors         []Author       `json:"authors,omitempty"`
	Tags            []Tag          `json:"tags,omitempty"`
	ReadingTime     int            `json:"reading_time,omitempty"`
	Status          string         `json:"status,omitempty"`
	CustomFields    map[string]any `json:"custom_fields,omitempty"`
}

// ProposalID returns the proposal recorded in the post's custom fields.
func (p *Post) ProposalID() string {
	id, _ := p.CustomFields[ProposalField].(string)
	return id
}

type postsEnvelope struct {
	Posts []Post `json:"posts"`
}
