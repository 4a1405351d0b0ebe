package service

import (
	"bytes"
	"strings"
	"text/template"
	"time"

	"ecohubs/internal/application/models"
	"ecohubs/internal/application/schema"
)

var pageTitles = map[int]string{
	1: "Basic Information",
	2: "Values & Alignment",
	3: "Collaboration & Self-Awareness",
	4: "Motivation & Contribution",
	5: "Experience & Skills",
	6: "Commitment & Stability",
	7: "Self-Reflection",
	8: "Vision & Concerns",
	9: "Consciousness & Meaning",
}

type noticeAnswer struct {
	Label string
	Value string
}

type noticePage struct {
	Number  int
	Title   string
	Answers []noticeAnswer
}

var adminNoticeTmpl = template.Must(template.New("notice").Parse(`# New Application Received

Submitted {{ .SubmittedAt }} · application ` + "`{{ .ID }}`" + `
{{ range .Pages }}
## Page {{ .Number }}: {{ .Title }}
{{ range .Answers }}
**{{ .Label }}**

{{ .Value }}
{{ end }}{{ end }}
---

This application was submitted via the EcoHubs.community website.
`))

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`**Hi {{ . }},**

Thank you for applying to join the EcoHubs community. Your application has been successfully received, and we're excited to review it!

## What happens next?

- **Review Process:** Our team will carefully review your application within 7-10 days.
- **Selection:** We're looking for the first 1000 founding members who align with our vision for regenerative communities.
- **You'll Hear From Us:** We'll email you with next steps, whether you're selected for the first cohort or invited to join a waiting list.

## While you wait...

- Explore our [blueprint](https://ecohubs.community/blueprint)
- Join the conversation on [GitHub](https://github.com/ecohubs)
- Follow us on [Twitter](https://twitter.com/ecohubs)

We believe that regenerative communities are not just possible. They're necessary. Thank you for being part of this vision.

*With gratitude,*
*The EcoHubs Team*
`))

func renderAdminNotice(sc *schema.Schema, sub *models.Submission) (string, error) {
	var pages []noticePage
	for _, f := range sc.Fields {
		value := sub.Answers.String(f.Name)
		if value == "" {
			continue
		}
		if len(pages) == 0 || pages[len(pages)-1].Number != f.Page {
			pages = append(pages, noticePage{Number: f.Page, Title: pageTitles[f.Page]})
		}
		last := &pages[len(pages)-1]
		last.Answers = append(last.Answers, noticeAnswer{Label: f.Label, Value: value})
	}

	var buf bytes.Buffer
	err := adminNoticeTmpl.Execute(&buf, map[string]any{
		"ID":          sub.ID.String(),
		"SubmittedAt": sub.SubmittedAt.UTC().Format(time.RFC1123),
		"Pages":       pages,
	})
	return buf.String(), err
}

func renderConfirmation(name string) (string, error) {
	var buf bytes.Buffer
	err := confirmationTmpl.Execute(&buf, strings.TrimSpace(name))
	return buf.String(), err
}
