package blog

import (
	"encoding/xml"
	"strings"
	"time"
)

const (
	feedTitle       = "EcoHubs.community Blog"
	feedDescription = "Articles about intentional communities, blockchain technology, and regenerative practices"
)

type rss struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Atom    string     `xml:"xmlns:atom,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Description   string    `xml:"description"`
	Link          string    `xml:"link"`
	Self          atomLink  `xml:"atom:link"`
	Language      string    `xml:"language"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Description string  `xml:"description"`
	Link        string  `xml:"link"`
	PubDate     string  `xml:"pubDate,omitempty"`
	GUID        rssGUID `xml:"guid"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// Feed renders posts as an RSS 2.0 document rooted at siteURL.
func Feed(siteURL string, posts []Post, now time.Time) ([]byte, error) {
	siteURL = strings.TrimRight(siteURL, "/")
	doc := rss{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: rssChannel{
			Title:         feedTitle,
			Description:   feedDescription,
			Link:          siteURL,
			Self:          atomLink{Href: siteURL + "/feed.xml", Rel: "self", Type: "application/rss+xml"},
			Language:      "en",
			LastBuildDate: now.UTC().Format(time.RFC1123),
		},
	}
	for _, p := range posts {
		link := siteURL + "/blog/" + p.Slug
		item := rssItem{
			Title:       p.Title,
			Description: p.Excerpt,
			Link:        link,
			GUID:        rssGUID{IsPermaLink: true, Value: link},
		}
		if at := p.Published(); !at.IsZero() {
			item.PubDate = at.UTC().Format(time.RFC1123)
		}
		doc.Channel.Items = append(doc.Channel.Items, item)
	}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
