package model

import "time"

// Section is one titled unit of the generated article body.
type Section struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// Article is the synthesized daily article. Section order encodes the
// narrative structure emitted by the generator and must be preserved.
type Article struct {
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Sections    []Section `json:"sections"`
}

// Body renders the article sections back into a single markdown body.
func (a Article) Body() string {
	body := ""
	for _, s := range a.Sections {
		if s.Heading != "" {
			body += "## " + s.Heading + "\n\n"
		}
		body += s.Body + "\n\n"
	}
	return body
}
