package models

// Source identifies a passage that contributed to a generated answer.
// Text is the display label ("<course title>" or "<course title> - Lesson
// <n>") and Link is the lesson or course URL when one is known. A source
// without a link serializes as {"text": ..., "link": null}.
type Source struct {
	Text string  `json:"text"`
	Link *string `json:"link"`
}

// NewSource builds a Source, mapping an empty link to null on the wire.
func NewSource(text, link string) Source {
	s := Source{Text: text}
	if link != "" {
		s.Link = &link
	}
	return s
}
