package common

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans user supplied text before it is stored
type Sanitizer struct {
	strict *bluemonday.Policy
	ugc    *bluemonday.Policy
}

// NewSanitizer creates a Sanitizer. Titles lose all markup, bodies keep the
// formatting tags allowed in user generated content.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{
		strict: bluemonday.StrictPolicy(),
		ugc:    bluemonday.UGCPolicy(),
	}
}

// Text strips every tag. Entities produced by the policy are decoded again so
// plain text such as "R&D" is stored as typed.
func (s *Sanitizer) Text(in string) string {
	return strings.TrimSpace(html.UnescapeString(s.strict.Sanitize(in)))
}

// Body keeps safe formatting markup and removes scripts, handlers and unsafe links
func (s *Sanitizer) Body(in string) string {
	return strings.TrimSpace(s.ugc.Sanitize(in))
}

// TextPtr applies Text to an optional value
func (s *Sanitizer) TextPtr(in *string) *string {
	if in == nil {
		return nil
	}
	out := s.Text(*in)
	return &out
}

// BodyPtr applies Body to an optional value
func (s *Sanitizer) BodyPtr(in *string) *string {
	if in == nil {
		return nil
	}
	out := s.Body(*in)
	return &out
}
