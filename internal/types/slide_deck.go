package types

import (
	"encoding/json"
	"fmt"
)

// DeckSlideCount is the fixed number of slides in every generated deck.
const DeckSlideCount = 8

// Slide layout types.
const (
	SlideTypeTitle     = "title"
	SlideTypeContent   = "content"
	SlideTypeTwoColumn = "two-column"
	SlideTypeMetrics   = "metrics"
	SlideTypeTimeline  = "timeline"
	SlideTypeCTA       = "cta"
)

// Section content types.
const (
	SectionBullets   = "bullets"
	SectionParagraph = "paragraph"
	SectionCallout   = "callout"
	SectionMetric    = "metric"
	SectionHeading   = "heading"
)

var slideTypes = map[string]bool{
	SlideTypeTitle:     true,
	SlideTypeContent:   true,
	SlideTypeTwoColumn: true,
	SlideTypeMetrics:   true,
	SlideTypeTimeline:  true,
	SlideTypeCTA:       true,
}

var sectionTypes = map[string]bool{
	SectionBullets:   true,
	SectionParagraph: true,
	SectionCallout:   true,
	SectionMetric:    true,
	SectionHeading:   true,
}

// SectionContent is a tagged variant: either a single text string or an
// ordered list of items, never both. The owning section's content type
// determines which arm is populated.
type SectionContent struct {
	Text  string
	Items []string
}

// IsList reports whether the list arm is populated.
func (c SectionContent) IsList() bool {
	return c.Items != nil
}

// UnmarshalJSON accepts either a JSON string or a JSON array of strings,
// matching what generative models actually emit for section content.
func (c *SectionContent) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		c.Text = text
		c.Items = nil
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err == nil {
		c.Text = ""
		c.Items = items
		return nil
	}
	return fmt.Errorf("section content must be a string or a list of strings")
}

// MarshalJSON emits the populated arm.
func (c SectionContent) MarshalJSON() ([]byte, error) {
	if c.IsList() {
		return json.Marshal(c.Items)
	}
	return json.Marshal(c.Text)
}

// Section is one content unit within a slide.
type Section struct {
	Type     string         `json:"type"`
	Content  SectionContent `json:"content"`
	Emphasis bool           `json:"emphasis,omitempty"`
}

// Validate checks the content-type tag and that the matching content arm is
// populated: bullets carry a list, everything else carries a single string.
func (s *Section) Validate() error {
	if !sectionTypes[s.Type] {
		return &ValidationError{Field: "sections.type", Message: fmt.Sprintf("unknown section type %q", s.Type)}
	}
	if s.Type == SectionBullets {
		if !s.Content.IsList() || len(s.Content.Items) == 0 {
			return &ValidationError{Field: "sections.content", Message: "bullets section requires a non-empty item list"}
		}
		return nil
	}
	if s.Content.IsList() {
		return &ValidationError{Field: "sections.content", Message: fmt.Sprintf("%s section requires a single string", s.Type)}
	}
	if s.Content.Text == "" {
		return &ValidationError{Field: "sections.content", Message: fmt.Sprintf("%s section content is empty", s.Type)}
	}
	return nil
}

// Slide is a single slide specification within a deck.
type Slide struct {
	SlideNumber int       `json:"slide_number"`
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle,omitempty"`
	SlideType   string    `json:"slide_type"`
	Sections    []Section `json:"sections"`
	Notes       string    `json:"notes,omitempty"`
}

// SlideDeckSpec is the complete specification for one proposal deck:
// exactly 8 ordered slides plus title, intro, and closing call-to-action.
type SlideDeckSpec struct {
	PresentationTitle string  `json:"presentation_title"`
	ProposalIntro     string  `json:"proposal_intro"`
	Slides            []Slide `json:"slides"`
	CTAStatement      string  `json:"cta_statement"`
}

// Validate enforces the deck invariants: exactly 8 slides, slide numbers
// 1..8 contiguous and in order, known layout types, and well-formed sections.
func (d *SlideDeckSpec) Validate() error {
	if len(d.Slides) != DeckSlideCount {
		return &ValidationError{
			Field:   "slides",
			Message: fmt.Sprintf("deck must have exactly %d slides, got %d", DeckSlideCount, len(d.Slides)),
		}
	}
	for i, slide := range d.Slides {
		if slide.SlideNumber != i+1 {
			return &ValidationError{
				Field:   fmt.Sprintf("slides[%d].slide_number", i),
				Message: fmt.Sprintf("expected slide_number %d, got %d", i+1, slide.SlideNumber),
			}
		}
		if slide.Title == "" {
			return &ValidationError{Field: fmt.Sprintf("slides[%d].title", i), Message: "title is required"}
		}
		if !slideTypes[slide.SlideType] {
			return &ValidationError{
				Field:   fmt.Sprintf("slides[%d].slide_type", i),
				Message: fmt.Sprintf("unknown slide type %q", slide.SlideType),
			}
		}
		for j := range slide.Sections {
			if err := slide.Sections[j].Validate(); err != nil {
				var verr *ValidationError
				if ok := asValidationError(err, &verr); ok {
					return &ValidationError{
						Field:   fmt.Sprintf("slides[%d].%s", i, verr.Field),
						Message: verr.Message,
					}
				}
				return err
			}
		}
	}
	return nil
}

func asValidationError(err error, target **ValidationError) bool {
	v, ok := err.(*ValidationError)
	if ok {
		*target = v
	}
	return ok
}
