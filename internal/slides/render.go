// Package slides renders slide deck specifications into presentations and
// exports them as PDF documents. The presentation backend is an opaque
// collaborator behind the Renderer and Exporter interfaces.
package slides

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/proposal-agent/internal/types"
	"google.golang.org/api/option"
	slidesapi "google.golang.org/api/slides/v1"
)

// Renderer turns a deck specification into a presentation and returns the
// backend's opaque presentation identifier.
type Renderer interface {
	Render(ctx context.Context, spec *types.SlideDeckSpec) (string, error)
}

// Layout constants for the rendering recipe, in points. Title box at the
// top, subtitle below it, content sections stacked with incrementing
// vertical offsets.
const (
	boxWidth       = 720.0
	boxLeft        = 20.0
	titleTop       = 30.0
	titleHeight    = 60.0
	subtitleTop    = 95.0
	subtitleHeight = 40.0
	contentTop     = 150.0
	sectionHeight  = 80.0
	sectionGap     = 10.0

	titleFontSize    = 40.0
	subtitleFontSize = 24.0
	bodyFontSize     = 16.0
	metricFontSize   = 28.0

	bulletGlyph = "• "
)

// GoogleSlidesRenderer renders decks through the Google Slides API.
type GoogleSlidesRenderer struct {
	svc *slidesapi.Service
}

// NewGoogleSlidesRenderer builds a renderer from service-account
// credentials JSON.
func NewGoogleSlidesRenderer(ctx context.Context, credentialsJSON []byte) (*GoogleSlidesRenderer, error) {
	if !json.Valid(credentialsJSON) {
		return nil, &AuthenticationError{Message: "service account credentials are not valid JSON"}
	}

	svc, err := slidesapi.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(slidesapi.PresentationsScope, slidesapi.DriveScope),
	)
	if err != nil {
		return nil, &AuthenticationError{Message: "failed to create slides service", Cause: err}
	}
	return &GoogleSlidesRenderer{svc: svc}, nil
}

// Render creates a presentation from the spec and returns its identifier.
func (r *GoogleSlidesRenderer) Render(ctx context.Context, spec *types.SlideDeckSpec) (string, error) {
	presentation, err := r.svc.Presentations.Create(&slidesapi.Presentation{
		Title: spec.PresentationTitle,
	}).Context(ctx).Do()
	if err != nil {
		return "", &RenderError{Message: "failed to create presentation", Cause: err}
	}

	requests := BuildRequests(spec)

	// The freshly created presentation carries one default slide; drop it
	// after our slides are inserted.
	if len(presentation.Slides) > 0 {
		requests = append(requests, &slidesapi.Request{
			DeleteObject: &slidesapi.DeleteObjectRequest{
				ObjectId: presentation.Slides[0].ObjectId,
			},
		})
	}

	_, err = r.svc.Presentations.BatchUpdate(presentation.PresentationId,
		&slidesapi.BatchUpdatePresentationRequest{Requests: requests},
	).Context(ctx).Do()
	if err != nil {
		return "", &RenderError{Message: "failed to populate presentation", Cause: err}
	}

	return presentation.PresentationId, nil
}

// BuildRequests translates a deck spec into the batch of layout requests
// implementing the rendering recipe. Pure function, exported for tests.
func BuildRequests(spec *types.SlideDeckSpec) []*slidesapi.Request {
	var requests []*slidesapi.Request

	for i, slide := range spec.Slides {
		slideID := fmt.Sprintf("slide_%d", i)

		requests = append(requests, &slidesapi.Request{
			CreateSlide: &slidesapi.CreateSlideRequest{
				ObjectId:       slideID,
				InsertionIndex: int64(i),
				SlideLayoutReference: &slidesapi.LayoutReference{
					PredefinedLayout: "BLANK",
				},
			},
		})

		requests = append(requests, &slidesapi.Request{
			UpdatePageProperties: &slidesapi.UpdatePagePropertiesRequest{
				ObjectId: slideID,
				PageProperties: &slidesapi.PageProperties{
					PageBackgroundFill: &slidesapi.PageBackgroundFill{
						SolidFill: &slidesapi.SolidFill{
							Color: &slidesapi.OpaqueColor{
								RgbColor: &slidesapi.RgbColor{Red: 1.0, Green: 1.0, Blue: 1.0},
							},
						},
					},
				},
				Fields: "pageBackgroundFill",
			},
		})

		titleID := fmt.Sprintf("title_%d", i)
		requests = append(requests, textBoxRequests(titleID, slideID, slide.Title, titleTop, titleHeight, titleFontSize, true)...)

		contentY := contentTop
		if slide.Subtitle != "" {
			subtitleID := fmt.Sprintf("subtitle_%d", i)
			requests = append(requests, textBoxRequests(subtitleID, slideID, slide.Subtitle, subtitleTop, subtitleHeight, subtitleFontSize, false)...)
		} else {
			contentY = subtitleTop + sectionGap
		}

		for j, section := range slide.Sections {
			sectionID := fmt.Sprintf("section_%d_%d", i, j)
			fontSize := bodyFontSize
			if section.Type == types.SectionMetric {
				fontSize = metricFontSize
			}
			bold := section.Emphasis || section.Type == types.SectionMetric || section.Type == types.SectionHeading
			requests = append(requests, textBoxRequests(sectionID, slideID, sectionText(section), contentY, sectionHeight, fontSize, bold)...)
			contentY += sectionHeight + sectionGap
		}
	}

	return requests
}

// sectionText flattens section content into display text; bullet items get
// the marker glyph prefix.
func sectionText(section types.Section) string {
	if section.Content.IsList() {
		lines := make([]string, 0, len(section.Content.Items))
		for _, item := range section.Content.Items {
			lines = append(lines, bulletGlyph+item)
		}
		return strings.Join(lines, "\n")
	}
	return section.Content.Text
}

// textBoxRequests creates a text box, inserts its text, and styles it.
func textBoxRequests(objectID, slideID, text string, top, height, fontSize float64, bold bool) []*slidesapi.Request {
	return []*slidesapi.Request{
		{
			CreateShape: &slidesapi.CreateShapeRequest{
				ObjectId:  objectID,
				ShapeType: "TEXT_BOX",
				ElementProperties: &slidesapi.PageElementProperties{
					PageObjectId: slideID,
					Size: &slidesapi.Size{
						Height: &slidesapi.Dimension{Magnitude: height, Unit: "PT"},
						Width:  &slidesapi.Dimension{Magnitude: boxWidth, Unit: "PT"},
					},
					Transform: &slidesapi.AffineTransform{
						ScaleX:     1.0,
						ScaleY:     1.0,
						TranslateX: boxLeft,
						TranslateY: top,
						Unit:       "PT",
					},
				},
			},
		},
		{
			InsertText: &slidesapi.InsertTextRequest{
				ObjectId: objectID,
				Text:     text,
			},
		},
		{
			UpdateTextStyle: &slidesapi.UpdateTextStyleRequest{
				ObjectId: objectID,
				Style: &slidesapi.TextStyle{
					FontSize:   &slidesapi.Dimension{Magnitude: fontSize, Unit: "PT"},
					Bold:       bold,
					FontFamily: "Arial",
				},
				Fields: "fontSize,bold,fontFamily",
			},
		},
	}
}
