package slides

import (
	"context"
	"encoding/json"
	"io"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// Exporter downloads a rendered presentation as a PDF document and removes
// the temporary presentation artifact afterward.
type Exporter interface {
	ExportPDF(ctx context.Context, presentationID string) ([]byte, error)
	Cleanup(ctx context.Context, presentationID string) error
}

// DriveExporter exports presentations through the Google Drive API.
type DriveExporter struct {
	svc *drive.Service
}

// NewDriveExporter builds an exporter from service-account credentials JSON.
func NewDriveExporter(ctx context.Context, credentialsJSON []byte) (*DriveExporter, error) {
	if !json.Valid(credentialsJSON) {
		return nil, &AuthenticationError{Message: "service account credentials are not valid JSON"}
	}

	svc, err := drive.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(drive.DriveScope),
	)
	if err != nil {
		return nil, &AuthenticationError{Message: "failed to create drive service", Cause: err}
	}
	return &DriveExporter{svc: svc}, nil
}

// ExportPDF downloads the presentation as PDF bytes.
func (e *DriveExporter) ExportPDF(ctx context.Context, presentationID string) ([]byte, error) {
	resp, err := e.svc.Files.Export(presentationID, "application/pdf").Context(ctx).Download()
	if err != nil {
		return nil, &ExportError{Message: "failed to export presentation", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ExportError{Message: "failed to read exported document", Cause: err}
	}
	return pdf, nil
}

// Cleanup deletes the temporary presentation from the backend.
func (e *DriveExporter) Cleanup(ctx context.Context, presentationID string) error {
	if err := e.svc.Files.Delete(presentationID).Context(ctx).Do(); err != nil {
		return &ExportError{Message: "failed to delete presentation", Cause: err}
	}
	return nil
}
