package verification

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/telsim/onboard/internal/apierror"
	"github.com/telsim/onboard/model"
)

// DocumentAuthority simulates the government document repository: exchanging
// an authorization code for issued documents and attesting to a document's
// authenticity. Safe for concurrent use; the fetched table is guarded by a
// mutex.
type DocumentAuthority struct {
	mu      sync.Mutex
	runner  *CheckRunner
	fetched map[string]model.Document
}

// AuthenticityReport is the repository's attestation for one document.
type AuthenticityReport struct {
	DocumentID     string    `json:"document_id"`
	Authentic      bool      `json:"authentic"`
	IssuerVerified bool      `json:"issuer_verified"`
	Tampering      bool      `json:"tampering"`
	CheckedAt      time.Time `json:"checked_at"`
}

func NewDocumentAuthority(runner *CheckRunner) *DocumentAuthority {
	return &DocumentAuthority{
		runner:  runner,
		fetched: make(map[string]model.Document),
	}
}

// AuthorizeAndFetchDocuments exchanges the consent authorization code for the
// customer's issued documents. An empty or malformed code is rejected.
func (d *DocumentAuthority) AuthorizeAndFetchDocuments(_ context.Context, authCode string) ([]model.Document, error) {
	if strings.TrimSpace(authCode) == "" {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "authorization code is required", nil)
	}
	if len(authCode) < 6 {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "authorization code is malformed", authCode)
	}

	now := time.Now()
	docs := []model.Document{
		{
			DocumentID: model.GenerateUUIDWithSuffix("doc"),
			Field:      "aadhaarCard",
			Name:       "Aadhaar Card.xml",
			MimeType:   "application/xml",
			Size:       24576,
			UploadedAt: now,
		},
		{
			DocumentID: model.GenerateUUIDWithSuffix("doc"),
			Field:      "panCard",
			Name:       "PAN Verification Record.xml",
			MimeType:   "application/xml",
			Size:       8192,
			UploadedAt: now,
		},
		{
			DocumentID: model.GenerateUUIDWithSuffix("doc"),
			Field:      "drivingLicense",
			Name:       "Driving License.pdf",
			MimeType:   "application/pdf",
			Size:       131072,
			UploadedAt: now,
		},
	}
	d.mu.Lock()
	for _, doc := range docs {
		d.fetched[doc.DocumentID] = doc
	}
	d.mu.Unlock()
	return docs, nil
}

// CheckAuthenticity attests a previously fetched document. The underlying
// issuer/tampering probes are drawn through the check runner, so the
// attestation aggregates the same sub-checks the scored flow uses.
func (d *DocumentAuthority) CheckAuthenticity(ctx context.Context, documentID string) (*AuthenticityReport, error) {
	d.mu.Lock()
	doc, ok := d.fetched[documentID]
	d.mu.Unlock()
	if !ok {
		return nil, apierror.NewAPIError(apierror.ErrNotFound, "document not found in repository", documentID)
	}

	result, err := d.runner.DocumentCheck(ctx, doc)
	if err != nil {
		return nil, err
	}

	report := &AuthenticityReport{
		DocumentID: documentID,
		CheckedAt:  result.CheckedAt,
	}
	for _, c := range result.Checks {
		switch c.Name {
		case "issuer_verified":
			report.IssuerVerified = c.Passed
		case "tampering_absent":
			report.Tampering = !c.Passed
		}
	}
	report.Authentic = result.Classification == ClassAccepted
	return report, nil
}
