package database

import (
	"context"

	"github.com/telsim/onboard/model"
)

type applications interface {
	CreateApplication(ctx context.Context, application *model.Application) (*model.Application, error)
	GetApplication(ctx context.Context, id int64) (*model.Application, error)
	GetAllApplications(ctx context.Context, limit, offset int, status model.ApplicationStatus) ([]*model.Application, error)
	GetApplicationsByUser(ctx context.Context, userID string) ([]*model.Application, error)
	UpdateApplication(ctx context.Context, application *model.Application) error
	DeleteApplication(ctx context.Context, id int64) error
}

type documents interface {
	AttachDocument(ctx context.Context, applicationID int64, doc model.Document) error
	GetDocuments(ctx context.Context, applicationID int64) ([]model.Document, error)
}

type checkResults interface {
	RecordCheckResult(ctx context.Context, applicationID int64, checkType, reference string, score int, classification string, checksJSON []byte) error
}

// IDataSource is the full persistence surface the service depends on.
type IDataSource interface {
	applications
	documents
	checkResults
}
