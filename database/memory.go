package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/telsim/onboard/internal/apierror"
	"github.com/telsim/onboard/model"
)

// MemoryDataSource keeps all records in process memory. It backs the demo
// driver and tests; semantics mirror the postgres datasource, including the
// 1 + max(ids) assignment rule.
type MemoryDataSource struct {
	mu           sync.RWMutex
	applications map[int64]*model.Application
	documents    map[int64][]model.Document
	checkResults []memoryCheckResult
}

type memoryCheckResult struct {
	ApplicationID  int64
	CheckType      string
	Reference      string
	Score          int
	Classification string
	Checks         []byte
	CheckedAt      time.Time
}

func NewMemoryDataSource() *MemoryDataSource {
	return &MemoryDataSource{
		applications: make(map[int64]*model.Application),
		documents:    make(map[int64][]model.Document),
	}
}

func (m *MemoryDataSource) CreateApplication(_ context.Context, application *model.Application) (*model.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var maxID int64
	for id := range m.applications {
		if id > maxID {
			maxID = id
		}
	}

	now := time.Now()
	application.ID = maxID + 1
	application.Status = model.StatusPending
	application.SubmittedAt = now
	application.UpdatedAt = now

	stored := *application
	m.applications[stored.ID] = &stored
	if len(application.Documents) > 0 {
		m.documents[stored.ID] = append([]model.Document(nil), application.Documents...)
	}
	return application, nil
}

func (m *MemoryDataSource) GetApplication(_ context.Context, id int64) (*model.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, ok := m.applications[id]
	if !ok {
		return nil, apierror.NewAPIError(apierror.ErrNotFound, "application not found", id)
	}
	application := *stored
	application.Documents = append([]model.Document(nil), m.documents[id]...)
	return &application, nil
}

func (m *MemoryDataSource) GetAllApplications(_ context.Context, limit, offset int, status model.ApplicationStatus) ([]*model.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*model.Application
	for _, stored := range m.applications {
		if status != "" && stored.Status != status {
			continue
		}
		application := *stored
		out = append(out, &application)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})

	// mirror the postgres LIMIT semantics: a non-positive limit yields
	// nothing rather than everything
	if limit <= 0 || offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryDataSource) GetApplicationsByUser(_ context.Context, userID string) ([]*model.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*model.Application
	for _, stored := range m.applications {
		if stored.UserID != userID {
			continue
		}
		application := *stored
		out = append(out, &application)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out, nil
}

func (m *MemoryDataSource) UpdateApplication(_ context.Context, application *model.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.applications[application.ID]; !ok {
		return apierror.NewAPIError(apierror.ErrNotFound, "application not found", application.ID)
	}
	application.UpdatedAt = time.Now()
	stored := *application
	m.applications[stored.ID] = &stored
	return nil
}

func (m *MemoryDataSource) DeleteApplication(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.applications[id]; !ok {
		return apierror.NewAPIError(apierror.ErrNotFound, "application not found", id)
	}
	delete(m.applications, id)
	delete(m.documents, id)
	return nil
}

func (m *MemoryDataSource) AttachDocument(_ context.Context, applicationID int64, doc model.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.applications[applicationID]; !ok {
		return apierror.NewAPIError(apierror.ErrNotFound, "application not found", applicationID)
	}
	m.documents[applicationID] = append(m.documents[applicationID], doc)
	return nil
}

func (m *MemoryDataSource) GetDocuments(_ context.Context, applicationID int64) ([]model.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.Document(nil), m.documents[applicationID]...), nil
}

func (m *MemoryDataSource) RecordCheckResult(_ context.Context, applicationID int64, checkType, reference string, score int, classification string, checksJSON []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.checkResults = append(m.checkResults, memoryCheckResult{
		ApplicationID:  applicationID,
		CheckType:      checkType,
		Reference:      reference,
		Score:          score,
		Classification: classification,
		Checks:         append([]byte(nil), checksJSON...),
		CheckedAt:      time.Now(),
	})
	return nil
}
