package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/pkg/errors"

	"github.com/telsim/onboard/internal/apierror"
	"github.com/telsim/onboard/model"
)

const applicationCacheTTL = 5 * time.Minute

func applicationCacheKey(id int64) string {
	return fmt.Sprintf("application:%d", id)
}

// invalidateApplication drops the cached record after a write so the next
// read sees the update. List caches are TTL-bounded and age out on their own.
func (d *Datasource) invalidateApplication(ctx context.Context, id int64) {
	if d.Cache == nil {
		return
	}
	if err := d.Cache.Delete(ctx, applicationCacheKey(id)); err != nil {
		log.Printf("Failed to invalidate application cache: %v", err)
	}
}

// CreateApplication inserts a new application record. The id is assigned
// inside the transaction as 1 + max(existing ids) so concurrent submissions
// cannot collide; the first record ever gets id 1.
func (d *Datasource) CreateApplication(ctx context.Context, application *model.Application) (*model.Application, error) {
	sectionsJSON, err := json.Marshal(application.Sections)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling application sections")
	}
	metaDataJSON, err := json.Marshal(application.MetaData)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling application metadata")
	}

	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var nextID int64
	err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM applications`).Scan(&nextID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	application.ID = nextID
	application.Status = model.StatusPending
	application.SubmittedAt = now
	application.UpdatedAt = now

	_, err = tx.ExecContext(ctx, `
		INSERT INTO applications (id, user_id, wizard_name, customer_type, status, sections, submitted_at, updated_at, meta_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		application.ID,
		application.UserID,
		application.WizardName,
		application.CustomerType,
		application.Status,
		sectionsJSON,
		application.SubmittedAt,
		application.UpdatedAt,
		metaDataJSON,
	)
	if err != nil {
		return nil, err
	}

	for _, doc := range application.Documents {
		if err := insertDocument(ctx, tx, application.ID, doc); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return application, nil
}

func insertDocument(ctx context.Context, tx *sql.Tx, applicationID int64, doc model.Document) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO application_documents (document_id, application_id, field, name, size, mime_type, storage_path, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		doc.DocumentID,
		applicationID,
		doc.Field,
		doc.Name,
		doc.Size,
		doc.MimeType,
		doc.StoragePath,
		doc.UploadedAt,
	)
	return err
}

// GetApplication retrieves an application with its documents. Reads are
// fronted by the cache; writes invalidate the entry.
func (d *Datasource) GetApplication(ctx context.Context, id int64) (*model.Application, error) {
	if d.Cache != nil {
		var cached model.Application
		err := d.Cache.Get(ctx, applicationCacheKey(id), &cached)
		if err == nil && cached.ID != 0 {
			return &cached, nil
		}
	}

	application, err := d.scanApplication(d.Conn.QueryRowContext(ctx, `
		SELECT id, user_id, wizard_name, customer_type, status, sections, submitted_at, updated_at,
		       reviewed_by, reviewed_at, review_comment, rejection_reason, meta_data
		FROM applications
		WHERE id = $1
	`, id))
	if err != nil {
		return nil, err
	}

	docs, err := d.GetDocuments(ctx, id)
	if err != nil {
		return nil, err
	}
	application.Documents = docs

	if d.Cache != nil {
		if err := d.Cache.Set(ctx, applicationCacheKey(id), application, applicationCacheTTL); err != nil {
			log.Printf("Failed to cache application: %v", err)
		}
	}
	return application, nil
}

// GetAllApplications lists applications newest first, optionally filtered by
// status. Documents are not loaded for list views.
func (d *Datasource) GetAllApplications(ctx context.Context, limit, offset int, status model.ApplicationStatus) ([]*model.Application, error) {
	cacheKey := fmt.Sprintf("applications:list:%s:%d:%d", status, limit, offset)
	if d.Cache != nil {
		var cached []*model.Application
		err := d.Cache.Get(ctx, cacheKey, &cached)
		if err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	query := `
		SELECT id, user_id, wizard_name, customer_type, status, sections, submitted_at, updated_at,
		       reviewed_by, reviewed_at, review_comment, rejection_reason, meta_data
		FROM applications
	`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1 ORDER BY submitted_at DESC LIMIT $2 OFFSET $3`
		args = append(args, status, limit, offset)
	} else {
		query += ` ORDER BY submitted_at DESC LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}

	rows, err := d.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Application
	for rows.Next() {
		application, err := d.scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, application)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if d.Cache != nil && len(out) > 0 {
		if err := d.Cache.Set(ctx, cacheKey, out, applicationCacheTTL); err != nil {
			log.Printf("Failed to cache applications: %v", err)
		}
	}
	return out, nil
}

// GetApplicationsByUser lists a user's applications newest first.
func (d *Datasource) GetApplicationsByUser(ctx context.Context, userID string) ([]*model.Application, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT id, user_id, wizard_name, customer_type, status, sections, submitted_at, updated_at,
		       reviewed_by, reviewed_at, review_comment, rejection_reason, meta_data
		FROM applications
		WHERE user_id = $1
		ORDER BY submitted_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Application
	for rows.Next() {
		application, err := d.scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, application)
	}
	return out, rows.Err()
}

// UpdateApplication writes back review fields and status.
func (d *Datasource) UpdateApplication(ctx context.Context, application *model.Application) error {
	metaDataJSON, err := json.Marshal(application.MetaData)
	if err != nil {
		return errors.Wrap(err, "marshaling application metadata")
	}

	application.UpdatedAt = time.Now()

	result, err := d.Conn.ExecContext(ctx, `
		UPDATE applications
		SET status = $2, updated_at = $3, reviewed_by = $4, reviewed_at = $5,
		    review_comment = $6, rejection_reason = $7, meta_data = $8
		WHERE id = $1
	`,
		application.ID,
		application.Status,
		application.UpdatedAt,
		application.ReviewedBy,
		application.ReviewedAt,
		application.ReviewComment,
		application.RejectionReason,
		metaDataJSON,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, "application not found", application.ID)
	}
	d.invalidateApplication(ctx, application.ID)
	return nil
}

// DeleteApplication removes an application and its documents.
func (d *Datasource) DeleteApplication(ctx context.Context, id int64) error {
	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM application_documents WHERE application_id = $1`, id); err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, "application not found", id)
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	d.invalidateApplication(ctx, id)
	return nil
}

// AttachDocument records an uploaded document against an application.
func (d *Datasource) AttachDocument(ctx context.Context, applicationID int64, doc model.Document) error {
	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO application_documents (document_id, application_id, field, name, size, mime_type, storage_path, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		doc.DocumentID,
		applicationID,
		doc.Field,
		doc.Name,
		doc.Size,
		doc.MimeType,
		doc.StoragePath,
		doc.UploadedAt,
	)
	if err != nil {
		return err
	}
	// cached applications embed their documents
	d.invalidateApplication(ctx, applicationID)
	return nil
}

// GetDocuments lists the documents attached to an application.
func (d *Datasource) GetDocuments(ctx context.Context, applicationID int64) ([]model.Document, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT document_id, field, name, size, mime_type, storage_path, uploaded_at
		FROM application_documents
		WHERE application_id = $1
		ORDER BY uploaded_at ASC
	`, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		var doc model.Document
		if err := rows.Scan(
			&doc.DocumentID,
			&doc.Field,
			&doc.Name,
			&doc.Size,
			&doc.MimeType,
			&doc.StoragePath,
			&doc.UploadedAt,
		); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// RecordCheckResult persists one verification outcome for audit.
func (d *Datasource) RecordCheckResult(ctx context.Context, applicationID int64, checkType, reference string, score int, classification string, checksJSON []byte) error {
	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO check_results (application_id, reference, check_type, score, classification, checks, checked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		applicationID,
		reference,
		checkType,
		score,
		classification,
		checksJSON,
		time.Now(),
	)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (d *Datasource) scanApplication(row rowScanner) (*model.Application, error) {
	application := &model.Application{}
	var sectionsJSON []byte
	var metaDataJSON []byte
	var reviewedBy, reviewComment, rejectionReason sql.NullString
	var reviewedAt sql.NullTime

	err := row.Scan(
		&application.ID,
		&application.UserID,
		&application.WizardName,
		&application.CustomerType,
		&application.Status,
		&sectionsJSON,
		&application.SubmittedAt,
		&application.UpdatedAt,
		&reviewedBy,
		&reviewedAt,
		&reviewComment,
		&rejectionReason,
		&metaDataJSON,
	)
	if err == sql.ErrNoRows {
		return nil, apierror.NewAPIError(apierror.ErrNotFound, "application not found", nil)
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(sectionsJSON, &application.Sections); err != nil {
		return nil, err
	}
	if len(metaDataJSON) > 0 {
		if err := json.Unmarshal(metaDataJSON, &application.MetaData); err != nil {
			return nil, err
		}
	}
	application.ReviewedBy = reviewedBy.String
	application.ReviewComment = reviewComment.String
	application.RejectionReason = rejectionReason.String
	if reviewedAt.Valid {
		t := reviewedAt.Time
		application.ReviewedAt = &t
	}
	return application, nil
}
