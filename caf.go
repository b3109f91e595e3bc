/*
Copyright 2025 Telsim Labs Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package onboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/telsim/onboard/database"
	"github.com/telsim/onboard/internal/blobstore"
	"github.com/telsim/onboard/model"
)

// CAFGenerationPayload is the task body for customer application form
// artifact generation.
type CAFGenerationPayload struct {
	ApplicationID int64 `json:"application_id"`
}

// GenerateCAF produces the printable customer application form artifact for
// an approved application, through the queue when one is available and
// inline otherwise.
func (o *Onboard) GenerateCAF(ctx context.Context, applicationID int64) error {
	if o.queue.Enabled() {
		return o.queue.queueCAFGeneration(CAFGenerationPayload{ApplicationID: applicationID})
	}
	_, err := generateCAFArtifact(ctx, o.datasource, o.blobs, applicationID)
	return err
}

// ProcessCAFGeneration handles a CAF generation task from the queue.
func (o *Onboard) ProcessCAFGeneration(ctx context.Context, task *asynq.Task) error {
	var payload CAFGenerationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Printf("Error unmarshaling task payload: %v", err)
		return err
	}
	_, err := generateCAFArtifact(ctx, o.datasource, o.blobs, payload.ApplicationID)
	return err
}

// generateCAFArtifact renders the application into a plain-text form, stages
// it in the blob store and records it as a generated document.
func generateCAFArtifact(ctx context.Context, ds database.IDataSource, blobs *blobstore.Store, applicationID int64) (*model.Document, error) {
	application, err := ds.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	rendered := renderCAF(application)
	blob, err := blobs.Put(bytes.NewReader(rendered), fmt.Sprintf("caf_%d.txt", application.ID))
	if err != nil {
		return nil, err
	}

	doc := model.Document{
		DocumentID:  model.GenerateUUIDWithSuffix("caf"),
		Field:       "customerApplicationForm",
		Name:        fmt.Sprintf("CAF-%d.txt", application.ID),
		Size:        blob.Size,
		MimeType:    blob.MimeType,
		StoragePath: blob.Path,
		UploadedAt:  time.Now(),
	}
	if err := ds.AttachDocument(ctx, application.ID, doc); err != nil {
		blobs.Release(blob.Path)
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"application_id": application.ID,
		"artifact":       doc.Name,
	}).Info("customer application form generated")
	return &doc, nil
}

func renderCAF(application *model.Application) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "CUSTOMER APPLICATION FORM\n")
	fmt.Fprintf(&buf, "=========================\n\n")
	fmt.Fprintf(&buf, "Application: %d\n", application.ID)
	fmt.Fprintf(&buf, "Applicant:   %s\n", application.UserID)
	fmt.Fprintf(&buf, "Status:      %s\n", application.Status)
	fmt.Fprintf(&buf, "Submitted:   %s\n\n", application.SubmittedAt.Format(time.RFC822))

	sections := make([]string, 0, len(application.Sections))
	for name := range application.Sections {
		sections = append(sections, name)
	}
	sort.Strings(sections)

	for _, name := range sections {
		fmt.Fprintf(&buf, "[%s]\n", name)
		fields := make([]string, 0, len(application.Sections[name]))
		for field := range application.Sections[name] {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			fmt.Fprintf(&buf, "  %-24s %v\n", field+":", application.Sections[name][field])
		}
		buf.WriteByte('\n')
	}

	if len(application.Documents) > 0 {
		fmt.Fprintf(&buf, "[documents]\n")
		for _, doc := range application.Documents {
			fmt.Fprintf(&buf, "  %-24s %s (%s)\n", doc.Field+":", doc.Name, doc.MimeType)
		}
	}
	return buf.Bytes()
}
