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

package model

import "time"

// Document references an uploaded file staged for an application. StoragePath
// points at a blob owned by the blobstore; the document owner must release it
// when the document is removed or its wizard is discarded.
type Document struct {
	DocumentID  string    `json:"document_id"`
	Field       string    `json:"field"` // which document slot this fills, e.g. "panCard"
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	MimeType    string    `json:"mime_type"`
	StoragePath string    `json:"storage_path"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// PersonRecord is the demographic record returned by a successful e-KYC
// verification against the identity registry.
type PersonRecord struct {
	Name        string `json:"name"`
	DateOfBirth string `json:"date_of_birth"`
	Gender      string `json:"gender"`
	Address     string `json:"address"`
	PhotoHash   string `json:"photo_hash"`
	MaskedID    string `json:"masked_id"`
}
