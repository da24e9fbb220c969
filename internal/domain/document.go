package domain

import "time"

// Document is the metadata row for a file attached to a case.
// The binary content lives in S3-compatible storage under StorageKey.
type Document struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CaseID      int64     `gorm:"index" json:"case_id"`
	UploaderID  int64     `gorm:"index" json:"uploader_id"`
	FileName    string    `gorm:"size:255" json:"file_name"`
	StorageKey  string    `gorm:"size:512" json:"-"`
	ContentType string    `gorm:"size:128" json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Document) TableName() string {
	return "documents"
}

// DocumentResponse represents a document in API responses
type DocumentResponse struct {
	ID          int64  `json:"id"`
	CaseID      int64  `json:"case_id"`
	UploaderID  int64  `json:"uploader_id"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	CreatedAt   string `json:"created_at"`
}

// ToResponse converts Document to DocumentResponse
func (d *Document) ToResponse() *DocumentResponse {
	return &DocumentResponse{
		ID:          d.ID,
		CaseID:      d.CaseID,
		UploaderID:  d.UploaderID,
		FileName:    d.FileName,
		ContentType: d.ContentType,
		Size:        d.Size,
		CreatedAt:   d.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// DocumentURLResponse carries a short-lived preview/download URL
type DocumentURLResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"` // seconds
}
