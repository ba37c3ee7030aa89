package payslip

import (
	"context"
	"errors"
	"io"
	"time"
)

// Payslip is the metadata row for one uploaded payslip file. The file itself
// lives on disk under a random stored name; the original filename is kept
// only for the download header.
type Payslip struct {
	ID               int64     `json:"id" gorm:"primaryKey"`
	UserID           int64     `json:"user_id" gorm:"column:user_id;not null;index"`
	Period           string    `json:"period" gorm:"column:period;not null"`
	OriginalFilename string    `json:"original_filename" gorm:"column:original_filename;not null"`
	StoredName       string    `json:"-" gorm:"column:stored_name;uniqueIndex;not null"`
	SizeBytes        int64     `json:"size_bytes" gorm:"column:size_bytes;not null"`
	ContentType      string    `json:"content_type" gorm:"column:content_type"`
	UploadedBy       int64     `json:"uploaded_by" gorm:"column:uploaded_by;not null"`
	CreatedAt        time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
}

func (Payslip) TableName() string {
	return "payslips"
}

var ErrNotFound = errors.New("payslip not found")

type Repository interface {
	Create(ctx context.Context, p *Payslip) error
	GetByID(ctx context.Context, id int64) (*Payslip, error)
	ListForUser(ctx context.Context, userID int64) ([]*Payslip, error)
	Delete(ctx context.Context, id int64) error
}

// Store persists payslip file contents keyed by stored name.
type Store interface {
	Save(storedName string, r io.Reader) (int64, error)
	Open(storedName string) (io.ReadCloser, error)
	Remove(storedName string) error
}
