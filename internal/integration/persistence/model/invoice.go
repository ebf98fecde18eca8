// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bankrecon/backend/internal/domain/entity"
)

// InvoiceModel represents the invoices table in the database. Invoices are
// written by the wider product; the reconciliation service only reads paid
// ones.
type InvoiceModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CompanyID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceNumber string          `gorm:"type:varchar(64);not null"`
	Total         decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	PaidAt        *time.Time      `gorm:"type:timestamp;index"`
	ClientName    string          `gorm:"type:varchar(255)"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for the InvoiceModel.
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToEntity converts an InvoiceModel to a domain PaidInvoice entity.
func (m *InvoiceModel) ToEntity() *entity.PaidInvoice {
	return &entity.PaidInvoice{
		ID:            m.ID,
		CompanyID:     m.CompanyID,
		InvoiceNumber: m.InvoiceNumber,
		Total:         m.Total,
		PaidAt:        m.PaidAt,
		ClientName:    m.ClientName,
	}
}
