package models

import (
	"time"
)

// AuditLog records who changed what in the console
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	Action    string    `gorm:"size:50;not null;index" json:"action"` // CREATE, UPDATE, DELETE, LOGIN, PAYMENT...
	Entity    string    `gorm:"size:50;not null;index" json:"entity"` // Sale, Vehicle, Customer...
	EntityID  uint      `json:"entity_id"`
	Details   string    `gorm:"type:text" json:"details"`
	IPAddress string    `gorm:"size:45" json:"ip_address"`
	UserAgent string    `gorm:"size:255" json:"user_agent"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	// Associations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}

// Audit action constants
const (
	AuditActionCreate  = "CREATE"
	AuditActionUpdate  = "UPDATE"
	AuditActionDelete  = "DELETE"
	AuditActionLogin   = "LOGIN"
	AuditActionPayment = "PAYMENT"
	AuditActionStatus  = "STATUS"
)

// AuditLogResponse is the JSON response format for audit entries
type AuditLogResponse struct {
	ID        uint      `json:"id"`
	UserID    *uint     `json:"user_id"`
	UserName  string    `json:"user_name"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	EntityID  uint      `json:"entity_id"`
	Details   string    `json:"details"`
	IPAddress string    `json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse converts AuditLog to AuditLogResponse
func (a *AuditLog) ToResponse() AuditLogResponse {
	resp := AuditLogResponse{
		ID:        a.ID,
		UserID:    a.UserID,
		Action:    a.Action,
		Entity:    a.Entity,
		EntityID:  a.EntityID,
		Details:   a.Details,
		IPAddress: a.IPAddress,
		CreatedAt: a.CreatedAt,
	}
	if a.User != nil {
		resp.UserName = a.User.FullName
	}
	return resp
}
