package models

// RoleType defines the user role type
type RoleType string

const (
	RoleAdmin     RoleType = "ADMIN"
	RoleStudent   RoleType = "STUDENT"
	RoleMentor    RoleType = "MENTOR"
	RolePlacement RoleType = "PLACEMENT"
)

// DocumentStatus represents the review state of an uploaded student document
type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "pending"
	DocumentStatusApproved DocumentStatus = "approved"
	DocumentStatusRejected DocumentStatus = "rejected"
)
