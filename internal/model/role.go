package model

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleDean  UserRole = "dean"
)
