// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UsersTable represents the 'users' table
type UsersTable struct {
	Table          string
	ID             string
	Email          string
	Username       string
	HashedPassword string
	IsActive       string
	IsSuperuser    string
	CreatedAt      string
	UpdatedAt      string
}

// Users is the schema definition for users
var Users = UsersTable{
	Table:          "users",
	ID:             "id",
	Email:          "email",
	Username:       "username",
	HashedPassword: "hashed_password",
	IsActive:       "is_active",
	IsSuperuser:    "is_superuser",
	CreatedAt:      "created_at",
	UpdatedAt:      "updated_at",
}

// Columns returns all standard column names in scan order
func (t UsersTable) Columns() []string {
	return []string{
		t.ID, t.Email, t.Username, t.HashedPassword,
		t.IsActive, t.IsSuperuser, t.CreatedAt, t.UpdatedAt,
	}
}
