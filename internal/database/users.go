package database

import (
	"context"

	"github.com/google/uuid"
)

const getUserByUsername = `
SELECT id, username, full_name, hashed_password, role, is_active, created_at
FROM users
WHERE username = $1 AND is_active = true
`

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	row := q.db.QueryRow(ctx, getUserByUsername, username)
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.FullName, &u.HashedPassword, &u.Role, &u.IsActive, &u.CreatedAt)
	return u, err
}

const getUserByID = `
SELECT id, username, full_name, hashed_password, role, is_active, created_at
FROM users
WHERE id = $1 AND is_active = true
`

func (q *Queries) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	row := q.db.QueryRow(ctx, getUserByID, id)
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.FullName, &u.HashedPassword, &u.Role, &u.IsActive, &u.CreatedAt)
	return u, err
}

const createUser = `
INSERT INTO users (username, full_name, hashed_password, role)
VALUES ($1, $2, $3, $4)
RETURNING id, username, full_name, hashed_password, role, is_active, created_at
`

type CreateUserParams struct {
	Username       string
	FullName       string
	HashedPassword string
	Role           string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, createUser, arg.Username, arg.FullName, arg.HashedPassword, arg.Role)
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.FullName, &u.HashedPassword, &u.Role, &u.IsActive, &u.CreatedAt)
	return u, err
}
