package db

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Fresco-Signage-LLC/fresco/internal/model"
)

func (s *pgStore) CreateUser(email, hashedPassword *string) (model.User, error) {
	var u model.User
	const q = `
	INSERT INTO users (id, email, hashed_password, created_at)
	VALUES ($1, $2, $3, now())
	RETURNING id, email, hashed_password, created_at;`

	if err := s.db.Get(&u, q, uuid.NewString(), email, hashedPassword); err != nil {
		log.Error().Err(err).Msg("failed to create user")
		return model.User{}, err
	}
	return u, nil
}

func (s *pgStore) GetUserByID(id string) (*model.User, error) {
	var u model.User
	err := s.db.Get(&u, `
		SELECT id, email, hashed_password, created_at
		FROM users
		WHERE id = $1
		`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *pgStore) GetUserByEmail(email string) (*model.User, error) {
	var u model.User
	err := s.db.Get(&u, `
		SELECT id, email, hashed_password, created_at
		FROM users
		WHERE email = $1
		`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *pgStore) ListUsers() ([]model.User, error) {
	users := []model.User{}
	err := s.db.Select(&users, `
		SELECT id, email, hashed_password, created_at
		FROM users
		ORDER BY created_at DESC
		LIMIT 100
		`)
	if err != nil {
		log.Error().Err(err).Msg("failed to list users")
		return nil, err
	}
	return users, nil
}

func (s *pgStore) UpdateUserProfile(id string, email *string) (*model.User, error) {
	var u model.User
	err := s.db.Get(&u, `
		UPDATE users
		SET email = COALESCE($2, email)
		WHERE id = $1
		RETURNING id, email, hashed_password, created_at;`,
		id, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to update user profile")
		return nil, err
	}
	return &u, nil
}
