package graphql

import (
	"context"

	"discover/internal/domain"
)

const findUserQuery = `
query FindUser($issuer: String!) {
  users(where: {issuer: {_eq: $issuer}}) {
    id
    email
    issuer
    publicAddress
  }
}`

const insertUserMutation = `
mutation InsertUser($email: String!, $issuer: String!, $publicAddress: String!) {
  insert_users_one(object: {email: $email, issuer: $issuer, publicAddress: $publicAddress}) {
    id
    email
    issuer
    publicAddress
  }
}`

// GetByIssuer looks up a user by verifier subject. Returns (nil, nil)
// when no user exists.
func (g *Gateway) GetByIssuer(ctx context.Context, issuer string) (*domain.User, error) {
	var data struct {
		Users []domain.User `json:"users"`
	}
	err := g.execute(ctx, "FindUser", findUserQuery, map[string]any{"issuer": issuer}, &data)
	if err != nil {
		return nil, err
	}
	if len(data.Users) == 0 {
		return nil, nil
	}
	return &data.Users[0], nil
}

// Create registers a new user row for the given identity.
func (g *Gateway) Create(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	var data struct {
		Inserted *domain.User `json:"insert_users_one"`
	}
	vars := map[string]any{
		"email":         identity.Email,
		"issuer":        identity.Issuer,
		"publicAddress": identity.PublicAddress,
	}
	err := g.execute(ctx, "InsertUser", insertUserMutation, vars, &data)
	if err != nil {
		return nil, err
	}
	return data.Inserted, nil
}
