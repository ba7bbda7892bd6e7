package auth

import (
	"context"

	"realty_hub/internal/apperr"
	"realty_hub/internal/models"
)

// Identity is the caller behind a validated token. Role comes from the stored
// user row, never from the token.
type Identity struct {
	UserID   uint
	Username string
	Role     models.Role
}

func (i *Identity) HasRole(r models.Role) bool { return i != nil && i.Role == r }

// IsUser reports whether the caller is the user with the given id.
func (i *Identity) IsUser(id uint) bool { return i != nil && id != 0 && i.UserID == id }

// UserLookup is the slice of the store the authenticator needs.
type UserLookup interface {
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
}

// Authenticator turns bearer tokens into identities.
type Authenticator struct {
	tokens *TokenService
	users  UserLookup
}

func NewAuthenticator(tokens *TokenService, users UserLookup) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

func (a *Authenticator) Tokens() *TokenService { return a.tokens }

// Authenticate validates an access token and re-reads the user so a deleted
// account's token stops working and role changes apply immediately.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (*Identity, error) {
	return a.resolve(ctx, token, AccessToken)
}

// Refresh exchanges a refresh token for a new token pair.
func (a *Authenticator) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	id, err := a.resolve(ctx, refreshToken, RefreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	pair, err := a.tokens.IssuePair(id.UserID)
	if err != nil {
		return TokenPair{}, apperr.Internal("could not generate token", err)
	}
	return pair, nil
}

func (a *Authenticator) resolve(ctx context.Context, token string, kind TokenKind) (*Identity, error) {
	if token == "" {
		return nil, apperr.Unauthenticated("missing token")
	}
	claims, err := a.tokens.Validate(token, kind)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnauthenticated, "invalid or expired token", err)
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnauthenticated, "invalid or expired token", err)
	}

	user, err := a.users.GetUserByID(ctx, userID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.Unauthenticated("user no longer exists")
		}
		return nil, apperr.Internal("could not load user", err)
	}
	return &Identity{UserID: user.ID, Username: user.Username, Role: user.Role}, nil
}
