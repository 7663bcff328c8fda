// Package identity registers users, signs them in and out, and resolves
// bearer tokens back into sessions.
package identity

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"healthportal/m/domain"
)

// ErrUnauthorized covers bad credentials and unusable tokens alike.
var ErrUnauthorized = errors.New("unauthorized")

type Store interface {
	InsertProfile(ctx context.Context, p domain.Profile) error
	ProfileByID(ctx context.Context, id uuid.UUID) (domain.Profile, bool, error)
	ProfileByEmail(ctx context.Context, email string) (domain.Profile, bool, error)
	UpdateProfile(ctx context.Context, p domain.Profile) (bool, error)
	InsertSession(ctx context.Context, s domain.Session) error
	Session(ctx context.Context, id uuid.UUID) (domain.Session, bool, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
}

type Provider struct {
	store  Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func New(store Store, secret string, ttl time.Duration) *Provider {
	return &Provider{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

type authClaims struct {
	SessionID uuid.UUID `json:"sid"`
	UserID    uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}

// Grant is what a successful register or login hands back.
type Grant struct {
	Token   string         `json:"token"`
	Session domain.Session `json:"session"`
	Profile domain.Profile `json:"profile"`
}

func (p *Provider) Register(ctx context.Context, email, password, fullName string) (Grant, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return Grant{}, domain.Invalid("email", "must be a valid address")
	}
	if len(password) < 6 {
		return Grant{}, domain.Invalid("password", "must be at least 6 characters")
	}
	if _, found, err := p.store.ProfileByEmail(ctx, email); err != nil {
		return Grant{}, err
	} else if found {
		return Grant{}, domain.Invalid("email", "already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Grant{}, err
	}
	now := p.now().UTC()
	profile := domain.Profile{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hashed),
		FullName:     strings.TrimSpace(fullName),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := p.store.InsertProfile(ctx, profile); err != nil {
		return Grant{}, err
	}
	return p.open(ctx, profile)
}

func (p *Provider) Login(ctx context.Context, email, password string) (Grant, error) {
	profile, found, err := p.store.ProfileByEmail(ctx, email)
	if err != nil {
		return Grant{}, err
	}
	if !found || bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)) != nil {
		return Grant{}, ErrUnauthorized
	}
	return p.open(ctx, profile)
}

func (p *Provider) open(ctx context.Context, profile domain.Profile) (Grant, error) {
	now := p.now().UTC()
	sess := domain.Session{
		ID:        uuid.New(),
		UserID:    profile.ID,
		Email:     profile.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(p.ttl),
	}
	if err := p.store.InsertSession(ctx, sess); err != nil {
		return Grant{}, err
	}
	token, err := p.sign(sess)
	if err != nil {
		return Grant{}, err
	}
	return Grant{Token: token, Session: sess, Profile: profile}, nil
}

func (p *Provider) sign(sess domain.Session) (string, error) {
	claims := authClaims{
		SessionID: sess.ID,
		UserID:    sess.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.Email,
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// Authenticate resolves a bearer token to its live session.
func (p *Provider) Authenticate(ctx context.Context, tokenString string) (domain.Session, error) {
	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	}, jwt.WithTimeFunc(p.now))
	if err != nil || !token.Valid {
		return domain.Session{}, ErrUnauthorized
	}

	sess, found, err := p.store.Session(ctx, claims.SessionID)
	if err != nil {
		return domain.Session{}, err
	}
	if !found || sess.UserID != claims.UserID || sess.Expired(p.now()) {
		return domain.Session{}, ErrUnauthorized
	}
	sess.Email = claims.Subject
	return sess, nil
}

// SignOut tears the session down; its token stops authenticating.
func (p *Provider) SignOut(ctx context.Context, sess domain.Session) error {
	if err := sess.Check(); err != nil {
		return err
	}
	return p.store.DeleteSession(ctx, sess.ID)
}

func (p *Provider) Profile(ctx context.Context, sess domain.Session) (domain.Profile, bool, error) {
	if err := sess.Check(); err != nil {
		return domain.Profile{}, false, err
	}
	return p.store.ProfileByID(ctx, sess.UserID)
}

type ProfileUpdate struct {
	FullName    string `json:"full_name" validate:"max=120"`
	Phone       string `json:"phone" validate:"omitempty,max=32"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender      string `json:"gender" validate:"omitempty,oneof=male female other prefer_not_to_say"`
}

func (p *Provider) UpdateProfile(ctx context.Context, sess domain.Session, in ProfileUpdate) (domain.Profile, error) {
	if err := sess.Check(); err != nil {
		return domain.Profile{}, err
	}
	in.FullName = strings.TrimSpace(in.FullName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.DateOfBirth = strings.TrimSpace(in.DateOfBirth)
	in.Gender = strings.TrimSpace(in.Gender)
	if err := domain.ValidateStruct("", in); err != nil {
		return domain.Profile{}, err
	}

	profile, found, err := p.store.ProfileByID(ctx, sess.UserID)
	if err != nil {
		return domain.Profile{}, err
	}
	if !found {
		return domain.Profile{}, domain.ErrNotFound
	}
	profile.FullName = in.FullName
	profile.Phone = in.Phone
	profile.DateOfBirth = in.DateOfBirth
	profile.Gender = in.Gender
	profile.UpdatedAt = p.now().UTC()
	if _, err := p.store.UpdateProfile(ctx, profile); err != nil {
		return domain.Profile{}, err
	}
	return profile, nil
}
