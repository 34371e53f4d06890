package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"strings"

	"github.com/iliyamo/homie-rental/internal/model"
	"github.com/iliyamo/homie-rental/internal/repository"
	"github.com/iliyamo/homie-rental/internal/utils"
)

// AccountService registers users and issues session tokens.
type AccountService struct {
	users      UserStore
	files      FileStore
	jwtSecret  string
	bcryptCost int
}

func NewAccountService(users UserStore, files FileStore, jwtSecret string, bcryptCost int) *AccountService {
	if users == nil || files == nil {
		panic("service.NewAccountService: nil dependency")
	}
	return &AccountService{users: users, files: files, jwtSecret: jwtSecret, bcryptCost: bcryptCost}
}

type RegisterInput struct {
	FirstName    string
	LastName     string
	Email        string
	Password     string
	ProfileImage *multipart.FileHeader
}

// Register creates a user with a bcrypt-hashed password and a stored
// profile image.  Errors: ErrNoImage, ErrUserExists, *ValidationError.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if in.ProfileImage == nil {
		return nil, ErrNoImage
	}

	_, err := s.users.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, ErrUserExists
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	path, err := s.files.Save(in.ProfileImage)
	if err != nil {
		return nil, err
	}

	u := model.NewUser(in.FirstName, in.LastName, in.Email, hash, path)
	if err := s.users.Create(ctx, u); err != nil {
		discard(s.files, path)
		// lost a race with a concurrent registration
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	log.Printf("account: new user added email=%s", u.Email)
	return u, nil
}

func (in RegisterInput) validate() error {
	for _, r := range []struct{ name, value string }{
		{"firstName", in.FirstName},
		{"lastName", in.LastName},
		{"email", in.Email},
		{"password", in.Password},
	} {
		if strings.TrimSpace(r.value) == "" {
			return invalid(r.name, "is required")
		}
	}
	return nil
}

// LoginResult is the body returned on successful login.
type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Login checks credentials and returns a session token whose id claim is
// the user id.  Errors: ErrUserNotFound, ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if !utils.VerifyPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	tok, err := utils.NewSessionToken(s.jwtSecret, u.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &LoginResult{Token: tok, User: u}, nil
}
