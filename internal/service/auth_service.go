package service

import (
	"context"
	"fmt"
	"strings"

	"calmpath/internal/logging"
	"calmpath/internal/models"
	"calmpath/internal/repository"
	"calmpath/internal/security"
	"calmpath/internal/validation"
)

// AuthService handles caregiver accounts and bearer tokens
type AuthService struct {
	caregivers repository.CaregiverRepository
	tokens     *security.TokenIssuer
	email      *EmailService
}

// NewAuthService creates a new auth service. email may be nil.
func NewAuthService(caregivers repository.CaregiverRepository, tokens *security.TokenIssuer, email *EmailService) *AuthService {
	return &AuthService{
		caregivers: caregivers,
		tokens:     tokens,
		email:      email,
	}
}

// Register creates a new caregiver account
func (s *AuthService) Register(ctx context.Context, username, email, password, name string) (*models.Caregiver, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	if err := validation.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}

	existing, err := s.caregivers.GetByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing username: %w", err)
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	existing, err = s.caregivers.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	caregiver, err := s.caregivers.Create(username, email, name, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create caregiver: %w", err)
	}

	if s.email != nil {
		// Registration succeeds even if the welcome mail does not.
		if err := s.email.SendWelcomeEmail(ctx, caregiver.Email, caregiver.Name); err != nil {
			logging.Warn().Err(err).Int64("caregiver_id", caregiver.ID).Msg("failed to send welcome email")
		}
	}

	logging.Info().Int64("caregiver_id", caregiver.ID).Str("username", caregiver.Username).Msg("caregiver registered")
	return caregiver, nil
}

// Login checks credentials and issues a bearer token. identifier may be
// either the username or the email address.
func (s *AuthService) Login(identifier, password string) (*models.AuthToken, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var caregiver *models.Caregiver
	var err error
	if strings.Contains(identifier, "@") {
		caregiver, err = s.caregivers.GetByEmail(strings.ToLower(identifier))
	} else {
		caregiver, err = s.caregivers.GetByUsername(identifier)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get caregiver: %w", err)
	}
	if caregiver == nil || !security.CheckPassword(password, caregiver.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(caregiver.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &models.AuthToken{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		Caregiver:   caregiver,
	}, nil
}

// Authenticate resolves a bearer token to its caregiver
func (s *AuthService) Authenticate(token string) (*models.Caregiver, error) {
	id, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	caregiver, err := s.caregivers.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get caregiver: %w", err)
	}
	if caregiver == nil {
		return nil, security.ErrInvalidToken
	}
	return caregiver, nil
}

// Me returns the caregiver for id
func (s *AuthService) Me(id int64) (*models.Caregiver, error) {
	caregiver, err := s.caregivers.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get caregiver: %w", err)
	}
	if caregiver == nil {
		return nil, ErrCaregiverNotFound
	}
	return caregiver, nil
}
