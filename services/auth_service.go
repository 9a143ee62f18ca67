package services

import (
	"fmt"
	"log/slog"
	"room-relay/auth"
	"room-relay/errors"
	"room-relay/repositories"
)

type IAuthService interface {
	Login(username, password string) (Token, error)
	Register(username, password string) (Token, error)
}

type AuthService struct {
	log            *slog.Logger
	userRepository repositories.IUserRepository
	tokens         *auth.TokenManager
}

type Token string

func (t Token) String() string {
	return string(t)
}

func NewAuthService(log *slog.Logger, repo repositories.IUserRepository, tokens *auth.TokenManager) IAuthService {
	return &AuthService{log: log, userRepository: repo, tokens: tokens}
}

// Register validates the request before any expensive hashing, then persists
// the account and returns its first token.
func (s *AuthService) Register(username, password string) (Token, error) {
	if err := auth.ValidateRegister(auth.RegisterRequest{Username: username, Password: password}); err != nil {
		return "", err
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hashing failed: %w", err)
	}

	if _, err = s.userRepository.Create(username, hashedPassword); err != nil {
		return "", err
	}
	s.log.Info("User registered", "username", username)

	token, err := s.tokens.GenerateToken(username)
	if err != nil {
		return "", fmt.Errorf("token generation failed: %w", err)
	}
	return Token(token), nil
}

// Login never tells an unknown user from a wrong password.
func (s *AuthService) Login(username, password string) (Token, error) {
	user, err := s.userRepository.Get(username)
	if err != nil {
		return "", errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", errors.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.Username)
	if err != nil {
		return "", fmt.Errorf("token generation failed: %w", err)
	}
	return Token(token), nil
}
