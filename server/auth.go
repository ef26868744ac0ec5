package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/aymane70/taskman/internal/logger"
	"github.com/aymane70/taskman/internal/model"
)

const tokenTTL = 30 * 24 * time.Hour

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authPayload struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

type sessionClaims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// handleRegister creates an account and returns its first session token
func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request")
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "username, email, and password are required")
	}
	if len(req.Password) < 8 {
		return fail(c, http.StatusBadRequest, "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("bcrypt failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	user := userRecord{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.store.CreateUser(c.Request().Context(), user); err != nil {
		if err == errConflict {
			return fail(c, http.StatusBadRequest, "username or email already exists")
		}
		logger.Error("create user failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	token, err := s.signToken(user)
	if err != nil {
		logger.Error("token signing failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	logger.Info("User registered", logger.F("username", user.Username))
	return respond(c, http.StatusCreated, "User registered successfully", authPayload{
		Token: token,
		User:  model.User{ID: user.ID, Username: user.Username, Email: user.Email},
	})
}

// handleLogin exchanges credentials for a session token
func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request")
	}

	user, err := s.store.GetUserByUsername(c.Request().Context(), strings.TrimSpace(req.Username))
	if err != nil {
		return fail(c, http.StatusUnauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return fail(c, http.StatusUnauthorized, "invalid credentials")
	}

	token, err := s.signToken(user)
	if err != nil {
		logger.Error("token signing failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	logger.Info("User logged in", logger.F("username", user.Username))
	return respond(c, http.StatusOK, "Login successful", authPayload{
		Token: token,
		User:  model.User{ID: user.ID, Username: user.Username, Email: user.Email},
	})
}

func (s *Server) signToken(user userRecord) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Username: user.Username,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}
