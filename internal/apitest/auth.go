package apitest

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/hotelops/hms-console/internal/core/domain"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) register(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil || blank(req.Username, req.Password) {
		return errorJSON(c, http.StatusBadRequest, "Username and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.accountByName(req.Username) != nil {
		return errorJSON(c, http.StatusBadRequest, "Username already exists")
	}
	s.nextID++
	s.accounts = append(s.accounts, &account{id: s.nextID, name: req.Username, hash: hash, role: domain.RoleUser})
	return c.JSON(http.StatusCreated, map[string]string{"message": "User registered successfully"})
}

func (s *Server) login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil || blank(req.Username, req.Password) {
		return errorJSON(c, http.StatusBadRequest, "Username and password are required")
	}

	s.mu.Lock()
	acct := s.accountByName(req.Username)
	s.mu.Unlock()

	if acct == nil || bcrypt.CompareHashAndPassword(acct.hash, []byte(req.Password)) != nil {
		return errorJSON(c, http.StatusUnauthorized, "Invalid username or password")
	}

	token, err := signToken(s.secret, acct.name, 24*time.Hour)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Login successful", "token": token})
}

// accountByName must be called with s.mu held.
func (s *Server) accountByName(name string) *account {
	for _, a := range s.accounts {
		if a.name == name {
			return a
		}
	}
	return nil
}

func signToken(secret, username string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user": username,
		"exp":  time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// tokenRequired checks the raw token in the Authorization header. The hotel API
// takes the token verbatim, without a scheme prefix.
func tokenRequired(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get("Authorization")
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Token is missing!"})
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !tkn.Valid {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Token is invalid!"})
			}

			c.Set("user", claims["user"])
			return next(c)
		}
	}
}
