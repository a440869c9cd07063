package mockapi

import (
	"strings"
	"time"

	"codego/internal/models"
	"codego/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type account struct {
	user models.User
	hash []byte
}

type credentialsRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	s.mu.RLock()
	acct := s.accountByEmail(req.Email)
	s.mu.RUnlock()

	if acct == nil || bcrypt.CompareHashAndPassword(acct.hash, []byte(req.Password)) != nil {
		return respondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError("Invalid credentials"))
	}
	return c.JSON(fiber.Map{"user": acct.user.Clone()})
}

// Register handles POST /api/auth/register
func (s *Server) Register(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return badRequest(c, "Username, email, and password are required")
	}
	if err := validation.ValidateUsername(req.Username); err != nil {
		return badRequest(c, err.Error())
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return badRequest(c, err.Error())
	}
	if len(req.Password) < minPasswordLength {
		return badRequest(c, "Password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return respondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.accountByEmail(req.Email) != nil {
		return respondWithError(c, fiber.StatusConflict, models.NewConflictError("Email already registered"))
	}
	for _, a := range s.users {
		if strings.EqualFold(a.user.Username, req.Username) {
			return respondWithError(c, fiber.StatusConflict, models.NewConflictError("Username already taken"))
		}
	}

	acct := s.addAccount(models.User{
		ID:        uuid.NewString(),
		Username:  req.Username,
		Email:     req.Email,
		Followers: []string{},
		Following: []string{},
		CreatedAt: time.Now().UTC(),
	}, hash)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": acct.user.Clone()})
}

// Me handles GET /api/auth/me. The bearer token is the user id.
func (s *Server) Me(c *fiber.Ctx) error {
	token := strings.TrimSpace(strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer "))
	if token == "" {
		return respondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError("Missing authorization header"))
	}

	s.mu.RLock()
	acct, ok := s.users[token]
	s.mu.RUnlock()
	if !ok {
		return respondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError("Invalid session"))
	}
	return c.JSON(acct.user.Clone())
}

// accountByEmail must be called with s.mu held.
func (s *Server) accountByEmail(email string) *account {
	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil
	}
	return s.users[id]
}

// addAccount must be called with s.mu held.
func (s *Server) addAccount(u models.User, hash []byte) *account {
	acct := &account{user: u, hash: hash}
	s.users[u.ID] = acct
	s.byEmail[strings.ToLower(u.Email)] = u.ID
	return acct
}
