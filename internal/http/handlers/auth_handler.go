package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"shopfront/internal/log"
	"shopfront/internal/services"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type registerRequest struct {
	Username string  `json:"username" validate:"required,username"`
	Email    string  `json:"email" validate:"required,email,max=254"`
	Password string  `json:"password" validate:"required,password"`
	FullName *string `json:"fullName" validate:"omitempty,max=100"`
}

type loginRequest struct {
	// Username also accepts the email address.
	Username string `json:"username" validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=64"`
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,password"`
}

// setSID hands out a fresh session id once the session is bound, so a
// pre-login sid is never promoted and a failed attempt leaves it alone.
func setSID(c *fiber.Ctx, sid string) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    sid,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
	})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}
	sid := uuid.NewString()
	u, err := h.Auth.Register(sid, services.Registration{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		log.Security(c, "auth.register.fail", map[string]any{"username": req.Username, "email": req.Email})
		return storeError(c, "auth.register", err)
	}
	setSID(c, sid)
	c.Locals(log.UserIDKey, u.ID)
	log.Audit(c, "auth.register", map[string]any{"username": u.Username})
	return c.Status(fiber.StatusCreated).JSON(u.Public())
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}
	sid := uuid.NewString()
	u, err := h.Auth.Login(sid, req.Username, req.Password)
	if errors.Is(err, services.ErrBadCreds) {
		log.Security(c, "auth.login.fail", map[string]any{"username": req.Username})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid username or password"})
	}
	if err != nil {
		return storeError(c, "auth.login", err)
	}
	setSID(c, sid)
	c.Locals(log.UserIDKey, u.ID)
	log.Audit(c, "auth.login.success", map[string]any{"username": u.Username})
	return c.JSON(u.Public())
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if sid := c.Cookies(sessionCookie); sid != "" {
		if err := h.Auth.Logout(sid); err != nil {
			log.Error(c, "auth.logout.fail", err, nil)
		}
	}
	// Expire cookie
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "auth.logout", nil)
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /api/user
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	u, _ := currentUser(c)
	return c.JSON(u.Public())
}

// POST /api/user/password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	u, _ := currentUser(c)
	var req passwordRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}
	err := h.Auth.ChangePassword(c.Cookies(sessionCookie), u.ID, req.CurrentPassword, req.NewPassword)
	if errors.Is(err, services.ErrBadCreds) {
		log.Security(c, "auth.password.fail", nil)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "current password is incorrect"})
	}
	if err != nil {
		return storeError(c, "auth.password", err)
	}
	log.Audit(c, "auth.password.change", nil)
	return c.SendStatus(fiber.StatusNoContent)
}
