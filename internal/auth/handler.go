package auth

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/mfspay/mfs_backend/internal/account"
)

// Handler exposes the login endpoint.
type Handler struct {
	accounts *account.Service
	tokens   *Service
}

// NewHandler builds the auth HTTP handler.
func NewHandler(accounts *account.Service, tokens *Service) *Handler {
	return &Handler{accounts: accounts, tokens: tokens}
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	PIN        string `json:"pin"`
}

// Login verifies an identifier/PIN pair for the kind in the route and returns
// a session token. Credential failures are reported with one merged message.
func (h *Handler) Login(c *fiber.Ctx) error {
	kind, err := account.ParseKind(c.Params("kind"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.Identifier == "" || req.PIN == "" {
		return fiber.NewError(http.StatusBadRequest, "identifier and pin are required")
	}

	acct, err := h.accounts.Authenticate(c.UserContext(), kind, req.Identifier, req.PIN)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrInvalidCredentials):
			return fiber.NewError(http.StatusBadRequest, account.ErrInvalidCredentials.Error())
		case errors.Is(err, account.ErrPendingApproval):
			return fiber.NewError(http.StatusBadRequest, account.ErrPendingApproval.Error())
		default:
			return err
		}
	}

	session, err := h.tokens.Issue(acct)
	if err != nil {
		return err
	}

	return c.Status(http.StatusOK).JSON(session)
}
