package routes

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mfspay/mfs_backend/internal/account"
	"github.com/mfspay/mfs_backend/internal/middleware"
	"github.com/mfspay/mfs_backend/internal/notification"
)

type accountResponse struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	Name         string    `json:"name"`
	MobileNumber string    `json:"mobile_number"`
	Email        string    `json:"email"`
	Status       string    `json:"status"`
	Balance      int64     `json:"balance"`
	CreatedAt    time.Time `json:"created_at"`
}

func toResponse(acct account.Account) accountResponse {
	return accountResponse{
		ID:           acct.ID,
		Kind:         string(acct.Kind),
		Name:         acct.Name,
		MobileNumber: acct.MobileNumber,
		Email:        acct.Email,
		Status:       string(acct.Status),
		Balance:      acct.Balance,
		CreatedAt:    acct.CreatedAt,
	}
}

// RegisterAccountRoutes wires the public registration endpoint.
func RegisterAccountRoutes(r fiber.Router, accounts *account.Service, notifier notification.Notifier, logger *slog.Logger) {
	r.Post("/:kind/register", func(c *fiber.Ctx) error {
		kind, err := account.ParseKind(c.Params("kind"))
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}

		var req struct {
			Name         string `json:"name"`
			PIN          string `json:"pin"`
			MobileNumber string `json:"mobile_number"`
			Email        string `json:"email"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}

		acct, err := accounts.Register(c.UserContext(), account.RegisterInput{
			Kind:         kind,
			Name:         req.Name,
			PIN:          req.PIN,
			MobileNumber: req.MobileNumber,
			Email:        req.Email,
		})
		if err != nil {
			switch {
			case errors.Is(err, account.ErrValidation):
				return fiber.NewError(http.StatusBadRequest, err.Error())
			case errors.Is(err, account.ErrDuplicateAccount):
				return fiber.NewError(http.StatusBadRequest, account.ErrDuplicateAccount.Error())
			default:
				return err
			}
		}

		if notifier != nil {
			_ = notifier.Send(c.UserContext(), notification.Message{
				Kind:        notification.KindAccountRegistered,
				Destination: acct.MobileNumber,
				Body:        fmt.Sprintf("welcome to MFSPay, %s", acct.Name),
			})
		}
		if logger != nil {
			logger.Info("account registered",
				slog.String("account_id", acct.ID),
				slog.String("kind", string(acct.Kind)),
				slog.Int("status", http.StatusCreated),
			)
		}

		return c.Status(http.StatusCreated).JSON(toResponse(acct))
	})
}

// RegisterProfileRoutes wires endpoints scoped to the authenticated account.
func RegisterProfileRoutes(r fiber.Router, accounts *account.Service) {
	lookup := func(c *fiber.Ctx) (account.Account, error) {
		id, _ := c.Locals(middleware.LocalAccountID).(string)
		kindStr, _ := c.Locals(middleware.LocalAccountKind).(string)
		kind, err := account.ParseKind(kindStr)
		if err != nil || id == "" {
			return account.Account{}, fiber.NewError(http.StatusUnauthorized, "invalid or expired token")
		}
		acct, err := accounts.Get(c.UserContext(), kind, id)
		if err != nil {
			if errors.Is(err, account.ErrNotFound) {
				return account.Account{}, fiber.NewError(http.StatusUnauthorized, "account no longer exists")
			}
			return account.Account{}, err
		}
		return acct, nil
	}

	r.Get("/balance", func(c *fiber.Ctx) error {
		acct, err := lookup(c)
		if err != nil {
			return err
		}
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"id":      acct.ID,
			"kind":    acct.Kind,
			"balance": acct.Balance,
		})
	})

	r.Get("/me", func(c *fiber.Ctx) error {
		acct, err := lookup(c)
		if err != nil {
			return err
		}
		return c.Status(http.StatusOK).JSON(toResponse(acct))
	})
}
