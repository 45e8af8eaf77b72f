package routes

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/mfspay/mfs_backend/internal/account"
	"github.com/mfspay/mfs_backend/internal/notification"
)

// RegisterAdminRoutes wires account administration endpoints. The caller is
// expected to mount these behind the admin kind gate.
func RegisterAdminRoutes(r fiber.Router, accounts *account.Service, notifier notification.Notifier) {
	r.Get("/accounts/:kind", func(c *fiber.Ctx) error {
		kind, err := account.ParseKind(c.Params("kind"))
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		accts, err := accounts.List(c.UserContext(), kind)
		if err != nil {
			return err
		}
		out := make([]accountResponse, 0, len(accts))
		for _, acct := range accts {
			out = append(out, toResponse(acct))
		}
		return c.Status(http.StatusOK).JSON(fiber.Map{"accounts": out})
	})

	r.Post("/accounts/:kind/:id/activate", func(c *fiber.Ctx) error {
		kind, err := account.ParseKind(c.Params("kind"))
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		acct, err := accounts.Activate(c.UserContext(), kind, c.Params("id"))
		if err != nil {
			if errors.Is(err, account.ErrNotFound) {
				return fiber.NewError(http.StatusNotFound, account.ErrNotFound.Error())
			}
			return err
		}
		if notifier != nil {
			_ = notifier.Send(c.UserContext(), notification.Message{
				Kind:        notification.KindAccountActivated,
				Destination: acct.MobileNumber,
				Body:        "your account has been activated",
			})
		}
		return c.Status(http.StatusOK).JSON(toResponse(acct))
	})
}
