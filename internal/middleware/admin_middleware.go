package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// AdminRequired gates catalog mutations behind the single shared admin
// identity. It is a separate, coarser credential than user accounts: the
// admin presents X-Admin-Username and X-Admin-Password headers matching
// the configured values.
func AdminRequired(adminUsername, adminPassword string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username := c.Get("X-Admin-Username")
		password := c.Get("X-Admin-Password")

		userOK := subtle.ConstantTimeCompare([]byte(username), []byte(adminUsername)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(password), []byte(adminPassword)) == 1
		if !userOK || !passOK {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid admin credentials",
			})
		}
		return c.Next()
	}
}
