package ws

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// Handler attaches each upgraded dashboard connection to hub until it disconnects
func Handler(hub *Hub) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		client := newClient(hub, c)

		if !hub.Register(client) {
			_ = c.Close()
			return
		}
		hub.logger.Debug("dashboard connected", slog.String("client_id", client.id.String()))

		go client.WritePump()
		client.ReadPump()

		hub.logger.Debug("dashboard disconnected", slog.String("client_id", client.id.String()))
	})
}

// UpgradeMiddleware rejects plain HTTP requests to the websocket route with 426
func UpgradeMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	}
}
