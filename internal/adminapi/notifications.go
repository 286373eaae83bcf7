package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/storefront/internal/webserver"
)

func registerNotificationRoutes() {
	webserver.ApiGET("/notifications", listNotifications)
	webserver.ApiPUT("/notifications/read-all", markAllNotificationsRead)
	webserver.ApiPUT("/notifications/:id/read", markNotificationRead)
	webserver.ApiDELETE("/notifications", clearNotifications)
}

func listNotifications(c echo.Context) error {
	s := GetStore(c)
	return ok(c, map[string]interface{}{
		"items":  s.Notifications(),
		"unread": s.UnreadNotificationCount(),
	})
}

func markNotificationRead(c echo.Context) error {
	id := c.Param("id")
	if !GetStore(c).MarkNotificationAsRead(id) {
		return fail(c, http.StatusNotFound, "NOTIFICATION_NOT_FOUND", "Notification not found", nil)
	}
	return ok(c, map[string]interface{}{"id": id})
}

func markAllNotificationsRead(c echo.Context) error {
	GetStore(c).MarkAllNotificationsAsRead()
	return c.NoContent(http.StatusNoContent)
}

func clearNotifications(c echo.Context) error {
	GetStore(c).ClearNotifications()
	return c.NoContent(http.StatusNoContent)
}
