package adminapi

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/storefront/internal/domain"
	"github.com/talkincode/storefront/internal/webserver"
)

type messagePayload struct {
	Name    string `json:"name" validate:"required,min=1,max=100"`
	Contact string `json:"contact" validate:"required,min=3,max=200"`
	Message string `json:"message" validate:"required,min=1,max=5000"`
}

type messageStatusPayload struct {
	Status string `json:"status" validate:"required,oneof=new read replied"`
}

func registerMessageRoutes() {
	webserver.ApiGET("/messages", listMessages)
	webserver.ApiGET("/messages/export", exportMessages)
	webserver.ApiGET("/messages/:id", getMessage)
	webserver.ApiPOST("/messages", createMessage)
	webserver.ApiPUT("/messages/:id/status", updateMessageStatus)
	webserver.ApiDELETE("/messages/:id", deleteMessage)
}

func listMessages(c echo.Context) error {
	status := strings.TrimSpace(c.QueryParam("status"))
	q := strings.TrimSpace(c.QueryParam("q"))
	rows := make([]domain.ContactMessage, 0)
	for _, m := range GetStore(c).ContactMessages() {
		if status != "" && m.Status != status {
			continue
		}
		if !matches(q, m.Name, m.Contact, m.Message) {
			continue
		}
		rows = append(rows, m)
	}
	return listPaged(c, rows)
}

func getMessage(c echo.Context) error {
	m, found := GetStore(c).ContactMessage(c.Param("id"))
	if !found {
		return fail(c, http.StatusNotFound, "MESSAGE_NOT_FOUND", "Message not found", nil)
	}
	return ok(c, m)
}

// createMessage is the storefront contact form.
func createMessage(c echo.Context) error {
	var payload messagePayload
	if err := bindCreate(c, &payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse message", err.Error())
	}
	return ok(c, GetStore(c).AddContactMessage(domain.ContactMessage{
		Name:    strings.TrimSpace(payload.Name),
		Contact: strings.TrimSpace(payload.Contact),
		Message: payload.Message,
	}))
}

func updateMessageStatus(c echo.Context) error {
	var payload messageStatusPayload
	if err := bindCreate(c, &payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_STATUS", "Status must be new, read or replied", err.Error())
	}
	id := c.Param("id")
	if !GetStore(c).SetContactMessageStatus(id, payload.Status) {
		return fail(c, http.StatusNotFound, "MESSAGE_NOT_FOUND", "Message not found", nil)
	}
	m, _ := GetStore(c).ContactMessage(id)
	return ok(c, m)
}

func deleteMessage(c echo.Context) error {
	id := c.Param("id")
	if !GetStore(c).RemoveContactMessage(id) {
		return fail(c, http.StatusNotFound, "MESSAGE_NOT_FOUND", "Message not found", nil)
	}
	return ok(c, map[string]interface{}{"id": id})
}

func exportMessages(c echo.Context) error {
	var buf bytes.Buffer
	if err := GetAppContext(c).ExportContactMessages(&buf); err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_FAILED", "Failed to export messages", err.Error())
	}
	return sendCSV(c, "messages", buf.Bytes())
}

func sendCSV(c echo.Context, name string, data []byte) error {
	filename := fmt.Sprintf("%s-%s.csv", name, time.Now().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", data)
}
