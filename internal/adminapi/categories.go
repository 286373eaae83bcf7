package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/storefront/internal/domain"
	"github.com/talkincode/storefront/internal/webserver"
)

type categoryPayload struct {
	Name        domain.LocalizedText `json:"name"`
	Description domain.LocalizedText `json:"description"`
}

// registerCategoryRoutes registers category CRUD routes
func registerCategoryRoutes() {
	webserver.ApiGET("/categories", listCategories)
	webserver.ApiGET("/categories/:id", getCategory)
	webserver.ApiPOST("/categories", createCategory)
	webserver.ApiPUT("/categories/:id", updateCategory)
	webserver.ApiDELETE("/categories/:id", deleteCategory)
}

func listCategories(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	rows := make([]domain.Category, 0)
	for _, cat := range GetStore(c).Categories() {
		if matches(q, cat.ID, cat.Name.En, cat.Name.Ar) {
			rows = append(rows, cat)
		}
	}
	return listPaged(c, rows)
}

func getCategory(c echo.Context) error {
	cat, found := GetStore(c).Category(c.Param("id"))
	if !found {
		return fail(c, http.StatusNotFound, "CATEGORY_NOT_FOUND", "Category not found", nil)
	}
	return ok(c, cat)
}

func createCategory(c echo.Context) error {
	var payload categoryPayload
	if err := bindCreate(c, &payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", err.Error())
	}
	if payload.Name.IsZero() {
		return fail(c, http.StatusBadRequest, "MISSING_NAME", "Category name is required", nil)
	}
	return ok(c, GetStore(c).AddCategory(domain.Category{
		Name:        payload.Name,
		Description: payload.Description,
	}))
}

func updateCategory(c echo.Context) error {
	patch, err := bindPatch(c, nil)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", err.Error())
	}
	cat, found := GetStore(c).UpdateCategory(c.Param("id"), patch)
	if !found {
		return fail(c, http.StatusNotFound, "CATEGORY_NOT_FOUND", "Category not found", nil)
	}
	return ok(c, cat)
}

func deleteCategory(c echo.Context) error {
	id := c.Param("id")
	if !GetStore(c).RemoveCategory(id) {
		return fail(c, http.StatusNotFound, "CATEGORY_NOT_FOUND", "Category not found", nil)
	}
	return ok(c, map[string]interface{}{"id": id})
}
