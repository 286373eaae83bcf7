package adminapi

import (
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/storefront/internal/domain"
	"github.com/talkincode/storefront/internal/webserver"
)

type productPayload struct {
	Name        domain.LocalizedText `json:"name"`
	Description domain.LocalizedText `json:"description"`
	Price       float64              `json:"price" validate:"gte=0"`
	Images      []string             `json:"images" validate:"omitempty,max=20"`
	Colors      []string             `json:"colors" validate:"omitempty,max=20,dive,max=50"`
	Available   *bool                `json:"available"`
	Category    string               `json:"category" validate:"omitempty,max=100"`
}

type productUpdatePayload struct {
	Price    *float64 `json:"price" validate:"omitempty,gte=0"`
	Images   []string `json:"images" validate:"omitempty,max=20"`
	Colors   []string `json:"colors" validate:"omitempty,max=20,dive,max=50"`
	Category *string  `json:"category" validate:"omitempty,max=100"`
}

// registerProductRoutes registers product CRUD endpoints
func registerProductRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.ApiPOST("/products", createProduct)
	webserver.ApiPUT("/products/:id", updateProduct)
	webserver.ApiDELETE("/products/:id", deleteProduct)
}

func listProducts(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	category := strings.TrimSpace(c.QueryParam("category"))
	available := c.QueryParam("available")

	rows := make([]domain.Product, 0)
	for _, p := range GetStore(c).Products() {
		if category != "" && p.Category != category {
			continue
		}
		if available == "true" && !p.Available {
			continue
		}
		if !matches(q, p.Name.En, p.Name.Ar) {
			continue
		}
		rows = append(rows, p)
	}

	// whitelist sort fields
	switch c.QueryParam("sort") {
	case "price":
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Price < rows[j].Price })
	case "name":
		locale := GetStore(c).Locale()
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Name.Get(locale) < rows[j].Name.Get(locale) })
	}
	if strings.EqualFold(c.QueryParam("order"), "DESC") {
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	}
	return listPaged(c, rows)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	p, found := GetStore(c).Product(id)
	if !found {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, p)
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := bindCreate(c, &payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if payload.Name.IsZero() {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name is required", nil)
	}
	p := domain.Product{
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		Images:      payload.Images,
		Colors:      payload.Colors,
		Available:   payload.Available == nil || *payload.Available,
		Category:    strings.TrimSpace(payload.Category),
	}
	return ok(c, GetStore(c).AddProduct(c.Request().Context(), p))
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload productUpdatePayload
	patch, err := bindPatch(c, &payload)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	p, found := GetStore(c).UpdateProduct(c.Request().Context(), id, patch)
	if !found {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, p)
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	if !GetStore(c).RemoveProduct(id) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, map[string]interface{}{"id": id})
}
