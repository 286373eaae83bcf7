package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/storefront/internal/domain"
	"github.com/talkincode/storefront/internal/webserver"
)

type reviewPayload struct {
	Name   string               `json:"name" validate:"required,min=1,max=100"`
	Rating int                  `json:"rating" validate:"required,min=1,max=5"`
	Text   domain.LocalizedText `json:"text"`
	Avatar string               `json:"avatar" validate:"omitempty,max=2048"`
}

type reviewUpdatePayload struct {
	Name   *string `json:"name" validate:"omitempty,min=1,max=100"`
	Rating *int    `json:"rating" validate:"omitempty,min=1,max=5"`
}

type galleryPayload struct {
	Image string `json:"image" validate:"required"`
	Alt   string `json:"alt" validate:"omitempty,max=200"`
}

func registerReviewRoutes() {
	webserver.ApiGET("/reviews", listReviews)
	webserver.ApiPOST("/reviews", createReview)
	webserver.ApiPUT("/reviews/:id", updateReview)
	webserver.ApiDELETE("/reviews/:id", deleteReview)
}

func registerGalleryRoutes() {
	webserver.ApiGET("/gallery", listGallery)
	webserver.ApiPOST("/gallery", createGalleryImage)
	webserver.ApiPUT("/gallery/:id", updateGalleryImage)
	webserver.ApiDELETE("/gallery/:id", deleteGalleryImage)
}

func listReviews(c echo.Context) error {
	return listPaged(c, GetStore(c).Reviews())
}

func createReview(c echo.Context) error {
	var payload reviewPayload
	if err := bindCreate(c, &payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse review", err.Error())
	}
	return ok(c, GetStore(c).AddReview(domain.Review{
		Name:   strings.TrimSpace(payload.Name),
		Rating: payload.Rating,
		Text:   payload.Text,
		Avatar: payload.Avatar,
	}))
}

func updateReview(c echo.Context) error {
	var payload reviewUpdatePayload
	patch, err := bindPatch(c, &payload)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse review", err.Error())
	}
	r, found := GetStore(c).UpdateReview(c.Param("id"), patch)
	if !found {
		return fail(c, http.StatusNotFound, "REVIEW_NOT_FOUND", "Review not found", nil)
	}
	return ok(c, r)
}

func deleteReview(c echo.Context) error {
	id := c.Param("id")
	if !GetStore(c).RemoveReview(id) {
		return fail(c, http.StatusNotFound, "REVIEW_NOT_FOUND", "Review not found", nil)
	}
	return ok(c, map[string]interface{}{"id": id})
}

func listGallery(c echo.Context) error {
	return listPaged(c, GetStore(c).GalleryImages())
}

func createGalleryImage(c echo.Context) error {
	var payload galleryPayload
	if err := bindCreate(c, &payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse gallery image", err.Error())
	}
	return ok(c, GetStore(c).AddGalleryImage(domain.GalleryImage{Image: payload.Image, Alt: payload.Alt}))
}

func updateGalleryImage(c echo.Context) error {
	patch, err := bindPatch(c, nil)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse gallery image", err.Error())
	}
	img, found := GetStore(c).UpdateGalleryImage(c.Param("id"), patch)
	if !found {
		return fail(c, http.StatusNotFound, "IMAGE_NOT_FOUND", "Gallery image not found", nil)
	}
	return ok(c, img)
}

func deleteGalleryImage(c echo.Context) error {
	id := c.Param("id")
	if !GetStore(c).RemoveGalleryImage(id) {
		return fail(c, http.StatusNotFound, "IMAGE_NOT_FOUND", "Gallery image not found", nil)
	}
	return ok(c, map[string]interface{}{"id": id})
}
