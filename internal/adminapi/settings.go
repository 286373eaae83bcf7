package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/storefront/internal/domain"
	"github.com/talkincode/storefront/internal/store"
	"github.com/talkincode/storefront/internal/webserver"
)

type storeSettingsPayload struct {
	Email       *string  `json:"email" validate:"omitempty,email"`
	Currency    *string  `json:"currency" validate:"omitempty,len=3"`
	DeliveryFee *float64 `json:"deliveryFee" validate:"omitempty,gte=0"`
}

type adminSettingsPayload struct {
	ItemsPerPage *int    `json:"itemsPerPage" validate:"omitempty,min=1,max=500"`
	Theme        *string `json:"theme" validate:"omitempty,oneof=light dark system"`
}

type localePayload struct {
	Locale string `json:"locale" validate:"required,max=35"`
}

type settingsSection struct {
	get     func(s *store.Store) interface{}
	update  func(s *store.Store, patch store.Patch) interface{}
	payload func() interface{}
}

var settingsSections = map[string]settingsSection{
	"store": {
		get:     func(s *store.Store) interface{} { return s.StoreSettings() },
		update:  func(s *store.Store, p store.Patch) interface{} { return s.UpdateStoreSettings(p) },
		payload: func() interface{} { return &storeSettingsPayload{} },
	},
	"footer": {
		get:    func(s *store.Store) interface{} { return s.FooterSettings() },
		update: func(s *store.Store, p store.Patch) interface{} { return s.UpdateFooterSettings(p) },
	},
	"admin": {
		get:     func(s *store.Store) interface{} { return s.AdminSettings() },
		update:  func(s *store.Store, p store.Patch) interface{} { return s.UpdateAdminSettings(p) },
		payload: func() interface{} { return &adminSettingsPayload{} },
	},
	"sections": {
		get:    func(s *store.Store) interface{} { return s.SectionNames() },
		update: func(s *store.Store, p store.Patch) interface{} { return s.UpdateSectionNames(p) },
	},
	"content": {
		get:    func(s *store.Store) interface{} { return s.ContentSettings() },
		update: func(s *store.Store, p store.Patch) interface{} { return s.UpdateContentSettings(p) },
	},
}

func registerSettingsRoutes() {
	webserver.ApiGET("/settings/translations", getTranslations)
	webserver.ApiPUT("/settings/translations", updateTranslations)
	webserver.ApiGET("/settings/:section", getSettings)
	webserver.ApiPUT("/settings/:section", updateSettings)
	webserver.ApiGET("/locale", getLocale)
	webserver.ApiPUT("/locale", updateLocale)
}

func getSettings(c echo.Context) error {
	section, found := settingsSections[c.Param("section")]
	if !found {
		return fail(c, http.StatusNotFound, "UNKNOWN_SECTION", "Unknown settings section", c.Param("section"))
	}
	return ok(c, section.get(GetStore(c)))
}

func updateSettings(c echo.Context) error {
	section, found := settingsSections[c.Param("section")]
	if !found {
		return fail(c, http.StatusNotFound, "UNKNOWN_SECTION", "Unknown settings section", c.Param("section"))
	}
	var payload interface{}
	if section.payload != nil {
		payload = section.payload()
	}
	patch, err := bindPatch(c, payload)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse settings", err.Error())
	}
	return ok(c, section.update(GetStore(c), patch))
}

func getTranslations(c echo.Context) error {
	return ok(c, GetStore(c).AdminTranslations())
}

func updateTranslations(c echo.Context) error {
	var patch map[string]domain.LocalizedText
	if err := c.Bind(&patch); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse translations", err.Error())
	}
	return ok(c, GetStore(c).UpdateAdminTranslations(patch))
}

func getLocale(c echo.Context) error {
	s := GetStore(c)
	return ok(c, map[string]interface{}{"locale": s.Locale(), "rtl": s.IsRTL()})
}

func updateLocale(c echo.Context) error {
	var payload localePayload
	if err := bindCreate(c, &payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse locale", err.Error())
	}
	s := GetStore(c)
	locale := s.SetLocale(payload.Locale)
	return ok(c, map[string]interface{}{"locale": locale, "rtl": s.IsRTL()})
}
