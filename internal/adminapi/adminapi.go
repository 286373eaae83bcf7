// Package adminapi exposes the content store as a REST API for the admin
// panel and the storefront forms.
package adminapi

import (
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/storefront/internal/app"
	"github.com/talkincode/storefront/internal/store"
	"github.com/talkincode/storefront/internal/webserver"
)

var initOnce sync.Once

// Init registers every admin route. Call it before
// webserver.NewAdminServer.
func Init() {
	initOnce.Do(func() {
		registerProductRoutes()
		registerCategoryRoutes()
		registerReviewRoutes()
		registerGalleryRoutes()
		registerMessageRoutes()
		registerNotificationRoutes()
		registerQuizRoutes()
		registerResultRoutes()
		registerSettingsRoutes()
		registerSystemRoutes()
	})
}

// GetStore returns the store bound to the request.
func GetStore(c echo.Context) *store.Store {
	return store.MustFromContext(c.Request().Context())
}

func GetAppContext(c echo.Context) app.AppContext {
	return c.Get(webserver.AppContextKey).(app.AppContext)
}
