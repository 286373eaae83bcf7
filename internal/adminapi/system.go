package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"

	"github.com/talkincode/storefront/internal/app"
	"github.com/talkincode/storefront/internal/webserver"
	"github.com/talkincode/storefront/pkg/metrics"
)

func registerSystemRoutes() {
	webserver.ApiGET("/system/metrics/:name", queryMetric)
	webserver.ApiPOST("/system/backup", runBackup)
}

// queryMetric returns stored samples. start and end accept any common
// date format and default to the last 24 hours.
func queryMetric(c echo.Context) error {
	end := time.Now()
	start := end.Add(-24 * time.Hour)
	if v := strings.TrimSpace(c.QueryParam("start")); v != "" {
		t, err := dateparse.ParseAny(v)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_TIME", "Invalid start time", err.Error())
		}
		start = t
	}
	if v := strings.TrimSpace(c.QueryParam("end")); v != "" {
		t, err := dateparse.ParseAny(v)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_TIME", "Invalid end time", err.Error())
		}
		end = t
	}
	points, err := metrics.Query(c.Param("name"), start.Unix(), end.Unix()+1)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "METRICS_ERROR", "Failed to query metrics", err.Error())
	}
	return ok(c, points)
}

func runBackup(c echo.Context) error {
	file, err := GetAppContext(c).Backup()
	if errors.Is(err, app.ErrBackupUnsupported) {
		return fail(c, http.StatusConflict, "BACKUP_UNSUPPORTED", err.Error(), nil)
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "BACKUP_FAILED", "Failed to write backup", err.Error())
	}
	return ok(c, map[string]interface{}{"file": file})
}
