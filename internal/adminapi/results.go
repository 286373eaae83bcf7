package adminapi

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/storefront/internal/domain"
	"github.com/talkincode/storefront/internal/webserver"
)

type resultPayload struct {
	QuizID string `json:"quizId" validate:"omitempty,max=64"`
	Score  int    `json:"score" validate:"gte=0,ltefield=Total"`
	Total  int    `json:"total" validate:"gte=0"`
}

func registerResultRoutes() {
	webserver.ApiGET("/quiz-results", listResults)
	webserver.ApiGET("/quiz-results/stats", resultStats)
	webserver.ApiGET("/quiz-results/export", exportResults)
	webserver.ApiPOST("/quiz-results", createResult)
}

func listResults(c echo.Context) error {
	quizID := strings.TrimSpace(c.QueryParam("quizId"))
	rows := make([]domain.QuizResult, 0)
	for _, r := range GetStore(c).QuizResults() {
		if quizID == "" || r.QuizID == quizID {
			rows = append(rows, r)
		}
	}
	return listPaged(c, rows)
}

// createResult records a finished storefront quiz
func createResult(c echo.Context) error {
	var payload resultPayload
	if err := bindCreate(c, &payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse quiz result", err.Error())
	}
	return ok(c, GetStore(c).AddQuizResult(domain.QuizResult{
		QuizID: payload.QuizID,
		Score:  payload.Score,
		Total:  payload.Total,
	}))
}

func resultStats(c echo.Context) error {
	return ok(c, GetStore(c).QuizResultStats(strings.TrimSpace(c.QueryParam("quizId"))))
}

func exportResults(c echo.Context) error {
	var buf bytes.Buffer
	if err := GetAppContext(c).ExportQuizResults(&buf); err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_FAILED", "Failed to export quiz results", err.Error())
	}
	return sendCSV(c, "quiz-results", buf.Bytes())
}
