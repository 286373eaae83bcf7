package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/storefront/internal/domain"
	"github.com/talkincode/storefront/internal/webserver"
)

// quizPayload represents the quiz request structure
type quizPayload struct {
	Title       domain.LocalizedText  `json:"title"`
	Description domain.LocalizedText  `json:"description"`
	Questions   []domain.QuizQuestion `json:"questions" validate:"omitempty,max=100"`
	IsActive    bool                  `json:"isActive"`
}

// quizUpdatePayload relaxes validation rules for partial updates
type quizUpdatePayload struct {
	Questions []domain.QuizQuestion `json:"questions" validate:"omitempty,max=100"`
}

// registerQuizRoutes registers quiz API routes
func registerQuizRoutes() {
	webserver.ApiGET("/quizzes", listQuizzes)
	webserver.ApiGET("/quizzes/active", getActiveQuiz)
	webserver.ApiGET("/quizzes/:id", getQuiz)
	webserver.ApiPOST("/quizzes", createQuiz)
	webserver.ApiPUT("/quizzes/:id", updateQuiz)
	webserver.ApiDELETE("/quizzes/:id", deleteQuiz)
	webserver.ApiPOST("/quizzes/:id/activate", activateQuiz)
	webserver.ApiPOST("/quizzes/:id/deactivate", deactivateQuiz)
}

func listQuizzes(c echo.Context) error {
	return listPaged(c, GetStore(c).Quizzes())
}

func getQuiz(c echo.Context) error {
	q, found := GetStore(c).Quiz(c.Param("id"))
	if !found {
		return fail(c, http.StatusNotFound, "QUIZ_NOT_FOUND", "Quiz not found", nil)
	}
	return ok(c, q)
}

// getActiveQuiz serves the quiz shown on the storefront
func getActiveQuiz(c echo.Context) error {
	q, found := GetStore(c).ActiveQuiz()
	if !found {
		return fail(c, http.StatusNotFound, "NO_ACTIVE_QUIZ", "No quiz is active", nil)
	}
	return ok(c, q)
}

func validQuestions(questions []domain.QuizQuestion) bool {
	for _, q := range questions {
		if q.Question.IsZero() || q.CorrectAnswer.IsZero() {
			return false
		}
	}
	return true
}

func createQuiz(c echo.Context) error {
	var payload quizPayload
	if err := bindCreate(c, &payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse quiz", err.Error())
	}
	if payload.Title.IsZero() {
		return fail(c, http.StatusBadRequest, "MISSING_TITLE", "Quiz title is required", nil)
	}
	if !validQuestions(payload.Questions) {
		return fail(c, http.StatusBadRequest, "INVALID_QUESTION", "Every question needs a question and a correct answer", nil)
	}
	return ok(c, GetStore(c).AddQuiz(domain.Quiz{
		Title:       payload.Title,
		Description: payload.Description,
		Questions:   payload.Questions,
		IsActive:    payload.IsActive,
	}))
}

func updateQuiz(c echo.Context) error {
	var payload quizUpdatePayload
	patch, err := bindPatch(c, &payload)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse quiz", err.Error())
	}
	if !validQuestions(payload.Questions) {
		return fail(c, http.StatusBadRequest, "INVALID_QUESTION", "Every question needs a question and a correct answer", nil)
	}
	q, found := GetStore(c).UpdateQuiz(c.Param("id"), patch)
	if !found {
		return fail(c, http.StatusNotFound, "QUIZ_NOT_FOUND", "Quiz not found", nil)
	}
	return ok(c, q)
}

func deleteQuiz(c echo.Context) error {
	id := c.Param("id")
	if !GetStore(c).RemoveQuiz(id) {
		return fail(c, http.StatusNotFound, "QUIZ_NOT_FOUND", "Quiz not found", nil)
	}
	return ok(c, map[string]interface{}{"id": id})
}

func activateQuiz(c echo.Context) error {
	id := c.Param("id")
	if !GetStore(c).ActivateQuiz(id) {
		return fail(c, http.StatusNotFound, "QUIZ_NOT_FOUND", "Quiz not found", nil)
	}
	q, _ := GetStore(c).Quiz(id)
	return ok(c, q)
}

func deactivateQuiz(c echo.Context) error {
	id := c.Param("id")
	if !GetStore(c).DeactivateQuiz(id) {
		return fail(c, http.StatusNotFound, "QUIZ_NOT_FOUND", "Quiz not found", nil)
	}
	q, _ := GetStore(c).Quiz(id)
	return ok(c, q)
}
