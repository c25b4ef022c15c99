package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"trivia-service/internal/app"
	"trivia-service/internal/auth"
	"trivia-service/internal/domain"
)

type Handler struct {
	service *app.TriviaService
	issuer  *auth.Issuer
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
}

type answerRequest struct {
	QuestionID int    `json:"question_id"`
	UserAnswer string `json:"user_answer"`
}

// Login mints a fresh session and returns its credential. No body required.
func (h *Handler) Login(c *gin.Context) {
	_, token, err := h.issuer.Issue(c.Request.Context())
	if err != nil {
		log.Printf("login failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, loginResponse{AccessToken: token})
}

// RandomQuestion serves one question outside the exclude set. The exclude
// query param repeats for each excluded ID.
func (h *Handler) RandomQuestion(c *gin.Context) {
	var exclude []int
	for _, raw := range c.QueryArray("exclude") {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "exclude must be numeric"})
			return
		}
		exclude = append(exclude, id)
	}

	question, err := h.service.RandomQuestion(c.Request.Context(), exclude)
	if err != nil {
		if errors.Is(err, domain.ErrNoQuestions) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No questions available"})
			return
		}
		log.Printf("random question failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, question)
}

// SubmitAnswer records the asked question for the session and judges the
// submitted answer text.
func (h *Handler) SubmitAnswer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.service.SubmitAnswer(c.Request.Context(), sessionFrom(c), req.QuestionID, req.UserAnswer)
	if err != nil {
		if errors.Is(err, domain.ErrQuestionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
			return
		}
		log.Printf("submit answer failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// UserMetrics returns the aggregated per-session activity. Admin only.
func (h *Handler) UserMetrics(c *gin.Context) {
	metrics, err := h.service.UserMetrics(c.Request.Context())
	if err != nil {
		log.Printf("user metrics failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, metrics)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
