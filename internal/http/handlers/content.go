package handlers

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/investplatform/admin-backend/internal/http/response"
	"github.com/investplatform/admin-backend/internal/listquery"
	"github.com/investplatform/admin-backend/internal/models"
)

type ContentRepository interface {
	ListQuestions(ctx context.Context, q listquery.Params) ([]models.Question, int64, error)
	GetQuestion(ctx context.Context, id string) (*models.Question, error)
	CreateQuestion(ctx context.Context, question *models.Question) error
	UpdateQuestion(ctx context.Context, question *models.Question) error
	DeleteQuestion(ctx context.Context, id string) error
	ListNews(ctx context.Context, q listquery.Params) ([]models.News, int64, error)
	GetNews(ctx context.Context, id string) (*models.News, error)
	CreateNews(ctx context.Context, item *models.News) error
	UpdateNews(ctx context.Context, item *models.News) error
	DeleteNews(ctx context.Context, id string) error
}

// ContentHandler serves the published content: FAQ entries and news.
type ContentHandler struct {
	repo   ContentRepository
	logger *slog.Logger
}

func NewContentHandler(repo ContentRepository, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{repo: repo, logger: logger}
}

// FAQ.

func (h *ContentHandler) ListQuestions(c *gin.Context) {
	q, err := listquery.Parse(c, listquery.Options{
		TextFields: []string{"title", "answer"},
	})
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	items, count, err := h.repo.ListQuestions(c.Request.Context(), q)
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.Pagination(c, count, items)
}

func (h *ContentHandler) GetQuestion(c *gin.Context) {
	question, err := h.repo.GetQuestion(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Err(c, h.logger, notFoundIfMissing(err))
		return
	}
	response.OK(c, question)
}

type questionRequest struct {
	Title    string `json:"title" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
	Position int    `json:"position"`
}

func (h *ContentHandler) CreateQuestion(c *gin.Context) {
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErr(c, err.Error())
		return
	}
	question := &models.Question{Title: req.Title, Answer: req.Answer, Position: req.Position}
	if err := h.repo.CreateQuestion(c.Request.Context(), question); err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, question)
}

func (h *ContentHandler) UpdateQuestion(c *gin.Context) {
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErr(c, err.Error())
		return
	}
	question, err := h.repo.GetQuestion(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Err(c, h.logger, notFoundIfMissing(err))
		return
	}
	question.Title = req.Title
	question.Answer = req.Answer
	question.Position = req.Position
	if err := h.repo.UpdateQuestion(c.Request.Context(), question); err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, question)
}

func (h *ContentHandler) DeleteQuestion(c *gin.Context) {
	if err := h.repo.DeleteQuestion(c.Request.Context(), c.Param("id")); err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.Empty(c)
}

// News.

func (h *ContentHandler) ListNews(c *gin.Context) {
	q, err := listquery.Parse(c, listquery.Options{
		TextFields: []string{"title", "body"},
		DateField:  "createdAt",
	})
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	items, count, err := h.repo.ListNews(c.Request.Context(), q)
	if err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.Pagination(c, count, items)
}

func (h *ContentHandler) GetNews(c *gin.Context) {
	item, err := h.repo.GetNews(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Err(c, h.logger, notFoundIfMissing(err))
		return
	}
	response.OK(c, item)
}

type newsRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
}

func (h *ContentHandler) CreateNews(c *gin.Context) {
	var req newsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErr(c, err.Error())
		return
	}
	item := &models.News{Title: req.Title, Body: req.Body}
	if err := h.repo.CreateNews(c.Request.Context(), item); err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, item)
}

func (h *ContentHandler) UpdateNews(c *gin.Context) {
	var req newsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationErr(c, err.Error())
		return
	}
	item, err := h.repo.GetNews(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Err(c, h.logger, notFoundIfMissing(err))
		return
	}
	item.Title = req.Title
	item.Body = req.Body
	if err := h.repo.UpdateNews(c.Request.Context(), item); err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.OK(c, item)
}

func (h *ContentHandler) DeleteNews(c *gin.Context) {
	if err := h.repo.DeleteNews(c.Request.Context(), c.Param("id")); err != nil {
		response.Err(c, h.logger, err)
		return
	}
	response.Empty(c)
}
