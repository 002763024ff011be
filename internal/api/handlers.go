package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Shalom-302/scraapbackend/internal/domain"
	"github.com/Shalom-302/scraapbackend/internal/ports"
)

const minQueryLength = 3

// Handler exposes the veille pipeline over HTTP: trigger a run, list
// analyzed articles, toggle publication.
type Handler struct {
	queue    ports.RunQueue
	repo     ports.ArticleRepository
	notifier ports.Notifier
	logger   *slog.Logger
}

// NewHandler wires the driven adapters the routes need. notifier may be nil.
func NewHandler(queue ports.RunQueue, repo ports.ArticleRepository, notifier ports.Notifier, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{queue: queue, repo: repo, notifier: notifier, logger: logger}
}

// Register mounts the veille routes on the router.
func (h *Handler) Register(router gin.IRouter) {
	v1 := router.Group("/api/v1/veille")
	v1.POST("/run", h.runVeille)
	v1.GET("/articles", h.listArticles)
	v1.POST("/articles/:id/publish", h.publishArticle)
}

// runVeille enqueues a background run and answers immediately.
func (h *Handler) runVeille(c *gin.Context) {
	query := c.Query("query")
	if len(query) < minQueryLength {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"detail": "le paramètre query doit contenir au moins 3 caractères",
		})
		return
	}

	req := domain.RunRequest{ID: uuid.NewString(), Query: query}
	if err := h.queue.Submit(c.Request.Context(), req); err != nil {
		h.logger.Error("run submit failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"detail": "le service de tâches de fond est indisponible",
		})
		return
	}

	h.logger.Info("veille run submitted", "run_id", req.ID, "query", query)
	c.JSON(http.StatusAccepted, gin.H{
		"message": "Tâche de veille lancée en arrière-plan. Les résultats seront disponibles via /articles.",
		"run_id":  req.ID,
	})
}

// listArticles returns analyzed articles, most relevant first.
func (h *Handler) listArticles(c *gin.Context) {
	var filter domain.ArticleFilter

	if raw := c.Query("published"); raw != "" {
		published, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "published doit être un booléen"})
			return
		}
		filter.Published = &published
	}

	if raw := c.Query("score_min"); raw != "" {
		scoreMin, err := strconv.Atoi(raw)
		if err != nil || scoreMin < 1 || scoreMin > 10 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "score_min doit être un entier entre 1 et 10"})
			return
		}
		filter.ScoreMin = &scoreMin
	}

	articles, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("list articles failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "erreur interne"})
		return
	}
	if articles == nil {
		articles = []domain.Article{}
	}

	c.JSON(http.StatusOK, articles)
}

type publishStatusUpdate struct {
	Published *bool `json:"published" binding:"required"`
}

// publishArticle toggles the publication flag and, on publication, fires the
// optional downstream notification out of band.
func (h *Handler) publishArticle(c *gin.Context) {
	var status publishStatusUpdate
	if err := c.ShouldBindJSON(&status); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "le corps doit contenir published (booléen)"})
		return
	}

	article, err := h.repo.SetPublished(c.Request.Context(), c.Param("id"), *status.Published)
	if errors.Is(err, domain.ErrArticleNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Article non trouvé."})
		return
	}
	if err != nil {
		h.logger.Error("set published failed", "id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "erreur interne"})
		return
	}

	if *status.Published && h.notifier != nil {
		go h.notifyPublished(article)
	}

	c.JSON(http.StatusOK, article)
}

func (h *Handler) notifyPublished(article domain.Article) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := h.notifier.PublishArticle(ctx, article); err != nil {
		h.logger.Warn("publish notification failed", "id", article.ID, "error", err)
	}
}
