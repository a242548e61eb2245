package menustore

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Ux1ew1/Kassa-Android/internal/menu"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// --------------------------------------------------
// GET /api/menu
// --------------------------------------------------
func (h *Handler) GetMenu(c *gin.Context) {
	snap, err := h.repo.Load(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("reading menu document failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Не удалось загрузить меню"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"menu":        snap.Items,
		"activeOrder": snap.ActiveOrder,
	})
}

// --------------------------------------------------
// PUT /api/menu
// --------------------------------------------------
func (h *Handler) UpdateMenu(c *gin.Context) {
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil && err != io.EOF {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Некорректный JSON"})
		return
	}

	doc, _ := payload.(map[string]any)
	items, ok := doc["items"].([]any)
	if !ok {
		items, ok = doc["menu"].([]any)
	}
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Меню должно быть массивом"})
		return
	}
	order, _ := doc["activeOrder"].([]any)

	normalized := menu.Normalize(map[string]any{
		"items":       items,
		"activeOrder": order,
	})

	if err := h.repo.Store(c.Request.Context(), normalized); err != nil {
		logrus.WithError(err).Error("storing menu document failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Не удалось обновить меню"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Меню обновлено",
		"menu":        normalized.Items,
		"activeOrder": normalized.ActiveOrder,
	})
}

// --------------------------------------------------
// GET /menu.json — static fallback document
// --------------------------------------------------
func (h *Handler) StaticMenu(c *gin.Context) {
	snap, err := h.repo.Load(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("reading menu document failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Не удалось загрузить меню"})
		return
	}

	c.JSON(http.StatusOK, snap)
}
