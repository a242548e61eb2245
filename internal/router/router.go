package router

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Ux1ew1/Kassa-Android/internal/menustore"
	"github.com/Ux1ew1/Kassa-Android/internal/middleware"
)

// New builds the register's HTTP surface: the menu API, the static fallback
// document, and the built frontend (when distDir exists).
func New(menuHandler *menustore.Handler, distDir string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID())

	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "PUT", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	// Health check route
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/menu", menuHandler.GetMenu)
		api.PUT("/menu", menuHandler.UpdateMenu)
	}

	r.GET("/menu.json", menuHandler.StaticMenu)

	if distDir != "" {
		r.NoRoute(spaHandler(distDir))
	}

	return r
}

// spaHandler serves the built frontend and falls back to index.html for
// client-side routes.
func spaHandler(distDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.JSON(http.StatusNotFound, gin.H{"message": "Не найдено"})
			return
		}

		clean := path.Clean("/" + c.Request.URL.Path)
		file := filepath.Join(distDir, filepath.FromSlash(clean))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}

		index := filepath.Join(distDir, "index.html")
		if _, err := os.Stat(index); err == nil {
			c.File(index)
			return
		}

		c.String(http.StatusNotFound, "404 Not Found - Build the project first")
	}
}
