package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/Ux1ew1/Kassa-Android/internal/config"
	"github.com/Ux1ew1/Kassa-Android/internal/db"
	"github.com/Ux1ew1/Kassa-Android/internal/menustore"
	"github.com/Ux1ew1/Kassa-Android/internal/netinfo"
	"github.com/Ux1ew1/Kassa-Android/internal/router"
)

func main() {

	// ───────────────────────── ENV ─────────────────────────
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("❌ Invalid configuration")
	}

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// ───────────────────────── MENU STORE ─────────────────────────
	var repo menustore.Repository
	if cfg.DatabaseURL != "" {
		pool, err := db.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logrus.WithError(err).Fatal("❌ PostgreSQL init failed")
		}
		defer pool.Close()
		repo = menustore.NewPostgresRepository(pool)
	} else {
		repo = menustore.NewFileRepository(filepath.Join(cfg.DataDir, "menu.json"))
	}

	// ───────────────────────── ROUTER ─────────────────────────
	r := router.New(menustore.NewHandler(repo), cfg.DistDir)

	// ───────────────────────── BANNER ─────────────────────────
	host := netinfo.LanIP(cfg.InterfaceHints())
	if host == "" {
		host = "localhost"
	}
	netinfo.PrintBanner(os.Stdout, fmt.Sprintf("http://%s:%d", host, cfg.Port))

	for _, ip := range netinfo.LanIPs() {
		logrus.Infof("доступно по адресу: http://%s:%d", ip, cfg.Port)
	}

	// ───────────────────────── START ─────────────────────────
	logrus.Infof("🚀 Kassa running at http://%s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
