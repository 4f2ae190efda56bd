package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "LMS-backend/docs"
	"LMS-backend/internal/catalog/authors"
	"LMS-backend/internal/catalog/books"
	"LMS-backend/internal/lending"
	"LMS-backend/internal/platform/db"
)

// @title        LMS API
// @version      1.0
// @description  Library catalog and book lending backend
// @BasePath     /api/v1

func main() {
	// 設定読み込み
	cfg, err := db.LoadConfig("config/config.yaml")
	if err != nil {
		panic(err)
	}

	// 動作モード取得
	mode := cfg.Mode
	log.Printf("[INFO] mode:%s\n", mode)

	if cfg.Mode != "dev" && cfg.Mode != "release" {
		fmt.Println("Usage: go run main.go [dev|release]")
		return
	}

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		panic(err)
	}
	defer conn.Close()

	log.Printf("[INFO] connected to DB: %s", cfg.DB.DBName)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if mode == "dev" {
		// CORS（開発中のみ必要）
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	// ヘルス
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	// API仕様
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// /api/v1
	api := r.Group("/api/v1")
	books.RegisterRoutes(api, books.NewService(conn))
	authors.RegisterRoutes(api, authors.NewService(conn))
	lending.RegisterRoutes(api, lending.NewService(conn))

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}

	go func() {
		var err error
		if cfg.Certificate.Cert != "" && cfg.Certificate.Key != "" {
			certFile := fmt.Sprintf("config/tls/%s/%s", mode, cfg.Certificate.Cert)
			keyFile := fmt.Sprintf("config/tls/%s/%s", mode, cfg.Certificate.Key)
			log.Printf("[INFO] listening on https://0.0.0.0%s", cfg.Addr)
			err = srv.ListenAndServeTLS(certFile, keyFile)
		} else {
			log.Printf("[INFO] listening on http://0.0.0.0%s", cfg.Addr)
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Println("[INFO] shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
