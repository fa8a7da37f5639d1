package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/tracklane/tracklane/db"
	"github.com/tracklane/tracklane/internal/auth"
	"github.com/tracklane/tracklane/internal/handlers"
	"github.com/tracklane/tracklane/internal/router"
	"github.com/tracklane/tracklane/internal/storage"
	"github.com/tracklane/tracklane/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	zapLogger, err := logger.NewLogger(os.Getenv("LOG_MODE"))

	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zapLogger.Sync()

	if err := auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize JWT: %v", err)
	}

	dsn := os.Getenv("DATABASE_URL")

	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	if err := db.ConnectDatabase(dsn); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(db.DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	uploadsDir := os.Getenv("UPLOADS_DIR")

	if uploadsDir == "" {
		uploadsDir = "uploads"
	}

	blobs, err := storage.NewDiskStore(uploadsDir)

	if err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}

	handlers.Setup(db.DB, blobs)

	r := router.NewRouter(zapLogger, uploadsDir)

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
