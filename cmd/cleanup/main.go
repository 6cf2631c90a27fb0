package main

import (
	"flag"
	"log"
	"time"

	"edushareqa/internal/config"
	"edushareqa/internal/database"

	"github.com/joho/godotenv"
)

func main() {
	resourceAge := flag.Duration("deleted-resources", 30*24*time.Hour, "purge resources soft-deleted longer ago than this")
	notificationAge := flag.Duration("read-notifications", 90*24*time.Hour, "purge read notifications older than this")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load(".", "./config")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := database.Connect(cfg.Database.DSN, nil)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	now := time.Now()
	res1 := db.Exec(`DELETE FROM resources WHERE status = ? AND updated_at < ?`, "DELETED", now.Add(-*resourceAge))
	if res1.Error != nil {
		log.Fatalf("cleanup resources failed: %v", res1.Error)
	}

	res2 := db.Exec(`DELETE FROM notifications WHERE is_read = ? AND created_at < ?`, true, now.Add(-*notificationAge))
	if res2.Error != nil {
		log.Fatalf("cleanup notifications failed: %v", res2.Error)
	}

	log.Printf("cleanup completed: resources=%d notifications=%d", res1.RowsAffected, res2.RowsAffected)
}
