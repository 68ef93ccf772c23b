package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"quasar/tubedash/downloader"
	"quasar/tubedash/httpd"
	"quasar/tubedash/store"
	"quasar/tubedash/ytdlp"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	log.Println("Starting tubedash...")

	if err := godotenv.Load(); err != nil {
		log.Println("[Config] No .env file, using process environment")
	}

	addr := getenv("TUBEDASH_ADDR", ":8080")
	downloadDir := getenv("TUBEDASH_DOWNLOAD_DIR", "./downloads")
	dbPath := getenv("TUBEDASH_DB", "tubedash.db")

	client := ytdlp.New()
	client.BinPath = getenv("YTDLP_PATH", client.BinPath)
	client.FFmpegPath = getenv("FFMPEG_PATH", client.FFmpegPath)

	orch := downloader.NewOrchestrator(client, downloadDir)
	orch.FFprobePath = getenv("FFPROBE_PATH", "ffprobe")
	if err := orch.EnsureDirs(); err != nil {
		log.Fatalf("Failed to prepare download directories: %v", err)
	}

	db, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	dlSvc := downloader.NewService(orch, db)

	router := httpd.NewRouter(dlSvc, db)

	log.Printf("Server listening on %s", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
