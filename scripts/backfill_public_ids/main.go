package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/postdeck/internal/db"
)

func main() {
	var dbPath string
	flag.StringVar(&dbPath, "db", "postdeck.db", "sqlite db path")
	flag.Parse()

	if err := db.Init(dbPath); err != nil {
		fmt.Fprintf(os.Stderr, "init db: %v\n", err)
		os.Exit(1)
	}

	var posts []db.Post
	if err := db.DB.Where("public_id IS NULL OR public_id = ''").Find(&posts).Error; err != nil {
		fmt.Fprintf(os.Stderr, "list posts: %v\n", err)
		os.Exit(1)
	}

	backfilled := 0
	for i := range posts {
		if err := db.DB.Model(&posts[i]).Update("public_id", uuid.NewString()).Error; err != nil {
			fmt.Fprintf(os.Stderr, "backfill post %d: %v\n", posts[i].ID, err)
			continue
		}
		backfilled++
	}

	fmt.Printf("done: backfilled %d public ids\n", backfilled)
}
