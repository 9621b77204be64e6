package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/vitabuddy/vitabuddy/internal/client/cli"
	"github.com/vitabuddy/vitabuddy/internal/client/config"
)

func main() {

	// optional .env for local development
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)
}
