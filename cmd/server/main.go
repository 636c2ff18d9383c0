package main

import (
	"context"
	"log"

	"github.com/avolkova/glucolog/internal/server"
	"github.com/avolkova/glucolog/internal/server/config"
)

func main() {
	ctx := context.Background()

	cfg := config.LoadConfig()
	app, err := server.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)
}
