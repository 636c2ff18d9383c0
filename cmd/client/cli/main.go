package main

import (
	"context"
	"log"

	"github.com/avolkova/glucolog/internal/client/cli"
	"github.com/avolkova/glucolog/internal/client/config"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)
}
