package main

import (
	"context"
	"log"
	"os"

	"github.com/dmatveev/authd/internal/buildinfo"
	"github.com/dmatveev/authd/internal/server"
	"github.com/dmatveev/authd/internal/server/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)
}
