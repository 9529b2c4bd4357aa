package main

import (
	"context"
	"log"
	"os"

	"github.com/dmatveev/authd/internal/buildinfo"
	"github.com/dmatveev/authd/internal/client/cli"
	"github.com/dmatveev/authd/internal/client/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
