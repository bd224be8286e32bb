package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"gitlab.com/akervel/gitlab-mcp/cmd"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, using environment variables")
	}

	ctx := context.Background()

	if err := cmd.New().ExecuteContext(ctx); err != nil {
		logrus.Fatal(err)
	}
}
