// Package main is the entry point of the practice server.
//
// @title        Practice Server API
// @version      1.0
// @description  REST back-end with users, rule-guarded JSON collections and a query language.
// @BasePath     /
//
// @securityDefinitions.apikey  AccessToken
// @in                          header
// @name                        X-Authorization
package main

import (
	"os"

	"github.com/sups/practice-server/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
