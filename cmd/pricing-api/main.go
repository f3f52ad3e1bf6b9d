// Package main is the entry point of the freight pricing API.
//
// @title                       Freight Pricing API
// @version                     1.0
// @description                 Time-versioned freight prices with conflict detection and organization-scoped visibility.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"os"

	"github.com/99minutos/freight-pricing/cmd/pricing-api/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
