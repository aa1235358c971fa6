// Copyright 2025 LPK PB Merdeka
// Licensed under the EUPL-1.2

package main

import (
	"context"
	"log"
	"os"

	"github.com/pbmerdeka/lpk-server/internal/config"
	"github.com/pbmerdeka/lpk-server/internal/server"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:   "lpk-server",
		Usage:  "Authentication server for the LPK PB Merdeka website",
		Flags:  config.Flags(),
		Action: server.Run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
