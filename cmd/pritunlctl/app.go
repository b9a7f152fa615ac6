// Copyright 2026 Contributors to the vpnsync project.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"io"

	"github.com/urfave/cli/v2"

	"github.com/vpnsync/apiclient/auth"
)

func noAuthFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "no-auth",
		Usage: "Send the request without signing headers",
	}
}

func newApp(stdout io.Writer, lookupEnv func(string) (string, bool)) *cli.App {
	r := &runner{stdout: stdout, lookupEnv: lookupEnv}
	method := auth.MethodHMAC

	return &cli.App{
		Name:  "pritunlctl",
		Usage: "Signed requests against a Pritunl management API",
		Description: `Issues HMAC-signed requests against a Pritunl appliance and prints the JSON
response. Credentials come from the PRITUNL_* environment variables unless
overridden by flags.`,
		Version: "1.0.0",
		Writer:  stdout,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "base-url",
				Usage: "Appliance URL, e.g. https://vpn.example:8447",
			},
			&cli.StringFlag{
				Name:  "api-token",
				Usage: "API token",
			},
			&cli.StringFlag{
				Name:  "api-secret",
				Usage: "API secret",
			},
			&cli.GenericFlag{
				Name:  "auth",
				Usage: "Authentication method: hmac or none",
				Value: &method,
			},
			&cli.BoolFlag{
				Name:  "insecure",
				Usage: "Do not verify the appliance TLS certificate",
			},
			&cli.IntFlag{
				Name:  "timeout",
				Usage: "Request timeout in seconds",
			},
			&cli.StringSliceFlag{
				Name:  "ca-cert",
				Usage: "Extra PEM CA certificate to trust (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "GET a path and print the JSON response",
				ArgsUsage: "PATH",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "query",
						Usage: "Query parameter as key=value (repeatable)",
					},
					noAuthFlag(),
				},
				Action: r.getCommand,
			},
			{
				Name:      "post",
				Usage:     "POST a JSON body to a path",
				ArgsUsage: "PATH",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "data",
						Usage: "JSON request body",
					},
					noAuthFlag(),
				},
				Action: r.postCommand,
			},
			{
				Name:      "put",
				Usage:     "PUT a JSON body to a path",
				ArgsUsage: "PATH",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "data",
						Usage: "JSON request body",
					},
					noAuthFlag(),
				},
				Action: r.putCommand,
			},
			{
				Name:      "delete",
				Usage:     "DELETE a path",
				ArgsUsage: "PATH",
				Flags:     []cli.Flag{noAuthFlag()},
				Action:    r.deleteCommand,
			},
			{
				Name:   "ping",
				Usage:  "Unauthenticated health check",
				Action: r.pingCommand,
			},
			{
				Name:   "status",
				Usage:  "Print appliance status and statistics",
				Action: r.statusCommand,
			},
			{
				Name:      "download",
				Usage:     "Download a binary resource such as a user key archive",
				ArgsUsage: "PATH",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "output",
						Usage:    "File to write",
						Required: true,
					},
				},
				Action: r.downloadCommand,
			},
		},
	}
}
