// Copyright 2026 Contributors to the vpnsync project.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"log"
	"os"
)

func main() {
	app := newApp(os.Stdout, os.LookupEnv)

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
