// Copyright 2026 Contributors to the vpnsync project.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/vpnsync/apiclient"
	"github.com/vpnsync/apiclient/auth"
	"github.com/vpnsync/apiclient/config"
	"github.com/vpnsync/apiclient/internal/logger"
)

type runner struct {
	stdout    io.Writer
	lookupEnv func(string) (string, bool)
}

// createClient layers command line flags over the environment.
func (r *runner) createClient(c *cli.Context) (*apiclient.Client, *zap.Logger, error) {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: c.Bool("verbose")})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	flags := map[string]interface{}{
		"base_url":   c.String("base-url"),
		"api_token":  c.String("api-token"),
		"api_secret": c.String("api-secret"),
	}
	if c.IsSet("insecure") {
		flags["verify_tls"] = !c.Bool("insecure")
	}
	if c.IsSet("timeout") {
		flags["timeout"] = c.Int("timeout")
	}
	if certs := c.StringSlice("ca-cert"); len(certs) > 0 {
		flags["ca_certs"] = certs
	}

	cfg, err := config.Load(config.FromEnv(r.lookupEnv), flags)
	if err != nil {
		syncLogger(l)
		return nil, nil, errors.Wrap(err, "loading configuration")
	}

	method := auth.MethodHMAC
	if m, ok := c.Generic("auth").(*auth.Method); ok && m != nil {
		method = *m
	}

	client, err := apiclient.NewClient(cfg,
		apiclient.WithLogger(l),
		apiclient.WithAuthMethod(method),
	)
	if err != nil {
		syncLogger(l)
		return nil, nil, errors.Wrap(err, "creating client")
	}

	return client, l, nil
}

// syncLogger flushes buffered entries. Sync on a terminal stderr reports
// EINVAL on some platforms, so its error is dropped.
func syncLogger(l *zap.Logger) {
	_ = l.Sync()
}

func pathArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("%s: expected exactly one PATH argument", c.Command.Name)
	}
	return c.Args().First(), nil
}

func callOptions(c *cli.Context) []apiclient.CallOption {
	if c.Bool("no-auth") {
		return []apiclient.CallOption{apiclient.Unauthenticated()}
	}
	return nil
}

func parseQuery(pairs []string) (url.Values, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	q := url.Values{}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("malformed query parameter %q, expected key=value", p)
		}
		q.Add(k, v)
	}

	return q, nil
}

func parseData(raw string) (interface{}, error) {
	if raw == "" {
		return nil, nil
	}

	var body interface{}
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		return nil, errors.Wrap(err, "parsing --data")
	}

	return body, nil
}

func (r *runner) printJSON(v interface{}) error {
	enc := json.NewEncoder(r.stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func (r *runner) getCommand(c *cli.Context) error {
	path, err := pathArg(c)
	if err != nil {
		return err
	}

	query, err := parseQuery(c.StringSlice("query"))
	if err != nil {
		return err
	}

	client, l, err := r.createClient(c)
	if err != nil {
		return err
	}
	defer syncLogger(l)

	res, err := client.Get(c.Context, path, query, callOptions(c)...)
	if err != nil {
		return err
	}

	return r.printJSON(res)
}

func (r *runner) postCommand(c *cli.Context) error {
	return r.sendCommand(c, func(client *apiclient.Client, path string, body interface{}) (interface{}, error) {
		return client.Post(c.Context, path, body, callOptions(c)...)
	})
}

func (r *runner) putCommand(c *cli.Context) error {
	return r.sendCommand(c, func(client *apiclient.Client, path string, body interface{}) (interface{}, error) {
		return client.Put(c.Context, path, body, callOptions(c)...)
	})
}

func (r *runner) sendCommand(
	c *cli.Context,
	send func(*apiclient.Client, string, interface{}) (interface{}, error),
) error {
	path, err := pathArg(c)
	if err != nil {
		return err
	}

	body, err := parseData(c.String("data"))
	if err != nil {
		return err
	}

	client, l, err := r.createClient(c)
	if err != nil {
		return err
	}
	defer syncLogger(l)

	res, err := send(client, path, body)
	if err != nil {
		return err
	}

	return r.printJSON(res)
}

func (r *runner) deleteCommand(c *cli.Context) error {
	path, err := pathArg(c)
	if err != nil {
		return err
	}

	client, l, err := r.createClient(c)
	if err != nil {
		return err
	}
	defer syncLogger(l)

	res, err := client.Delete(c.Context, path, callOptions(c)...)
	if err != nil {
		return err
	}

	return r.printJSON(res)
}

func (r *runner) pingCommand(c *cli.Context) error {
	client, l, err := r.createClient(c)
	if err != nil {
		return err
	}
	defer syncLogger(l)

	if _, err := client.Get(c.Context, "/ping", nil, apiclient.Unauthenticated()); err != nil {
		return err
	}

	l.Sugar().Infow("appliance is reachable")
	_, err = fmt.Fprintln(r.stdout, "ok")

	return err
}

func (r *runner) statusCommand(c *cli.Context) error {
	client, l, err := r.createClient(c)
	if err != nil {
		return err
	}
	defer syncLogger(l)

	res, err := client.Get(c.Context, "/status", nil)
	if err != nil {
		return err
	}

	return r.printJSON(res)
}

func (r *runner) downloadCommand(c *cli.Context) error {
	path, err := pathArg(c)
	if err != nil {
		return err
	}

	client, l, err := r.createClient(c)
	if err != nil {
		return err
	}
	defer syncLogger(l)

	data, err := client.RawGet(c.Context, path)
	if err != nil {
		return err
	}

	output := c.String("output")
	if err := os.WriteFile(output, data, 0o600); err != nil {
		return errors.Wrapf(err, "writing %s", output)
	}

	l.Info("downloaded resource",
		zap.String("path", path),
		zap.String("output", output),
		zap.Int("bytes", len(data)),
	)

	return nil
}
