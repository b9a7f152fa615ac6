// Copyright 2026 Contributors to the vpnsync project.
// SPDX-License-Identifier: Apache-2.0

/*
Package apiclient is a request-signing client for the Pritunl VPN appliance
management API.

Every authenticated request carries four headers computed from the API token
and secret:

	Auth-Token:     the token
	Auth-Timestamp: Unix seconds
	Auth-Nonce:     32 lowercase hex characters, fresh per request
	Auth-Signature: base64(HMAC-SHA256(secret, token&timestamp&nonce&METHOD&path))

The path in the signature is the request path only, without host or query
string.

Configuration

The caller owns where configuration comes from. Layer a default source (for
instance the environment) under explicit values:

	cfg, err := config.Load(config.FromEnv(os.LookupEnv), map[string]interface{}{
		"base_url": "https://vpn.example:8447",
	})
	if err != nil { ... }

	client, err := apiclient.NewClient(cfg)

NewClient fails immediately with a *common.ConfigurationError when the token
or the secret is empty.

Calls

	servers, err := client.Get(ctx, "/server", nil)
	_, err = client.Put(ctx, "/server/"+id+"/operation/start", nil)
	_, err = client.Get(ctx, "/ping", nil, apiclient.Unauthenticated())
	archive, err := client.RawGet(ctx, "/key/"+orgID+"/"+userID+".tar")

Results are generic JSON values; use Decode to map them onto structs.

Errors

A status >= 400 yields a *common.HTTPError carrying the status code and body.
Network failures, including the configured timeout, yield a
*common.TransportError. Nothing is retried: callers that want to retry must do
so themselves, knowing which appliance operations are safe to repeat.
*/
package apiclient
