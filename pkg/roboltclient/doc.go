// Package roboltclient provides the primary entry point for constructing a
// robogo client that implements the robolt.Client interface.
//
// It layers configuration, HTTP transport, and authentication on top of the
// route interfaces and types defined in the robolt package.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/robolt-go/pkg/robolt"
//	  "github.com/fivetwenty-io/robolt-go/pkg/roboltclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // Minimal: a server whose routes are mounted under /api, no auth.
//	  cli, err := roboltclient.New(ctx, &robolt.Config{
//	    BaseURL: "https://api.example.com",
//	    Prefix:  "api",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with a token you already have:
//	  cli, err = roboltclient.NewWithToken(ctx, "https://api.example.com", "api", "eyJhbGciOi...")
//
//	  // Or with OAuth2 credentials. TokenURL defaults to {BaseURL}/oauth/token.
//	  cli, err = roboltclient.New(ctx, &robolt.Config{
//	    BaseURL:      "https://api.example.com",
//	    Prefix:       "api",
//	    ClientID:     "client-id",
//	    ClientSecret: "client-secret",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  n, err := cli.Count(ctx, "User", map[string]any{"active": true})
//	  if err != nil { log.Fatal(err) }
//	  _ = n
//	}
//
// # Helpers
//
// The package also provides convenience constructors NewWithEndpoint,
// NewWithToken, NewWithClientCredentials, and NewWithPassword that wrap New
// with the appropriate configuration.
package roboltclient
