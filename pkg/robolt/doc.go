// Package robolt provides types, interfaces, and helpers for working with a
// robogo server.
//
// # Overview
//
// The robolt package defines the values exchanged with robogo (Document,
// RoboFile, SchemaField, Sort, the option structs) and the client interfaces
// grouped by route family (DocumentClient, ServiceClient, FileClient,
// IntrospectionClient, AccessClient). A concrete implementation is provided by
// the roboltclient package, which wires configuration, transport, and
// authentication. Most consumers should import roboltclient to construct a
// client and then use the interfaces exposed here.
//
// Getting a client
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
//	  cli, err := roboltclient.New(ctx, &robolt.Config{
//	    BaseURL: "https://api.example.com",
//	    Prefix:  "api",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  users, err := cli.Read(ctx, "User", &robolt.ReadOptions{
//	    Filter: map[string]any{"active": true},
//	    Sort:   robolt.Descending("createdAt"),
//	    Limit:  20,
//	  })
//	  if err != nil { log.Fatal(err) }
//	  _ = users
//	}
//
// # Documents
//
// Documents are plain maps. DecodeDocument and DecodeDocuments convert them
// into application structs using their json tags:
//
//	type User struct {
//	  ID   string `json:"_id"`
//	  Name string `json:"name"`
//	}
//
//	decoded, err := robolt.DecodeDocuments[User](users)
//
// # Schemas
//
// robogo sends every model reference in a schema in full only once. Use
// RecycleSchema (or Client.RecycledSchema) to link the remaining occurrences
// back to it; the result may contain cycles, so walk it with WalkSchema.
//
// # Files
//
// Files are addressed with a FileRef: FileRefOf for a RoboFile returned by the
// server, FileKey for a bare identifier. GetFile and GetThumbnail download
// into memory, GetFileURL and GetThumbnailURL hand out a local URL that must be
// released with RevokeFileURL, and GetFileURLs derives the public static URLs
// without any request.
//
// # Errors
//
// Every non-2xx response is returned as a *ResponseError. Helpers such as
// IsNotFound, IsUnauthorized, and IsForbidden make it easy to branch on common
// cases.
//
// # Interceptors
//
// An InterceptorChain set on Config.Interceptors runs around every request.
// The package ships logging, header, and request ID interceptors.
package robolt
