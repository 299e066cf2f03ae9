package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// findSubcommand finds a subcommand by name within a cobra command.
func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

// fakeServer records requests and answers with a fixed body.
type fakeServer struct {
	*httptest.Server

	mutex    sync.Mutex
	requests []*http.Request
	bodies   [][]byte
}

func newFakeServer(t *testing.T, respond func(w http.ResponseWriter, r *http.Request)) *fakeServer {
	t.Helper()

	server := &fakeServer{}
	server.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := new(bytes.Buffer)
		_, _ = body.ReadFrom(r.Body)

		server.mutex.Lock()
		server.requests = append(server.requests, r)
		server.bodies = append(server.bodies, body.Bytes())
		server.mutex.Unlock()

		respond(w, r)
	}))
	t.Cleanup(server.Close)

	return server
}

func (s *fakeServer) last(t *testing.T) (*http.Request, []byte) {
	t.Helper()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	require.NotEmpty(t, s.requests)

	return s.requests[len(s.requests)-1], s.bodies[len(s.bodies)-1]
}

func respondJSON(payload any) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// runCLI executes the root command against baseURL and returns its output.
// viper is global, so tests calling runCLI must not run in parallel.
func runCLI(t *testing.T, baseURL string, args ...string) (string, error) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("base_url", baseURL)
	viper.Set("prefix", "api")
	viper.Set("output", "json")

	root := NewRootCommand("test", "abc123", "today")

	var out bytes.Buffer

	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.Execute()

	return out.String(), err
}
