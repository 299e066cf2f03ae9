// Package client implements robolt.Client against the robogo route scheme.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"sync"

	"github.com/fivetwenty-io/robolt-go/internal/auth"
	"github.com/fivetwenty-io/robolt-go/internal/constants"
	"github.com/fivetwenty-io/robolt-go/internal/http"
	"github.com/fivetwenty-io/robolt-go/internal/objecturl"
	"github.com/fivetwenty-io/robolt-go/pkg/robolt"
)

// Static errors for err113 compliance.
var (
	ErrBaseURLRequired = errors.New("base URL is required")
)

// Client implements the robolt.Client interface. Its configuration is copied
// at construction and never changes afterwards.
type Client struct {
	*DocumentsClient
	*ServicesClient
	*FilesClient
	*IntrospectionClient
	*AccessesClient

	httpClient   *http.Client
	tokenManager auth.TokenManager
	routes       *routes
}

var _ robolt.Client = (*Client)(nil)

// createTokenManager creates appropriate token manager based on config.
func createTokenManager(config *robolt.Config) auth.TokenManager {
	if config.AccessToken != "" && config.Username != "" && config.Password != "" {
		return createFallbackTokenManager(config)
	}

	if config.AccessToken != "" {
		return auth.NewStaticTokenManager(config.AccessToken)
	}

	if config.ClientID != "" && config.ClientSecret != "" {
		return createOAuth2TokenManager(config)
	}

	if config.Username != "" && config.Password != "" {
		return createOAuth2TokenManager(config)
	}

	return nil // No authentication
}

// createFallbackTokenManager uses the access token until the server rejects
// it, then switches to the password grant.
func createFallbackTokenManager(config *robolt.Config) auth.TokenManager {
	return &fallbackTokenManager{
		staticToken:  config.AccessToken,
		oauthManager: createOAuth2TokenManager(config),
	}
}

func createOAuth2TokenManager(config *robolt.Config) *auth.OAuth2TokenManager {
	return auth.NewOAuth2TokenManager(&auth.OAuth2Config{
		TokenURL:     getTokenURL(config),
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Username:     config.Username,
		Password:     config.Password,
		Scopes:       config.Scopes,
	})
}

// getTokenURL returns token URL from config or the server's conventional endpoint.
func getTokenURL(config *robolt.Config) string {
	if config.TokenURL != "" {
		return config.TokenURL
	}

	return strings.TrimSuffix(config.BaseURL, "/") + "/oauth/token"
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *robolt.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.ExtendedRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if len(config.Headers) > 0 {
		httpOpts = append(httpOpts, http.WithHeaders(config.Headers))
	}

	if config.Interceptors != nil {
		httpOpts = append(httpOpts, http.WithInterceptors(config.Interceptors))
	}

	if config.MetricsRegisterer != nil {
		httpOpts = append(httpOpts, http.WithMetrics(config.MetricsRegisterer))
	}

	if config.Tracing {
		httpOpts = append(httpOpts, http.WithTracing(true))
	}

	return httpOpts
}

// New creates a client from config. When OAuth2 credentials are configured a
// token is fetched up front so bad credentials fail here.
func New(ctx context.Context, config *robolt.Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, ErrBaseURLRequired
	}

	tokenManager := createTokenManager(config)

	if oauthManager, ok := tokenManager.(*auth.OAuth2TokenManager); ok {
		_, err := oauthManager.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("authenticating: %w", err)
		}
	}

	return NewWithTokenManager(config, tokenManager)
}

// NewWithTokenManager creates a client with a custom token manager.
// tokenManager may be nil for unauthenticated servers.
func NewWithTokenManager(config *robolt.Config, tokenManager auth.TokenManager) (*Client, error) {
	if config.BaseURL == "" {
		return nil, ErrBaseURLRequired
	}

	httpClient := http.NewClient(config.BaseURL, tokenManager, createHTTPClientOptions(config)...)

	routes := newRoutes(httpClient, config)

	return &Client{
		DocumentsClient:     newDocumentsClient(routes),
		ServicesClient:      newServicesClient(routes),
		FilesClient:         newFilesClient(routes, multipartEncoder(config), urlMinter(config)),
		IntrospectionClient: newIntrospectionClient(routes),
		AccessesClient:      newAccessesClient(routes, config.Logger),
		httpClient:          httpClient,
		tokenManager:        tokenManager,
		routes:              routes,
	}, nil
}

func multipartEncoder(config *robolt.Config) robolt.MultipartEncoder {
	if config.MultipartEncoder != nil {
		return config.MultipartEncoder
	}

	return robolt.FormDataEncoder{}
}

func urlMinter(config *robolt.Config) robolt.ObjectURLMinter {
	if config.URLMinter != nil {
		return config.URLMinter
	}

	return objecturl.NewTempMinter()
}

// GetTokenManager returns the token manager for this client.
func (c *Client) GetTokenManager() auth.TokenManager {
	return c.tokenManager
}

// GetToken returns the current access token from the token manager.
func (c *Client) GetToken(ctx context.Context) (string, error) {
	if c.tokenManager == nil {
		return "", robolt.ErrNoTokenManagerConfigured
	}

	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}

	return token, nil
}

// BaseURL returns the server base URL.
func (c *Client) BaseURL() string {
	return c.httpClient.BaseURL()
}

// Prefix returns the normalized route prefix.
func (c *Client) Prefix() string {
	return c.routes.prefix
}

// fallbackTokenManager tries the static token first, then falls back to OAuth2.
type fallbackTokenManager struct {
	mutex        sync.Mutex
	staticToken  string
	oauthManager auth.TokenManager
	usingOAuth   bool
}

func (m *fallbackTokenManager) GetToken(ctx context.Context) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if !m.usingOAuth && m.staticToken != "" {
		return m.staticToken, nil
	}

	token, err := m.oauthManager.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get OAuth token: %w", err)
	}

	return token, nil
}

func (m *fallbackTokenManager) RefreshToken(ctx context.Context) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if !m.usingOAuth {
		m.usingOAuth = true

		_, err := m.oauthManager.GetToken(ctx)
		if err != nil {
			return fmt.Errorf("failed to get OAuth token during refresh: %w", err)
		}

		return nil
	}

	err := m.oauthManager.RefreshToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh OAuth token: %w", err)
	}

	return nil
}

// routes builds paths under the configured prefix and holds the per-client
// defaults shared by the route families.
type routes struct {
	httpClient    *http.Client
	prefix        string
	staticPath    string
	defaultFilter map[string]any
	params        robolt.ParamEncoder
}

func newRoutes(httpClient *http.Client, config *robolt.Config) *routes {
	staticPath := strings.Trim(config.StaticPath, "/")
	if staticPath == "" {
		staticPath = constants.DefaultStaticPath
	}

	defaultFilter, _ := deepCopy(reflect.ValueOf(config.DefaultFilter)).Interface().(map[string]any)
	if defaultFilter == nil {
		defaultFilter = map[string]any{}
	}

	params := config.ParamEncoder
	if params == nil {
		params = robolt.BracketParamEncoder{}
	}

	return &routes{
		httpClient:    httpClient,
		prefix:        strings.Trim(config.Prefix, "/"),
		staticPath:    staticPath,
		defaultFilter: defaultFilter,
		params:        params,
	}
}

// path joins route and segments under the prefix. Segments are inserted verbatim.
func (r *routes) path(route string, segments ...string) string {
	parts := make([]string, 0, len(segments)+2)
	if r.prefix != "" {
		parts = append(parts, r.prefix)
	}

	parts = append(parts, route)
	parts = append(parts, segments...)

	return "/" + strings.Join(parts, "/")
}

// static returns the path a storage key is served under.
func (r *routes) static(key string) string {
	return r.path(r.staticPath, key)
}

func (r *routes) query(params robolt.Params) (url.Values, error) {
	values, err := r.params.Encode(params)
	if err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}

	return values, nil
}

// deepCopy copies maps and slices recursively. Other values are shared.
func deepCopy(value reflect.Value) reflect.Value {
	switch value.Kind() {
	case reflect.Interface:
		if value.IsNil() {
			return value
		}

		copied := reflect.New(value.Type()).Elem()
		copied.Set(deepCopy(value.Elem()))

		return copied
	case reflect.Map:
		if value.IsNil() {
			return value
		}

		copied := reflect.MakeMapWithSize(value.Type(), value.Len())
		for iter := value.MapRange(); iter.Next(); {
			copied.SetMapIndex(iter.Key(), deepCopy(iter.Value()))
		}

		return copied
	case reflect.Slice:
		if value.IsNil() {
			return value
		}

		copied := reflect.MakeSlice(value.Type(), value.Len(), value.Len())
		for i := range value.Len() {
			copied.Index(i).Set(deepCopy(value.Index(i)))
		}

		return copied
	default:
		return value
	}
}

// isNilFilter reports whether filter is nil or a typed nil map, slice or pointer.
func isNilFilter(filter any) bool {
	if filter == nil {
		return true
	}

	value := reflect.ValueOf(filter)
	switch value.Kind() {
	case reflect.Map, reflect.Slice, reflect.Ptr, reflect.Interface:
		return value.IsNil()
	default:
		return false
	}
}
