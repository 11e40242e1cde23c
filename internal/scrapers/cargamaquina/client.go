// client.go contains the CM session: the resty client, its cookie jar and
// the login flow that produces the CSRF token the reports require.

package cargamaquina

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"cmreports/internal/components/assert"
	"cmreports/internal/components/metrics"
	"cmreports/internal/components/telemetry"
	"cmreports/pkg/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	report_client_login          = "client.login"
	report_client_sales_backlog  = "client.sales-backlog"
	report_client_production     = "client.production-backlog"
	report_client_materials      = "client.pending-materials"
	report_client_layout_drift   = "client.layout-drift"
	report_client_skipped_rows   = "client.skipped-rows"
	report_client_records_mapped = "client.records-mapped"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

const csrfFieldName = "YII_CSRF_TOKEN"

// ErrLoginFailed is returned by Login when CM does not accept the credentials
// or the login page cannot be understood.
var ErrLoginFailed = errors.New("cm login failed")

type Endpoints struct {
	SalesBacklog      string `json:"sales_backlog"`
	ProductionBacklog string `json:"production_backlog"`
	PendingMaterials  string `json:"pending_materials"`
}

type ClientOptions struct {
	BaseUrl        string    `json:"base_url"`
	LoginPath      string    `json:"login_path"`
	ConnectionCode string    `json:"connection_code"`
	Endpoints      Endpoints `json:"endpoints"`
	// RequestsPerSecond and Burst configure the outbound rate limit.
	RequestsPerSecond float64 `json:"requests_per_second"`
	Burst             int     `json:"burst"`
	// CloudflareBypass wraps the transport with cloudflare-bp-go.
	CloudflareBypass bool `json:"cloudflare_bypass"`
	// DumpDir, when set, receives a text dump of every CM exchange.
	DumpDir string `json:"dump_dir"`

	Metrics *metrics.Registry `json:"-"`
}

func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		LoginPath:         "/site/login",
		ConnectionCode:    "3.1~13,3^17,7",
		RequestsPerSecond: 4,
		Burst:             3,
	}
}

func (o ClientOptions) withDefaults() ClientOptions {
	def := DefaultClientOptions()
	if o.LoginPath == "" {
		o.LoginPath = def.LoginPath
	}
	if o.ConnectionCode == "" {
		o.ConnectionCode = def.ConnectionCode
	}
	if o.RequestsPerSecond <= 0 {
		o.RequestsPerSecond = def.RequestsPerSecond
	}
	if o.Burst <= 0 {
		o.Burst = def.Burst
	}
	return o
}

// Client is an authenticated CM session. It is safe for concurrent use once
// Login has returned.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client

	opts ClientOptions
	tel  telemetry.API

	mutex     sync.RWMutex
	csrfToken string
}

func NewClient(opts ClientOptions, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel, "telemetry")
	assert.NotEmptyStr(opts.BaseUrl, "base url")

	opts = opts.withDefaults()
	if opts.Endpoints.SalesBacklog == "" ||
		opts.Endpoints.ProductionBacklog == "" ||
		opts.Endpoints.PendingMaterials == "" {
		return nil, fmt.Errorf("every report endpoint must be configured")
	}
	tel = telemetry.NewScopedAPI("cm_scraper", tel)

	parsedBaseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	httpClient.SetCookieJar(jar)
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}
	httpClient.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(parsedBaseUrl.Hostname()))

	// burst >= 3 lets the three consolidated fetches leave at once
	rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(httpClient, "cmreports/cargamaquina", tel)
	if opts.DumpDir != "" {
		out, err := restyutil.NewDirectoryOutput(opts.DumpDir)
		if err != nil {
			return nil, fmt.Errorf("prepare dump dir: %w", err)
		}
		restyutil.Dump(httpClient, out)
	}

	return &Client{
		BaseUrl: parsedBaseUrl,
		Http:    httpClient,
		opts:    opts,
		tel:     tel,
	}, nil
}

// request returns a request carrying the browser headers CM expects.
func (c *Client) request(ctx context.Context) *resty.Request {
	return c.Http.R().
		SetContext(ctx).
		SetHeader("User-Agent", userAgent)
}

// CSRFToken returns the token captured by the last successful Login.
func (c *Client) CSRFToken() string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.csrfToken
}

func parseLoginPage(body []byte) (*goquery.Document, string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, "", err
	}
	token := doc.Find(fmt.Sprintf("input[name=%s]", csrfFieldName)).AttrOr("value", "")
	return doc, token, nil
}

func isLoginForm(doc *goquery.Document) bool {
	return doc.Find(`input[name="LoginForm[password]"]`).Length() > 0
}

// Login authenticates the session with username and password.
func (c *Client) Login(ctx context.Context, username, password string) error {
	loginError := func(err error) error {
		return fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}

	start := time.Now()
	res, err := c.request(ctx).
		SetQueryParam("c", c.opts.ConnectionCode).
		Get(c.opts.LoginPath)
	if err != nil {
		c.tel.ReportBroken(report_client_login, fmt.Errorf("login page request: %w", err))
		return loginError(err)
	}
	if res.IsError() {
		err := fmt.Errorf("login page status: %s", res.Status())
		c.tel.ReportBroken(report_client_login, err)
		return loginError(err)
	}
	_, token, err := parseLoginPage(res.Body())
	if err != nil {
		c.tel.ReportBroken(report_client_login, fmt.Errorf("parse login page: %w", err))
		return loginError(err)
	}
	if token == "" {
		err := fmt.Errorf("could not find %s on login page", csrfFieldName)
		c.tel.ReportBroken(report_client_login, err)
		return loginError(err)
	}

	res, err = c.request(ctx).
		SetQueryParam("c", c.opts.ConnectionCode).
		SetFormData(map[string]string{
			csrfFieldName:              token,
			"LoginForm[username]":      username,
			"LoginForm[password]":      password,
			"LoginForm[codigoConexao]": c.opts.ConnectionCode,
			"yt0":                      "Entrar",
		}).
		Post(c.opts.LoginPath)
	if err != nil {
		c.tel.ReportBroken(report_client_login, fmt.Errorf("login request: %w", err))
		return loginError(err)
	}
	if res.IsError() {
		err := fmt.Errorf("login status: %s", res.Status())
		c.tel.ReportWarning(report_client_login, err)
		return loginError(err)
	}
	doc, nextToken, err := parseLoginPage(res.Body())
	if err != nil {
		c.tel.ReportBroken(report_client_login, fmt.Errorf("parse login response: %w", err))
		return loginError(err)
	}
	if isLoginForm(doc) {
		err := fmt.Errorf("credentials rejected")
		c.tel.ReportWarning(report_client_login, err)
		return loginError(err)
	}
	if nextToken != "" {
		token = nextToken
	}

	c.mutex.Lock()
	c.csrfToken = token
	c.mutex.Unlock()

	c.tel.ReportDebug("logged in", time.Since(start).String())
	return nil
}
