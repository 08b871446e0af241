package auth

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/flexprice/productcatalog/internal/config"
	ierr "github.com/flexprice/productcatalog/internal/errors"
	"github.com/flexprice/productcatalog/internal/httpclient"
	"github.com/flexprice/productcatalog/internal/logger"
	"github.com/tidwall/gjson"
)

const tokenPath = "/oauth/token"

// ClientCredentialsProvider exchanges a client id and secret for a bearer
// token with the OAuth client credentials grant.
type ClientCredentialsProvider struct {
	cfg        config.VendorConfig
	client     httpclient.Client
	log        *logger.Logger
	newBackOff func() backoff.BackOff
	now        func() time.Time
}

func NewClientCredentialsProvider(cfg config.VendorConfig, client httpclient.Client, log *logger.Logger) *ClientCredentialsProvider {
	if log == nil {
		log = logger.L
	}
	return &ClientCredentialsProvider{
		cfg:    cfg,
		client: client,
		log:    log.Named("auth"),
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxElapsedTime = 10 * time.Second
			return backoff.WithMaxRetries(b, 2)
		},
		now: time.Now,
	}
}

// WithBackOff replaces the retry policy used when the token endpoint fails
func (p *ClientCredentialsProvider) WithBackOff(f func() backoff.BackOff) *ClientCredentialsProvider {
	p.newBackOff = f
	return p
}

func (p *ClientCredentialsProvider) Authorize(ctx context.Context) (*Descriptor, error) {
	baseURL := strings.TrimRight(p.cfg.BaseURL, "/")
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", p.cfg.ClientID)
	form.Set("client_secret", p.cfg.ClientSecret)

	req := &httpclient.Request{
		Method: http.MethodPost,
		URL:    baseURL + tokenPath,
		Headers: map[string]string{
			"Content-Type": "application/x-www-form-urlencoded",
			"Accept":       "application/json",
		},
		Body: []byte(form.Encode()),
	}

	var resp *httpclient.Response
	operation := func() error {
		var err error
		resp, err = p.client.Send(ctx, req)
		if err == nil {
			return nil
		}
		// rejected credentials will not get better by asking again
		if httpErr, ok := httpclient.IsHTTPError(err); ok && httpErr.StatusCode < http.StatusInternalServerError {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		p.log.Warnw("token request failed, retrying",
			"error", err,
			"wait", wait,
		)
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(p.newBackOff(), ctx), notify); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to obtain an access token from the billing provider").
			WithReportableDetails(map[string]any{
				"base_url": baseURL,
			}).
			Mark(ierr.ErrFetch)
	}

	token := gjson.GetBytes(resp.Body, "access_token").String()
	if token == "" {
		return nil, ierr.NewError("token response has no access_token").
			WithHint("The billing provider returned an unusable token response").
			Mark(ierr.ErrFetch)
	}
	tokenType := gjson.GetBytes(resp.Body, "token_type").String()
	if tokenType == "" || strings.EqualFold(tokenType, "bearer") {
		tokenType = "Bearer"
	}

	desc := &Descriptor{
		BaseURL: baseURL,
		Headers: map[string]string{
			"Authorization": tokenType + " " + token,
			"Accept":        "application/json",
		},
	}
	if expiresIn := gjson.GetBytes(resp.Body, "expires_in").Int(); expiresIn > 0 {
		desc.IssuedAt = p.now()
		desc.ExpiresAt = desc.IssuedAt.Add(time.Duration(expiresIn) * time.Second)
	}

	p.log.Debugw("obtained access token", "expires_at", desc.ExpiresAt)
	return desc, nil
}
