package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"time"
)

const (
	// Default http client timeout in secs.
	defaultHTTPClientTimeout = 30 * time.Second
)

type (
	// Client is the base for http/https calls made against RPC nodes and
	// staking pool endpoints.
	Client struct {
		httpClient *http.Client
	}

	// ReqConfig models the configuration options for requests.
	ReqConfig struct {
		Payload []byte
		Method  string
		HTTPURL string
	}
)

// NewClient configures and returns a new client.
func NewClient() (c *Client) {
	return &Client{
		httpClient: &http.Client{
			Timeout:   defaultHTTPClientTimeout,
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		},
	}
}

func (c *Client) requestFilter(ctx context.Context, reqConfig *ReqConfig) (req *http.Request, err error) {
	req, err = http.NewRequestWithContext(ctx, reqConfig.Method, reqConfig.HTTPURL, bytes.NewBuffer(reqConfig.Payload))
	if err != nil {
		return
	}
	if reqConfig.Method == http.MethodPost || reqConfig.Method == http.MethodPut {
		req.Header.Add("Content-Type", "application/json;charset=utf-8")
	}
	req.Header.Add("Accept", "application/json")
	return
}

// Do prepares and processes an HTTP request against a backend resource,
// unmarshalling the JSON response into response.
func (c *Client) Do(ctx context.Context, reqConfig *ReqConfig, response interface{}) (err error) {
	if _, err := url.ParseRequestURI(reqConfig.HTTPURL); err != nil {
		return fmt.Errorf("error: url not properly constituted: %v", err)
	}

	req, err := c.requestFilter(ctx, reqConfig)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}

	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("error: status: %v resp: %s", resp.Status, body)
	}

	return json.Unmarshal(body, response)
}
