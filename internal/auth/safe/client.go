// Package safe reads multisig owner lists from the Safe Transaction Service.
package safe

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"ecohubs/internal/integrations"
	"ecohubs/pkg/platform/sentinel"
)

const integrationName = "safe"

// chainPrefixes maps chain ids to Safe Transaction Service network slugs.
var chainPrefixes = map[int64]string{
	1:        "eth",
	10:       "oeth",
	100:      "gno",
	137:      "pol",
	8453:     "base",
	42161:    "arb1",
	11155111: "sep",
}

// BaseURL returns the Transaction Service base URL for a chain.
func BaseURL(chainID int64) (string, error) {
	prefix, ok := chainPrefixes[chainID]
	if !ok {
		return "", fmt.Errorf("unsupported safe chain id %d", chainID)
	}
	return "https://api.safe.global/tx-service/" + prefix, nil
}

type Config struct {
	Address string
	ChainID int64
	APIKey  string
	// BaseURL overrides the chain-derived service URL.
	BaseURL string
}

type Client struct {
	address string
	apiKey  string
	baseURL string
	http    integrations.Doer
}

func New(cfg Config, doer integrations.Doer) (*Client, error) {
	if cfg.Address == "" || cfg.APIKey == "" {
		return nil, sentinel.ErrNotConfigured
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		var err error
		if base, err = BaseURL(cfg.ChainID); err != nil {
			return nil, err
		}
	}
	return &Client{
		address: cfg.Address,
		apiKey:  cfg.APIKey,
		baseURL: base,
		http:    doer,
	}, nil
}

type safeInfo struct {
	Owners    []string `json:"owners"`
	Threshold int      `json:"threshold"`
}

// Owners returns the Safe's owner addresses, lower-cased.
func (c *Client) Owners(ctx context.Context) ([]string, error) {
	var info safeInfo
	err := integrations.DoJSON(ctx, c.http, integrationName, integrations.Request{
		Method: http.MethodGet,
		URL:    fmt.Sprintf("%s/api/v1/safes/%s/", c.baseURL, c.address),
		Header: http.Header{"Authorization": {"Bearer " + c.apiKey}},
	}, &info)
	if err != nil {
		return nil, err
	}
	owners := make([]string, 0, len(info.Owners))
	for _, o := range info.Owners {
		owners = append(owners, strings.ToLower(o))
	}
	return owners, nil
}
