package helpers

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// NewESClient creates an Elasticsearch client with optional basic auth and
// checks that the cluster answers.
func NewESClient(ctx context.Context, addrs []string, username, password string) (*elasticsearch.Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: addrs,
		Username:  username,
		Password:  password,
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: 5 * time.Second,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
			DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		},
	})
	if err != nil {
		return nil, err
	}
	res, err := es.Info(es.Info.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch info: %s", res.Status())
	}
	return es, nil
}

// EnsureESIndex creates index with mapping unless it already exists.
func EnsureESIndex(ctx context.Context, es *elasticsearch.Client, index, mapping string) error {
	exists, err := esapi.IndicesExistsRequest{Index: []string{index}}.Do(ctx, es)
	if err != nil {
		return err
	}
	_ = exists.Body.Close()
	if exists.StatusCode == http.StatusOK {
		return nil
	}

	res, err := esapi.IndicesCreateRequest{Index: index, Body: strings.NewReader(mapping)}.Do(ctx, es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	// another instance may have created it in between
	if res.IsError() && res.StatusCode != http.StatusBadRequest {
		return fmt.Errorf("create index %s: %s", index, res.Status())
	}
	return nil
}
