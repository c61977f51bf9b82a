// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contentstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strconv"

	"github.com/ipfs/go-cid"
	"github.com/luxfi/assetfactory/pkg/constants"
)

// ipfsClient talks to the /api/v0 HTTP API of an IPFS node or pinning
// gateway.
type ipfsClient struct {
	http *http.Client
}

func newIPFSClient() *ipfsClient {
	return &ipfsClient{http: &http.Client{Timeout: constants.UploadTimeout}}
}

type addResponse struct {
	Name string `json:"Name"`
	Hash string `json:"Hash"`
	Size string `json:"Size"`
}

func (c *ipfsClient) add(ctx context.Context, data []byte, opts Options) (Locator, error) {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = constants.DefaultIPFSEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return Locator{}, fmt.Errorf("invalid IPFS endpoint %q: %w", endpoint, err)
	}
	u.Path = path.Join(u.Path, "/api/v0/add")
	q := u.Query()
	q.Set("pin", strconv.FormatBool(opts.Pin))
	u.RawQuery = q.Encode()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "blob")
	if err != nil {
		return Locator{}, err
	}
	if _, err := part.Write(data); err != nil {
		return Locator{}, err
	}
	if err := mw.Close(); err != nil {
		return Locator{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), &body)
	if err != nil {
		return Locator{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if opts.Credentials.Username != "" {
		req.SetBasicAuth(opts.Credentials.Username, opts.Credentials.Password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Locator{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return Locator{}, fmt.Errorf("IPFS add returned %s: %s", resp.Status, bytes.TrimSpace(msg))
	}

	var added addResponse
	if err := json.NewDecoder(resp.Body).Decode(&added); err != nil {
		return Locator{}, fmt.Errorf("decoding IPFS add response: %w", err)
	}
	id, err := cid.Decode(added.Hash)
	if err != nil {
		return Locator{}, fmt.Errorf("IPFS add returned invalid cid %q: %w", added.Hash, err)
	}
	return Locator{Scheme: constants.IPFSScheme, Address: id.String()}, nil
}
