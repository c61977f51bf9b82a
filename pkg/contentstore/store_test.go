// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contentstore

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleCID = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"

func TestParseLocator(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		wantScheme  string
		wantAddress string
		wantErr     bool
	}{
		{name: "ipfs", in: "ipfs://" + sampleCID, wantScheme: "ipfs", wantAddress: sampleCID},
		{name: "s3", in: "s3://bucket/key", wantScheme: "s3", wantAddress: "bucket/key"},
		{name: "gs", in: "gs://bucket/key", wantScheme: "gs", wantAddress: "bucket/key"},
		{name: "file", in: "file:///var/data/x", wantScheme: "file", wantAddress: "/var/data/x"},
		{name: "https", in: "https://example.com/a.json", wantScheme: "https", wantAddress: "example.com/a.json"},
		{name: "unsupported", in: "ftp://host/path", wantErr: true},
		{name: "no scheme", in: sampleCID, wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := ParseLocator(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseLocator() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if loc.Scheme != tt.wantScheme {
				t.Errorf("ParseLocator() scheme = %v, want %v", loc.Scheme, tt.wantScheme)
			}
			if loc.Address != tt.wantAddress {
				t.Errorf("ParseLocator() address = %v, want %v", loc.Address, tt.wantAddress)
			}
			if loc.String() != tt.in {
				t.Errorf("String() = %v, want %v", loc.String(), tt.in)
			}
		})
	}
}

func TestIPFSUpload(t *testing.T) {
	require := require.New(t)

	var received atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v0/add" {
			http.NotFound(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "alice" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("pin") != "true" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		data, _ := io.ReadAll(file)
		received.Store(string(data))
		_ = json.NewEncoder(w).Encode(addResponse{Name: "blob", Hash: sampleCID, Size: "12"})
	}))
	defer srv.Close()

	router := NewRouter(nil)
	loc, err := router.Upload(context.Background(), []byte(`{"a":"b"}`), Options{
		Backend:     BackendIPFS,
		Endpoint:    srv.URL,
		Pin:         true,
		Credentials: Credentials{Username: "alice", Password: "secret"},
	})
	require.NoError(err)
	require.Equal("ipfs://"+sampleCID, loc.String())
	require.Equal(`{"a":"b"}`, received.Load())
}

func TestIPFSUploadFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "node offline", http.StatusBadGateway)
			},
		},
		{
			name: "invalid cid",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"Hash":"not-a-cid"}`))
			},
		},
		{
			name: "garbage",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`<html>`))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewRouter(nil).Upload(context.Background(), []byte("x"), Options{Endpoint: srv.URL})
			require.Error(t, err)
			require.Contains(t, err.Error(), "ipfs upload failed")
		})
	}
}

func TestS3UploadToCompatibleEndpoint(t *testing.T) {
	require := require.New(t)

	var gotPath, gotMethod atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod.Store(r.Method)
		gotPath.Store(r.URL.Path)
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	data := []byte(`{"LSP4Metadata":{}}`)
	loc, err := NewRouter(nil).Upload(context.Background(), data, Options{
		Backend:  BackendS3,
		Endpoint: srv.URL,
		Bucket:   "assets",
		Region:   "us-east-1",
		Credentials: Credentials{
			AccessKeyID:     "AKIDEXAMPLE",
			SecretAccessKey: "secret",
		},
	})
	require.NoError(err)
	require.Equal("s3://assets/"+ContentKey(data), loc.String())
	require.Equal(http.MethodPut, gotMethod.Load())
	require.Equal("/assets/"+ContentKey(data), gotPath.Load())
}

func TestBucketBackendsRequireBucket(t *testing.T) {
	_, err := NewRouter(nil).Upload(context.Background(), []byte("x"), Options{
		Backend:  BackendS3,
		Endpoint: "http://127.0.0.1:1",
		Region:   "us-east-1",
		Credentials: Credentials{
			AccessKeyID:     "AKIDEXAMPLE",
			SecretAccessKey: "secret",
		},
	})
	require.ErrorIs(t, err, ErrMissingBucket)
}

func TestLocalUpload(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	data := []byte("hello world")
	loc, err := NewRouter(nil).Upload(context.Background(), data, Options{Backend: BackendLocal, BasePath: dir})
	require.NoError(err)
	require.Equal("file", loc.Scheme)
	require.True(strings.HasSuffix(loc.Address, ContentKey(data)))

	stored, err := os.ReadFile(loc.Address)
	require.NoError(err)
	require.Equal(data, stored)

	_, err = NewRouter(nil).Upload(context.Background(), data, Options{Backend: BackendLocal})
	require.Error(err)
}

func TestUnsupportedBackend(t *testing.T) {
	_, err := NewRouter(nil).Upload(context.Background(), []byte("x"), Options{Backend: "azure"})
	require.ErrorIs(t, err, ErrUnsupportedBackend)
}

func TestContentKeyIsStable(t *testing.T) {
	require.Equal(t, ContentKey([]byte("a")), ContentKey([]byte("a")))
	require.NotEqual(t, ContentKey([]byte("a")), ContentKey([]byte("b")))
	require.Len(t, ContentKey([]byte("a")), 64)
	require.Equal(t, "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470", ContentKey(nil))
}
