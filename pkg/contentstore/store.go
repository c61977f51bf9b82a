// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package contentstore uploads metadata documents and media to content
// addressed or object storage and returns a locator for the stored bytes.
package contentstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/luxfi/assetfactory/pkg/constants"
	"github.com/luxfi/crypto"
	"go.uber.org/zap"
)

// Backend selects where uploads go.
type Backend string

const (
	BackendIPFS  Backend = "ipfs"
	BackendS3    Backend = "s3"
	BackendGCS   Backend = "gcs"
	BackendLocal Backend = "local"
)

var (
	ErrUnsupportedBackend = errors.New("unsupported content store backend")
	ErrMissingBucket      = errors.New("bucket is required")
	ErrInvalidLocator     = errors.New("invalid content locator")
)

// Credentials holds the secrets of every backend; each backend reads only
// its own fields.
type Credentials struct {
	// IPFS gateways with basic auth
	Username string
	Password string

	// S3
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Profile         string
	RoleARN         string

	// GCS service account file
	CredentialsFile string
}

// Options configures one upload.
type Options struct {
	Backend Backend
	// Endpoint overrides the default API endpoint of the backend.
	Endpoint    string
	Credentials Credentials
	// Pin asks IPFS nodes to pin the added content.
	Pin    bool
	Bucket string
	Region string
	// BasePath is the directory of the local backend.
	BasePath    string
	ContentType string
}

// DefaultOptions uploads to the public IPFS endpoint and pins.
func DefaultOptions() Options {
	return Options{
		Backend:  BackendIPFS,
		Endpoint: constants.DefaultIPFSEndpoint,
		Pin:      true,
	}
}

func (o Options) backend() Backend {
	if o.Backend == "" {
		return BackendIPFS
	}
	return o.Backend
}

// Locator addresses stored content, e.g. ipfs://<cid> or s3://bucket/key.
type Locator struct {
	Scheme  string
	Address string
}

func (l Locator) String() string {
	return l.Scheme + "://" + l.Address
}

// ParseLocator splits a locator string into scheme and address.
// Supported formats:
//   - ipfs://<cid>
//   - s3://bucket/key
//   - gs://bucket/key
//   - file:///local/path
//   - http(s)://host/path
func ParseLocator(s string) (Locator, error) {
	scheme, address, ok := strings.Cut(s, "://")
	if !ok || address == "" {
		return Locator{}, fmt.Errorf("%w: %q", ErrInvalidLocator, s)
	}
	switch scheme {
	case constants.IPFSScheme, constants.S3Scheme, constants.GCSScheme, "file", "http", "https":
		return Locator{Scheme: scheme, Address: address}, nil
	default:
		return Locator{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidLocator, scheme)
	}
}

// Store uploads bytes and returns where they can be found.
type Store interface {
	Upload(ctx context.Context, data []byte, opts Options) (Locator, error)
}

// ContentKey is the object key used by bucket backends: the hex keccak256
// of the content.
func ContentKey(data []byte) string {
	return strings.TrimPrefix(crypto.Keccak256Hash(data).Hex(), "0x")
}

// Router dispatches uploads to the backend named in the options and keeps
// one client per distinct backend configuration.
type Router struct {
	log  *zap.Logger
	ipfs *ipfsClient

	mu  sync.Mutex
	s3  map[string]*s3Store
	gcs map[string]*gcsStore
}

var _ Store = (*Router)(nil)

func NewRouter(log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{
		log:  log,
		ipfs: newIPFSClient(),
		s3:   make(map[string]*s3Store),
		gcs:  make(map[string]*gcsStore),
	}
}

// Upload stores data with the backend selected by opts.
func (r *Router) Upload(ctx context.Context, data []byte, opts Options) (Locator, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.UploadTimeout)
	defer cancel()

	var (
		loc Locator
		err error
	)
	switch opts.backend() {
	case BackendIPFS:
		loc, err = r.ipfs.add(ctx, data, opts)
	case BackendS3:
		var store *s3Store
		if store, err = r.s3Store(ctx, opts); err == nil {
			loc, err = store.put(ctx, data, opts)
		}
	case BackendGCS:
		var store *gcsStore
		if store, err = r.gcsStore(ctx, opts); err == nil {
			loc, err = store.put(ctx, data, opts)
		}
	case BackendLocal:
		loc, err = putLocal(data, opts)
	default:
		return Locator{}, fmt.Errorf("%w: %s", ErrUnsupportedBackend, opts.Backend)
	}
	if err != nil {
		return Locator{}, fmt.Errorf("%s upload failed: %w", opts.backend(), err)
	}
	r.log.Debug("content uploaded",
		zap.String("backend", string(opts.backend())),
		zap.Stringer("locator", loc),
		zap.Int("size", len(data)),
	)
	return loc, nil
}

func (r *Router) s3Store(ctx context.Context, opts Options) (*s3Store, error) {
	key := strings.Join([]string{opts.Region, opts.Endpoint, opts.Credentials.AccessKeyID, opts.Credentials.Profile, opts.Credentials.RoleARN}, "|")
	r.mu.Lock()
	defer r.mu.Unlock()
	if store, ok := r.s3[key]; ok {
		return store, nil
	}
	store, err := newS3Store(ctx, opts)
	if err != nil {
		return nil, err
	}
	r.s3[key] = store
	return store, nil
}

func (r *Router) gcsStore(ctx context.Context, opts Options) (*gcsStore, error) {
	key := opts.Endpoint + "|" + opts.Credentials.CredentialsFile
	r.mu.Lock()
	defer r.mu.Unlock()
	if store, ok := r.gcs[key]; ok {
		return store, nil
	}
	// the client outlives this upload, so it must not be bound to ctx
	store, err := newGCSStore(context.WithoutCancel(ctx), opts)
	if err != nil {
		return nil, err
	}
	r.gcs[key] = store
	return store, nil
}

// Close releases the clients opened so far.
func (r *Router) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs []error
	for key, store := range r.gcs {
		if err := store.close(); err != nil {
			errs = append(errs, err)
		}
		delete(r.gcs, key)
	}
	return errors.Join(errs...)
}
