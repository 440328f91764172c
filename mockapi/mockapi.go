// Package mockapi answers /api requests in-process, without a server.
//
// The transport runs the same router as the real server over a key/value
// store, so a client sees identical status codes and bodies.
package mockapi

import (
	"context"
	"crypto/rand"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/gin-contrib/sessions/cookie"
	"go.uber.org/zap"

	"bod/content"
	"bod/database"
	"bod/server"
)

const apiPrefix = "/api"

type Options struct {
	// Storage defaults to a fresh in-memory store.
	Storage content.Storage
	// AdminPassword is used when the admin account is seeded.
	AdminPassword string
	Logger        *zap.Logger
}

// Transport serves /api from local storage and hands everything else to Base.
type Transport struct {
	Base http.RoundTripper

	handler  http.Handler
	repos    *content.Repositories
	storage  content.Storage
	password string
	log      *zap.Logger

	seedMu sync.Mutex
	seeded bool
}

func NewTransport(base http.RoundTripper, opts Options) (*Transport, error) {
	if base == nil {
		base = http.DefaultTransport
	}
	if opts.Storage == nil {
		opts.Storage = content.NewMemoryStorage()
	}
	if opts.AdminPassword == "" {
		opts.AdminPassword = "admin123"
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("session secret: %w", err)
	}
	store := cookie.NewStore(secret)
	store.Options(server.SessionOptions(false))

	repos := content.NewLocalRepositories(opts.Storage)
	handler := server.NewAPIRouter(server.Deps{
		Repos:    repos,
		Sessions: store,
		Logger:   opts.Logger,
	})

	return &Transport{
		Base:     base,
		handler:  handler,
		repos:    repos,
		storage:  opts.Storage,
		password: opts.AdminPassword,
		log:      opts.Logger,
	}, nil
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !isAPIPath(req.URL.Path) {
		return t.Base.RoundTrip(req)
	}

	if err := t.ensureSeeded(req.Context()); err != nil {
		t.log.Warn("mock api seeding incomplete", zap.Error(err))
	}

	inner := req.Clone(req.Context())
	inner.RequestURI = req.URL.RequestURI()
	if inner.RemoteAddr == "" {
		inner.RemoteAddr = "127.0.0.1:0"
	}
	if inner.Body == nil {
		inner.Body = http.NoBody
	}

	rec := httptest.NewRecorder()
	t.handler.ServeHTTP(rec, inner)

	resp := rec.Result()
	resp.Request = req
	return resp, nil
}

// ensureSeeded seeds the store once, and only if it has never held a dataset.
func (t *Transport) ensureSeeded(ctx context.Context) error {
	t.seedMu.Lock()
	defer t.seedMu.Unlock()
	if t.seeded {
		return nil
	}
	t.seeded = true

	_, exists, err := t.storage.Get(content.DatasetKey)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return database.Seed(ctx, t.repos, t.password, t.log)
}

func isAPIPath(path string) bool {
	return path == apiPrefix || strings.HasPrefix(path, apiPrefix+"/")
}

// Install wraps client's transport with a mock transport and gives the client
// a cookie jar if it has none. A client that already uses a mock transport is
// left alone and its transport is returned.
func Install(client *http.Client, opts Options) (*Transport, error) {
	if t, ok := client.Transport.(*Transport); ok {
		return t, nil
	}
	t, err := NewTransport(client.Transport, opts)
	if err != nil {
		return nil, err
	}
	if client.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		client.Jar = jar
	}
	client.Transport = t
	return t, nil
}

var (
	defaultMu        sync.Mutex
	defaultInstalled *Transport
)

// InstallDefault installs a memory-backed mock on http.DefaultClient, once
// per process.
func InstallDefault() (*Transport, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultInstalled != nil {
		return defaultInstalled, nil
	}
	t, err := Install(http.DefaultClient, Options{})
	if err != nil {
		return nil, err
	}
	defaultInstalled = t
	return t, nil
}
