// Package certs provides a TLS configuration whose certificate is reloaded
// when the underlying files change.
package certs

import (
	"context"
	"crypto/tls"
	"errors"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/orbitarch/orbitarch-service-go/log"
)

var ErrNoSource = errors.New("neither key pair nor traefik certs configured")

type (
	Provider struct {
		ctx           context.Context
		certFile      string
		keyFile       string
		traefikFile   string
		traefikDomain string
		l             *log.Logger

		mu   sync.RWMutex
		cert *tls.Certificate
	}
	Option func(*Provider)
)

// WithKeyPair uses PEM encoded certificate and key files.
func WithKeyPair(certFile, keyFile string) Option {
	return func(p *Provider) {
		p.certFile = certFile
		p.keyFile = keyFile
	}
}

// WithTraefik reads the certificate of domain from a traefik acme.json file.
// It takes precedence over WithKeyPair.
func WithTraefik(file, domain string) Option {
	return func(p *Provider) {
		p.traefikFile = file
		p.traefikDomain = domain
	}
}

func WithLogger(l *log.Logger) Option {
	return func(p *Provider) {
		p.l = l
	}
}

// NewProvider loads the certificate once. The provider watches the files
// until ctx is done after Watch is called.
func NewProvider(ctx context.Context, opts ...Option) (*Provider, error) {
	ret := &Provider{
		ctx: ctx,
		l:   log.Default().Named("certs"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if !ret.useTraefik() && (ret.certFile == "" || ret.keyFile == "") {
		return nil, ErrNoSource
	}
	if err := ret.load(); err != nil {
		return nil, err
	}
	return ret, nil
}

func (p *Provider) TLSConfig() *tls.Config {
	return &tls.Config{
		GetCertificate: func(*tls.ClientHelloInfo) (*tls.Certificate, error) {
			return p.Certificate(), nil
		},
		MinVersion: tls.VersionTLS13,
	}
}

func (p *Provider) Certificate() *tls.Certificate {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cert
}

func (p *Provider) useTraefik() bool {
	return p.traefikFile != "" && p.traefikDomain != ""
}

func (p *Provider) files() []string {
	if p.useTraefik() {
		return []string{p.traefikFile}
	}
	return []string{p.certFile, p.keyFile}
}

func (p *Provider) load() error {
	var cert tls.Certificate
	var err error
	if p.useTraefik() {
		p.l.Info("Looking up traefik certs",
			log.String("file", p.traefikFile),
			log.String("domain", p.traefikDomain))
		cert, err = LoadTraefik(p.traefikFile, p.traefikDomain)
	} else {
		p.l.Info("Loading cert",
			log.String("key", p.keyFile),
			log.String("cert", p.certFile))
		cert, err = tls.LoadX509KeyPair(p.certFile, p.keyFile)
	}
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cert = &cert
	return nil
}

// Watch reloads the certificate on file changes until the context of the
// provider is done. A failed reload keeps the previous certificate.
func (p *Provider) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	for _, f := range p.files() {
		if err := watcher.Add(f); err != nil {
			watcher.Close()
			return err
		}
	}
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-p.ctx.Done():
				p.l.Debug("context done, stopping cert reload")
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Chmod) {

					p.l.Info("cert file changed, reloading cert",
						log.String("file", event.Name))
					if err := p.load(); err != nil {
						p.l.Error("could not reload cert", log.ErrorField(err))
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				p.l.Error("watcher error", log.ErrorField(err))
			}
		}
	}()
	return nil
}
