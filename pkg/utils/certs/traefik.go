package certs

import (
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

var ErrDomainNotFound = errors.New("domain not found")

var (
	certField = jp.C("certificate")
	keyField  = jp.C("key")
)

// LoadTraefik reads the key pair of domain from a traefik acme.json file.
func LoadTraefik(file, domain string) (tls.Certificate, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return tls.Certificate{}, err
	}
	certPEM, keyPEM, err := traefikKeyPair(data, domain)
	if err != nil {
		return tls.Certificate{}, err
	}
	return tls.X509KeyPair(certPEM, keyPEM)
}

// traefikKeyPair returns the decoded PEM blocks of the first resolver entry
// whose main domain matches.
func traefikKeyPair(data []byte, domain string) (certPEM, keyPEM []byte, err error) {
	obj, err := oj.Parse(data)
	if err != nil {
		return nil, nil, err
	}
	path, err := jp.ParseString(
		fmt.Sprintf(`$..Certificates[?(@.domain.main == %q)]`, domain))
	if err != nil {
		return nil, nil, err
	}
	matches := path.Get(obj)
	if len(matches) == 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrDomainNotFound, domain)
	}
	decode := func(field jp.Expr) ([]byte, error) {
		s, ok := field.First(matches[0]).(string)
		if !ok {
			return nil, fmt.Errorf("%s: %s missing", domain, field)
		}
		return base64.StdEncoding.DecodeString(s)
	}
	if certPEM, err = decode(certField); err != nil {
		return nil, nil, err
	}
	if keyPEM, err = decode(keyField); err != nil {
		return nil, nil, err
	}
	return certPEM, keyPEM, nil
}
