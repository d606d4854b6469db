// Package registry answers "where does the service owning this kind live".
package registry

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/apperr"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/identity"
)

// Registry resolves the gRPC address of the service owning kind. A kind with
// no known address resolves to an error matching apperr.ErrServiceUnavailable.
type Registry interface {
	Resolve(ctx context.Context, kind identity.Kind) (string, error)
}

// Static serves a fixed table of addresses.
type Static struct {
	addrs map[identity.Kind]string
}

var _ Registry = (*Static)(nil)

func NewStatic(addrs map[identity.Kind]string) *Static {
	s := &Static{addrs: make(map[identity.Kind]string, len(addrs))}
	for k, v := range addrs {
		s.addrs[k] = v
	}
	return s
}

// fileFormat is the YAML layout of a registry file:
//
//	services:
//	  product: product-service:9092
//	  order-item: shipping-service:9094
type fileFormat struct {
	Services map[string]string `yaml:"services"`
}

// LoadStatic layers the optional YAML file at path over defaults, then
// overrides over both.
func LoadStatic(path string, defaults, overrides map[identity.Kind]string) (*Static, error) {
	addrs := make(map[identity.Kind]string)
	for k, v := range defaults {
		addrs[k] = v
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("registry: read %s: %w", path, err)
		}
		var f fileFormat
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("registry: parse %s: %w", path, err)
		}
		for k, v := range f.Services {
			addrs[identity.Kind(k)] = v
		}
	}
	for k, v := range overrides {
		addrs[k] = v
	}
	return NewStatic(addrs), nil
}

func (s *Static) Resolve(ctx context.Context, kind identity.Kind) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	addr, ok := s.addrs[kind]
	if !ok || addr == "" {
		return "", fmt.Errorf("registry: no address for %s: %w", kind, apperr.ErrServiceUnavailable)
	}
	return addr, nil
}
