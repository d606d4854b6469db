// Package config loads process settings from the environment.
package config

import (
	"strings"
	"time"

	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/identity"
)

const (
	RegistryStatic = "static"
	RegistryRedis  = "redis"
)

// Registry says where services find each other.
type Registry struct {
	Kind      string // static | redis
	File      string // optional YAML for the static registry
	Namespace string
	TTL       time.Duration
	// Addrs are the <KIND>_SERVICE_ADDR values, keyed by kind.
	Addrs map[identity.Kind]string
}

// Lookup bounds the calls a service makes to resolve foreign references.
type Lookup struct {
	Timeout     time.Duration
	MaxAttempts int
	CacheTTL    time.Duration
}

type Service struct {
	Name          string
	Kind          identity.Kind
	Addr          string
	AdvertiseAddr string
	DBDriver      string
	DBDSN         string
	RedisAddr     string
	LogLevel      string
	Registry      Registry
	Lookup        Lookup
}

type Gateway struct {
	Name           string
	HTTPAddr       string
	RedisAddr      string
	LogLevel       string
	RequestTimeout time.Duration
	Registry       Registry
}

// LoadService reads the settings of the service owning kind.
func LoadService(name string, kind identity.Kind, defaultPort string) Service {
	port := GetEnv("PORT", defaultPort)
	return Service{
		Name:          GetEnv("OTEL_SERVICE_NAME", name),
		Kind:          kind,
		Addr:          ":" + port,
		AdvertiseAddr: GetEnv("ADVERTISE_ADDR", name+":"+port),
		DBDriver:      GetEnv("DB_DRIVER", "memory"),
		DBDSN:         GetEnv("DB_DSN", ""),
		RedisAddr:     GetEnv("REDIS_ADDR", ""),
		LogLevel:      GetEnv("LOG_LEVEL", "info"),
		Registry:      loadRegistry(),
		Lookup: Lookup{
			Timeout:     Duration("LOOKUP_TIMEOUT", 2*time.Second),
			MaxAttempts: Int("LOOKUP_MAX_ATTEMPTS", 3),
			CacheTTL:    Duration("LOOKUP_CACHE_TTL", 30*time.Second),
		},
	}
}

func LoadGateway() Gateway {
	return Gateway{
		Name:           GetEnv("OTEL_SERVICE_NAME", "api-gateway"),
		HTTPAddr:       GetEnv("HTTP_ADDR", ":8080"),
		RedisAddr:      GetEnv("REDIS_ADDR", ""),
		LogLevel:       GetEnv("LOG_LEVEL", "info"),
		RequestTimeout: Duration("REQUEST_TIMEOUT", 10*time.Second),
		Registry:       loadRegistry(),
	}
}

// DefaultAddrs are the local ports each service listens on by default.
var DefaultAddrs = map[identity.Kind]string{
	identity.KindOrder:     "localhost:9090",
	identity.KindPayment:   "localhost:9091",
	identity.KindProduct:   "localhost:9092",
	identity.KindUser:      "localhost:9093",
	identity.KindOrderItem: "localhost:9094",
	identity.KindFavourite: "localhost:9095",
}

func loadRegistry() Registry {
	addrs := make(map[identity.Kind]string)
	for _, kind := range identity.Kinds {
		if v := GetEnv(AddrEnv(kind), ""); v != "" {
			addrs[kind] = v
		}
	}
	return Registry{
		Kind:      GetEnv("REGISTRY", RegistryStatic),
		File:      GetEnv("REGISTRY_FILE", ""),
		Namespace: GetEnv("REGISTRY_NAMESPACE", "ecommerce"),
		TTL:       Duration("REGISTRY_TTL", 30*time.Second),
		Addrs:     addrs,
	}
}

// AddrEnv names the variable holding the address of kind's service,
// e.g. ORDER_ITEM_SERVICE_ADDR.
func AddrEnv(kind identity.Kind) string {
	return strings.ToUpper(strings.ReplaceAll(string(kind), "-", "_")) + "_SERVICE_ADDR"
}
