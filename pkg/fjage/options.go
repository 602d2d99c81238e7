// pkg/fjage/options.go
// GatewayOptions configures a Gateway. Grounded on the teacher's
// internal/agent/config.go: a Config struct with mapstructure tags, a
// DefaultConfig(), and a Load(filePath, envPrefix) that merges environment
// variables and an optional file through a fresh viper.New() instance
// rather than the global viper singleton (so embedding this package does
// not clash with a host application's own viper configuration).
package fjage

import (
	"time"

	"github.com/spf13/viper"
)

// GatewayOptions controls connection, timeout and cache behaviour.
type GatewayOptions struct {
	// Addr is the "host:port" of the platform's TCP endpoint.
	Addr string `mapstructure:"addr"`

	// AgentName is the name this Gateway presents itself as.
	AgentName string `mapstructure:"agent_name"`

	// Reconnect enables transport-level reconnection with backoff.
	Reconnect bool `mapstructure:"reconnect"`

	// ConnectTimeout bounds the initial connection attempt.
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`

	// DefaultTimeout is used by Request/parameter access when the caller
	// does not supply an explicit timeout.
	DefaultTimeout time.Duration `mapstructure:"default_timeout"`

	// InboxCapacity bounds the unsolicited-message queue; 0 uses
	// inbox.DefaultCapacity.
	InboxCapacity int `mapstructure:"inbox_capacity"`

	// MetadataCacheTTL, if > 0, enables caching of agents()/services()/
	// agentForService()/agentsForService() results for this long.
	MetadataCacheTTL time.Duration `mapstructure:"metadata_cache_ttl"`
}

// DefaultGatewayOptions returns sensible defaults: reconnect enabled, a 10s
// connect timeout, a 5s default request timeout, the fjagepy-matching inbox
// capacity, and caching disabled.
func DefaultGatewayOptions() GatewayOptions {
	return GatewayOptions{
		AgentName:      "GatewayGo",
		Reconnect:      true,
		ConnectTimeout: 10 * time.Second,
		DefaultTimeout: defaultParamTimeout,
		InboxCapacity:  0,
	}
}

// LoadGatewayOptions reads configuration from environment variables
// (envPrefix, e.g. "FJAGE") and an optional config file, overlaid onto
// DefaultGatewayOptions. An empty filePath skips the file and uses env vars
// plus defaults only.
func LoadGatewayOptions(filePath, envPrefix string) GatewayOptions {
	opts := DefaultGatewayOptions()

	v := viper.New()
	if envPrefix != "" {
		v.SetEnvPrefix(envPrefix)
		v.AutomaticEnv()
		for _, key := range []string{"addr", "agent_name", "reconnect", "connect_timeout", "default_timeout", "inbox_capacity", "metadata_cache_ttl"} {
			_ = v.BindEnv(key)
		}
	}
	if filePath != "" {
		v.SetConfigFile(filePath)
		_ = v.ReadInConfig()
	}
	_ = v.Unmarshal(&opts)
	return opts
}
