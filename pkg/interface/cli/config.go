package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/WangYihang/OSINT-Lab/pkg/common"
	"github.com/WangYihang/OSINT-Lab/pkg/domain/entity"
	"github.com/WangYihang/OSINT-Lab/pkg/infrastructure/domainservice"
	"github.com/WangYihang/OSINT-Lab/pkg/infrastructure/geo"
	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"
)

// Mode is the presentation surface the program runs in
type Mode string

const (
	ModeOneShot   Mode = "oneshot"
	ModeDashboard Mode = "dashboard"
	ModeServe     Mode = "serve"
)

// Config holds all application configuration
type Config struct {
	// Target
	Tool string `short:"t" long:"tool" description:"Tool to run" choice:"ip" choice:"domain" choice:"email" choice:"username" choice:"phone"`
	Args struct {
		Target string `positional-arg-name:"TARGET" description:"IP address, domain, email, username or phone number"`
	} `positional-args:"yes"`

	// Output
	OutputFile    string `short:"o" long:"output" description:"JSONL file reports are appended to"`
	LookupLogFile string `long:"lookup-log" description:"JSONL log of every HTTP, DNS and WHOIS exchange"`
	JSON          bool   `long:"json" description:"Print reports as JSON instead of styled panels"`

	// Lookups
	Timeout         int      `long:"timeout" description:"Timeout of every outbound lookup in seconds" default:"10"`
	DNSServers      []string `long:"dns-server" description:"DNS server as host or host:port (repeatable, default: /etc/resolv.conf then public resolvers)"`
	GeoEndpoint     string   `long:"geo-endpoint" description:"Base URL of the ip-api compatible geolocation service" default:"http://ip-api.com"`
	WhoisServer     string   `long:"whois-server" description:"WHOIS server to query instead of following referrals"`
	UserAgent       string   `long:"user-agent" description:"HTTP User-Agent header (default: OSINT-Lab/<version>)"`
	MaxResponseSize int64    `long:"max-response-size" description:"Maximum HTTP response size in bytes" default:"1048576"`

	// Real timeout duration (not parsed from flags directly)
	TimeoutDuration time.Duration

	// Username search
	PlatformSet     string   `long:"platforms" description:"Built-in platform set for username search" choice:"basic" choice:"social" choice:"extended" default:"social"`
	CustomPlatforms []string `long:"platform" description:"Custom platform as Name=Template, the template containing {username} (repeatable)"`

	// Parsed custom platforms
	Platforms []domainservice.Platform

	// Modes
	ShowDashboard bool   `long:"dashboard" description:"Run the interactive terminal dashboard"`
	Serve         bool   `long:"serve" description:"Serve the JSON API"`
	Listen        string `long:"listen" description:"Listen address of the JSON API" default:"127.0.0.1:8080"`

	LogLevel string `long:"log-level" description:"Operational log level" choice:"debug" choice:"info" choice:"warn" choice:"error" default:"info"`
	Version  bool   `long:"version" description:"Print version information and exit"`
}

// DefaultUserAgent identifies the build in outbound HTTP requests
func DefaultUserAgent() string {
	return "OSINT-Lab/" + common.Current().Short()
}

// ParseArgs parses args into a validated configuration.
// Help output is reported as an error satisfying flags.WroteHelp.
func ParseArgs(args []string) (*Config, error) {
	cfg := &Config{}

	parser := flags.NewParser(cfg, flags.Default)
	parser.Usage = "[OPTIONS] [TARGET]"

	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}

	// Convert timeouts
	cfg.TimeoutDuration = time.Duration(cfg.Timeout) * time.Second

	if cfg.Version {
		return cfg, nil
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Mode returns the presentation surface selected by the flags.
// Without a tool and a target the dashboard is started.
func (c *Config) Mode() Mode {
	switch {
	case c.Serve:
		return ModeServe
	case c.ShowDashboard:
		return ModeDashboard
	case c.Tool == "" && c.Args.Target == "":
		return ModeDashboard
	default:
		return ModeOneShot
	}
}

// Validate validates the configuration and parses custom platforms
func (c *Config) Validate() error {
	if c.Serve && c.ShowDashboard {
		return fmt.Errorf("--serve and --dashboard are mutually exclusive")
	}

	if c.Mode() == ModeOneShot {
		if c.Tool == "" {
			return fmt.Errorf("a tool is required with a target, use -t one of %s", kindList())
		}
		if _, err := entity.ParseTargetKind(c.Tool); err != nil {
			return err
		}
		if strings.TrimSpace(c.Args.Target) == "" {
			return fmt.Errorf("tool %s requires a TARGET", c.Tool)
		}
	}

	if c.TimeoutDuration <= 0 {
		return fmt.Errorf("timeout must be > 0, got %s", c.TimeoutDuration)
	}

	if c.MaxResponseSize <= 0 {
		return fmt.Errorf("max response size must be > 0, got %d", c.MaxResponseSize)
	}

	if c.GeoEndpoint == "" {
		c.GeoEndpoint = geo.DefaultEndpoint
	}

	if strings.TrimSpace(c.UserAgent) == "" {
		c.UserAgent = DefaultUserAgent()
	}

	if _, ok := domainservice.PlatformSets[c.PlatformSet]; !ok {
		return fmt.Errorf("unknown platform set %q", c.PlatformSet)
	}

	c.Platforms = c.Platforms[:0]
	for _, definition := range c.CustomPlatforms {
		platform, err := domainservice.ParsePlatform(definition)
		if err != nil {
			return fmt.Errorf("invalid --platform: %w", err)
		}
		c.Platforms = append(c.Platforms, platform)
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

func kindList() string {
	kinds := make([]string, len(entity.TargetKinds))
	for i, kind := range entity.TargetKinds {
		kinds[i] = string(kind)
	}
	return strings.Join(kinds, ", ")
}
