package domainservice

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/WangYihang/OSINT-Lab/pkg/domain/entity"
	"github.com/WangYihang/OSINT-Lab/pkg/domain/service"
	mapset "github.com/deckarep/golang-set/v2"
)

// UsernamePlaceholder is replaced by the username in every template
const UsernamePlaceholder = "{username}"

// Platform is a named profile URL template
type Platform struct {
	Name     string
	Template string
}

// BasicPlatforms is the six-platform set of the quick username search
var BasicPlatforms = []Platform{
	{"GitHub", "https://github.com/{username}"},
	{"Twitter", "https://twitter.com/{username}"},
	{"Instagram", "https://instagram.com/{username}"},
	{"LinkedIn", "https://linkedin.com/in/{username}"},
	{"Reddit", "https://reddit.com/user/{username}"},
	{"YouTube", "https://youtube.com/@{username}"},
}

// SocialPlatforms is the eight-platform set of the social media finder
var SocialPlatforms = []Platform{
	{"GitHub", "https://github.com/{username}"},
	{"Twitter/X", "https://twitter.com/{username}"},
	{"Instagram", "https://instagram.com/{username}"},
	{"LinkedIn", "https://linkedin.com/in/{username}"},
	{"Facebook", "https://facebook.com/{username}"},
	{"Reddit", "https://reddit.com/user/{username}"},
	{"YouTube", "https://youtube.com/@{username}"},
	{"TikTok", "https://tiktok.com/@{username}"},
}

// ExtendedPlatforms covers the twelve platforms of the username search
var ExtendedPlatforms = []Platform{
	{"GitHub", "https://github.com/{username}"},
	{"Twitter", "https://twitter.com/{username}"},
	{"Instagram", "https://instagram.com/{username}"},
	{"LinkedIn", "https://linkedin.com/in/{username}"},
	{"Reddit", "https://reddit.com/user/{username}"},
	{"YouTube", "https://youtube.com/@{username}"},
	{"TikTok", "https://tiktok.com/@{username}"},
	{"Pinterest", "https://pinterest.com/{username}"},
	{"Tumblr", "https://{username}.tumblr.com"},
	{"Medium", "https://medium.com/@{username}"},
	{"Dev.to", "https://dev.to/{username}"},
	{"Behance", "https://behance.net/{username}"},
}

// PlatformSets maps a set name to its templates
var PlatformSets = map[string][]Platform{
	"basic":    BasicPlatforms,
	"social":   SocialPlatforms,
	"extended": ExtendedPlatforms,
}

// ProfileBuilder implements service.ProfileURLBuilder
type ProfileBuilder struct {
	platforms []Platform
}

// NewProfileBuilder creates a builder from a base set plus custom platforms.
// Platform names are compared case-insensitively and the first one wins.
func NewProfileBuilder(base []Platform, custom []Platform) service.ProfileURLBuilder {
	seen := mapset.NewThreadUnsafeSet[string]()
	platforms := make([]Platform, 0, len(base)+len(custom))

	for _, p := range append(append([]Platform{}, base...), custom...) {
		name := strings.TrimSpace(p.Name)
		if name == "" || p.Template == "" {
			continue
		}
		if !seen.Add(strings.ToLower(name)) {
			continue
		}
		platforms = append(platforms, Platform{Name: name, Template: p.Template})
	}

	return &ProfileBuilder{platforms: platforms}
}

// ParsePlatform parses a "Name=https://host/{username}" definition
func ParsePlatform(definition string) (Platform, error) {
	name, template, ok := strings.Cut(definition, "=")
	name = strings.TrimSpace(name)
	template = strings.TrimSpace(template)
	if !ok || name == "" || template == "" {
		return Platform{}, fmt.Errorf("platform definition must be Name=Template, got %q", definition)
	}
	if !strings.Contains(template, UsernamePlaceholder) {
		return Platform{}, fmt.Errorf("platform template %q has no %s placeholder", template, UsernamePlaceholder)
	}
	return Platform{Name: name, Template: template}, nil
}

// Build substitutes the username into every platform template.
// Existence of the resulting profiles is never checked.
func (b *ProfileBuilder) Build(username string) entity.PlatformURLSet {
	username = url.PathEscape(strings.TrimSpace(username))
	if username == "" {
		return entity.PlatformURLSet{}
	}

	set := make(entity.PlatformURLSet, 0, len(b.platforms))
	for _, p := range b.platforms {
		set = append(set, entity.PlatformURL{
			Platform: p.Name,
			URL:      strings.ReplaceAll(p.Template, UsernamePlaceholder, username),
		})
	}
	return set
}

// Platforms returns the configured platform names in order
func (b *ProfileBuilder) Platforms() []string {
	names := make([]string, len(b.platforms))
	for i, p := range b.platforms {
		names[i] = p.Name
	}
	return names
}
