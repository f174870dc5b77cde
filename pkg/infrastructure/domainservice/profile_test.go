package domainservice

import (
	"strings"
	"testing"
)

func TestProfileBuilder_Build(t *testing.T) {
	builder := NewProfileBuilder(SocialPlatforms, nil)

	expected := map[string]string{
		"GitHub":    "https://github.com/alice",
		"Twitter/X": "https://twitter.com/alice",
		"Instagram": "https://instagram.com/alice",
		"LinkedIn":  "https://linkedin.com/in/alice",
		"Facebook":  "https://facebook.com/alice",
		"Reddit":    "https://reddit.com/user/alice",
		"YouTube":   "https://youtube.com/@alice",
		"TikTok":    "https://tiktok.com/@alice",
	}

	set := builder.Build("alice")
	if len(set) != len(SocialPlatforms) {
		t.Fatalf("len(Build) = %d, want %d", len(set), len(SocialPlatforms))
	}

	for i, entry := range set {
		if entry.Platform != SocialPlatforms[i].Name {
			t.Errorf("entry %d platform = %s, want %s", i, entry.Platform, SocialPlatforms[i].Name)
		}
		if want := expected[entry.Platform]; entry.URL != want {
			t.Errorf("%s URL = %s, want %s", entry.Platform, entry.URL, want)
		}
	}
}

func TestProfileBuilder_PlatformSets(t *testing.T) {
	tests := []struct {
		name  string
		count int
	}{
		{"basic", 6},
		{"social", 8},
		{"extended", 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := NewProfileBuilder(PlatformSets[tt.name], nil)
			set := builder.Build("alice")
			if len(set) != tt.count {
				t.Errorf("len(Build) = %d, want %d", len(set), tt.count)
			}
			for _, entry := range set {
				if !strings.HasPrefix(entry.URL, "https://") || !strings.Contains(entry.URL, "alice") {
					t.Errorf("%s URL = %s, missing username substitution", entry.Platform, entry.URL)
				}
				if strings.Contains(entry.URL, UsernamePlaceholder) {
					t.Errorf("%s URL = %s still has placeholder", entry.Platform, entry.URL)
				}
			}
		})
	}
}

func TestProfileBuilder_CustomPlatforms(t *testing.T) {
	custom := []Platform{
		{"Mastodon", "https://mastodon.social/@{username}"},
		{"github", "https://example.com/{username}"},
	}
	builder := NewProfileBuilder(BasicPlatforms, custom)

	names := builder.Platforms()
	if len(names) != len(BasicPlatforms)+1 {
		t.Fatalf("Platforms() = %v, want %d entries", names, len(BasicPlatforms)+1)
	}
	if names[len(names)-1] != "Mastodon" {
		t.Errorf("last platform = %s, want Mastodon", names[len(names)-1])
	}

	set := builder.Build("alice")
	if set[0].URL != "https://github.com/alice" {
		t.Errorf("duplicate platform overrode the built-in one: %s", set[0].URL)
	}
}

func TestProfileBuilder_EscapesAndTrims(t *testing.T) {
	builder := NewProfileBuilder(BasicPlatforms, nil)

	set := builder.Build("  a b/c ")
	if set[0].URL != "https://github.com/a%20b%2Fc" {
		t.Errorf("URL = %s, want escaped username", set[0].URL)
	}

	if got := builder.Build("   "); len(got) != 0 {
		t.Errorf("Build(blank) = %v, want empty", got)
	}
}

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		definition string
		wantErr    bool
	}{
		{"Mastodon=https://mastodon.social/@{username}", false},
		{" Keybase = https://keybase.io/{username} ", false},
		{"NoTemplate=", true},
		{"=https://x.com/{username}", true},
		{"NoPlaceholder=https://x.com/", true},
		{"missing-separator", true},
	}

	for _, tt := range tests {
		t.Run(tt.definition, func(t *testing.T) {
			p, err := ParsePlatform(tt.definition)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePlatform(%q) error = %v, wantErr %v", tt.definition, err, tt.wantErr)
			}
			if !tt.wantErr && (p.Name == "" || !strings.Contains(p.Template, UsernamePlaceholder)) {
				t.Errorf("ParsePlatform(%q) = %+v", tt.definition, p)
			}
		})
	}
}
