package service

import "testing"

func TestMaxLength(t *testing.T) {
	cases := []struct {
		platform Platform
		want     int
	}{
		{PlatformTwitter, 280},
		{PlatformLinkedIn, 3000},
		{PlatformInstagram, 2200},
		{PlatformTikTok, 2200},
		{PlatformPinterest, 500},
		{PlatformFacebook, 0},
		{PlatformYouTube, 0},
		{Platform("mastodon"), 0},
	}
	for _, tc := range cases {
		if got := MaxLength(tc.platform); got != tc.want {
			t.Fatalf("MaxLength(%s) = %d, want %d", tc.platform, got, tc.want)
		}
	}
}

func TestSupportsOption(t *testing.T) {
	if !SupportsOption(PlatformInstagram, OptionFirstComment) {
		t.Fatalf("instagram must support first comment")
	}
	if !SupportsOption(PlatformPinterest, OptionDestinationLink) {
		t.Fatalf("pinterest must support destination link")
	}
	if !SupportsOption(PlatformYouTube, OptionVisibility) {
		t.Fatalf("youtube must support visibility")
	}
	if SupportsOption(PlatformTwitter, OptionFirstComment) {
		t.Fatalf("twitter has no optional fields")
	}
	if SupportsOption(Platform("mastodon"), OptionFirstComment) {
		t.Fatalf("unknown platform supports nothing")
	}
}

func TestPlatformBadgeFallback(t *testing.T) {
	icon, color := PlatformBadge(PlatformTwitter)
	if icon != "twitter" || color != "#1DA1F2" {
		t.Fatalf("unexpected twitter badge: %s %s", icon, color)
	}

	icon, color = PlatformBadge(Platform("mastodon"))
	if icon != "globe" || color != "#6B7280" {
		t.Fatalf("unknown platform must fall back to the generic badge, got %s %s", icon, color)
	}
}

func TestKnownPlatforms(t *testing.T) {
	known := KnownPlatforms()
	if len(known) != len(platformProfiles) {
		t.Fatalf("KnownPlatforms must list every profile, got %d of %d", len(known), len(platformProfiles))
	}
	for _, platform := range known {
		if !KnownPlatform(platform) {
			t.Fatalf("listed platform %s not recognized", platform)
		}
	}
	if KnownPlatform(Platform("mastodon")) {
		t.Fatalf("unexpected platform recognized")
	}
}
