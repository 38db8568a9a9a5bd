package utils

import (
	"strings"
	"testing"
	"time"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "s3cret-pass") || CheckPassword(hash, "wrong") {
		t.Fatalf("password check mismatch")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	now := time.Now()
	raw, err := GenerateToken("secret", 12, "editor", "Camille", time.Hour, now)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := ParseToken("secret", raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	id, err := claims.UserID()
	if err != nil || id != 12 || claims.Role != "editor" {
		t.Fatalf("unexpected claims: %+v (%v)", claims, err)
	}
	if _, err := ParseToken("other", raw); err == nil {
		t.Fatalf("token signed with another secret accepted")
	}
	expired, _ := GenerateToken("secret", 12, "editor", "", time.Minute, now.Add(-time.Hour))
	if _, err := ParseToken("secret", expired); err == nil {
		t.Fatalf("expired token accepted")
	}
}

func TestRenderMarkdownEscapesHTML(t *testing.T) {
	html, err := RenderMarkdown("# Titre\n\n<script>alert(1)</script>")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(html), "<h1>Titre</h1>") {
		t.Fatalf("heading not rendered: %s", html)
	}
	if strings.Contains(string(html), "<script>") {
		t.Fatalf("raw html must not pass through: %s", html)
	}
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Développeur Go (H/F)":      "developpeur-go-h-f",
		"  Été 2026 : nos projets ": "ete-2026-nos-projets",
		"---":                       "",
	}
	for in, want := range tests {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDayBounds(t *testing.T) {
	loc := time.UTC
	start, end := DayBounds(time.Date(2026, 10, 16, 15, 4, 0, 0, loc), loc)
	if !start.Equal(time.Date(2026, 10, 16, 0, 0, 0, 0, loc)) || !end.Equal(time.Date(2026, 10, 17, 0, 0, 0, 0, loc)) {
		t.Fatalf("unexpected bounds %s %s", start, end)
	}
	if _, err := ParseDate("16/10/2026", loc); err == nil {
		t.Fatalf("expected format error")
	}
}
