package models

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestSectionTypeClassification(t *testing.T) {
	standard := []SectionType{SectionHero, SectionServices, SectionAbout, SectionTeam, SectionTestimonials, SectionFAQ, SectionContact, SectionTrustedClients}
	for _, s := range standard {
		if !s.IsStandard() {
			t.Errorf("%s should be standard", s)
		}
	}
	for _, s := range []SectionType{SectionCustom, SectionExternalLink, "unknown"} {
		if s.IsStandard() {
			t.Errorf("%s should not be standard", s)
		}
	}
}

func TestDecodeSectionPayload(t *testing.T) {
	p, err := DecodeSectionPayload(SectionHero, []byte(`{"headline":"Nous créons","ctaUrl":"/contact","extra":1}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	hero, ok := p.(HeroContent)
	if !ok || hero.Headline != "Nous créons" || hero.CTAURL != "/contact" {
		t.Fatalf("unexpected payload %#v", p)
	}

	c, err := DecodeSectionPayload(SectionCustom, []byte(`{"color":"red"}`))
	if err != nil {
		t.Fatalf("decode custom: %v", err)
	}
	if c.(CustomContent)["color"] != "red" {
		t.Fatalf("custom fields lost: %#v", c)
	}

	empty, err := DecodeSectionPayload(SectionCustom, nil)
	if err != nil || empty.(CustomContent) == nil {
		t.Fatalf("empty custom payload should be a non-nil map, got %#v (%v)", empty, err)
	}

	if _, err := DecodeSectionPayload("banner", nil); !errors.Is(err, ErrUnknownSectionType) {
		t.Fatalf("expected ErrUnknownSectionType, got %v", err)
	}
	if _, err := DecodeSectionPayload(SectionFAQ, []byte(`{"intro":5}`)); err == nil {
		t.Fatalf("expected type error for malformed payload")
	}
}

func TestEncodeSectionPayloadRoundTrip(t *testing.T) {
	in := ServicesContent{Intro: "Nos expertises", Items: []ServiceItem{{Title: "Web"}, {Title: "SEO"}}}
	raw, err := EncodeSectionPayload(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := DecodeSectionPayload(SectionServices, raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := out.(ServicesContent)
	if got.Intro != in.Intro || len(got.Items) != 2 || got.Items[1].Title != "SEO" {
		t.Fatalf("round trip mismatch: %#v", got)
	}
	if !json.Valid(raw) {
		t.Fatalf("encoded payload is not valid JSON")
	}
}
