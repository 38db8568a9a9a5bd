package sectionconfig

import (
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"testing"

	"acenumerik.fr/models"
)

func seqIDs() Option {
	n := 0
	return WithIDGenerator(func(t models.SectionType) string {
		n++
		return fmt.Sprintf("%s-%d", t, n)
	})
}

func newDefault(t *testing.T) *Config {
	t.Helper()
	c := New(nil, nil, seqIDs())
	for _, st := range []models.SectionType{models.SectionHero, models.SectionServices, models.SectionTeam, models.SectionContact} {
		if _, err := c.Add(st, "", models.SectionOptions{}); err != nil {
			t.Fatalf("add %s: %v", st, err)
		}
	}
	return c
}

func ids(sections []models.Section) []string {
	out := make([]string, len(sections))
	for i, s := range sections {
		out[i] = s.ID
	}
	return out
}

func assertContiguous(t *testing.T, c *Config) {
	t.Helper()
	for i, s := range c.Sections() {
		if s.Order != i {
			t.Fatalf("order not contiguous at %d: section %q has order %d (%v)", i, s.ID, s.Order, ids(c.Sections()))
		}
	}
}

func TestAddAssignsNextOrder(t *testing.T) {
	c := New(nil, nil, seqIDs())
	s, err := c.Add(models.SectionHero, "Accueil", models.SectionOptions{})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if s.Order != 0 || s.ID != "hero" || !s.Visible {
		t.Fatalf("unexpected first section: %+v", s)
	}
	s2, _ := c.Add(models.SectionServices, "Services", models.SectionOptions{})
	if s2.Order != 1 {
		t.Fatalf("expected order 1, got %d", s2.Order)
	}
	if _, ok := c.Data("hero"); !ok {
		t.Fatalf("expected zero payload for hero")
	}
}

func TestAddCustomGetsFreshIDs(t *testing.T) {
	c := New(nil, nil)
	a, _ := c.Add(models.SectionCustom, "Bloc A", models.SectionOptions{CustomComponent: "PromoBanner"})
	b, _ := c.Add(models.SectionCustom, "Bloc B", models.SectionOptions{})
	if a.ID == b.ID || a.ID == "custom" {
		t.Fatalf("custom ids must be unique, got %q and %q", a.ID, b.ID)
	}
	if a.CustomComponent != "PromoBanner" {
		t.Fatalf("custom component not kept: %+v", a)
	}
}

func TestAddExternalLinkKeepsAccessAttributes(t *testing.T) {
	c := New(nil, nil, seqIDs())
	s, _ := c.Add(models.SectionExternalLink, "Portail", models.SectionOptions{
		ExternalURL:  "https://portail.acenumerik.fr",
		RequiresAuth: true,
		AllowedRoles: []string{"client"},
	})
	if s.ExternalURL == "" || !s.RequiresAuth || len(s.AllowedRoles) != 1 {
		t.Fatalf("external attributes lost: %+v", s)
	}
}

func TestAddRejectsUnknownType(t *testing.T) {
	c := New(nil, nil)
	if _, err := c.Add("banner", "x", models.SectionOptions{}); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestAddStandardAgainRevealsExisting(t *testing.T) {
	c := newDefault(t)
	c.Remove("team")
	s, _ := c.Add(models.SectionTeam, "Équipe", models.SectionOptions{})
	if !s.Visible || s.Order != 2 || c.Len() != 4 {
		t.Fatalf("expected team revealed in place, got %+v (len %d)", s, c.Len())
	}
}

func TestRemoveStandardIsSoftDelete(t *testing.T) {
	c := newDefault(t)
	_, _ = c.UpdateData("services", models.ServicesContent{Intro: "x"})
	if !c.Remove("services") {
		t.Fatalf("remove returned false")
	}
	s, ok := c.Section("services")
	if !ok || s.Visible {
		t.Fatalf("standard section should stay present and hidden: %+v %v", s, ok)
	}
	if _, ok := c.Data("services"); !ok {
		t.Fatalf("standard section data must be kept")
	}
	for _, v := range c.Visible() {
		if v.ID == "services" {
			t.Fatalf("hidden section returned by Visible")
		}
	}
}

func TestRemoveCustomIsHardDelete(t *testing.T) {
	c := newDefault(t)
	custom, _ := c.Add(models.SectionCustom, "Promo", models.SectionOptions{})
	_, _ = c.Add(models.SectionExternalLink, "Lien", models.SectionOptions{})
	c.Reorder([]string{custom.ID})

	if !c.Remove(custom.ID) {
		t.Fatalf("remove returned false")
	}
	if _, ok := c.Section(custom.ID); ok {
		t.Fatalf("custom section still present")
	}
	if _, ok := c.Data(custom.ID); ok {
		t.Fatalf("custom section data still present")
	}
	assertContiguous(t, c)
}

func TestUnknownIDsAreNoOps(t *testing.T) {
	c := newDefault(t)
	before := c.Sections()
	if c.Remove("nope") || c.UpdateVisibility("nope", false) || c.UpdateTitle("nope", "x") {
		t.Fatalf("unknown id reported as applied")
	}
	if ok, err := c.UpdateData("nope", models.HeroContent{}); ok || err != nil {
		t.Fatalf("unknown id update data: ok=%v err=%v", ok, err)
	}
	c.Reorder([]string{"nope", "ghost"})
	if !reflect.DeepEqual(before, c.Sections()) {
		t.Fatalf("state changed after no-op operations")
	}
}

func TestReorder(t *testing.T) {
	tests := []struct {
		name  string
		order []string
		want  []string
	}{
		{"full", []string{"contact", "team", "services", "hero"}, []string{"contact", "team", "services", "hero"}},
		{"partial moves listed first", []string{"contact", "hero"}, []string{"contact", "hero", "services", "team"}},
		{"single id", []string{"team"}, []string{"team", "hero", "services", "contact"}},
		{"duplicates and unknown ignored", []string{"team", "ghost", "team", "hero"}, []string{"team", "hero", "services", "contact"}},
		{"empty", nil, []string{"hero", "services", "team", "contact"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newDefault(t)
			c.Reorder(tt.order)
			if got := ids(c.Sections()); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			assertContiguous(t, c)
		})
	}
}

func TestReorderIsDeterministic(t *testing.T) {
	a, b := newDefault(t), newDefault(t)
	a.Reorder([]string{"team", "hero"})
	b.Reorder([]string{"team", "hero"})
	if !reflect.DeepEqual(a.Sections(), b.Sections()) {
		t.Fatalf("same input produced different orders")
	}
}

func TestUnchangedFieldsReportNoChange(t *testing.T) {
	c := newDefault(t)
	if !c.Remove("team") {
		t.Fatalf("first remove of a visible standard section should report a change")
	}
	if c.Remove("team") {
		t.Errorf("removing an already hidden section reported a change")
	}
	if c.UpdateVisibility("team", false) {
		t.Errorf("hiding a hidden section reported a change")
	}
	if !c.UpdateVisibility("team", true) {
		t.Errorf("showing a hidden section should report a change")
	}
	if c.UpdateVisibility("hero", true) {
		t.Errorf("showing a visible section reported a change")
	}
	hero, _ := c.Section("hero")
	if c.UpdateTitle("hero", hero.Title) {
		t.Errorf("same title reported a change")
	}
}

func TestUpdateVisibilityAndDataKeepOrder(t *testing.T) {
	c := newDefault(t)
	before := ids(c.Sections())
	c.UpdateVisibility("team", false)
	if ok, err := c.UpdateData("hero", models.HeroContent{Headline: "Bonjour"}); !ok || err != nil {
		t.Fatalf("update data: ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(before, ids(c.Sections())) {
		t.Fatalf("field updates must not reorder")
	}
	p, _ := c.Data("hero")
	if p.(models.HeroContent).Headline != "Bonjour" {
		t.Fatalf("payload not replaced: %#v", p)
	}
}

func TestUpdateDataRejectsWrongVariant(t *testing.T) {
	c := newDefault(t)
	if _, err := c.UpdateData("hero", models.FAQContent{}); !errors.Is(err, ErrPayloadMismatch) {
		t.Fatalf("expected ErrPayloadMismatch, got %v", err)
	}
}

func TestNewRepairsStoredOrders(t *testing.T) {
	c := New([]models.Section{
		{ID: "b", Type: models.SectionCustom, Order: 7},
		{ID: "a", Type: models.SectionCustom, Order: 7},
		{ID: "hero", Type: models.SectionHero, Order: 2},
	}, map[string]models.SectionPayload{"ghost": models.CustomContent{}})
	if got := ids(c.Sections()); !reflect.DeepEqual(got, []string{"hero", "a", "b"}) {
		t.Fatalf("got %v", got)
	}
	assertContiguous(t, c)
	if len(c.AllData()) != 0 {
		t.Fatalf("orphan payload kept")
	}
}

func TestOrderContiguityUnderRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		c := New(nil, nil, seqIDs())
		for step := 0; step < 30; step++ {
			all := ids(c.Sections())
			switch rng.Intn(4) {
			case 0:
				st := models.SectionTypes[rng.Intn(len(models.SectionTypes))]
				if _, err := c.Add(st, "", models.SectionOptions{}); err != nil {
					t.Fatalf("add: %v", err)
				}
			case 1:
				if len(all) > 0 {
					c.Remove(all[rng.Intn(len(all))])
				}
			case 2:
				rng.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
				c.Reorder(all[:rng.Intn(len(all)+1)])
			case 3:
				c.Remove(fmt.Sprintf("missing-%d", step))
			}
			assertContiguous(t, c)
		}
	}
}
