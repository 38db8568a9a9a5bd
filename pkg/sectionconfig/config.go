// Package sectionconfig holds the ordered homepage section collection and its
// typed payloads. Every mutation keeps the order values of the collection equal
// to 0..N-1. Operations on unknown ids are no-ops reported through a false result.
package sectionconfig

import (
	"errors"
	"fmt"
	"sort"

	"acenumerik.fr/models"

	"github.com/google/uuid"
)

var (
	ErrInvalidType     = errors.New("invalid section type")
	ErrPayloadMismatch = errors.New("payload does not match section type")
)

// Config is an in-memory snapshot of the section configuration.
// It is not safe for concurrent use; owners serialize access.
type Config struct {
	sections []models.Section
	data     map[string]models.SectionPayload
	newID    func(models.SectionType) string
}

// Option configures New.
type Option func(*Config)

// WithIDGenerator replaces the generator used for custom and external-link ids.
func WithIDGenerator(fn func(models.SectionType) string) Option {
	return func(c *Config) { c.newID = fn }
}

func defaultID(t models.SectionType) string {
	return string(t) + "-" + uuid.NewString()
}

// New builds a configuration from persisted state. Sections are sorted by
// their stored order (ties broken by id) and renumbered, so gaps or duplicates
// in the input are repaired.
func New(sections []models.Section, data map[string]models.SectionPayload, opts ...Option) *Config {
	c := &Config{
		sections: make([]models.Section, len(sections)),
		data:     make(map[string]models.SectionPayload, len(data)),
		newID:    defaultID,
	}
	for _, o := range opts {
		o(c)
	}
	copy(c.sections, sections)
	for i := range c.sections {
		c.sections[i].AllowedRoles = cloneRoles(c.sections[i].AllowedRoles)
	}
	sort.SliceStable(c.sections, func(i, j int) bool {
		if c.sections[i].Order != c.sections[j].Order {
			return c.sections[i].Order < c.sections[j].Order
		}
		return c.sections[i].ID < c.sections[j].ID
	})
	c.renumber()

	for id, p := range data {
		if c.index(id) >= 0 && p != nil {
			c.data[id] = p
		}
	}
	return c
}

// Clone returns a deep copy of the sections and a shallow copy of the payload map.
func (c *Config) Clone() *Config {
	return New(c.sections, c.data, WithIDGenerator(c.newID))
}

// Sections returns the collection in rendering order.
func (c *Config) Sections() []models.Section {
	out := make([]models.Section, len(c.sections))
	copy(out, c.sections)
	for i := range out {
		out[i].AllowedRoles = cloneRoles(out[i].AllowedRoles)
	}
	return out
}

// Visible returns the visible sections in rendering order.
func (c *Config) Visible() []models.Section {
	out := make([]models.Section, 0, len(c.sections))
	for _, s := range c.sections {
		if s.Visible {
			s.AllowedRoles = cloneRoles(s.AllowedRoles)
			out = append(out, s)
		}
	}
	return out
}

// Section returns a copy of section id.
func (c *Config) Section(id string) (models.Section, bool) {
	i := c.index(id)
	if i < 0 {
		return models.Section{}, false
	}
	s := c.sections[i]
	s.AllowedRoles = cloneRoles(s.AllowedRoles)
	return s, true
}

// Data returns the payload of section id.
func (c *Config) Data(id string) (models.SectionPayload, bool) {
	p, ok := c.data[id]
	return p, ok
}

// AllData returns a copy of the payload map.
func (c *Config) AllData() map[string]models.SectionPayload {
	out := make(map[string]models.SectionPayload, len(c.data))
	for k, v := range c.data {
		out[k] = v
	}
	return out
}

func (c *Config) Len() int { return len(c.sections) }

// Add appends a section with order max+1. Custom and external-link sections
// get a fresh id; standard types use the type as id. Adding a standard type
// that already exists (usually soft-deleted) makes it visible again in place.
func (c *Config) Add(t models.SectionType, title string, opts models.SectionOptions) (models.Section, error) {
	if !t.Valid() {
		return models.Section{}, fmt.Errorf("%w: %q", ErrInvalidType, t)
	}
	if title == "" {
		title = string(t)
	}

	if t.IsStandard() {
		if i := c.index(string(t)); i >= 0 {
			c.sections[i].Visible = true
			c.sections[i].Title = title
			return c.sections[i], nil
		}
	}

	id := string(t)
	if !t.IsStandard() {
		id = c.newID(t)
		for c.index(id) >= 0 {
			id = c.newID(t)
		}
	}

	s := models.Section{
		ID:      id,
		Type:    t,
		Title:   title,
		Visible: true,
		Order:   c.maxOrder() + 1,
	}
	switch t {
	case models.SectionCustom:
		s.CustomComponent = opts.CustomComponent
	case models.SectionExternalLink:
		s.ExternalURL = opts.ExternalURL
		s.RequiresAuth = opts.RequiresAuth
		s.AllowedRoles = cloneRoles(opts.AllowedRoles)
	}
	c.sections = append(c.sections, s)

	if _, ok := c.data[id]; !ok {
		if p, err := models.DecodeSectionPayload(t, nil); err == nil {
			c.data[id] = p
		}
	}
	return s, nil
}

// Remove hides standard sections and hard-deletes custom and external-link
// sections together with their payload, renumbering the remainder. Removing
// an already hidden standard section changes nothing and reports false.
func (c *Config) Remove(id string) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	if c.sections[i].Type.IsStandard() {
		if !c.sections[i].Visible {
			return false
		}
		c.sections[i].Visible = false
		return true
	}
	c.sections = append(c.sections[:i], c.sections[i+1:]...)
	delete(c.data, id)
	c.renumber()
	return true
}

// Reorder places the listed ids at positions 0..k-1 in the given order.
// Unknown and repeated ids are ignored. Unlisted sections keep their previous
// order value and are merged in by it; on equal values a listed section comes
// first. The result is renumbered to 0..N-1. It reports whether any listed id
// was known.
func (c *Config) Reorder(orderedIDs []string) bool {
	pos := make(map[string]int, len(orderedIDs))
	for _, id := range orderedIDs {
		if _, seen := pos[id]; seen || c.index(id) < 0 {
			continue
		}
		pos[id] = len(pos)
	}
	if len(pos) == 0 {
		return false
	}

	type sortKey struct {
		order    int
		unlisted int
		previous int
	}
	keys := make(map[string]sortKey, len(c.sections))
	for _, s := range c.sections {
		if p, ok := pos[s.ID]; ok {
			keys[s.ID] = sortKey{order: p, unlisted: 0, previous: s.Order}
		} else {
			keys[s.ID] = sortKey{order: s.Order, unlisted: 1, previous: s.Order}
		}
	}
	sort.SliceStable(c.sections, func(i, j int) bool {
		a, b := keys[c.sections[i].ID], keys[c.sections[j].ID]
		if a.order != b.order {
			return a.order < b.order
		}
		if a.unlisted != b.unlisted {
			return a.unlisted < b.unlisted
		}
		return a.previous < b.previous
	})
	c.renumber()
	return true
}

// UpdateVisibility shows or hides a section. It reports false for unknown
// ids and when the section already has that visibility.
func (c *Config) UpdateVisibility(id string, visible bool) bool {
	i := c.index(id)
	if i < 0 || c.sections[i].Visible == visible {
		return false
	}
	c.sections[i].Visible = visible
	return true
}

// UpdateTitle renames a section. An empty or unchanged title is ignored.
func (c *Config) UpdateTitle(id, title string) bool {
	i := c.index(id)
	if i < 0 || title == "" || c.sections[i].Title == title {
		return false
	}
	c.sections[i].Title = title
	return true
}

// UpdateData replaces the payload of a section. The payload variant must
// match the section type.
func (c *Config) UpdateData(id string, p models.SectionPayload) (bool, error) {
	i := c.index(id)
	if i < 0 {
		return false, nil
	}
	if p == nil || p.SectionType() != c.sections[i].Type {
		return false, fmt.Errorf("%w: section %q is %s", ErrPayloadMismatch, id, c.sections[i].Type)
	}
	c.data[id] = p
	return true, nil
}

func (c *Config) index(id string) int {
	for i := range c.sections {
		if c.sections[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Config) maxOrder() int {
	highest := -1
	for _, s := range c.sections {
		if s.Order > highest {
			highest = s.Order
		}
	}
	return highest
}

func (c *Config) renumber() {
	for i := range c.sections {
		c.sections[i].Order = i
	}
}

func cloneRoles(r []string) []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r))
	copy(out, r)
	return out
}
