package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"acenumerik.fr/models"
	"acenumerik.fr/services"

	"github.com/gofiber/fiber/v2"
)

type memorySectionRepo struct {
	sections []models.Section
	data     []models.SectionData
	saveErr  error
}

func (r *memorySectionRepo) LoadAll(context.Context) ([]models.Section, []models.SectionData, error) {
	return r.sections, r.data, nil
}

func (r *memorySectionRepo) ReplaceAll(_ context.Context, sections []models.Section, data []models.SectionData) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.sections, r.data = sections, data
	return nil
}

func newSectionApp(t *testing.T, repo *memorySectionRepo) *fiber.App {
	t.Helper()
	svc := services.NewSectionService(repo)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	h := NewSectionHandler(svc)
	app := fiber.New()
	app.Get("/sections", h.List)
	app.Post("/sections", h.Add)
	app.Put("/sections/order", h.Reorder)
	app.Delete("/sections/:id", h.Remove)
	app.Put("/sections/:id/data", h.UpdateData)
	app.Post("/sections/save", h.Save)
	return app
}

func seedSections() *memorySectionRepo {
	return &memorySectionRepo{sections: []models.Section{
		{ID: "hero", Type: models.SectionHero, Title: "Accueil", Visible: true, Order: 0},
		{ID: "services", Type: models.SectionServices, Title: "Services", Visible: true, Order: 1},
		{ID: "contact", Type: models.SectionContact, Title: "Contact", Visible: true, Order: 2},
	}}
}

type sectionsBody struct {
	Changed  bool             `json:"changed"`
	Dirty    bool             `json:"dirty"`
	Sections []models.Section `json:"sections"`
	Error    string           `json:"error"`
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, sectionsBody) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var out sectionsBody
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out
}

func ids(sections []models.Section) string {
	parts := make([]string, len(sections))
	for i, s := range sections {
		parts[i] = s.ID
	}
	return strings.Join(parts, ",")
}

func TestSectionHandlerReorder(t *testing.T) {
	app := newSectionApp(t, seedSections())

	status, body := do(t, app, http.MethodPut, "/sections/order", `{"ids":["contact","hero","services"]}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if got := ids(body.Sections); got != "contact,hero,services" {
		t.Errorf("order = %s", got)
	}
	if !body.Changed || !body.Dirty {
		t.Errorf("changed=%v dirty=%v", body.Changed, body.Dirty)
	}
	for i, s := range body.Sections {
		if s.Order != i {
			t.Errorf("section %s order = %d, want %d", s.ID, s.Order, i)
		}
	}
}

func TestSectionHandlerUnknownIDIsNoop(t *testing.T) {
	app := newSectionApp(t, seedSections())

	status, body := do(t, app, http.MethodDelete, "/sections/nope", "")
	if status != http.StatusOK || body.Changed || body.Dirty {
		t.Errorf("status=%d changed=%v dirty=%v", status, body.Changed, body.Dirty)
	}
	if len(body.Sections) != 3 {
		t.Errorf("sections = %d", len(body.Sections))
	}
}

func TestSectionHandlerAddValidation(t *testing.T) {
	app := newSectionApp(t, seedSections())

	status, _ := do(t, app, http.MethodPost, "/sections", `{"type":"carousel","title":"x"}`)
	if status != http.StatusBadRequest {
		t.Errorf("unknown type status = %d", status)
	}
	status, _ = do(t, app, http.MethodPost, "/sections", `{"type":"custom","title":"Promo","customComponent":"PromoBanner"}`)
	if status != http.StatusCreated {
		t.Errorf("custom add status = %d", status)
	}
	status, _ = do(t, app, http.MethodPut, "/sections/hero/data", `{"headline":`)
	if status != http.StatusBadRequest {
		t.Errorf("broken JSON status = %d", status)
	}
}

func TestSectionHandlerSaveFailureKeepsDirtyState(t *testing.T) {
	repo := seedSections()
	app := newSectionApp(t, repo)
	do(t, app, http.MethodDelete, "/sections/hero", "")

	repo.saveErr = errors.New("connection refused")
	status, body := do(t, app, http.MethodPost, "/sections/save", "")
	if status != http.StatusServiceUnavailable || !body.Dirty {
		t.Fatalf("status=%d dirty=%v", status, body.Dirty)
	}
	_, listed := do(t, app, http.MethodGet, "/sections", "")
	for _, s := range listed.Sections {
		if s.ID == "hero" && s.Visible {
			t.Error("failed save rolled back the hidden hero")
		}
	}

	repo.saveErr = nil
	status, body = do(t, app, http.MethodPost, "/sections/save", "")
	if status != http.StatusOK || body.Dirty {
		t.Errorf("retry status=%d dirty=%v", status, body.Dirty)
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{services.ErrAppointmentNotFound, http.StatusNotFound},
		{services.ErrInvalidStatusTransition, http.StatusConflict},
		{services.ErrSlotUnavailable, http.StatusConflict},
		{services.ErrSectionInvalidInput, http.StatusBadRequest},
		{services.ErrSectionsPersistFailed, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := StatusFor(tc.err); got != tc.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
