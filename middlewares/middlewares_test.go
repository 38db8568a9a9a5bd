package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"acenumerik.fr/pkg/accesscontrol"
	"acenumerik.fr/utils"

	"github.com/gofiber/fiber/v2"
)

const testSecret = "test-secret"

func newProtectedApp() *fiber.App {
	app := fiber.New()
	api := app.Group("/api", JWTAuth(testSecret))
	api.Get("/leads", RequireAccess(accesscontrol.ResourceLeads), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userID": CurrentUserID(c), "role": CurrentRole(c)})
	})
	api.Get("/sections", RequireAccess(accesscontrol.ResourceSections), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func tokenFor(t *testing.T, role accesscontrol.Role, ttl time.Duration) string {
	t.Helper()
	token, err := utils.GenerateToken(testSecret, 7, string(role), "Test", ttl, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestJWTAuthAndRequireAccess(t *testing.T) {
	app := newProtectedApp()

	cases := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"missing token", "/api/leads", "", http.StatusUnauthorized},
		{"garbage token", "/api/leads", "Bearer nope", http.StatusUnauthorized},
		{"expired token", "/api/leads", "Bearer " + tokenFor(t, accesscontrol.RoleAdmin, -time.Minute), http.StatusUnauthorized},
		{"admin on leads", "/api/leads", "Bearer " + tokenFor(t, accesscontrol.RoleAdmin, time.Hour), http.StatusOK},
		{"editor on leads", "/api/leads", "Bearer " + tokenFor(t, accesscontrol.RoleEditor, time.Hour), http.StatusForbidden},
		{"editor on sections", "/api/sections", "Bearer " + tokenFor(t, accesscontrol.RoleEditor, time.Hour), http.StatusNoContent},
		{"client on sections", "/api/sections", "Bearer " + tokenFor(t, accesscontrol.RoleClient, time.Hour), http.StatusForbidden},
		{"super admin everywhere", "/api/leads", "bearer " + tokenFor(t, accesscontrol.RoleSuperAdmin, time.Hour), http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tc.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tc.want)
			}
		})
	}
}

func TestOptionalAuthReadsCookie(t *testing.T) {
	app := fiber.New()
	app.Get("/", OptionalAuth(testSecret), func(c *fiber.Ctx) error {
		return c.SendString(string(CurrentRole(c)))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: tokenFor(t, accesscontrol.RoleClient, time.Hour)})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	body := make([]byte, 16)
	n, _ := resp.Body.Read(body)
	if got := string(body[:n]); got != string(accesscontrol.RoleClient) {
		t.Errorf("role = %q, want client", got)
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.StatusCode != http.StatusOK {
		t.Errorf("anonymous request status = %d", resp.StatusCode)
	}
}

func TestRateLimiterBlocksAfterBurst(t *testing.T) {
	limiter := NewRateLimiter(1, 2)
	app := fiber.New()
	app.Post("/contact", limiter.Handler(), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusCreated) })

	var codes []int
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/contact", nil))
		if err != nil {
			t.Fatal(err)
		}
		codes = append(codes, resp.StatusCode)
	}
	if codes[0] != http.StatusCreated || codes[1] != http.StatusCreated || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v", codes)
	}
}

func TestRateLimiterForgetsIdleVisitors(t *testing.T) {
	limiter := NewRateLimiter(60, 1)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	limiter.getLimiter("10.0.0.1")
	now = now.Add(limiterIdleTTL + time.Minute)
	limiter.getLimiter("10.0.0.2")

	if _, ok := limiter.visitors["10.0.0.1"]; ok {
		t.Error("idle visitor not swept")
	}
	if len(limiter.visitors) != 1 {
		t.Errorf("visitors = %d, want 1", len(limiter.visitors))
	}
}
