package pagination

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestParsePaginationParams(t *testing.T) {
	app := fiber.New()
	var got PaginationParams
	app.Get("/resumo", func(c *fiber.Ctx) error {
		got = ParsePaginationParams(c)
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/resumo?page=3&page_size=25&loja=LJ01", nil)
	if _, err := app.Test(req); err != nil {
		t.Fatalf("request: %v", err)
	}
	if got.Page != 3 || got.PageSize != 25 {
		t.Fatalf("page=%d page_size=%d, want 3/25", got.Page, got.PageSize)
	}
	if got.Filters["loja"] != "LJ01" {
		t.Fatalf("filters = %v", got.Filters)
	}
	if _, ok := got.Filters["page"]; ok {
		t.Fatal("page must not leak into the filters")
	}
}

func TestValidatePaginationParams(t *testing.T) {
	cases := []struct {
		params PaginationParams
		ok     bool
	}{
		{PaginationParams{Page: 1, PageSize: 10}, true},
		{PaginationParams{Page: 0, PageSize: 10}, false},
		{PaginationParams{Page: 1, PageSize: 0}, false},
		{PaginationParams{Page: 1, PageSize: 101}, false},
	}
	for _, tc := range cases {
		err := ValidatePaginationParams(tc.params)
		if tc.ok && err != nil {
			t.Fatalf("%+v: unexpected error %v", tc.params, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%+v: expected validation error", tc.params)
		}
	}
}

func TestNewPaginatedResponse(t *testing.T) {
	app := fiber.New()
	var resp PaginatedResponse
	app.Get("/resumo", func(c *fiber.Ctx) error {
		resp = NewPaginatedResponse(c, []string{"a"}, 45, ParsePaginationParams(c))
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/resumo?page=2&page_size=10", nil)
	if _, err := app.Test(req); err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.Pagination.TotalPages != 5 || resp.Pagination.TotalItems != 45 {
		t.Fatalf("meta = %+v", resp.Pagination)
	}
	if resp.Pagination.NextPage == nil || !strings.Contains(*resp.Pagination.NextPage, "page=3") {
		t.Fatalf("next page = %v", resp.Pagination.NextPage)
	}
	if resp.Pagination.PrevPage == nil || !strings.Contains(*resp.Pagination.PrevPage, "page=1") {
		t.Fatalf("prev page = %v", resp.Pagination.PrevPage)
	}
}

func TestParseLimitOffsetClamps(t *testing.T) {
	app := fiber.New()
	var limit, offset int
	app.Get("/itens", func(c *fiber.Ctx) error {
		limit, offset = ParseLimitOffset(c)
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/itens?limit=5000&offset=-2", nil)
	if _, err := app.Test(req); err != nil {
		t.Fatalf("request: %v", err)
	}
	if limit != 1000 || offset != 0 {
		t.Fatalf("limit=%d offset=%d, want 1000/0", limit, offset)
	}
}
