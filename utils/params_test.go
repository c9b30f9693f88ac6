package utils

import (
	"net/http/httptest"
	"testing"
)

func TestParseQueryOptions(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/orders/admin/all?page=3&limit=25&status=Shipped", nil)
	opts := ParseQueryOptions(r)
	if opts.Page != 3 || opts.Limit != 25 || opts.Status != "Shipped" {
		t.Errorf("unexpected options: %+v", opts)
	}

	r = httptest.NewRequest("GET", "/api/orders/my-orders?page=-1&limit=0", nil)
	opts = ParseQueryOptions(r)
	if opts.Page != 1 || opts.Limit != 10 {
		t.Errorf("expected defaults, got %+v", opts)
	}
}

func TestPaginate(t *testing.T) {
	p := Paginate(1, 10, 25, 10)
	if p.TotalPages != 3 || !p.HasMore {
		t.Errorf("unexpected pagination: %+v", p)
	}

	p = Paginate(3, 10, 25, 5)
	if p.HasMore {
		t.Errorf("last page must not have more: %+v", p)
	}

	p = Paginate(1, 10, 0, 0)
	if p.TotalPages != 0 || p.HasMore {
		t.Errorf("empty result pagination wrong: %+v", p)
	}
}
