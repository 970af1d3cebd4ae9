// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package listing

import (
	"encoding/json"
	"math"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

var commentListing = Definition{
	SearchColumns: []string{"c.content", "c.guest_name", "c.guest_email"},
	Filters: []Filter{
		{Param: "status", Column: "c.status", Parse: OneOf("pending", "approved", "rejected", "spam")},
		{Param: "post_id", Column: "c.post_id", Parse: UUID},
		{Param: "featured", Column: "c.is_featured", Parse: Bool},
		{Param: "tag", Clause: "EXISTS (SELECT 1 FROM post_tag pt WHERE pt.post_id = c.post_id AND pt.tag_id = %s)", Parse: UUID},
	},
	Sorts: map[string]string{
		"created_at": "c.created_at",
		"likes":      "c.likes_count",
	},
	DefaultSort: "created_at",
	PerPage:     15,
	Key:         "c.id",
}

func TestParseParams(t *testing.T) {
	q := url.Values{
		"search":    {"  villa "},
		"sort":      {"likes"},
		"direction": {"ASC"},
		"page":      {"3"},
		"status":    {"approved"},
		"empty":     {""},
	}
	got := ParseParams(q)
	want := Params{
		Search:    "villa",
		Sort:      "likes",
		Direction: "asc",
		Page:      3,
		Filters:   map[string]string{"status": "approved"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseParams mismatch (-want +got):\n%s", diff)
	}
}

func TestParseParams_ClampsPage(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"0", 1},
		{"-4", 1},
		{"abc", 1},
		{"", 1},
		{"-99999999999999999999999", 1},
		{"2147483647", MaxPage},
		{"1000000000000000000", MaxPage},
		{"99999999999999999999999", MaxPage},
	}
	for _, tt := range tests {
		if got := ParseParams(url.Values{"page": {tt.raw}}).Page; got != tt.want {
			t.Errorf("page %q: got %d, want %d", tt.raw, got, tt.want)
		}
	}
}

// TestBuild_HugePageOffset asks for a page far past the end. The offset
// must stay positive so the database returns an empty page.
func TestBuild_HugePageOffset(t *testing.T) {
	q := commentListing.Build(ParseParams(url.Values{"page": {"1000000000000000000"}}))

	if off := q.Offset(); off < 0 || off > MaxPage {
		t.Fatalf("offset out of range: %d", off)
	}
	if q.Page != MaxPage/15 {
		t.Errorf("page: got %d, want %d", q.Page, MaxPage/15)
	}
	_, args := q.Limit()
	if got := args[len(args)-1].(int); got != (MaxPage/15-1)*15 {
		t.Errorf("OFFSET arg: got %d", got)
	}

	// A caller building Params by hand is bounded the same way.
	q = Definition{PerPage: 100}.Build(Params{Page: math.MaxInt})
	if off := q.Offset(); off < 0 || off > MaxPage {
		t.Errorf("hand-built params: offset %d", off)
	}
}

func TestBuild_NoParams(t *testing.T) {
	q := commentListing.Build(Params{Page: 1})
	want := Query{
		OrderBy: "ORDER BY c.created_at DESC, c.id DESC",
		Page:    1,
		PerPage: 15,
	}
	if diff := cmp.Diff(want, q); diff != "" {
		t.Errorf("Build mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_SearchFiltersAndSort(t *testing.T) {
	postID := uuid.New()
	q := commentListing.Build(Params{
		Search:    "50%_off",
		Filters:   map[string]string{"status": "spam", "post_id": postID.String(), "featured": "yes"},
		Sort:      "likes",
		Direction: "asc",
		Page:      2,
	})

	wantWhere := "WHERE (c.content ILIKE $1 OR c.guest_name ILIKE $1 OR c.guest_email ILIKE $1)" +
		" AND c.status = $2 AND c.post_id = $3 AND c.is_featured = $4"
	if q.Where != wantWhere {
		t.Errorf("Where:\n got %s\nwant %s", q.Where, wantWhere)
	}
	wantArgs := []any{`%50\%\_off%`, "spam", postID, true}
	if diff := cmp.Diff(wantArgs, q.Args); diff != "" {
		t.Errorf("Args mismatch (-want +got):\n%s", diff)
	}
	if q.OrderBy != "ORDER BY c.likes_count ASC, c.id ASC" {
		t.Errorf("OrderBy: got %s", q.OrderBy)
	}
	if q.Offset() != 15 {
		t.Errorf("Offset: got %d, want 15", q.Offset())
	}
}

func TestBuild_UnknownValuesMeanNoFilter(t *testing.T) {
	q := commentListing.Build(Params{
		Filters:   map[string]string{"status": "deleted", "post_id": "not-a-uuid", "featured": "maybe", "unrelated": "x"},
		Sort:      "password_hash",
		Direction: "sideways",
		Page:      1,
	})
	if q.Where != "" || len(q.Args) != 0 {
		t.Errorf("expected no conditions, got %q %v", q.Where, q.Args)
	}
	if q.OrderBy != "ORDER BY c.created_at DESC, c.id DESC" {
		t.Errorf("OrderBy: got %s", q.OrderBy)
	}
}

func TestBuild_ClauseFilter(t *testing.T) {
	tagID := uuid.New()
	q := commentListing.Build(Params{Filters: map[string]string{"tag": tagID.String()}, Page: 1})
	want := "WHERE EXISTS (SELECT 1 FROM post_tag pt WHERE pt.post_id = c.post_id AND pt.tag_id = $1)"
	if q.Where != want {
		t.Errorf("Where: got %s", q.Where)
	}
}

func TestQueryLimit(t *testing.T) {
	q := Query{Args: []any{"a", "b"}, Page: 3, PerPage: 10}
	clause, args := q.Limit()
	if clause != "LIMIT $3 OFFSET $4" {
		t.Errorf("clause: got %s", clause)
	}
	if diff := cmp.Diff([]any{"a", "b", 10, 20}, args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
	if len(q.Args) != 2 {
		t.Error("Limit must not modify the filter arguments")
	}
}

func TestNewPage(t *testing.T) {
	tests := []struct {
		name  string
		total int
		page  int
		last  int
	}{
		{"empty", 0, 1, 1},
		{"exact", 30, 1, 2},
		{"partial", 31, 3, 3},
		{"beyond last", 5, 4, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPage[string](nil, Query{Page: tt.page, PerPage: 15}, tt.total)
			want := Meta{CurrentPage: tt.page, LastPage: tt.last, PerPage: 15, Total: tt.total}
			if diff := cmp.Diff(want, p.Meta); diff != "" {
				t.Errorf("Meta mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewPage_EncodesEmptyArray(t *testing.T) {
	p := NewPage[int](nil, Query{Page: 1, PerPage: 10}, 0)
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"data":[],"meta":{"current_page":1,"last_page":1,"per_page":10,"total":0}}`
	if string(b) != want {
		t.Errorf("got %s", b)
	}
}
