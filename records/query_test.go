package records

import (
	"testing"
)

func ids(items []ticket) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func equalIDs(got []ticket, want ...string) bool {
	g := ids(got)
	if len(g) != len(want) {
		return false
	}
	for i := range g {
		if g[i] != want[i] {
			return false
		}
	}
	return true
}

func TestSelect_SearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	got := Select(ticketSchema(), sampleTickets(), Query{Search: "PRINTER", SortKey: "title", SortOrder: OrderAsc})
	if !equalIDs(got, "t-1", "t-4") {
		t.Fatalf("expected printer tickets, got %v", ids(got))
	}

	got = Select(ticketSchema(), sampleTickets(), Query{Search: "ana", SortKey: "title", SortOrder: OrderAsc})
	if !equalIDs(got, "t-1", "t-3") {
		t.Fatalf("expected tickets owned by ana, got %v", ids(got))
	}
}

func TestSelect_MatchRequiresEveryField(t *testing.T) {
	q := Query{Match: map[string]string{"title": "printer", "owner": "cit"}}
	got := Select(ticketSchema(), sampleTickets(), q)
	if !equalIDs(got, "t-4") {
		t.Fatalf("expected only t-4, got %v", ids(got))
	}

	got = Select(ticketSchema(), sampleTickets(), Query{Match: map[string]string{"nope": "x"}})
	if len(got) != 0 {
		t.Fatalf("expected unknown field to match nothing, got %v", ids(got))
	}
}

func TestSelect_ExactAndStatus(t *testing.T) {
	got := Select(ticketSchema(), sampleTickets(), Query{Exact: map[string]string{"owner": "ANA"}, SortKey: "title", SortOrder: OrderAsc})
	if !equalIDs(got, "t-1", "t-3") {
		t.Fatalf("expected exact owner match, got %v", ids(got))
	}

	got = Select(ticketSchema(), sampleTickets(), Query{Status: "pending", SortKey: "title", SortOrder: OrderAsc})
	if !equalIDs(got, "t-1", "t-4") {
		t.Fatalf("expected pending tickets, got %v", ids(got))
	}
}

func TestSelect_DateRangeIsInclusiveAndSkipsEmptyDates(t *testing.T) {
	q := Query{From: NewDate(2024, 2, 5), To: NewDate(2024, 3, 1), SortKey: "opened", SortOrder: OrderAsc}
	got := Select(ticketSchema(), sampleTickets(), q)
	if !equalIDs(got, "t-2", "t-3") {
		t.Fatalf("expected t-2 and t-3, got %v", ids(got))
	}

	got = Select(ticketSchema(), sampleTickets(), Query{To: NewDate(2030, 1, 1)})
	for _, it := range got {
		if it.ID == "t-4" {
			t.Fatalf("record without a date must be excluded when a bound is set")
		}
	}
}

func TestSelect_SortIsStableAndFallsBack(t *testing.T) {
	got := Select(ticketSchema(), sampleTickets(), Query{SortKey: "priority", SortOrder: OrderAsc})
	if !equalIDs(got, "t-2", "t-1", "t-4", "t-3") {
		t.Fatalf("unexpected priority order %v", ids(got))
	}

	got = Select(ticketSchema(), sampleTickets(), Query{SortKey: "unknown", SortOrder: "sideways"})
	if !equalIDs(got, "t-3", "t-2", "t-1", "t-4") {
		t.Fatalf("expected default sort opened desc, got %v", ids(got))
	}
}

func TestSelect_DoesNotModifyInput(t *testing.T) {
	items := sampleTickets()
	Select(ticketSchema(), items, Query{SortKey: "priority", SortOrder: OrderDesc})
	if !equalIDs(items, "t-1", "t-2", "t-3", "t-4") {
		t.Fatalf("input order changed: %v", ids(items))
	}
}

func TestApply_Pagination(t *testing.T) {
	items := make([]ticket, 0, 25)
	for i := 0; i < 25; i++ {
		items = append(items, ticket{ID: string(rune('a' + i)), Title: "x", Owner: "o", Priority: i})
	}
	s := ticketSchema()

	page := Apply(s, items, Query{SortKey: "priority", SortOrder: OrderAsc})
	if page.Page != 1 || page.PageSize != DefaultPageSize {
		t.Fatalf("expected defaults 1/%d, got %d/%d", DefaultPageSize, page.Page, page.PageSize)
	}
	if page.Total != 25 || page.TotalPages != 3 || len(page.Items) != 10 {
		t.Fatalf("unexpected first page %+v", page)
	}

	page = Apply(s, items, Query{SortKey: "priority", SortOrder: OrderAsc, Page: 3})
	if len(page.Items) != 5 || page.Items[0].Priority != 20 {
		t.Fatalf("unexpected last page %+v", page)
	}

	page = Apply(s, items, Query{Page: 9})
	if len(page.Items) != 0 || page.Total != 25 {
		t.Fatalf("expected empty page beyond the end, got %+v", page)
	}

	page = Apply(s, items, Query{Page: 922337203685477581, PageSize: 10})
	if len(page.Items) != 0 || page.Total != 25 || page.TotalPages != 3 {
		t.Fatalf("expected empty page for a huge page number, got %+v", page)
	}

	page = Apply(s, items, Query{PageSize: 1000})
	if page.PageSize != MaxPageSize || len(page.Items) != 25 {
		t.Fatalf("expected page size capped at %d, got %+v", MaxPageSize, page)
	}
}

func TestApply_Empty(t *testing.T) {
	page := Apply(ticketSchema(), nil, Query{})
	if page.Total != 0 || page.TotalPages != 0 || len(page.Items) != 0 {
		t.Fatalf("unexpected page for empty input %+v", page)
	}
}
