package oracles

import (
	"strings"
	"testing"
)

func TestTransitionsOracleListsEveryEdge(t *testing.T) {
	o := Transitions("spk", map[string][]string{
		"Pending":  {"Approved", "Rejected"},
		"Rejected": {"Pending"},
	})
	if o.Name != "O8_transition_allowed_spk" {
		t.Fatalf("unexpected name %q", o.Name)
	}
	for _, want := range []string{"entity = 'spk'", "('Pending','Approved')", "('Pending','Rejected')", "('Rejected','Pending')"} {
		if !strings.Contains(o.SQL, want) {
			t.Fatalf("expected %s in\n%s", want, o.SQL)
		}
	}
	if q := quote("it's"); q != "'it''s'" {
		t.Fatalf("unexpected quoting %s", q)
	}
}
