package oracles

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Oracle struct {
	Name string
	SQL  string
}

func All() []Oracle {
	return []Oracle{
		{
			Name: "O1_history_seq_contiguous",
			SQL: `SELECT entity, record_id, COUNT(*), MAX(seq) FROM timeline_events
                  GROUP BY entity, record_id HAVING MAX(seq) <> COUNT(*) OR MIN(seq) <> 1`,
		},
		{
			Name: "O2_created_first",
			SQL:  `SELECT entity, record_id, seq FROM timeline_events WHERE type = 'RECORD_CREATED' AND seq <> 1`,
		},
		{
			Name: "O3_deleted_is_final",
			SQL: `SELECT e.entity, e.record_id, e.seq, e.type FROM timeline_events e
                  JOIN timeline_events d ON d.entity = e.entity AND d.record_id = e.record_id
                  WHERE d.type = 'RECORD_DELETED' AND e.seq > d.seq`,
		},
		{
			Name: "O4_deleted_absent",
			SQL: `SELECT r.entity, r.id FROM records r
                  JOIN timeline_events d ON d.entity = r.entity AND d.record_id = r.id
                  WHERE d.type = 'RECORD_DELETED'`,
		},
		{
			Name: "O5_status_matches_history",
			SQL: `WITH last AS (
                      SELECT DISTINCT ON (entity, record_id) entity, record_id, payload->>'next_status' AS status
                      FROM timeline_events WHERE type = 'STATUS_CHANGED'
                      ORDER BY entity, record_id, seq DESC)
                  SELECT r.entity, r.id, r.payload->>'status', l.status FROM records r
                  JOIN last l ON l.entity = r.entity AND l.record_id = r.id
                  WHERE r.payload->>'status' IS DISTINCT FROM l.status`,
		},
		{
			Name: "O6_status_chain_unbroken",
			SQL: `WITH chain AS (
                      SELECT entity, record_id, seq, payload->>'previous_status' AS prev_status,
                             LAG(payload->>'next_status') OVER (PARTITION BY entity, record_id ORDER BY seq) AS last_next
                      FROM timeline_events WHERE type = 'STATUS_CHANGED')
                  SELECT * FROM chain WHERE last_next IS NOT NULL AND prev_status <> last_next`,
		},
		{
			Name: "O7_no_empty_update",
			SQL: `SELECT entity, record_id, seq FROM timeline_events
                  WHERE type = 'RECORD_UPDATED' AND jsonb_array_length(COALESCE(payload->'changed', '[]'::jsonb)) = 0`,
		},
	}
}

// Transitions flags status changes on entity that the transition graph does not allow.
func Transitions(entity string, graph map[string][]string) Oracle {
	var pairs []string
	for from, tos := range graph {
		for _, to := range tos {
			pairs = append(pairs, fmt.Sprintf("(%s,%s)", quote(from), quote(to)))
		}
	}
	sort.Strings(pairs)
	return Oracle{
		Name: "O8_transition_allowed_" + entity,
		SQL: fmt.Sprintf(`SELECT record_id, seq, payload FROM timeline_events
                  WHERE entity = %s AND type = 'STATUS_CHANGED'
                  AND (payload->>'previous_status', payload->>'next_status') NOT IN (VALUES %s)`,
			quote(entity), strings.Join(pairs, ",")),
	}
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Run executes all oracles plus extra and returns the first failure (name and sample row text) or empty name if all pass.
func Run(ctx context.Context, pool *pgxpool.Pool, extra ...Oracle) (string, string, error) {
	for _, o := range append(All(), extra...) {
		rows, err := pool.Query(ctx, o.SQL)
		if err != nil {
			return o.Name, "", fmt.Errorf("oracle %s: %w", o.Name, err)
		}
		has := rows.Next()
		if has {
			vals, err := rows.Values()
			rows.Close()
			if err != nil {
				return o.Name, "", err
			}
			return o.Name, fmt.Sprintf("%v", vals), nil
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return o.Name, "", fmt.Errorf("oracle %s: %w", o.Name, err)
		}
	}
	return "", "", nil
}
