package postgres

import (
	"fmt"
	"strings"

	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/application/event"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildOrganizerListQuery ANDs together every supplied filter. A supplied but
// empty location yields ILIKE '%%', which matches all rows.
func buildOrganizerListQuery(organizerID string, f event.ListFilter, order event.ListOrder) (string, []any) {
	where := []string{"organizer_id = $1"}
	args := []any{organizerID}
	argN := 2

	add := func(condFmt string, val any) {
		where = append(where, strings.ReplaceAll(condFmt, "$?", fmt.Sprintf("$%d", argN)))
		args = append(args, val)
		argN++
	}

	if f.DateFrom != nil {
		add("(event_date AT TIME ZONE 'UTC')::date >= $?::date", f.DateFrom.UTC().Format("2006-01-02"))
	}
	if f.DateTo != nil {
		add("(event_date AT TIME ZONE 'UTC')::date <= $?::date", f.DateTo.UTC().Format("2006-01-02"))
	}
	if f.Location != nil {
		add("(location ILIKE $? OR city ILIKE $? OR state ILIKE $?)", "%"+likeEscaper.Replace(*f.Location)+"%")
	}
	if f.Status != nil {
		add("status = $?", string(*f.Status))
	}
	if f.MinPrice != nil {
		add("price >= $?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("price <= $?", *f.MaxPrice)
	}

	orderBy := "event_date ASC, id ASC"
	if order == event.OrderCreatedDesc {
		orderBy = "created_at DESC, id DESC"
	}

	return `
SELECT ` + eventColumns + `
FROM events
WHERE ` + strings.Join(where, " AND ") + `
ORDER BY ` + orderBy, args
}
