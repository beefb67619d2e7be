package postgres

import (
	"fmt"
	"strings"

	"go-jobboard-backend/internal/domain"

	"github.com/lib/pq"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s safe for use inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// buildSearchQuery turns a normalized filter into SQL. Blank fields add no predicate.
func buildSearchQuery(filter domain.JobSearchFilter) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)

	addLike := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, "%"+escapeLike(value)+"%")
		conds = append(conds, fmt.Sprintf(`%s ILIKE $%d ESCAPE '\'`, column, len(args)))
	}
	addLike("title", filter.Title)
	addLike("location", filter.Location)
	addLike("experience_required", filter.Experience)

	if len(filter.Skills) > 0 {
		args = append(args, pq.Array(filter.Skills))
		conds = append(conds, fmt.Sprintf(`skills_required @> $%d::text[]`, len(args)))
	}

	query := `SELECT ` + jobColumns + ` FROM jobs`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at ASC, id ASC`
	return query, args
}
