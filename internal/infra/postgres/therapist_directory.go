package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"screening-service/internal/domain"

	"github.com/jackc/pgx/v4/pgxpool"
)

// TherapistDirectory queries the therapists table.
type TherapistDirectory struct {
	pool *pgxpool.Pool
}

func NewTherapistDirectory(pool *pgxpool.Pool) *TherapistDirectory {
	return &TherapistDirectory{pool: pool}
}

func (d *TherapistDirectory) ListTherapists(ctx context.Context, filter domain.TherapistFilter) ([]domain.TherapistResource, error) {
	query, args := buildTherapistQuery(filter)
	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list therapists: %w", err)
	}
	defer rows.Close()

	out := make([]domain.TherapistResource, 0)
	for rows.Next() {
		var (
			t               domain.TherapistResource
			specializations []string
			lat, lng        *float64
		)
		if err := rows.Scan(&t.ID, &t.Name, &t.Address, &t.City, &t.Region, &t.Phone, &t.Email, &t.Website,
			&specializations, &t.Services, &lat, &lng); err != nil {
			return nil, fmt.Errorf("scan therapist: %w", err)
		}
		for _, s := range specializations {
			t.Specializations = append(t.Specializations, domain.ParseCondition(s))
		}
		if lat != nil && lng != nil {
			t.Coordinates = &domain.Coordinates{Lat: *lat, Lng: *lng}
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list therapists: %w", err)
	}
	return out, nil
}

func buildTherapistQuery(filter domain.TherapistFilter) (string, []interface{}) {
	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if len(filter.Conditions) > 0 {
		conditions := make([]string, len(filter.Conditions))
		for i, c := range filter.Conditions {
			conditions[i] = string(c)
		}
		where = append(where, "specializations && "+arg(conditions)+"::text[]")
	}
	if region := strings.TrimSpace(filter.Region); region != "" {
		where = append(where, "region ILIKE "+arg(likePattern(region)))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		p := arg(likePattern(q))
		where = append(where, "(name ILIKE "+p+" OR city ILIKE "+p+" OR address ILIKE "+p+
			" OR array_to_string(services, ' ') ILIKE "+p+")")
	}

	var b strings.Builder
	b.WriteString(`SELECT id, name, COALESCE(address, ''), COALESCE(city, ''), COALESCE(region, ''),
		COALESCE(phone, ''), COALESCE(email, ''), COALESCE(website, ''),
		specializations, services, lat, lng
		FROM therapists`)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY id")
	if filter.Limit > 0 {
		b.WriteString(" LIMIT " + arg(filter.Limit))
	}
	return b.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a contains-pattern with LIKE metacharacters escaped.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
