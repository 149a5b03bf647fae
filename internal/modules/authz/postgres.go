package authz

import (
	"context"
	"database/sql"
	"time"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a Postgres-backed permission repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) ListPermissions(ctx context.Context) ([]Permission, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT resource, role, allowed, updated_at
		FROM permissions
		ORDER BY resource, role`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var perms []Permission
	for rows.Next() {
		var p Permission
		if err := rows.Scan(&p.Resource, &p.Role, &p.Allowed, &p.UpdatedAt); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

func (r *postgresRepo) UpsertPermission(ctx context.Context, p Permission) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO permissions (resource, role, allowed, updated_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (resource, role)
		DO UPDATE SET allowed=EXCLUDED.allowed, updated_at=EXCLUDED.updated_at`,
		p.Resource, p.Role, p.Allowed, time.Now())
	return err
}

func (r *postgresRepo) DeletePermission(ctx context.Context, resource, role string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM permissions WHERE resource=$1 AND role=$2`, resource, role)
	return err
}
