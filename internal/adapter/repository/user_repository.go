package repository

import (
	"context"

	"github.com/hugohenrick/nexum-erp/internal/domain/user"
	"github.com/hugohenrick/nexum-erp/internal/infrastructure/database"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, tenant_id, name, username, email, password, role, superuser, active,
	last_login_at, created_at, updated_at`

// UserRepository implementa a interface user.Repository usando PostgreSQL
type UserRepository struct {
	db *database.PostgresDB
}

// NewUserRepository cria uma nova instância de UserRepository
func NewUserRepository(db *database.PostgresDB) user.Repository {
	return &UserRepository{db: db}
}

// Create implementa user.Repository.Create
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	_, err := r.db.Conn(ctx).Exec(ctx,
		`INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		u.ID, nullable(u.TenantID), u.Name, u.Username, u.Email, u.Password, u.Role,
		u.Superuser, u.Active, u.LastLoginAt, u.CreatedAt, u.UpdatedAt)
	return mapError(err, "usuário", u.ID)
}

// FindByID implementa user.Repository.FindByID
func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	u, err := scanUser(r.db.Conn(ctx).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err, "usuário", id)
	}
	return u, nil
}

// FindByUsername implementa user.Repository.FindByUsername
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	u, err := scanUser(r.db.Conn(ctx).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		return nil, mapError(err, "usuário", username)
	}
	return u, nil
}

// List implementa user.Repository.List
func (r *UserRepository) List(ctx context.Context, tenantID string) ([]*user.User, error) {
	rows, err := r.db.Conn(ctx).Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE tenant_id = $1 ORDER BY name`, tenantID)
	if err != nil {
		return nil, mapError(err, "usuário", "")
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, mapError(err, "usuário", "")
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update implementa user.Repository.Update
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	tag, err := r.db.Conn(ctx).Exec(ctx,
		`UPDATE users SET name = $2, email = $3, password = $4, role = $5, active = $6, updated_at = $7
		WHERE id = $1`,
		u.ID, u.Name, u.Email, u.Password, u.Role, u.Active, u.UpdatedAt)
	if err != nil {
		return mapError(err, "usuário", u.ID)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "usuário", u.ID)
	}
	return nil
}

// UpdateLastLogin implementa user.Repository.UpdateLastLogin
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	_, err := r.db.Conn(ctx).Exec(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, id)
	return mapError(err, "usuário", id)
}

// CountByTenant implementa user.Repository.CountByTenant. A linha da empresa é
// bloqueada antes da contagem para que cadastros concorrentes dentro de uma
// transação respeitem o limite do plano.
func (r *UserRepository) CountByTenant(ctx context.Context, tenantID string) (int, error) {
	conn := r.db.Conn(ctx)
	if _, err := conn.Exec(ctx, `SELECT 1 FROM tenants WHERE id = $1 FOR UPDATE`, tenantID); err != nil {
		return 0, mapError(err, "empresa", tenantID)
	}

	var count int
	err := conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE tenant_id = $1 AND active`, tenantID).Scan(&count)
	if err != nil {
		return 0, mapError(err, "usuário", "")
	}
	return count, nil
}

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	var tenantID *string
	err := row.Scan(&u.ID, &tenantID, &u.Name, &u.Username, &u.Email, &u.Password, &u.Role,
		&u.Superuser, &u.Active, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.TenantID = deref(tenantID)
	return &u, nil
}
