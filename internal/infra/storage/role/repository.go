package role

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с ролями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория ролей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую роль вместе со списком её квалификаций
func (r *Repository) Create(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("roles").
		Columns("vendor_id", "name", "default_capacity", "active").
		Values(role.VendorID, role.Name, role.DefaultCapacity, role.Active).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&role.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	role.CreatedAt = createdAt.Time
	role.UpdatedAt = updatedAt.Time

	if err := r.replaceItems(ctx, executor, role.ID, role.BookingItemIDs); err != nil {
		return nil, err
	}

	return role, nil
}

// GetByID получает роль по ID вместе с квалификациями
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Role, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "vendor_id", "name", "default_capacity", "active", "created_at", "updated_at",
	).
		From("roles").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	role, err := r.scanRole(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, executor, []*domain.Role{role}); err != nil {
		return nil, err
	}

	return role, nil
}

// GetByVendor получает все роли вендора
func (r *Repository) GetByVendor(ctx context.Context, vendorID int64) ([]*domain.Role, error) {
	return r.list(ctx, squirrel.Eq{"vendor_id": vendorID})
}

// GetByBookingItem получает активные роли, квалифицированные для услуги
// Используется при создании бронирования и генерации слотов
func (r *Repository) GetByBookingItem(ctx context.Context, itemID int64) ([]*domain.Role, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"r.id", "r.vendor_id", "r.name", "r.default_capacity", "r.active", "r.created_at", "r.updated_at",
	).
		From("roles r").
		Join("role_booking_items rbi ON rbi.role_id = r.id").
		Where(squirrel.Eq{"rbi.booking_item_id": itemID, "r.active": true}).
		OrderBy("r.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingItem - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingItem - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	roles, err := r.scanRoles(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, executor, roles); err != nil {
		return nil, err
	}

	return roles, nil
}

// Update обновляет роль и полностью заменяет список её квалификаций
func (r *Repository) Update(ctx context.Context, role *domain.Role) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("roles").
		Set("name", role.Name).
		Set("default_capacity", role.DefaultCapacity).
		Set("active", role.Active).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": role.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrRoleNotFound
	}

	return r.replaceItems(ctx, executor, role.ID, role.BookingItemIDs)
}

// Delete удаляет роль (квалификации удаляются каскадно)
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("roles").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrRoleNotFound
	}

	return nil
}

func (r *Repository) list(ctx context.Context, where interface{}) ([]*domain.Role, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "vendor_id", "name", "default_capacity", "active", "created_at", "updated_at",
	).
		From("roles").
		Where(where).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: list - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	roles, err := r.scanRoles(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, executor, roles); err != nil {
		return nil, err
	}

	return roles, nil
}

// replaceItems полностью заменяет квалификации роли
func (r *Repository) replaceItems(ctx context.Context, executor DBExecutor, roleID int64, itemIDs []int64) error {
	query, args, err := psqlbuilder.Delete("role_booking_items").
		Where(squirrel.Eq{"role_id": roleID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceItems - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: replaceItems - execute delete: %v", ErrExecQuery, err)
	}

	if len(itemIDs) == 0 {
		return nil
	}

	insert := psqlbuilder.Insert("role_booking_items").Columns("role_id", "booking_item_id")
	for _, itemID := range itemIDs {
		insert = insert.Values(roleID, itemID)
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceItems - build insert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: replaceItems - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// loadItems загружает квалификации для набора ролей
func (r *Repository) loadItems(ctx context.Context, executor DBExecutor, roles []*domain.Role) error {
	if len(roles) == 0 {
		return nil
	}

	ids := make([]int64, len(roles))
	byID := make(map[int64]*domain.Role, len(roles))
	for i, role := range roles {
		ids[i] = role.ID
		byID[role.ID] = role
		role.BookingItemIDs = make([]int64, 0)
	}

	query, args, err := psqlbuilder.Select("role_id", "booking_item_id").
		From("role_booking_items").
		Where(squirrel.Eq{"role_id": ids}).
		OrderBy("booking_item_id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadItems - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadItems - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var roleID, itemID int64
		if err := rows.Scan(&roleID, &itemID); err != nil {
			return fmt.Errorf("%w: loadItems - scan row: %v", ErrScanRow, err)
		}
		if role, ok := byID[roleID]; ok {
			role.BookingItemIDs = append(role.BookingItemIDs, itemID)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadItems - rows error: %v", ErrScanRow, err)
	}

	return nil
}

func (r *Repository) scanRole(row *sql.Row) (*domain.Role, error) {
	var role domain.Role
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&role.ID,
		&role.VendorID,
		&role.Name,
		&role.DefaultCapacity,
		&role.Active,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrRoleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scanRole - scan row: %v", ErrScanRow, err)
	}

	role.CreatedAt = createdAt.Time
	role.UpdatedAt = updatedAt.Time
	return &role, nil
}

func (r *Repository) scanRoles(rows *sql.Rows) ([]*domain.Role, error) {
	roles := make([]*domain.Role, 0)

	for rows.Next() {
		var role domain.Role
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&role.ID,
			&role.VendorID,
			&role.Name,
			&role.DefaultCapacity,
			&role.Active,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanRoles - scan row: %v", ErrScanRow, err)
		}

		role.CreatedAt = createdAt.Time
		role.UpdatedAt = updatedAt.Time
		roles = append(roles, &role)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanRoles - rows error: %v", ErrScanRow, err)
	}

	return roles, nil
}
