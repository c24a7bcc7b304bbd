package roleshift

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с недельными шаблонами смен
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория шаблонов смен
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый шаблон смены
func (r *Repository) Create(ctx context.Context, shift *domain.RoleShift) (*domain.RoleShift, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("role_shifts").
		Columns("role_id", "vendor_id", "day_of_week", "start_time", "end_time", "capacity", "active").
		Values(shift.RoleID, shift.VendorID, shift.DayOfWeek, shift.StartTime, shift.EndTime, shift.Capacity, shift.Active).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&shift.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	shift.CreatedAt = createdAt.Time
	shift.UpdatedAt = updatedAt.Time

	if err := r.replaceItems(ctx, executor, shift.ID, shift.BookingItemIDs); err != nil {
		return nil, err
	}

	return shift, nil
}

// GetByID получает шаблон смены по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.RoleShift, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.selectColumns().
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	shifts, err := r.scanShifts(rows)
	if err != nil {
		return nil, err
	}
	if len(shifts) == 0 {
		return nil, ErrShiftNotFound
	}

	if err := r.loadItems(ctx, executor, shifts); err != nil {
		return nil, err
	}

	return shifts[0], nil
}

// GetByRole получает все шаблоны смен роли
func (r *Repository) GetByRole(ctx context.Context, roleID int64) ([]*domain.RoleShift, error) {
	return r.list(ctx, squirrel.Eq{"role_id": roleID})
}

// GetByVendor получает все шаблоны смен вендора
func (r *Repository) GetByVendor(ctx context.Context, vendorID int64) ([]*domain.RoleShift, error) {
	return r.list(ctx, squirrel.Eq{"vendor_id": vendorID})
}

// GetActiveForDay получает активные шаблоны указанных ролей на день недели
// Результат отсортирован по role_id, id - это порядок детерминированного
// выбора смены при создании бронирования
func (r *Repository) GetActiveForDay(ctx context.Context, roleIDs []int64, dayOfWeek int) ([]*domain.RoleShift, error) {
	if len(roleIDs) == 0 {
		return []*domain.RoleShift{}, nil
	}
	return r.list(ctx, squirrel.Eq{"role_id": roleIDs, "day_of_week": dayOfWeek, "active": true})
}

// Update обновляет шаблон смены и заменяет список его услуг
func (r *Repository) Update(ctx context.Context, shift *domain.RoleShift) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("role_shifts").
		Set("day_of_week", shift.DayOfWeek).
		Set("start_time", shift.StartTime).
		Set("end_time", shift.EndTime).
		Set("capacity", shift.Capacity).
		Set("active", shift.Active).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": shift.ID}).
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
		return ErrShiftNotFound
	}

	return r.replaceItems(ctx, executor, shift.ID, shift.BookingItemIDs)
}

// Delete удаляет шаблон смены
// Бронирования, созданные под этим шаблоном, не затрагиваются
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("role_shifts").
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
		return ErrShiftNotFound
	}

	return nil
}

func (r *Repository) selectColumns() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id", "role_id", "vendor_id", "day_of_week", "start_time", "end_time",
		"capacity", "active", "created_at", "updated_at",
	).From("role_shifts")
}

func (r *Repository) list(ctx context.Context, where interface{}) ([]*domain.RoleShift, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.selectColumns().
		Where(where).
		OrderBy("role_id ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: list - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	shifts, err := r.scanShifts(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, executor, shifts); err != nil {
		return nil, err
	}

	return shifts, nil
}

func (r *Repository) replaceItems(ctx context.Context, executor DBExecutor, shiftID int64, itemIDs []int64) error {
	query, args, err := psqlbuilder.Delete("role_shift_items").
		Where(squirrel.Eq{"shift_id": shiftID}).
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

	insert := psqlbuilder.Insert("role_shift_items").Columns("shift_id", "booking_item_id")
	for _, itemID := range itemIDs {
		insert = insert.Values(shiftID, itemID)
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

func (r *Repository) loadItems(ctx context.Context, executor DBExecutor, shifts []*domain.RoleShift) error {
	if len(shifts) == 0 {
		return nil
	}

	ids := make([]int64, len(shifts))
	byID := make(map[int64]*domain.RoleShift, len(shifts))
	for i, shift := range shifts {
		ids[i] = shift.ID
		byID[shift.ID] = shift
		shift.BookingItemIDs = make([]int64, 0)
	}

	query, args, err := psqlbuilder.Select("shift_id", "booking_item_id").
		From("role_shift_items").
		Where(squirrel.Eq{"shift_id": ids}).
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
		var shiftID, itemID int64
		if err := rows.Scan(&shiftID, &itemID); err != nil {
			return fmt.Errorf("%w: loadItems - scan row: %v", ErrScanRow, err)
		}
		if shift, ok := byID[shiftID]; ok {
			shift.BookingItemIDs = append(shift.BookingItemIDs, itemID)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadItems - rows error: %v", ErrScanRow, err)
	}

	return nil
}

func (r *Repository) scanShifts(rows *sql.Rows) ([]*domain.RoleShift, error) {
	shifts := make([]*domain.RoleShift, 0)

	for rows.Next() {
		var shift domain.RoleShift
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&shift.ID,
			&shift.RoleID,
			&shift.VendorID,
			&shift.DayOfWeek,
			&shift.StartTime,
			&shift.EndTime,
			&shift.Capacity,
			&shift.Active,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanShifts - scan row: %v", ErrScanRow, err)
		}

		shift.CreatedAt = createdAt.Time
		shift.UpdatedAt = updatedAt.Time
		shifts = append(shifts, &shift)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanShifts - rows error: %v", ErrScanRow, err)
	}

	return shifts, nil
}
