package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Repository репозиторий для работы с назначениями персонала на роли
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория назначений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запись назначения сотрудника на роль
func (r *Repository) Create(ctx context.Context, entry *domain.StaffSchedule) (*domain.StaffSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("staff_schedules").
		Columns("role_id", "staff_id", "date", "start_time", "end_time", "status").
		Values(entry.RoleID, entry.StaffID, entry.Date, entry.StartTime, entry.EndTime, entry.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	entry.CreatedAt = createdAt.Time
	entry.UpdatedAt = updatedAt.Time
	return entry, nil
}

// GetByID получает запись назначения по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.StaffSchedule, error) {
	entries, err := r.list(ctx, squirrel.Eq{"id": id})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrScheduleNotFound
	}
	return entries[0], nil
}

// GetByRoleAndDateRange получает назначения роли за период [from, to]
func (r *Repository) GetByRoleAndDateRange(ctx context.Context, roleID int64, from, to time.Time) ([]*domain.StaffSchedule, error) {
	return r.list(ctx, squirrel.And{
		squirrel.Eq{"role_id": roleID},
		squirrel.GtOrEq{"date": from},
		squirrel.LtOrEq{"date": to},
	})
}

// GetByStaffAndDateRange получает назначения сотрудника за период [from, to]
func (r *Repository) GetByStaffAndDateRange(ctx context.Context, staffID int64, from, to time.Time) ([]*domain.StaffSchedule, error) {
	return r.list(ctx, squirrel.And{
		squirrel.Eq{"staff_id": staffID},
		squirrel.GtOrEq{"date": from},
		squirrel.LtOrEq{"date": to},
	})
}

// GetPublishedByRoleAndDate получает опубликованные назначения роли на дату
// в порядке возрастания staff_id - порядок определяет выбор исполнителя
func (r *Repository) GetPublishedByRoleAndDate(ctx context.Context, roleID int64, date time.Time) ([]*domain.StaffSchedule, error) {
	return r.list(ctx, squirrel.Eq{
		"role_id": roleID,
		"date":    date,
		"status":  domain.SchedulePublished,
	})
}

// ExistsForRoleDateWindow проверяет, есть ли запись назначения роли на дату
// с точно таким же окном. Используется для идемпотентной генерации черновиков:
// два шаблона на один день недели дают две независимые записи
func (r *Repository) ExistsForRoleDateWindow(ctx context.Context, roleID int64, date time.Time, startTime, endTime types.TimeString) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("staff_schedules").
		Where(squirrel.Eq{
			"role_id":    roleID,
			"date":       date,
			"start_time": startTime,
			"end_time":   endTime,
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: ExistsForRoleDateWindow - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: ExistsForRoleDateWindow - execute query: %v", ErrExecQuery, err)
	}

	return true, nil
}

// Update обновляет назначение (сотрудник, окно, статус)
func (r *Repository) Update(ctx context.Context, entry *domain.StaffSchedule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("staff_schedules").
		Set("staff_id", entry.StaffID).
		Set("start_time", entry.StartTime).
		Set("end_time", entry.EndTime).
		Set("status", entry.Status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": entry.ID}).
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
		return ErrScheduleNotFound
	}

	return nil
}

// PublishByRoleAndDateRange переводит все черновики роли за период
// в статус published одним запросом. Возвращает число опубликованных записей
func (r *Repository) PublishByRoleAndDateRange(ctx context.Context, roleID int64, from, to time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("staff_schedules").
		Set("status", domain.SchedulePublished).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.And{
			squirrel.Eq{"role_id": roleID, "status": domain.ScheduleDraft},
			squirrel.GtOrEq{"date": from},
			squirrel.LtOrEq{"date": to},
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: PublishByRoleAndDateRange - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: PublishByRoleAndDateRange - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: PublishByRoleAndDateRange - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// Delete удаляет запись назначения
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("staff_schedules").
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
		return ErrScheduleNotFound
	}

	return nil
}

func (r *Repository) list(ctx context.Context, where interface{}) ([]*domain.StaffSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "role_id", "staff_id", "date", "start_time", "end_time", "status", "created_at", "updated_at",
	).
		From("staff_schedules").
		Where(where).
		OrderBy("date ASC", "staff_id ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: list - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*domain.StaffSchedule, 0)
	for rows.Next() {
		var entry domain.StaffSchedule
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&entry.ID,
			&entry.RoleID,
			&entry.StaffID,
			&entry.Date,
			&entry.StartTime,
			&entry.EndTime,
			&entry.Status,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: list - scan row: %v", ErrScanRow, err)
		}

		entry.CreatedAt = createdAt.Time
		entry.UpdatedAt = updatedAt.Time
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}
