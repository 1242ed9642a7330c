// internal/repository/task_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"

	"github.com/gurkanbulca/dayplan/internal/database"
	"github.com/gurkanbulca/dayplan/internal/models"
)

// ErrTaskNotFound is returned when an update or delete targets an unknown id
var ErrTaskNotFound = errors.New("task not found")

// SQLTaskRepository persists tasks in a SQL database. Statements are built
// with ent's dialect builder and executed through sqlx.
type SQLTaskRepository struct {
	db      *sqlx.DB
	dialect string
}

func NewSQLTaskRepository(drv *entsql.Driver) *SQLTaskRepository {
	return &SQLTaskRepository{
		db:      sqlx.NewDb(drv.DB(), drv.Dialect()),
		dialect: drv.Dialect(),
	}
}

func (r *SQLTaskRepository) builder() *entsql.DialectBuilder {
	return entsql.Dialect(r.dialect)
}

// FetchTasks returns every task owned by the user ordered by date and creation time
func (r *SQLTaskRepository) FetchTasks(ctx context.Context, userID string) ([]*models.Task, error) {
	query, args := r.builder().
		Select(database.TaskColumnNames()...).
		From(entsql.Table(database.TasksTableName)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("date", "created_at").
		Query()

	var tasks []*models.Task
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	return tasks, nil
}

func (r *SQLTaskRepository) InsertTasks(ctx context.Context, tasks []*models.Task) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		return r.insertTasks(ctx, tx, tasks)
	})
}

func (r *SQLTaskRepository) UpdateTask(ctx context.Context, id string, fields models.TaskPatch) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		return r.updateTasks(ctx, tx, []string{id}, fields, true)
	})
}

// UpdateTasks applies the same fields to every id. Ids that no longer exist are skipped.
func (r *SQLTaskRepository) UpdateTasks(ctx context.Context, ids []string, fields models.TaskPatch) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		return r.updateTasks(ctx, tx, ids, fields, false)
	})
}

func (r *SQLTaskRepository) DeleteTask(ctx context.Context, id string) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		n, err := r.deleteTasks(ctx, tx, []string{id})
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("delete task %s: %w", id, ErrTaskNotFound)
		}
		return nil
	})
}

func (r *SQLTaskRepository) DeleteTasks(ctx context.Context, ids []string) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		_, err := r.deleteTasks(ctx, tx, ids)
		return err
	})
}

// Apply writes the whole change set in a single transaction
func (r *SQLTaskRepository) Apply(ctx context.Context, cs *models.ChangeSet) error {
	if cs.IsEmpty() {
		return nil
	}
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := r.insertTasks(ctx, tx, cs.Inserts); err != nil {
			return err
		}
		for _, p := range cs.Patches {
			if err := r.updateTasks(ctx, tx, p.IDs, p.Fields, len(p.IDs) == 1); err != nil {
				return err
			}
		}
		_, err := r.deleteTasks(ctx, tx, cs.Deletes)
		return err
	})
}

func (r *SQLTaskRepository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		return rollback(tx, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *SQLTaskRepository) insertTasks(ctx context.Context, tx *sqlx.Tx, tasks []*models.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	insert := r.builder().
		Insert(database.TasksTableName).
		Columns(database.TaskColumnNames()...)
	for _, t := range tasks {
		insert = insert.Values(taskValues(t)...)
	}
	query, args := insert.Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert tasks: %w", err)
	}
	return nil
}

func (r *SQLTaskRepository) updateTasks(ctx context.Context, tx *sqlx.Tx, ids []string, p models.TaskPatch, strict bool) error {
	if len(ids) == 0 || p.IsEmpty() {
		return nil
	}
	update := r.builder().Update(database.TasksTableName)
	setPatch(update, p)
	query, args := update.Where(entsql.In("id", idValues(ids)...)).Query()

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update tasks: %w", err)
	}
	if strict {
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update tasks: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("update task %s: %w", ids[0], ErrTaskNotFound)
		}
	}
	return nil
}

func (r *SQLTaskRepository) deleteTasks(ctx context.Context, tx *sqlx.Tx, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args := r.builder().
		Delete(database.TasksTableName).
		Where(entsql.In("id", idValues(ids)...)).
		Query()
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete tasks: %w", err)
	}
	return res.RowsAffected()
}

// Helper function for transaction rollback
func rollback(tx *sqlx.Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		err = fmt.Errorf("%w: %v", err, rerr)
	}
	return err
}

func idValues(ids []string) []any {
	values := make([]any, len(ids))
	for i, id := range ids {
		values[i] = id
	}
	return values
}

// taskValues must follow the order of database.TasksColumns
func taskValues(t *models.Task) []any {
	return []any{
		t.ID,
		t.UserID,
		nullString(t.ParentID),
		t.Date,
		nullString(t.StartTime),
		nullInt(t.Duration),
		string(t.Status),
		t.Completion,
		t.IsRecurring,
		string(t.RecurrencePattern),
		nullString(t.RecurrenceEndDate),
		nullString(t.RecurringParentID),
		nullString(t.CarriedOverTo),
		nullString(t.CarriedOverFrom),
		t.CarryOverReason,
		t.CancelReason,
		t.Title,
		t.Description,
		t.Priority,
		t.Review,
		t.CreatedAt,
		t.UpdatedAt,
	}
}

func setPatch(u *entsql.UpdateBuilder, p models.TaskPatch) {
	setString := func(col string, v *string) {
		if v != nil {
			u.Set(col, *v)
		}
	}
	setNullable := func(col string, v *string) {
		if v == nil {
			return
		}
		if *v == "" {
			u.SetNull(col)
		} else {
			u.Set(col, *v)
		}
	}

	setString("title", p.Title)
	setString("description", p.Description)
	setString("priority", p.Priority)
	setString("review", p.Review)
	setNullable("parent_id", p.ParentID)
	setString("date", p.Date)
	setNullable("start_time", p.StartTime)
	if p.Duration != nil {
		if *p.Duration == 0 {
			u.SetNull("duration")
		} else {
			u.Set("duration", *p.Duration)
		}
	}
	if p.Status != nil {
		u.Set("status", string(*p.Status))
	}
	if p.Completion != nil {
		u.Set("completion", *p.Completion)
	}
	if p.IsRecurring != nil {
		u.Set("is_recurring", *p.IsRecurring)
	}
	if p.RecurrencePattern != nil {
		u.Set("recurrence_pattern", string(*p.RecurrencePattern))
	}
	setNullable("recurrence_end_date", p.RecurrenceEndDate)
	setNullable("carried_over_to", p.CarriedOverTo)
	setString("carry_over_reason", p.CarryOverReason)
	setString("cancel_reason", p.CancelReason)
	if p.UpdatedAt != nil {
		u.Set("updated_at", *p.UpdatedAt)
	}
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullInt(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}
