package database

import (
	"context"
	"fmt"
	"log"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// TasksTableName is the table holding every task row
const TasksTableName = "tasks"

var (
	// TasksColumns holds the columns for the "tasks" table.
	TasksColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true, Size: 36},
		{Name: "user_id", Type: field.TypeString, Size: 64},
		{Name: "parent_id", Type: field.TypeString, Nullable: true, Size: 36},
		{Name: "date", Type: field.TypeString, Size: 10},
		{Name: "start_time", Type: field.TypeString, Nullable: true, Size: 5},
		{Name: "duration", Type: field.TypeInt, Nullable: true},
		{Name: "status", Type: field.TypeString, Size: 16, Default: "TODO"},
		{Name: "completion", Type: field.TypeInt, Default: 0},
		{Name: "is_recurring", Type: field.TypeBool, Default: false},
		{Name: "recurrence_pattern", Type: field.TypeString, Size: 16, Default: ""},
		{Name: "recurrence_end_date", Type: field.TypeString, Nullable: true, Size: 10},
		{Name: "recurring_parent_id", Type: field.TypeString, Nullable: true, Size: 36},
		{Name: "carried_over_to", Type: field.TypeString, Nullable: true, Size: 10},
		{Name: "carried_over_from", Type: field.TypeString, Nullable: true, Size: 10},
		{Name: "carry_over_reason", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "cancel_reason", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "title", Type: field.TypeString, Size: 200},
		{Name: "description", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "priority", Type: field.TypeString, Size: 16, Default: ""},
		{Name: "review", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "created_at", Type: field.TypeInt64},
		{Name: "updated_at", Type: field.TypeInt64},
	}
	// TasksTable holds the schema information for the "tasks" table.
	TasksTable = &schema.Table{
		Name:       TasksTableName,
		Columns:    TasksColumns,
		PrimaryKey: []*schema.Column{TasksColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "task_user_id_date",
				Unique:  false,
				Columns: []*schema.Column{TasksColumns[1], TasksColumns[3]},
			},
			{
				Name:    "task_parent_id_date",
				Unique:  false,
				Columns: []*schema.Column{TasksColumns[2], TasksColumns[3]},
			},
			{
				Name:    "task_recurring_parent_id",
				Unique:  false,
				Columns: []*schema.Column{TasksColumns[11]},
			},
		},
	}
	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		TasksTable,
	}
)

// TaskColumnNames lists the tasks columns in declaration order
func TaskColumnNames() []string {
	names := make([]string, len(TasksColumns))
	for i, c := range TasksColumns {
		names[i] = c.Name
	}
	return names
}

// Migrate creates or updates the schema
func Migrate(ctx context.Context, drv dialect.Driver) error {
	log.Println("🔄 Running auto migration...")
	m, err := schema.NewMigrate(
		drv,
		schema.WithDropIndex(true),
		schema.WithDropColumn(true),
		schema.WithForeignKeys(false),
	)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("run auto migration: %w", err)
	}
	log.Println("✅ Auto migration completed")
	return nil
}
