package database

import (
	"fmt"

	"gorm.io/gorm"
)

type index struct {
	table   string
	name    string
	columns string
}

var indexes = []index{
	// Task list scopes, filters and sorts
	{"tasks", "idx_tasks_creator_id", "creator_id"},
	{"tasks", "idx_tasks_completed", "completed"},
	{"tasks", "idx_tasks_due_date", "due_date"},
	{"tasks", "idx_tasks_priority", "priority"},

	// Assignee scope
	{"task_assignments", "idx_task_assignments_user_id", "user_id"},

	// Comments
	{"task_comments", "idx_task_comments_task_id", "task_id"},
	{"task_comments", "idx_task_comments_creator_id", "creator_id"},
}

// AddIndexes creates the query indexes that are missing.
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()

	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
