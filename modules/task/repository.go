package task

import (
	"errors"
	"fmt"
	"strings"

	domain "github.com/example/taskmaster/domain/task"
	"gorm.io/gorm"
)

var (
	// ErrTaskNotFound is returned when a task does not exist or is not
	// owned by the requesting user. The two cases are deliberately
	// indistinguishable.
	ErrTaskNotFound = errors.New("task not found")
	// ErrSubTaskNotFound is returned when a sub-task id is not present in
	// the parent task.
	ErrSubTaskNotFound = errors.New("sub-task not found")
)

// TaskRepository provides access to task storage.
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository.
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create saves a new task and its sub-tasks to the database.
func (r *TaskRepository) Create(task *domain.Task) error {
	if err := r.db.Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByIDAndOwner retrieves a task by ID scoped to its owner, with
// sub-tasks in insertion order.
func (r *TaskRepository) FindByIDAndOwner(taskID, userID string) (*domain.Task, error) {
	var task domain.Task
	err := r.db.
		Preload("SubTasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&task, "id = ? AND user_id = ?", taskID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

// filtered returns a fresh query restricted by the filter.
func (r *TaskRepository) filtered(filter TaskFilter) *gorm.DB {
	query := r.db.Model(&domain.Task{}).Where("user_id = ?", filter.UserID)
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	return query
}

// FindPage retrieves one page of tasks matching the filter, ordered by the
// given clause, together with the total match count.
func (r *TaskRepository) FindPage(filter TaskFilter, orderClause string, offset, limit int) ([]*domain.Task, int64, error) {
	var total int64
	if err := r.filtered(filter).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	var tasks []*domain.Task
	err := r.filtered(filter).
		Preload("SubTasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order(orderClause).
		Offset(offset).
		Limit(limit).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find tasks: %w", err)
	}
	return tasks, total, nil
}

// likeEscaper neutralizes LIKE metacharacters so search terms match as
// literal substrings.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searched returns a fresh query matching the owner's tasks whose title or
// description contains the term, case-insensitively.
func (r *TaskRepository) searched(userID, term string) *gorm.DB {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
	return r.db.Model(&domain.Task{}).
		Where("user_id = ?", userID).
		Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`, pattern, pattern)
}

// SearchPage retrieves one page of tasks matching the search term, together
// with the total match count.
func (r *TaskRepository) SearchPage(userID, term string, offset, limit int) ([]*domain.Task, int64, error) {
	var total int64
	if err := r.searched(userID, term).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	var tasks []*domain.Task
	err := r.searched(userID, term).
		Preload("SubTasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search tasks: %w", err)
	}
	return tasks, total, nil
}

// Save persists field changes on an existing task. Sub-task rows are
// managed separately and are not touched.
func (r *TaskRepository) Save(task *domain.Task) error {
	if err := r.db.Omit("SubTasks").Save(task).Error; err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

// Delete removes a task owned by the user, cascading its sub-tasks.
func (r *TaskRepository) Delete(taskID, userID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&domain.Task{}, "id = ? AND user_id = ?", taskID, userID)
		if result.Error != nil {
			return fmt.Errorf("failed to delete task: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrTaskNotFound
		}
		if err := tx.Delete(&domain.SubTask{}, "task_id = ?", taskID).Error; err != nil {
			return fmt.Errorf("failed to delete sub-tasks: %w", err)
		}
		return nil
	})
}

// ReplaceSubTasks swaps the full sub-task sequence of a task.
func (r *TaskRepository) ReplaceSubTasks(taskID string, subTasks []domain.SubTask) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.SubTask{}, "task_id = ?", taskID).Error; err != nil {
			return fmt.Errorf("failed to clear sub-tasks: %w", err)
		}
		for i := range subTasks {
			subTasks[i].TaskID = taskID
		}
		if len(subTasks) > 0 {
			if err := tx.Create(&subTasks).Error; err != nil {
				return fmt.Errorf("failed to insert sub-tasks: %w", err)
			}
		}
		return nil
	})
}

// AddSubTask inserts one sub-task row.
func (r *TaskRepository) AddSubTask(subTask *domain.SubTask) error {
	if err := r.db.Create(subTask).Error; err != nil {
		return fmt.Errorf("failed to add sub-task: %w", err)
	}
	return nil
}

// SaveSubTask persists changes to an existing sub-task row.
func (r *TaskRepository) SaveSubTask(subTask *domain.SubTask) error {
	if err := r.db.Save(subTask).Error; err != nil {
		return fmt.Errorf("failed to save sub-task: %w", err)
	}
	return nil
}

// DeleteSubTask removes one sub-task row from its parent task.
func (r *TaskRepository) DeleteSubTask(taskID, subTaskID string) error {
	result := r.db.Delete(&domain.SubTask{}, "id = ? AND task_id = ?", subTaskID, taskID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete sub-task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSubTaskNotFound
	}
	return nil
}
