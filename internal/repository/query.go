package repository

// TaskField names a task attribute that can be filtered or sorted on.
type TaskField string

const (
	FieldID       TaskField = "id"
	FieldCreator  TaskField = "creator"
	FieldAssignee TaskField = "assignee"
	FieldComplete TaskField = "completed"
	FieldDueDate  TaskField = "due_date"
	FieldPriority TaskField = "priority"
)

// Filter restricts the result to tasks whose field equals Value.
// FieldAssignee matches tasks that have Value among their assignees.
type Filter struct {
	Field TaskField
	Value any
}

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

type Sort struct {
	Field     TaskField
	Direction SortDirection
}

// Page is a limit/offset window. A zero Limit means no limit.
type Page struct {
	Limit  int
	Offset int
}

// TaskQuery describes a task listing. Filters are combined with AND.
// When Empty is set the query matches nothing.
type TaskQuery struct {
	Empty   bool
	Filters []Filter
	Sort    Sort
	Page    Page
}

// DefaultSort orders tasks by ID ascending.
var DefaultSort = Sort{Field: FieldID, Direction: SortAsc}

// Where appends a filter and returns the query for chaining.
func (q TaskQuery) Where(field TaskField, value any) TaskQuery {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Field: field, Value: value})
	return q
}

var taskColumns = map[TaskField]string{
	FieldID:       "tasks.id",
	FieldCreator:  "tasks.creator_id",
	FieldComplete: "tasks.completed",
	FieldDueDate:  "tasks.due_date",
	FieldPriority: "tasks.priority",
}
