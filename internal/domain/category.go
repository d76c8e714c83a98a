package domain

// Category classifies a bookmark.
type Category string

const (
	CategoryEntryPoint   Category = "entry-point"
	CategoryCoreLogic    Category = "core-logic"
	CategoryTodo         Category = "todo"
	CategoryBug          Category = "bug"
	CategoryOptimization Category = "optimization"
	CategoryExplanation  Category = "explanation"
	CategoryWarning      Category = "warning"
	CategoryReference    Category = "reference"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryEntryPoint,
	CategoryCoreLogic,
	CategoryTodo,
	CategoryBug,
	CategoryOptimization,
	CategoryExplanation,
	CategoryWarning,
	CategoryReference,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// CategoryNames returns the categories as plain strings (for schemas).
func CategoryNames() []string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return names
}
