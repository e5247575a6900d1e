package model

// Worker is a warehouse operator. Only active workers holding the picker
// capability are eligible for wave assignment.
type Worker struct {
	BaseModel
	Name     string `db:"name" json:"name"`
	IsActive bool   `db:"is_active" json:"is_active"`
	IsPicker bool   `db:"is_picker" json:"is_picker"`
}
