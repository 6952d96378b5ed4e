// internal/workers/records/validation-store/queries.go
package validationstore

const (
	insertValidationQuery = `INSERT INTO validations (id, user_id, idea_title, idea_description, form_data, validation_result, overall_score, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	listValidationsQuery = `SELECT id, user_id, form_data, validation_result, overall_score, created_at FROM validations WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	getValidationQuery = `SELECT id, user_id, form_data, validation_result, overall_score, created_at FROM validations WHERE id = $1`

	countValidationsQuery = `SELECT COUNT(*) FROM validations WHERE user_id = $1`

	deleteValidationQuery = `DELETE FROM validations WHERE id = $1 AND user_id = $2`

	validationOwnerQuery = `SELECT user_id FROM validations WHERE id = $1`
)
