package types

// Homework is a single record of the homework_statuses answer as it came
// from the API. Only homework_name and status are interpreted.
type Homework map[string]interface{}

// StatusResponse is a validated answer of the homework statuses API.
type StatusResponse struct {
	Homeworks   []Homework `json:"homeworks"`
	CurrentDate int64      `json:"current_date"`
}
