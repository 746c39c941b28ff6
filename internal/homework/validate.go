package homework

import (
	"encoding/json"
	"fmt"

	"homework-telegram-bot/internal/types"
)

// CheckResponse verifies that raw, a decoded JSON answer of the homework
// statuses API, is an object with a homeworks list and an integer
// current_date, and returns it in typed form. The first violated rule is
// reported as a *ValidationError.
func CheckResponse(raw interface{}) (types.StatusResponse, error) {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return types.StatusResponse{}, &ValidationError{Field: "response", Reason: "must be an object"}
	}

	list, ok := obj["homeworks"].([]interface{})
	if !ok {
		return types.StatusResponse{}, &ValidationError{Field: "homeworks", Reason: "must be a list"}
	}

	currentDate, ok := toInt64(obj["current_date"])
	if !ok {
		return types.StatusResponse{}, &ValidationError{Field: "current_date", Reason: "must be an integer"}
	}

	homeworks := make([]types.Homework, 0, len(list))
	for i, item := range list {
		hw, ok := item.(map[string]interface{})
		if !ok {
			return types.StatusResponse{}, &ValidationError{
				Field:  fmt.Sprintf("homeworks[%d]", i),
				Reason: "must be an object",
			}
		}
		homeworks = append(homeworks, types.Homework(hw))
	}

	return types.StatusResponse{
		Homeworks:   homeworks,
		CurrentDate: currentDate,
	}, nil
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case int:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}
