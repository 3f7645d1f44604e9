package apihandlers

import (
	"errors"
	"strconv"
)

func parseQuestionIndex(raw string) (int, error) {
	if raw == "" {
		return 0, errors.New("questionIndex is required")
	}
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 {
		return 0, errors.New("questionIndex must be a non-negative integer")
	}
	return index, nil
}
