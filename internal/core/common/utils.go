package common

import (
	"encoding/json"
	"fmt"
)

// ParseJSON cleans and unmarshals a JSON object string into a type T.
// It handles common LLM quirks like surrounding markdown or extra text.
func ParseJSON[T any](response string) (T, error) {
	var zero T
	jsonStr, err := extract(response, '{', '}')
	if err != nil {
		return zero, err
	}

	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w\nData: %s", err, jsonStr)
	}

	return result, nil
}

// ParseJSONArray is ParseJSON for top-level JSON arrays.
func ParseJSONArray[T any](response string) ([]T, error) {
	jsonStr, err := extract(response, '[', ']')
	if err != nil {
		return nil, err
	}

	var result []T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON array: %w\nData: %s", err, jsonStr)
	}

	return result, nil
}

// extract returns the substring between the first open delimiter and the
// last close delimiter, stripping markdown fences or chatter around it.
func extract(s string, open, close byte) (string, error) {
	start := -1
	end := -1

	for i := 0; i < len(s); i++ {
		if s[i] == open {
			start = i
			break
		}
	}
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == close {
			end = i + 1
			break
		}
	}

	if start == -1 || end == -1 || start >= end {
		return "", fmt.Errorf("no JSON found in response (missing '%c')", open)
	}

	return s[start:end], nil
}
