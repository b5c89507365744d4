package api

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rickgao/newsdesk/internal/model"
)

// ErrEmptyResult is returned when the server has no data for a request.
var ErrEmptyResult = errors.New("empty result")

// CategoriesResponse from GET /api/categories
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// DetectResponse from POST /api/detect-fake-news
type DetectResponse struct {
	IsFake model.Verdict `json:"is_fake"`
}

// FactList from GET /api/facts. The server answers with either a list of
// strings or a single string.
type FactList []string

// UnmarshalJSON accepts a JSON array of strings or a single string.
func (f *FactList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*f = list
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return fmt.Errorf("facts: expected string or list of strings: %w", err)
	}
	*f = FactList{single}
	return nil
}
