package website

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrMalformed is wrapped by every Decode failure.
var ErrMalformed = errors.New("malformed website batch")

var validate = validator.New()

// wireWebsite mirrors one array element. Pointer fields let the validator
// tell a missing or null key apart from an empty string.
type wireWebsite struct {
	Name        *string `json:"name" validate:"required"`
	URL         *string `json:"url" validate:"required"`
	Icon        *string `json:"icon" validate:"required"`
	Description *string `json:"description" validate:"required"`
}

type record struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// Decode parses a JSON array of website objects. The batch is all-or-nothing:
// one bad element fails the whole call and no records are returned. Unknown
// keys are ignored. A nil ids falls back to RandomID.
func Decode(data []byte, ids IDFunc) ([]Website, error) {
	if ids == nil {
		ids = RandomID
	}

	var raw []wireWebsite
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: expected array, got null", ErrMalformed)
	}

	out := make([]Website, 0, len(raw))
	for i, item := range raw {
		if err := validate.Struct(item); err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrMalformed, i, err)
		}
		out = append(out, Website{
			ID:          ids(*item.Name, *item.URL),
			Name:        *item.Name,
			URL:         *item.URL,
			Icon:        *item.Icon,
			Description: *item.Description,
		})
	}
	return out, nil
}

// Encode renders records in the external representation, without IDs.
func Encode(websites []Website) ([]byte, error) {
	out := make([]record, 0, len(websites))
	for _, w := range websites {
		out = append(out, record{Name: w.Name, URL: w.URL, Icon: w.Icon, Description: w.Description})
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode websites: %w", err)
	}
	return data, nil
}
