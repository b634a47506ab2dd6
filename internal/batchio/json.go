package batchio

import (
	"github.com/goccy/go-json"
)

// JSONConverter turns a single record into one JSON line and back.
type JSONConverter[T any] interface {
	ToJSON(item T) (string, error)
	FromJSON(line string) (T, error)
}

type jsonConverter[T any] struct{}

// NewJSONConverter returns a converter that marshals T with its json tags.
func NewJSONConverter[T any]() JSONConverter[T] {
	return jsonConverter[T]{}
}

func (jsonConverter[T]) ToJSON(item T) (string, error) {
	b, err := json.Marshal(item)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (jsonConverter[T]) FromJSON(line string) (T, error) {
	var item T
	err := json.Unmarshal([]byte(line), &item)
	return item, err
}
