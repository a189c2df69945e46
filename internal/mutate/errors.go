package mutate

import (
	"errors"
	"fmt"

	"nameboard/internal/model"
)

// ParentNotFoundError is returned when the container an operation targets does not exist.
type ParentNotFoundError struct {
	Kind model.Kind // kind of the missing parent
	ID   string
}

func (e ParentNotFoundError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("parent not found: %s", e.ID)
	}
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

type ItemNotFoundError struct {
	Kind model.Kind
	ID   string
}

func (e ItemNotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

type IndexOutOfRangeError struct {
	Index int
	Len   int
}

func (e IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range [0, %d)", e.Index, e.Len)
}

// IsNotFound reports whether err is a missing parent or item.
func IsNotFound(err error) bool {
	var p ParentNotFoundError
	var it ItemNotFoundError
	return errors.As(err, &p) || errors.As(err, &it)
}
