package modeldb

import "errors"

// ErrNotFound запрошенной записи нет в базе
var ErrNotFound = errors.New("record not found")
