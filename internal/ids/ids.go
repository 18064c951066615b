package ids

import "github.com/oklog/ulid/v2"

// New returns a lexicographically sortable unique identifier suitable for
// primary keys.
func New() string {
	return ulid.Make().String()
}
