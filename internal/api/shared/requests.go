package shared

import (
	"encoding/json"
	"net/http"
)

// DecodeJSON decodes the request body into target. Handlers validate the
// decoded struct themselves; this only covers malformed JSON.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
