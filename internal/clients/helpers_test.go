package clients

import (
	"encoding/json"
	"net/http"
)

func decodeBody(req *http.Request, v any) error {
	defer req.Body.Close()
	return json.NewDecoder(req.Body).Decode(v)
}
