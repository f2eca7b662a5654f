package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/schema"

	"github.com/matst80/magic-search/pkg/common/jsoncompat"
)

// TransitionRequest carries the arguments of a session transition. Index is
// -1 when not given and Query is nil when not given.
type TransitionRequest struct {
	Index int     `json:"index" schema:"index,default:-1"`
	Text  string  `json:"text" schema:"text"`
	Query *string `json:"query" schema:"query"`
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

func makeBaseTransitionRequest() *TransitionRequest {
	return &TransitionRequest{
		Index: -1,
	}
}

// GetTransitionFromRequest reads a JSON body when one is sent and the url
// query otherwise.
func GetTransitionFromRequest(r *http.Request) (*TransitionRequest, error) {
	tr := makeBaseTransitionRequest()
	if r.Method != http.MethodGet && strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") && r.ContentLength != 0 {
		return tr, jsoncompat.NewDecoder(r.Body).Decode(tr)
	}
	return tr, transitionFromRequestQuery(r.URL.Query(), tr)
}

func transitionFromRequestQuery(query url.Values, result *TransitionRequest) error {
	return decoder.Decode(result, query)
}
