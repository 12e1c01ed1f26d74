package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/lanangwisana/sentracare-be-booking/pkg/logging"
)

// Handler serves the GraphQL surface over POST /graphql.
type Handler struct {
	schema graphql.Schema
	logger *logging.Logger
}

// NewHandler wraps a compiled schema.
func NewHandler(schema graphql.Schema, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{schema: schema, logger: logger}
}

type request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

// ServeHTTP executes a single GraphQL request. Resolver failures are
// reported in the standard errors array with a 200 status.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"errors":[{"message":"invalid request body"}]}`, http.StatusBadRequest)
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        r.Context(),
	})
	if result.HasErrors() {
		h.logger.Debug("graphql request returned errors", "count", len(result.Errors))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}
