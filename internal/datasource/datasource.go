// Package datasource fetches client, portfolio and analysis records from the
// advisory backend. It defines the DataSource interface the views depend on
// and an HTTP implementation of it.
package datasource

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/seenimoa/clientdesk/pkg/models"
)

// DataSource is the read-only contract of the advisory backend.
type DataSource interface {
	// Clients returns every client (GET /api/clients).
	Clients(ctx context.Context) ([]models.Client, error)

	// Client returns one client, or nil when the backend answers null
	// (GET /api/clients/{id}).
	Client(ctx context.Context, id string) (*models.Client, error)

	// Portfolio returns the client's portfolio (GET /api/portfolios/{id}).
	Portfolio(ctx context.Context, id string) (*models.Portfolio, error)

	// DailyRisks returns the client's risk history (GET /api/dailyrisks/{id}).
	DailyRisks(ctx context.Context, id string) ([]models.DailyRisk, error)

	// DailySentiments returns the wrapper sequence of sentiment sets
	// (GET /api/dailysentiments/{id}).
	DailySentiments(ctx context.Context, id string) ([]models.DailySentimentSet, error)

	// Satisfaction returns the satisfaction badge (GET /api/clientSatisfactions/{id}).
	Satisfaction(ctx context.Context, id string) (*models.SatisfactionScore, error)

	// RunScript triggers the server-side analysis script and returns its
	// output as plain text (GET /run-python).
	RunScript(ctx context.Context) (string, error)
}

// --- Errors ---

// ErrHTTP wraps a non-2xx backend response.
type ErrHTTP struct {
	StatusCode int
	Status     string
	Endpoint   string
	Body       string
}

func (e *ErrHTTP) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d %s: %s", e.Endpoint, e.StatusCode, e.Status, e.Body)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var he *ErrHTTP
	return errors.As(err, &he) && he.StatusCode == http.StatusNotFound
}
