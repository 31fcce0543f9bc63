package backendapi

import (
	"context"
	"net/http"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/report"
)

var _ report.Repository = (*Client)(nil)

func (c *Client) QueryAnalytics(ctx context.Context, classID string) (report.Series, error) {
	var series report.Series
	if err := c.do(ctx, http.MethodGet, "/api/analytics/"+classID, nil, &series); err != nil {
		return report.Series{}, err
	}
	// fail fast at the boundary rather than propagate a misaligned series
	if len(series.Dates) != len(series.Rates) {
		return report.Series{}, core.NewServerError(http.StatusOK, "unexpected response shape", report.ErrSeriesMismatch)
	}
	return series, nil
}
