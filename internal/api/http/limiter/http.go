package limiter

import (
	"fmt"
	"net/http"

	"github.com/m-zajac/busfactor/internal/app"
	"golang.org/x/time/rate"
)

// HTTPDoer can execute http request.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// limitedHTTPDoer wraps HTTPDoer and allows Dos with maximum rate limit.
type limitedHTTPDoer struct {
	doer    HTTPDoer
	limiter *rate.Limiter
}

// NewHTTPDoer creates limited HTTPDoer instance.
// maxRate - maximum number of Dos per second. If not positive, doer is returned unchanged.
// burst - number of Dos allowed at once, values lower than 1 are treated as 1.
func NewHTTPDoer(doer HTTPDoer, maxRate float64, burst int) HTTPDoer {
	if maxRate <= 0 {
		return doer
	}
	if burst < 1 {
		burst = 1
	}

	return &limitedHTTPDoer{
		doer:    doer,
		limiter: rate.NewLimiter(rate.Limit(maxRate), burst),
	}
}

// Do executes http request. If limit is exceeded, blocks until call rate is within limit.
func (d *limitedHTTPDoer) Do(r *http.Request) (*http.Response, error) {
	if err := d.limiter.Wait(r.Context()); err != nil {
		// Done request context is not a rate limit problem.
		if ctxErr := r.Context().Err(); ctxErr != nil {
			return nil, fmt.Errorf("waiting for httpDoer limiter: %w", ctxErr)
		}
		return nil, app.TooManyRequestsError(fmt.Sprintf("waiting for httpDoer limiter: %v", err))
	}

	return d.doer.Do(r)
}
