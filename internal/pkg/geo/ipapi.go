package geo

import (
	"Abode/internal/pkg/metrics"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

var errLookupFailed = errors.New("geo lookup failed")

type ipAPIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Country string `json:"country"`
	City    string `json:"city"`
}

// IPAPIResolver 基于 ip-api.com 的解析器，单次调用不重试
type IPAPIResolver struct {
	client  *resty.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[Location]
}

// NewIPAPIResolver ratePerMinute <= 0 时不限流
func NewIPAPIResolver(endpoint string, ratePerMinute int) *IPAPIResolver {
	client := resty.New().
		SetBaseURL(endpoint).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	client.JSONMarshal = json.Marshal
	client.JSONUnmarshal = json.Unmarshal

	limit := rate.Inf
	burst := 1
	if ratePerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(ratePerMinute))
		burst = ratePerMinute
	}

	cb := gobreaker.NewCircuitBreaker[Location](gobreaker.Settings{
		Name:        "ip-api",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("geo circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			metrics.GeoBreakerState.Set(float64(to))
		},
	})

	return &IPAPIResolver{
		client:  client,
		limiter: rate.NewLimiter(limit, burst),
		cb:      cb,
	}
}

func (r *IPAPIResolver) Resolve(ctx context.Context, ip string, timeout time.Duration) Location {
	parsed := NormalizeIP(ip)
	if parsed == nil {
		metrics.GeoFallbacks.WithLabelValues("invalid_ip").Inc()
		return Unknown()
	}
	if !IsPublicIP(parsed) {
		metrics.GeoFallbacks.WithLabelValues("private_ip").Inc()
		return Unknown()
	}
	if !r.limiter.Allow() {
		metrics.GeoFallbacks.WithLabelValues("rate_limited").Inc()
		return Unknown()
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	loc, err := r.cb.Execute(func() (Location, error) {
		return r.lookup(ctx, parsed.String())
	})
	if err != nil {
		reason := "lookup_error"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			reason = "breaker_open"
		} else if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			reason = "timeout"
		}
		metrics.GeoFallbacks.WithLabelValues(reason).Inc()
		log.WarnContext(ctx, "geo lookup fell back to unknown", "ip", parsed.String(), "reason", reason, "err", err)
		return Unknown()
	}
	return loc
}

func (r *IPAPIResolver) lookup(ctx context.Context, ip string) (Location, error) {
	var res ipAPIResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParam("fields", "status,message,country,city").
		SetResult(&res).
		Get("/" + ip)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %v", errLookupFailed, err)
	}
	if resp.IsError() {
		return Location{}, fmt.Errorf("%w: status %d", errLookupFailed, resp.StatusCode())
	}
	if res.Status != "success" || res.Country == "" {
		return Location{}, fmt.Errorf("%w: %s", errLookupFailed, res.Message)
	}

	loc := Location{Country: res.Country, City: res.City}
	if loc.City == "" {
		loc.City = Unknown().City
	}
	return loc, nil
}
