// Package bulk fans one action out over the selected rows of a list view and
// reconciles the list afterwards.
package bulk

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/nirmalhealthcare/clinic-console/pkg/errors"
	"github.com/nirmalhealthcare/clinic-console/pkg/logger"
	"github.com/nirmalhealthcare/clinic-console/pkg/metrics"
	"github.com/nirmalhealthcare/clinic-console/pkg/profiling"
	"github.com/nirmalhealthcare/clinic-console/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrNothingSelected is returned when a bulk action is started with an empty
// selection.
var ErrNothingSelected = errors.New("no rows selected")

// List is the part of a list view the coordinator drives.
type List interface {
	Selected() []string
	ClearSelection()
	Refresh()
}

// ActionFunc performs the action on one record.
type ActionFunc func(ctx context.Context, id string) error

// Action names one bulk operation, e.g. {Name: "delete", Verb: "deleted"}.
type Action struct {
	Name string
	Verb string
	Do   ActionFunc
}

// Failure is one record the action could not be applied to.
type Failure struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Summary is the single outcome report of a bulk action.
type Summary struct {
	Action    string    `json:"action"`
	Total     int       `json:"total"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Failures  []Failure `json:"failures,omitempty"`
	Message   string    `json:"message"`
}

// OK reports whether every request succeeded.
func (s Summary) OK() bool { return s.Failed == 0 }

// Coordinator runs bulk actions for one resource.
type Coordinator struct {
	resource string
	singular string
	plural   string
}

// New creates a coordinator. singular and plural name the records in summary
// messages.
func New(resource, singular, plural string) *Coordinator {
	return &Coordinator{resource: resource, singular: singular, plural: plural}
}

// Run applies action to every selected id concurrently and waits for all of
// them. Failures do not cancel siblings and are not retried. The selection is
// cleared only when every request succeeded; the list is refreshed either way.
func (c *Coordinator) Run(ctx context.Context, list List, action Action) (Summary, error) {
	ids := list.Selected()
	if len(ids) == 0 {
		return Summary{}, ErrNothingSelected
	}
	return c.apply(ctx, list, ids, action), nil
}

func (c *Coordinator) apply(ctx context.Context, list List, ids []string, action Action) Summary {
	start := time.Now()

	var (
		mu       sync.Mutex
		failures []Failure
		g        errgroup.Group
	)
	ctx, span := tracing.StartSpan(ctx, "bulk."+c.resource+"."+action.Name)
	span.SetAttributes(attribute.Int("bulk.items", len(ids)))
	profiling.Tagged(ctx, c.resource, action.Name, func(ctx context.Context) {
		for _, id := range ids {
			g.Go(func() error {
				if err := action.Do(ctx, id); err != nil {
					mu.Lock()
					failures = append(failures, Failure{ID: id, Message: apperrors.MessageOf(err, "")})
					mu.Unlock()
					logger.Warn("Bulk action item failed",
						zap.String("resource", c.resource),
						zap.String("action", action.Name),
						zap.String("id", id),
						zap.Error(err))
				}
				return nil
			})
		}
		_ = g.Wait() //nolint:errcheck // workers never return errors
	})
	span.SetAttributes(attribute.Int("bulk.failed", len(failures)))
	span.End()

	summary := Summary{
		Action:    action.Name,
		Total:     len(ids),
		Failed:    len(failures),
		Succeeded: len(ids) - len(failures),
		Failures:  orderFailures(ids, failures),
	}

	outcome := "success"
	if summary.OK() {
		summary.Message = fmt.Sprintf("%s %s successfully", c.count(summary.Total), action.Verb)
		list.ClearSelection()
	} else {
		outcome = "partial"
		if summary.Succeeded == 0 {
			outcome = "error"
		}
		summary.Message = fmt.Sprintf("Failed to %s %s", action.Name, c.count(summary.Failed))
	}
	list.Refresh()

	metrics.BulkActions.WithLabelValues(c.resource, action.Name, outcome).Inc()
	metrics.BulkItems.WithLabelValues(c.resource, action.Name).Observe(float64(len(ids)))
	logger.Info("Bulk action finished",
		zap.String("resource", c.resource),
		zap.String("action", action.Name),
		zap.Int("total", summary.Total),
		zap.Int("failed", summary.Failed),
		zap.Duration("duration", time.Since(start)))

	return summary
}

func (c *Coordinator) count(n int) string {
	if n == 1 {
		return "1 " + c.singular
	}
	return fmt.Sprintf("%d %s", n, c.plural)
}

// orderFailures reports failures in selection order.
func orderFailures(ids []string, failures []Failure) []Failure {
	if len(failures) == 0 {
		return nil
	}
	byID := make(map[string]Failure, len(failures))
	for _, f := range failures {
		byID[f.ID] = f
	}
	out := make([]Failure, 0, len(failures))
	for _, id := range ids {
		if f, ok := byID[id]; ok {
			out = append(out, f)
		}
	}
	return out
}
