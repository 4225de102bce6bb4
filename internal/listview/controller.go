// Package listview implements the list screen state machine shared by the
// appointments, contacts and testimonials screens: server-side paging and
// filtering, client-side sort and search, and row selection.
package listview

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nirmalhealthcare/clinic-console/internal/models"
	"github.com/nirmalhealthcare/clinic-console/pkg/logger"
	"github.com/nirmalhealthcare/clinic-console/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Defaults applied by New.
const (
	DefaultPageSize = 20
	DefaultDebounce = 500 * time.Millisecond
)

// ErrClosed is returned by Wait after Close.
var ErrClosed = errors.New("list view closed")

// FetchFunc loads one page for q.
type FetchFunc[T models.Row] func(ctx context.Context, q models.ListQuery) (models.ResultPage[T], error)

// Options configure a Controller.
type Options struct {
	// Resource labels metrics and logs.
	Resource string
	PageSize int
	// Debounce is the quiet period before a search keystroke is committed.
	// Zero commits immediately.
	Debounce time.Duration
	// Language selects the collation of text columns. Defaults to English.
	Language language.Tag
	// Query seeds the initial filters.
	Query models.ListQuery
}

// View is a rendered snapshot of a list screen.
type View[T models.Row] struct {
	Query       models.ListQuery `json:"query"`
	Rows        []T              `json:"rows"`
	TotalCount  int              `json:"totalCount"`
	TotalPages  int              `json:"totalPages"`
	Selected    []string         `json:"selected"`
	AllSelected bool             `json:"allSelected"`
	Loading     bool             `json:"loading"`
	Loaded      bool             `json:"loaded"`
	Err         error            `json:"-"`
	Error       string           `json:"error,omitempty"`
}

// Controller holds the query, the last fetched page and the selection of
// one list screen. Each fetch carries a version; only the latest issued
// version is applied.
type Controller[T models.Row] struct {
	resource string
	fetch    FetchFunc[T]
	debounce time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	collator *collate.Collator
	query    models.ListQuery
	result   models.ResultPage[T]
	loaded   bool
	err      error
	selected map[string]struct{}

	version  uint64
	inflight int

	pendingSearch string
	searchSeq     uint64
	searchTimer   *time.Timer

	idle   chan struct{}
	busy   bool
	closed bool
}

// New creates a controller. Fetches run under ctx until Close. No fetch is
// issued until the first Refresh or query change.
func New[T models.Row](ctx context.Context, fetch FetchFunc[T], opts Options) *Controller[T] {
	if opts.PageSize < 1 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Debounce < 0 {
		opts.Debounce = 0
	}
	if opts.Language == language.Und {
		opts.Language = language.English
	}

	q := opts.Query
	q.Page = max(q.Page, 1)
	q.PageSize = opts.PageSize
	q.Status = models.NormalizeStatus(q.Status)
	q.DateFilter = q.DateFilter.Normalize()

	idle := make(chan struct{})
	close(idle)

	ctx, cancel := context.WithCancel(ctx)
	return &Controller[T]{
		resource:      opts.Resource,
		fetch:         fetch,
		debounce:      opts.Debounce,
		ctx:           ctx,
		cancel:        cancel,
		collator:      collate.New(opts.Language, collate.IgnoreCase),
		query:         q,
		result:        models.NewResultPage[T](nil, 0, 1, q.PageSize),
		selected:      make(map[string]struct{}),
		pendingSearch: q.Search,
		idle:          idle,
	}
}

// Refresh re-issues the current query.
func (c *Controller[T]) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issueLocked()
}

// SetPage moves to page. The selection is cleared.
func (c *Controller[T]) SetPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	page = max(page, 1)
	if page == c.query.Page {
		return
	}
	c.query.Page = page
	clear(c.selected)
	c.issueLocked()
}

// SetPageSize changes the page size and returns to page 1.
func (c *Controller[T]) SetPageSize(size int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if size < 1 || size == c.query.PageSize {
		return
	}
	c.query.PageSize = size
	c.query.Page = 1
	clear(c.selected)
	c.issueLocked()
}

// SetStatus changes the server-side status filter. "all" clears it.
func (c *Controller[T]) SetStatus(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	status = models.NormalizeStatus(status)
	if status == c.query.Status {
		return
	}
	c.query.Status = status
	c.query.Page = 1
	c.issueLocked()
}

// SetResponded changes the server-side responded filter of contact messages.
// "all" clears it.
func (c *Controller[T]) SetResponded(value string) error {
	responded, err := models.NormalizeResponded(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if responded == c.query.Responded {
		return nil
	}
	c.query.Responded = responded
	c.query.Page = 1
	c.issueLocked()
	return nil
}

// SetDateFilter changes the server-side date filter.
func (c *Controller[T]) SetDateFilter(f models.DateFilter) error {
	if err := f.Validate(); err != nil {
		return err
	}
	f = f.Normalize()

	c.mu.Lock()
	defer c.mu.Unlock()

	if f == c.query.DateFilter {
		return nil
	}
	c.query.DateFilter = f
	c.query.Page = 1
	c.issueLocked()
	return nil
}

// SetSearch records a keystroke. The text is committed after the debounce
// period unless another keystroke arrives first.
func (c *Controller[T]) SetSearch(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.pendingSearch = text
	c.searchSeq++
	if c.searchTimer != nil {
		c.searchTimer.Stop()
		c.searchTimer = nil
	}
	if c.debounce == 0 {
		c.commitSearchLocked()
		return
	}

	seq := c.searchSeq
	c.markBusyLocked()
	c.searchTimer = time.AfterFunc(c.debounce, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if seq != c.searchSeq || c.closed {
			return
		}
		c.searchTimer = nil
		c.commitSearchLocked()
		c.markIdleLocked()
	})
}

// CommitSearch applies the pending search text immediately.
func (c *Controller[T]) CommitSearch() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.searchTimer != nil {
		c.searchTimer.Stop()
		c.searchTimer = nil
		c.searchSeq++
	}
	c.commitSearchLocked()
	c.markIdleLocked()
}

func (c *Controller[T]) commitSearchLocked() {
	text := strings.TrimSpace(c.pendingSearch)
	if text == c.query.Search {
		return
	}
	c.query.Search = text
	c.query.Page = 1
	c.issueLocked()
}

// Sort cycles the direction of column: asc, desc, then unsorted. A different
// column starts at asc. Only the current page is reordered.
func (c *Controller[T]) Sort(column string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if column == "" {
		return
	}
	if column != c.query.SortColumn {
		c.query.SortColumn = column
		c.query.SortDir = models.SortAsc
		return
	}
	c.query.SortDir = c.query.SortDir.Next()
	if c.query.SortDir == models.SortNone {
		c.query.SortColumn = ""
	}
}

// ToggleRow flips the selection of a visible row. It reports whether id is
// now selected.
func (c *Controller[T]) ToggleRow(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.selected[id]; ok {
		delete(c.selected, id)
		return false
	}
	for _, row := range c.visibleLocked() {
		if row.RowID() == id {
			c.selected[id] = struct{}{}
			return true
		}
	}
	return false
}

// ToggleSelectAll clears the selection when every visible row is selected,
// and otherwise selects every visible row.
func (c *Controller[T]) ToggleSelectAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	visible := c.visibleLocked()
	if len(visible) > 0 && len(visible) == len(c.selected) {
		clear(c.selected)
		return
	}
	clear(c.selected)
	for _, row := range visible {
		c.selected[row.RowID()] = struct{}{}
	}
}

// ClearSelection empties the selection without refetching.
func (c *Controller[T]) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.selected)
}

// Selected returns the selected ids in display order.
func (c *Controller[T]) Selected() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedLocked(c.visibleLocked())
}

// Query returns the current query.
func (c *Controller[T]) Query() models.ListQuery {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// View renders the current page: client-side search, then sort.
func (c *Controller[T]) View() View[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows := c.visibleLocked()
	selected := c.selectedLocked(rows)
	v := View[T]{
		Query:       c.query,
		Rows:        rows,
		TotalCount:  c.result.TotalCount,
		TotalPages:  c.result.TotalPages,
		Selected:    selected,
		AllSelected: len(rows) > 0 && len(selected) == len(rows),
		Loading:     c.inflight > 0,
		Loaded:      c.loaded,
		Err:         c.err,
	}
	if c.err != nil {
		v.Error = c.err.Error()
	}
	return v
}

// Wait blocks until no fetch or debounce is pending and returns the error of
// the latest applied fetch.
func (c *Controller[T]) Wait(ctx context.Context) error {
	c.mu.Lock()
	idle := c.idle
	closed := c.closed
	c.mu.Unlock()

	if closed {
		return ErrClosed
	}

	select {
	case <-idle:
	case <-ctx.Done():
		return ctx.Err()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Close stops the debounce timer and cancels in-flight fetches.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	if c.searchTimer != nil {
		c.searchTimer.Stop()
		c.searchTimer = nil
	}
	c.cancel()
	if c.busy {
		c.busy = false
		close(c.idle)
	}
}

func (c *Controller[T]) issueLocked() {
	if c.closed {
		return
	}
	c.version++
	c.inflight++
	c.markBusyLocked()

	version, q := c.version, c.query
	go c.run(version, q)
}

func (c *Controller[T]) run(version uint64, q models.ListQuery) {
	page, err := c.fetch(c.ctx, q)
	metrics.ListFetches.WithLabelValues(c.resource, metrics.Outcome(err)).Inc()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.inflight--
	defer c.markIdleLocked()

	if c.closed {
		return
	}
	if version != c.version {
		metrics.StaleFetchesDiscarded.WithLabelValues(c.resource).Inc()
		logger.Debug("Discarding stale list response",
			zap.String("resource", c.resource),
			zap.Uint64("version", version),
			zap.Uint64("latest", c.version))
		return
	}

	if err != nil {
		c.err = err
		logger.Warn("List fetch failed",
			zap.String("resource", c.resource),
			zap.Int("page", q.Page),
			zap.Error(err))
		return
	}

	c.err = nil
	c.loaded = true
	c.result = models.NewResultPage(page.Rows, page.TotalCount, page.TotalPages, q.PageSize)

	if c.query.Page > c.result.TotalPages {
		c.query.Page = c.result.TotalPages
		clear(c.selected)
		c.issueLocked()
		return
	}

	keep := make(map[string]struct{}, len(c.selected))
	for _, row := range c.visibleLocked() {
		if _, ok := c.selected[row.RowID()]; ok {
			keep[row.RowID()] = struct{}{}
		}
	}
	c.selected = keep
}

// visibleLocked applies client-side search and sort to the fetched rows.
func (c *Controller[T]) visibleLocked() []T {
	rows := filterRows(c.result.Rows, c.query.Search)
	if c.query.SortColumn != "" && c.query.SortDir != models.SortNone {
		rows = sortRows(rows, c.query.SortColumn, c.query.SortDir, c.collator)
	}
	return rows
}

func (c *Controller[T]) selectedLocked(visible []T) []string {
	out := make([]string, 0, len(c.selected))
	for _, row := range visible {
		if _, ok := c.selected[row.RowID()]; ok {
			out = append(out, row.RowID())
		}
	}
	return out
}

func (c *Controller[T]) markBusyLocked() {
	if !c.busy {
		c.busy = true
		c.idle = make(chan struct{})
	}
}

func (c *Controller[T]) markIdleLocked() {
	if c.busy && c.inflight == 0 && c.searchTimer == nil {
		c.busy = false
		close(c.idle)
	}
}

// filterRows keeps rows where any search field contains text, ignoring case.
func filterRows[T models.Row](rows []T, text string) []T {
	text = strings.ToLower(strings.TrimSpace(text))
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if text == "" || matches(row, text) {
			out = append(out, row)
		}
	}
	return out
}

func matches(row models.Row, lowered string) bool {
	for _, field := range row.SearchFields() {
		if strings.Contains(strings.ToLower(field), lowered) {
			return true
		}
	}
	return false
}

// sortRows orders rows by a text column with the collator. Non-text columns
// are returned unchanged.
func sortRows[T models.Row](rows []T, column string, dir models.SortDirection, col *collate.Collator) []T {
	if len(rows) == 0 {
		return rows
	}
	if _, text := rows[0].SortValue(column); !text {
		return rows
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, _ := rows[i].SortValue(column)
		b, _ := rows[j].SortValue(column)
		cmp := col.CompareString(a, b)
		if dir == models.SortDesc {
			return cmp > 0
		}
		return cmp < 0
	})
	return rows
}
