// Package feeds keeps an in-memory mirror of feeds, activities and comments
// consistent with REST responses and push events.
package feeds

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/CrestNiraj12/feedmirror/app"
	"github.com/CrestNiraj12/feedmirror/domain"
	"github.com/CrestNiraj12/feedmirror/inflight"
	"github.com/CrestNiraj12/feedmirror/infra/metrics"
)

// Options configures a Client.
type Options struct {
	// CurrentUserID decides whether reactions and bookmarks in push events
	// belong to the viewer.
	CurrentUserID string
	Logger        *slog.Logger
	Metrics       *metrics.Metrics
	// Now stamps optimistic entities. Defaults to time.Now.
	Now func() time.Time
}

// Client owns one Feed per feed id and routes push events to them.
type Client struct {
	api     app.FeedsAPI
	userID  string
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	query inflight.Group[app.ActivitiesPage]

	mu    sync.Mutex
	feeds map[string]*Feed
}

// NewClient creates a client reading and mutating through api.
func NewClient(api app.FeedsAPI, opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Client{
		api:     api,
		userID:  opts.CurrentUserID,
		logger:  logger,
		metrics: opts.Metrics,
		now:     now,
		feeds:   make(map[string]*Feed),
	}
}

// CurrentUserID returns the viewer's user id.
func (c *Client) CurrentUserID() string {
	return c.userID
}

// Feed returns the feed with the given id, creating an empty one on first use.
func (c *Client) Feed(fid domain.FeedID) *Feed {
	f, _ := c.feed(fid)
	return f
}

func (c *Client) feed(fid domain.FeedID) (f *Feed, created bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := fid.String()
	if f, ok := c.feeds[key]; ok {
		return f, false
	}
	f = newFeed(c, fid)
	c.feeds[key] = f
	return f, true
}

// Feeds returns every feed the client holds, ordered by id.
func (c *Client) Feeds() []*Feed {
	c.mu.Lock()
	out := make([]*Feed, 0, len(c.feeds))
	for _, f := range c.feeds {
		out = append(out, f)
	}
	c.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].fid.String() < out[j].fid.String() })
	return out
}

// ActivityWithStateUpdates returns a view of one activity that follows the
// state of the feed the activity lives in once Get has linked it.
func (c *Client) ActivityWithStateUpdates(id string) *ActivityView {
	return newActivityView(c, id)
}

// HandleEvent routes a push event to the feed it names. Events without a feed
// id are offered to every feed. It reports whether any state changed.
func (c *Client) HandleEvent(ev domain.Event) bool {
	var targets []*Feed
	if fid := ev.FeedID(); fid != "" {
		c.mu.Lock()
		if f, ok := c.feeds[fid]; ok {
			targets = append(targets, f)
		}
		c.mu.Unlock()
	} else {
		targets = c.Feeds()
	}

	if len(targets) == 0 {
		c.logger.Debug("event for unknown feed dropped", "type", ev.EventType(), "fid", ev.FeedID())
		c.metrics.Event(ev.EventType(), false)
		return false
	}

	changed := false
	for _, f := range targets {
		if f.HandleEvent(ev) {
			changed = true
		}
	}
	return changed
}

// QueryActivities searches activities across feeds. Identical concurrent
// queries share one request.
func (c *Client) QueryActivities(ctx context.Context, req app.QueryActivitiesRequest) (app.ActivitiesPage, error) {
	page, shared, err := c.query.Do(ctx, "query", req, func(ctx context.Context) (app.ActivitiesPage, error) {
		page, err := c.api.QueryActivities(ctx, req)
		c.metrics.Fetch("query_activities", err)
		return page, err
	})
	if shared {
		c.metrics.DedupJoin("query_activities")
	}
	return page, err
}
