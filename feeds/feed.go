package feeds

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/CrestNiraj12/feedmirror/app"
	"github.com/CrestNiraj12/feedmirror/domain"
	"github.com/CrestNiraj12/feedmirror/inflight"
	"github.com/CrestNiraj12/feedmirror/observable"
	"github.com/CrestNiraj12/feedmirror/reconcile"
)

// Feed is the state container of one feed. Its state is published through
// an observable cell; all changes go through pure reconcilers.
type Feed struct {
	client  *Client
	fid     domain.FeedID
	state   *observable.Cell[FeedState]
	fetches inflight.Group[app.GetOrCreateFeedResponse]

	// seq is bumped by every first-page fetch GetOrCreate starts; callers
	// that join a fetch share it. A response is only applied while its seq is
	// still the latest.
	seq atomic.Uint64

	mu          sync.Mutex
	acceptAdded func(domain.Activity) bool
}

func newFeed(c *Client, fid domain.FeedID) *Feed {
	return &Feed{
		client: c,
		fid:    fid,
		state:  observable.New(FeedState{FID: fid}),
	}
}

// FID identifies the feed.
func (f *Feed) FID() domain.FeedID { return f.fid }

// Client is the client that owns this feed.
func (f *Feed) Client() *Client { return f.client }

// State returns the latest published state.
func (f *Feed) State() FeedState { return f.state.Get() }

// Subscribe calls fn after every state change until unsubscribe is called.
func (f *Feed) Subscribe(fn func(next, prev FeedState)) (unsubscribe func()) {
	return f.state.Subscribe(fn)
}

// GetOrCreate fetches the first page of the feed and replaces the list state
// with it. Concurrent calls with an equal request share one fetch, which is
// applied once. A response that arrives after a newer GetOrCreate started is
// dropped.
func (f *Feed) GetOrCreate(ctx context.Context, req app.GetOrCreateFeedRequest) (app.GetOrCreateFeedResponse, error) {
	resp, shared, err := f.fetches.Do(ctx, f.fid.String(), req, func(ctx context.Context) (app.GetOrCreateFeedResponse, error) {
		return f.load(ctx, req)
	})
	if shared {
		f.client.metrics.DedupJoin("get_or_create_feed")
	}
	return resp, err
}

// load runs one first-page fetch and folds its response into the state.
func (f *Feed) load(ctx context.Context, req app.GetOrCreateFeedRequest) (app.GetOrCreateFeedResponse, error) {
	seq := f.seq.Add(1)
	f.state.Update(func(s FeedState) (FeedState, bool) {
		if s.IsLoadingActivities {
			return s, false
		}
		s.IsLoadingActivities = true
		return s, true
	})

	resp, err := f.client.api.GetOrCreateFeed(ctx, f.fid, req)
	f.client.metrics.Fetch("get_or_create_feed", err)

	applied := f.state.Update(func(s FeedState) (FeedState, bool) {
		if f.seq.Load() != seq {
			return s, false
		}
		if err != nil {
			s.IsLoadingActivities = false
			return s, true
		}
		f.clearActivityAddedFilter()
		return firstPage(s, req, resp), true
	})
	if !applied {
		f.client.metrics.StaleResponse()
		f.client.logger.Debug("stale feed response dropped", "fid", f.fid.String(), "seq", seq)
	}
	if err != nil {
		return app.GetOrCreateFeedResponse{}, err
	}
	f.client.logger.Info("feed loaded", "fid", f.fid.String(), "activities", len(resp.Activities), "groups", len(resp.AggregatedActivities))
	return resp, nil
}

func firstPage(s FeedState, req app.GetOrCreateFeedRequest, resp app.GetOrCreateFeedResponse) FeedState {
	feed := resp.Feed
	s.Feed = &feed
	s.Loaded = true
	s.IsLoadingActivities = false
	s.Activities = resp.Activities
	if s.Activities == nil {
		s.Activities = []domain.Activity{}
	}
	s.AggregatedActivities = resp.AggregatedActivities
	s.Next = resp.Next
	s.Prev = resp.Prev
	s.Followers = resp.Followers
	s.Following = resp.Following
	s.Members = resp.Members
	s.FollowerCount = feed.FollowerCount
	s.FollowingCount = feed.FollowingCount
	s.MemberCount = feed.MemberCount
	s.Watch = req.Watch
	s.LastRequest = &req
	return s
}

// GetNextPage fetches the page after the current one with the last request
// and appends it. It does nothing when there is no next page or a fetch is
// already running.
func (f *Feed) GetNextPage(ctx context.Context) error {
	if !f.State().Loaded {
		return domain.ErrNotInitialized
	}
	seq := f.seq.Load()
	var req app.GetOrCreateFeedRequest
	started := f.state.Update(func(s FeedState) (FeedState, bool) {
		if !s.HasNextPage() || s.IsLoadingActivities {
			return s, false
		}
		if s.LastRequest != nil {
			req = *s.LastRequest
		}
		req.Next = s.Next
		s.IsLoadingActivities = true
		return s, true
	})
	if !started {
		return nil
	}

	resp, err := f.client.api.GetOrCreateFeed(ctx, f.fid, req)
	f.client.metrics.Fetch("get_next_page", err)

	applied := f.state.Update(func(s FeedState) (FeedState, bool) {
		if f.seq.Load() != seq {
			return s, false
		}
		s.IsLoadingActivities = false
		if err != nil {
			return s, true
		}
		s.Activities, _ = reconcile.Merge(resp.Activities, s.Activities, reconcile.ActivityKey, reconcile.Append)
		s.AggregatedActivities, _ = reconcile.AggregatedActivities(resp.AggregatedActivities, s.AggregatedActivities, reconcile.Append)
		s.Next = resp.Next
		return s, true
	})
	if !applied {
		f.client.metrics.StaleResponse()
	}
	return err
}

// HandleEvent folds a push event into the feed. It reports whether the state
// changed.
func (f *Feed) HandleEvent(ev domain.Event) bool {
	ec := eventContext{
		currentUserID: f.client.userID,
		acceptAdded:   f.activityAddedFilter(),
	}
	var res UpdateStateResult
	f.state.Update(func(s FeedState) (FeedState, bool) {
		res = applyEvent(s, ev, ec)
		return res.State, res.Changed
	})
	f.client.metrics.Event(ev.EventType(), res.Changed)
	if !res.Changed {
		f.client.logger.Debug("event left state unchanged", "type", ev.EventType(), "fid", f.fid.String())
	}
	return res.Changed
}

func (f *Feed) activityAddedFilter() func(domain.Activity) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.acceptAdded
}

func (f *Feed) setActivityAddedFilter(fn func(domain.Activity) bool) {
	f.mu.Lock()
	f.acceptAdded = fn
	f.mu.Unlock()
}

func (f *Feed) clearActivityAddedFilter() {
	f.setActivityAddedFilter(nil)
}

// holds reports whether the feed has the activity in memory.
func (f *Feed) holds(activityID string) bool {
	_, ok := f.State().Activity(activityID)
	return ok
}
