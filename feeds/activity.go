package feeds

import (
	"context"
	"fmt"
	"sync"

	"github.com/CrestNiraj12/feedmirror/domain"
	"github.com/CrestNiraj12/feedmirror/inflight"
	"github.com/CrestNiraj12/feedmirror/observable"
	"github.com/CrestNiraj12/feedmirror/reconcile"
)

// GetActivityRequest is the request shape of ActivityView.Get. With Comments
// set, the first page of comments is loaded after the activity.
type GetActivityRequest struct {
	Comments *domain.CommentsParams
}

// ActivityView follows one activity. After Get it is linked to the feed the
// activity lives in and only ever republishes that feed's state, so the view
// and the feed cannot diverge.
type ActivityView struct {
	client *Client
	id     string
	state  *observable.Cell[ActivityState]
	gets   inflight.Group[domain.Activity]

	mu          sync.Mutex
	feed        *Feed
	unsubscribe func()
}

func newActivityView(c *Client, id string) *ActivityView {
	return &ActivityView{
		client: c,
		id:     id,
		state:  observable.New(ActivityState{}),
	}
}

// ID is the id of the followed activity.
func (v *ActivityView) ID() string { return v.id }

// State returns the latest published activity state.
func (v *ActivityView) State() ActivityState { return v.state.Get() }

// Subscribe calls fn after every change of the activity or its comments. fn
// may write to the linked feed; the resulting change reaches fn after it
// returns.
func (v *ActivityView) Subscribe(fn func(next, prev ActivityState)) (unsubscribe func()) {
	return v.state.Subscribe(fn)
}

// Feed returns the linked feed, or nil before the first successful Get.
func (v *ActivityView) Feed() *Feed {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.feed
}

// Get fetches the activity and links the view to its feed. Concurrent calls
// with an equal request share one fetch.
func (v *ActivityView) Get(ctx context.Context, req GetActivityRequest) (domain.Activity, error) {
	a, shared, err := v.gets.Do(ctx, v.id, req, func(ctx context.Context) (domain.Activity, error) {
		return v.fetch(ctx, req)
	})
	if shared {
		v.client.metrics.DedupJoin("get_activity")
	}
	return a, err
}

func (v *ActivityView) fetch(ctx context.Context, req GetActivityRequest) (domain.Activity, error) {
	a, err := v.client.api.GetActivity(ctx, v.id)
	v.client.metrics.Fetch("get_activity", err)
	if err != nil {
		return domain.Activity{}, err
	}
	feed, err := v.link(a)
	if err != nil {
		return domain.Activity{}, err
	}
	if req.Comments != nil {
		if err := feed.LoadFirstPageComments(ctx, v.id, *req.Comments); err != nil {
			return a, err
		}
	}
	return a, nil
}

// link connects the view to the first feed of a, seeding that feed with a.
// v.mu is never held while publishing.
func (v *ActivityView) link(a domain.Activity) (*Feed, error) {
	fid, ok := a.FirstFeed()
	if !ok {
		return nil, fmt.Errorf("activity %s: %w", a.ID, domain.ErrInvalidFeedID)
	}

	feed := v.Feed()
	relink := feed == nil || feed.fid != fid
	if relink {
		var created bool
		feed, created = v.client.feed(fid)
		if created {
			// a feed that only hosts this activity must not grow from push
			// events until it is fetched for real
			feed.setActivityAddedFilter(func(domain.Activity) bool { return false })
		}
	}

	feed.state.Update(func(s FeedState) (FeedState, bool) {
		if next, ok := s.mapActivity(a.ID, func(domain.Activity) domain.Activity { return a }); ok {
			return next, true
		}
		s.Activities, _ = reconcile.Merge([]domain.Activity{a}, s.Activities, reconcile.ActivityKey, reconcile.Append)
		return s, true
	})

	if relink {
		unsubscribe := observable.SubscribeWithSelector(feed.state, selectActivity(v.id), func(next, _ ActivityState) {
			v.state.Next(next)
		})
		v.mu.Lock()
		old := v.unsubscribe
		v.feed = feed
		v.unsubscribe = unsubscribe
		v.mu.Unlock()
		if old != nil {
			old()
		}
		v.client.logger.Debug("activity linked", "activity", v.id, "fid", fid.String())
	}
	return feed, nil
}

func (v *ActivityView) linked() (*Feed, error) {
	feed := v.Feed()
	if feed == nil {
		return nil, domain.ErrNotInitialized
	}
	return feed, nil
}

// LoadFirstPageComments reloads the first page of the activity's comments.
func (v *ActivityView) LoadFirstPageComments(ctx context.Context, params domain.CommentsParams) error {
	feed, err := v.linked()
	if err != nil {
		return err
	}
	return feed.LoadFirstPageComments(ctx, v.id, params)
}

// LoadNextPageActivityComments loads the next page of the activity's comments.
func (v *ActivityView) LoadNextPageActivityComments(ctx context.Context, params *domain.CommentsParams) error {
	feed, err := v.linked()
	if err != nil {
		return err
	}
	return feed.LoadNextPageActivityComments(ctx, v.id, params)
}

// LoadNextPageCommentReplies loads the next page of replies to parent.
func (v *ActivityView) LoadNextPageCommentReplies(ctx context.Context, parent domain.Comment, params *domain.CommentsParams) error {
	feed, err := v.linked()
	if err != nil {
		return err
	}
	return feed.LoadNextPageCommentReplies(ctx, parent, params)
}

// Dispose stops following the feed. The view keeps its last state.
func (v *ActivityView) Dispose() {
	v.mu.Lock()
	unsubscribe := v.unsubscribe
	v.unsubscribe = nil
	v.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}
