package client

import (
	"context"
	"fmt"
	"net/http"

	"discover/internal/domain"
)

// Toggle flips the favourite state for videoID and applies the change
// locally before the server confirms it. The returned channel settles
// exactly once: nil when the server confirmed the new state, an error
// after the local view has been rolled back to what this call observed.
//
// Each call captures its own previous/desired pair. A second toggle
// started before the first settles is not blocked or cancelled; the
// in-flight call keeps its own rollback target and whichever call
// settles last has the final word on the visible state.
func (c *Client) Toggle(ctx context.Context, videoID string, favourite bool) <-chan error {
	desired := domain.FavouritedDisliked
	if favourite {
		desired = domain.FavouritedLiked
	}

	c.mu.Lock()
	previous, ok := c.state[videoID]
	if !ok {
		previous = domain.FavouritedNone
	}
	c.state[videoID] = desired
	c.mu.Unlock()

	settled := make(chan error, 1)
	go func() {
		err := c.reconcile(ctx, videoID, previous, desired)
		if err != nil {
			c.mu.Lock()
			c.state[videoID] = previous
			c.mu.Unlock()
		}
		settled <- err
	}()
	return settled
}

// reconcile routes on the previous state: a video we believed had no
// record gets an insert, everything else an update. The server trusts
// this routing but not the value; a wrong assumption surfaces as a
// 404/500 and rolls the toggle back.
func (c *Client) reconcile(ctx context.Context, videoID string, previous, desired domain.Favourited) error {
	method := http.MethodPatch
	if previous == domain.FavouritedNone {
		method = http.MethodPost
	}

	var envelope statEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"video_id":   videoID,
			"favourited": string(desired),
		}).
		SetResult(&envelope).
		Execute(method, "/api/stats")
	if err != nil {
		return fmt.Errorf("toggle %s: %w", videoID, err)
	}
	if resp.IsError() {
		return fmt.Errorf("toggle %s: server returned %s", videoID, resp.Status())
	}
	if envelope.VideoStat == nil {
		return fmt.Errorf("toggle %s: server confirmed no record", videoID)
	}
	return nil
}
