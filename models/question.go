// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// RecentWindow is how long after publishing a question counts as new.
const RecentWindow = 24 * time.Hour

// IsPublished reports whether now is at or after the publish time.
func (q Question) IsPublished(now time.Time) bool {
	return !now.Before(q.PublishAt)
}

// WasPublishedRecently reports whether now falls within RecentWindow after
// the publish time, inclusive on both ends. A future publish time is never
// recent.
func (q Question) WasPublishedRecently(now time.Time) bool {
	return q.IsPublished(now) && !now.After(q.PublishAt.Add(RecentWindow))
}

// CanVote reports whether the question is published and has not ended.
func (q Question) CanVote(now time.Time) bool {
	if !q.IsPublished(now) {
		return false
	}
	return q.EndAt == nil || now.Before(*q.EndAt)
}

// IsClosed reports whether the question has an end time that has passed.
func (q Question) IsClosed(now time.Time) bool {
	return q.EndAt != nil && !now.Before(*q.EndAt)
}
