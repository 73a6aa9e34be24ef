// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/polls/testutil"
)

func voteRequest(questionID string, form url.Values) *http.Request {
	return testutil.MakeFormRequest("POST", "/polls/"+questionID+"/vote/", form)
}

func TestVote_NoChoice(t *testing.T) {
	s := testutil.SetupTestStore(t)
	h := newTestPollHandler(t, s)
	u := testutil.CreateTestUser(t, s, "alice", "pw")
	q := testutil.CreateTestQuestion(t, s, "Pick one", testNow.Add(-time.Hour), nil)
	a := testutil.AddTestChoice(t, s, q.ID, "A")

	w := serve(h.Vote, testutil.AsUser(voteRequest(q.ID, url.Values{}), u), q.ID)

	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertContains(t, w, "You didn&#39;t select a choice.")
	if n := testutil.CountVotes(t, s, a.ID); n != 0 {
		t.Errorf("Expected no vote to be recorded, got %d", n)
	}
}

func TestVote_ForeignChoice(t *testing.T) {
	s := testutil.SetupTestStore(t)
	h := newTestPollHandler(t, s)
	u := testutil.CreateTestUser(t, s, "alice", "pw")
	q := testutil.CreateTestQuestion(t, s, "Pick one", testNow.Add(-time.Hour), nil)
	other := testutil.CreateTestQuestion(t, s, "Other", testNow.Add(-time.Hour), nil)
	foreign := testutil.AddTestChoice(t, s, other.ID, "Foreign")

	w := serve(h.Vote, testutil.AsUser(voteRequest(q.ID, url.Values{"choice": {foreign.ID}}), u), q.ID)

	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertContains(t, w, "You didn&#39;t select a choice.")
	if n := testutil.CountVotes(t, s, foreign.ID); n != 0 {
		t.Errorf("Expected no vote to be recorded, got %d", n)
	}
}

func TestVote_ChangeChoice(t *testing.T) {
	s := testutil.SetupTestStore(t)
	h := newTestPollHandler(t, s)
	u := testutil.CreateTestUser(t, s, "alice", "pw")
	q := testutil.CreateTestQuestion(t, s, "Pick one", testNow.Add(-time.Hour), nil)
	a := testutil.AddTestChoice(t, s, q.ID, "A")
	b := testutil.AddTestChoice(t, s, q.ID, "B")

	w := serve(h.Vote, testutil.AsUser(voteRequest(q.ID, url.Values{"choice": {a.ID}}), u), q.ID)
	testutil.AssertRedirect(t, w, "/polls/"+q.ID+"/results/")
	if n := testutil.CountVotes(t, s, a.ID); n != 1 {
		t.Fatalf("Expected 1 vote for A, got %d", n)
	}

	w = serve(h.Vote, testutil.AsUser(voteRequest(q.ID, url.Values{"choice": {b.ID}}), u), q.ID)
	testutil.AssertRedirect(t, w, "/polls/"+q.ID+"/results/")

	if n := testutil.CountVotes(t, s, a.ID); n != 0 {
		t.Errorf("Expected 0 votes for A after revote, got %d", n)
	}
	if n := testutil.CountVotes(t, s, b.ID); n != 1 {
		t.Errorf("Expected 1 vote for B after revote, got %d", n)
	}

	vote, err := s.GetUserVote(context.Background(), u.ID, q.ID)
	if err != nil {
		t.Fatalf("GetUserVote() error = %v", err)
	}
	if vote.ChoiceID != b.ID {
		t.Errorf("Expected vote to point at B, got %s", vote.ChoiceID)
	}
}

func TestVote_DistinctUsers(t *testing.T) {
	s := testutil.SetupTestStore(t)
	h := newTestPollHandler(t, s)
	q := testutil.CreateTestQuestion(t, s, "Pick one", testNow.Add(-time.Hour), nil)
	c := testutil.AddTestChoice(t, s, q.ID, "Only")

	const voters = 7
	for i := 0; i < voters; i++ {
		u := testutil.CreateTestUser(t, s, "voter"+string(rune('a'+i)), "pw")
		w := serve(h.Vote, testutil.AsUser(voteRequest(q.ID, url.Values{"choice": {c.ID}}), u), q.ID)
		testutil.AssertStatus(t, w, http.StatusFound)
	}

	if n := testutil.CountVotes(t, s, c.ID); n != voters {
		t.Errorf("Expected %d votes, got %d", voters, n)
	}
}

func TestVote_Eligibility(t *testing.T) {
	s := testutil.SetupTestStore(t)
	h := newTestPollHandler(t, s)
	u := testutil.CreateTestUser(t, s, "alice", "pw")

	future := testutil.CreateTestQuestion(t, s, "Future", testNow.Add(time.Hour), nil)
	futureChoice := testutil.AddTestChoice(t, s, future.ID, "F")
	ended := testutil.CreateTestQuestion(t, s, "Ended", testNow.Add(-48*time.Hour), ptr(testNow.Add(-time.Hour)))
	endedChoice := testutil.AddTestChoice(t, s, ended.ID, "E")
	// end_at == now is already closed
	edge := testutil.CreateTestQuestion(t, s, "Edge", testNow.Add(-48*time.Hour), ptr(testNow))
	edgeChoice := testutil.AddTestChoice(t, s, edge.ID, "X")

	tests := []struct {
		name       string
		questionID string
		choiceID   string
		wantStatus int
		wantBody   string
	}{
		{"unpublished", future.ID, futureChoice.ID, http.StatusNotFound, ""},
		{"ended", ended.ID, endedChoice.ID, http.StatusOK, "This poll is closed."},
		{"ends now", edge.ID, edgeChoice.ID, http.StatusOK, "This poll is closed."},
		{"missing", "nope", "nope", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.AsUser(voteRequest(tt.questionID, url.Values{"choice": {tt.choiceID}}), u)
			w := serve(h.Vote, req, tt.questionID)

			testutil.AssertStatus(t, w, tt.wantStatus)
			if tt.wantBody != "" {
				testutil.AssertContains(t, w, tt.wantBody)
			}
		})
	}

	for _, c := range []string{futureChoice.ID, endedChoice.ID, edgeChoice.ID} {
		if n := testutil.CountVotes(t, s, c); n != 0 {
			t.Errorf("Expected no votes on ineligible question, got %d", n)
		}
	}
}

func TestVote_Anonymous(t *testing.T) {
	s := testutil.SetupTestStore(t)
	h := newTestPollHandler(t, s)
	q := testutil.CreateTestQuestion(t, s, "Pick one", testNow.Add(-time.Hour), nil)
	c := testutil.AddTestChoice(t, s, q.ID, "A")

	w := serve(h.Vote, voteRequest(q.ID, url.Values{"choice": {c.ID}}), q.ID)

	testutil.AssertRedirect(t, w, "/accounts/login/?next=%2Fpolls%2F"+q.ID+"%2F")
	if n := testutil.CountVotes(t, s, c.ID); n != 0 {
		t.Errorf("Expected no vote, got %d", n)
	}
}

// TestVote_ConcurrentSameUser verifies that simultaneous submissions by one
// user for one question leave exactly one vote
func TestVote_ConcurrentSameUser(t *testing.T) {
	s := testutil.SetupTestStore(t)
	h := newTestPollHandler(t, s)
	u := testutil.CreateTestUser(t, s, "alice", "pw")
	q := testutil.CreateTestQuestion(t, s, "Pick one", testNow.Add(-time.Hour), nil)
	a := testutil.AddTestChoice(t, s, q.ID, "A")
	b := testutil.AddTestChoice(t, s, q.ID, "B")

	const submissions = 10
	codes := make(chan int, submissions)
	var wg sync.WaitGroup

	for i := 0; i < submissions; i++ {
		choice := a.ID
		if i%2 == 1 {
			choice = b.ID
		}
		wg.Add(1)
		go func(choice string) {
			defer wg.Done()
			req := testutil.AsUser(voteRequest(q.ID, url.Values{"choice": {choice}}), u)
			codes <- serve(h.Vote, req, q.ID).Code
		}(choice)
	}
	wg.Wait()
	close(codes)

	for code := range codes {
		if code != http.StatusFound {
			t.Errorf("Expected every submission to succeed with 302, got %d", code)
		}
	}

	total := testutil.CountVotes(t, s, a.ID) + testutil.CountVotes(t, s, b.ID)
	if total != 1 {
		t.Errorf("Expected exactly one vote row, got %d", total)
	}
}
