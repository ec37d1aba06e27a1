package collector

import (
	"context"
	"testing"

	"github.com/mkurata/slack-pulse/pkg/models"
	"github.com/mkurata/slack-pulse/pkg/slackapi"
)

func TestCollect_MergesThreadReplies(t *testing.T) {
	root := slackapi.Message{User: "U1", Timestamp: "100.000000", ReplyCount: 2}
	plain := slackapi.Message{User: "U2", Timestamp: "110.000000"}

	api := &fakeAPI{
		historyPages: map[string][][]slackapi.Message{
			"C001": {{root, plain}},
		},
		replyPages: map[string]map[string][][]slackapi.Message{
			"C001": {
				// The API echoes the root as the first reply-page message.
				"100.000000": {{
					root,
					{User: "U2", Timestamp: "101.000000", ThreadTS: "100.000000"},
					{User: "U3", Timestamp: "102.000000", ThreadTS: "100.000000"},
				}},
			},
		},
	}

	a := NewAssembler(api, fastPager(), testLogger(), 1)
	got, err := a.Collect(context.Background(), []models.Channel{{ID: "C001", Name: "general"}})
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d channels, want 1", len(got))
	}

	cm := got[0]
	if len(cm.Parents) != 2 {
		t.Errorf("len(Parents) = %d, want 2", len(cm.Parents))
	}
	// The root is counted once: two parents plus exactly two replies.
	if len(cm.All) != 4 {
		t.Fatalf("len(All) = %d, want 4", len(cm.All))
	}

	wantOrder := []string{"100.000000", "101.000000", "102.000000", "110.000000"}
	for i, ts := range wantOrder {
		if cm.All[i].Timestamp != ts {
			t.Errorf("All[%d].Timestamp = %q, want %q", i, cm.All[i].Timestamp, ts)
		}
	}
}

func TestCollect_MultiPageReplies(t *testing.T) {
	root := slackapi.Message{User: "U1", Timestamp: "100.000000", ReplyCount: 3}

	api := &fakeAPI{
		historyPages: map[string][][]slackapi.Message{
			"C001": {{root}},
		},
		replyPages: map[string]map[string][][]slackapi.Message{
			"C001": {
				"100.000000": {
					// Only the first page carries the root echo.
					{root, {User: "U2", Timestamp: "101.000000", ThreadTS: "100.000000"}},
					{
						{User: "U3", Timestamp: "102.000000", ThreadTS: "100.000000"},
						{User: "U2", Timestamp: "103.000000", ThreadTS: "100.000000"},
					},
				},
			},
		},
	}

	a := NewAssembler(api, fastPager(), testLogger(), 1)
	got, err := a.Collect(context.Background(), []models.Channel{{ID: "C001", Name: "general"}})
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if len(got[0].All) != 4 {
		t.Errorf("len(All) = %d, want 4 (root + 3 replies)", len(got[0].All))
	}
}

func TestCollect_NoThreads(t *testing.T) {
	api := &fakeAPI{
		historyPages: map[string][][]slackapi.Message{
			"C001": {{
				{User: "U1", Timestamp: "100.000000"},
				{User: "U2", Timestamp: "110.000000"},
			}},
		},
	}

	a := NewAssembler(api, fastPager(), testLogger(), 1)
	got, err := a.Collect(context.Background(), []models.Channel{{ID: "C001", Name: "general"}})
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if len(got[0].All) != len(got[0].Parents) {
		t.Errorf("len(All) = %d, len(Parents) = %d, want equal without threads",
			len(got[0].All), len(got[0].Parents))
	}
	if api.replyCalls != 0 {
		t.Errorf("replyCalls = %d, want 0", api.replyCalls)
	}
}

func TestCollectHistory_SkipsReplyFetches(t *testing.T) {
	api := &fakeAPI{
		historyPages: map[string][][]slackapi.Message{
			"C001": {{
				{User: "U1", Timestamp: "100.000000", ReplyCount: 5},
			}},
		},
	}

	a := NewAssembler(api, fastPager(), testLogger(), 1)
	got, err := a.CollectHistory(context.Background(), []models.Channel{{ID: "C001", Name: "general"}})
	if err != nil {
		t.Fatalf("CollectHistory() error: %v", err)
	}
	if api.replyCalls != 0 {
		t.Errorf("replyCalls = %d, want 0 in history mode", api.replyCalls)
	}
	if len(got[0].All) != 1 || len(got[0].Parents) != 1 {
		t.Errorf("All/Parents = %d/%d, want 1/1", len(got[0].All), len(got[0].Parents))
	}
}

func TestCollect_ReplyFailureKeepsParent(t *testing.T) {
	api := &fakeAPI{
		historyPages: map[string][][]slackapi.Message{
			"C001": {{
				{User: "U1", Timestamp: "100.000000", ReplyCount: 2},
				{User: "U2", Timestamp: "110.000000"},
			}},
		},
		replyErr: map[string]error{
			"100.000000": &slackapi.APIError{Code: "thread_not_found"},
		},
	}

	a := NewAssembler(api, fastPager(), testLogger(), 1)
	got, err := a.Collect(context.Background(), []models.Channel{{ID: "C001", Name: "general"}})
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d channels, want 1", len(got))
	}
	// The root still counts as a post even though its replies were lost.
	if len(got[0].All) != 2 {
		t.Errorf("len(All) = %d, want 2", len(got[0].All))
	}
}

func TestCollect_FailedChannelSkipped(t *testing.T) {
	api := &fakeAPI{
		historyPages: map[string][][]slackapi.Message{
			"C002": {{
				{User: "U1", Timestamp: "100.000000"},
			}},
		},
		historyErr: map[string]error{
			"C001": &slackapi.APIError{Code: "not_in_channel"},
		},
	}

	a := NewAssembler(api, fastPager(), testLogger(), 2)
	got, err := a.Collect(context.Background(), []models.Channel{
		{ID: "C001", Name: "locked"},
		{ID: "C002", Name: "general"},
	})
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d channels, want 1", len(got))
	}
	if got[0].Channel.ID != "C002" {
		t.Errorf("surviving channel = %s, want C002", got[0].Channel.ID)
	}
}

func TestCollect_PreservesChannelOrder(t *testing.T) {
	api := &fakeAPI{
		historyPages: map[string][][]slackapi.Message{
			"C001": {{{User: "U1", Timestamp: "100.000000"}}},
			"C002": {{{User: "U1", Timestamp: "100.000000"}}},
			"C003": {{{User: "U1", Timestamp: "100.000000"}}},
		},
	}

	channels := []models.Channel{
		{ID: "C001", Name: "one"},
		{ID: "C002", Name: "two"},
		{ID: "C003", Name: "three"},
	}

	a := NewAssembler(api, fastPager(), testLogger(), 3)
	got, err := a.Collect(context.Background(), channels)
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d channels, want 3", len(got))
	}
	for i, ch := range channels {
		if got[i].Channel.ID != ch.ID {
			t.Errorf("result[%d] = %s, want %s", i, got[i].Channel.ID, ch.ID)
		}
	}
}
