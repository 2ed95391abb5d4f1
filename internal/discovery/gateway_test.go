package discovery_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sandevgo/slackwatch/internal/core"
	"github.com/sandevgo/slackwatch/internal/discovery"
	"github.com/sandevgo/slackwatch/internal/discovery/discoverytest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noSleep(context.Context, time.Duration) error { return nil }

func newGateway(caller *discoverytest.Caller) *discovery.Gateway {
	return discovery.NewGateway(caller, discovery.PageOptions{Sleep: noSleep})
}

func TestGateway_RecentConversations(t *testing.T) {
	caller := discoverytest.NewCaller().Queue("discovery.conversations.recent",
		discoverytest.Response{Body: discoverytest.OK(`"channels":[{"id":"C1","team":"T1"}],"offset":1700000100`)},
		discoverytest.Response{Body: discoverytest.OK(`"channels":[{"id":"D2","team":"E1","is_im":true,"is_private":true}]`)},
	)

	convs, err := newGateway(caller).RecentConversations(context.Background(), 1700000000)
	require.NoError(t, err)

	require.Len(t, convs, 2)
	assert.Equal(t, "C1", convs[0].ID)
	assert.Equal(t, "T1", convs[0].Team)
	assert.True(t, convs[1].IsIM)

	calls := caller.Calls("discovery.conversations.recent")
	require.Len(t, calls, 2)
	assert.Equal(t, "1700000000", calls[0].Params["latest"])
	assert.Equal(t, "1700000100", calls[1].Params["latest"])
}

func TestGateway_AllConversations(t *testing.T) {
	caller := discoverytest.NewCaller().Queue("discovery.conversations.list",
		discoverytest.Response{Body: discoverytest.OK(`"channels":[{"id":"C1","team":"T1"}],"offset":"C1"`)},
		discoverytest.Response{Body: discoverytest.OK(`"channels":[{"id":"C2","team":"T1"}],"offset":""`)},
	)

	convs, err := newGateway(caller).AllConversations(context.Background())
	require.NoError(t, err)
	assert.Len(t, convs, 2)

	calls := caller.Calls("discovery.conversations.list")
	require.Len(t, calls, 2)
	assert.NotContains(t, calls[0].Params, "offset")
	assert.Equal(t, "C1", calls[1].Params["offset"])
}

func TestGateway_AllTeams(t *testing.T) {
	caller := discoverytest.NewCaller().Queue("discovery.enterprise.info",
		discoverytest.Response{Body: discoverytest.OK(`"enterprise":{"teams":[{"id":"T1","name":"One"}]},"response_metadata":{"next_cursor":"dGVhbTpUMg=="}`)},
		discoverytest.Response{Body: discoverytest.OK(`"enterprise":{"teams":[{"id":"T2","name":"Two"}]},"response_metadata":{"next_cursor":""}`)},
	)

	teams, err := newGateway(caller).AllTeams(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []core.Team{{ID: "T1", Name: "One"}, {ID: "T2", Name: "Two"}}, teams)

	calls := caller.Calls("discovery.enterprise.info")
	require.Len(t, calls, 2)
	assert.Equal(t, "dGVhbTpUMg==", calls[1].Params["cursor"])
}

func TestGateway_ConversationHistory(t *testing.T) {
	tests := []struct {
		name     string
		team     string
		wantTeam bool
	}{
		{name: "workspace scoped", team: "T0123456", wantTeam: true},
		{name: "grid scoped", team: "", wantTeam: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := discoverytest.NewCaller().Queue("discovery.conversations.history",
				discoverytest.Response{Body: discoverytest.OK(`"messages":[{"ts":"400"},{"ts":"300"}],"offset":"300"`)},
				discoverytest.Response{Body: discoverytest.OK(`"messages":[{"ts":"200"},{"ts":"100"}]`)},
			)

			msgs, err := newGateway(caller).ConversationHistory(context.Background(), "C1", tt.team, 50)
			require.NoError(t, err)

			var ts []string
			for _, m := range msgs {
				ts = append(ts, m.TS)
			}
			assert.Equal(t, []string{"100", "200", "300", "400"}, ts)

			calls := caller.Calls("discovery.conversations.history")
			require.Len(t, calls, 2)
			for _, call := range calls {
				assert.Equal(t, "C1", call.Params["channel"])
				assert.Equal(t, "50", call.Params["oldest"])
				team, ok := call.Params["team"]
				assert.Equal(t, tt.wantTeam, ok)
				if tt.wantTeam {
					assert.Equal(t, tt.team, team)
				}
			}
			assert.Equal(t, "300", calls[1].Params["latest"])
		})
	}
}

func TestGateway_ConversationHistoryFailure(t *testing.T) {
	apiErr := &discovery.APIError{Method: "discovery.conversations.history", Code: "channel_not_found"}
	caller := discoverytest.NewCaller().Queue("discovery.conversations.history",
		discoverytest.Response{Body: discoverytest.OK(`"messages":[{"ts":"2"}],"offset":"2"`)},
		discoverytest.Response{Err: apiErr},
	)

	msgs, err := newGateway(caller).ConversationHistory(context.Background(), "C1", "", 0)

	var target *discovery.APIError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, "channel_not_found", target.Code)
	assert.Nil(t, msgs)
}

func TestGateway_Moderation(t *testing.T) {
	tests := []struct {
		name       string
		run        func(g *discovery.Gateway) error
		method     string
		wantParams discovery.Params
	}{
		{
			name: "tombstone with replacement",
			run: func(g *discovery.Gateway) error {
				return g.Tombstone(context.Background(), "1.2", "C1", "T1", "Please refrain")
			},
			method:     "discovery.chat.tombstone",
			wantParams: discovery.Params{"ts": "1.2", "channel": "C1", "team": "T1", "content": "Please refrain"},
		},
		{
			name: "tombstone without replacement",
			run: func(g *discovery.Gateway) error {
				return g.Tombstone(context.Background(), "1.2", "C1", "T1", "")
			},
			method:     "discovery.chat.tombstone",
			wantParams: discovery.Params{"ts": "1.2", "channel": "C1", "team": "T1"},
		},
		{
			name: "restore",
			run: func(g *discovery.Gateway) error {
				return g.Restore(context.Background(), "1.2", "C1", "T1")
			},
			method:     "discovery.chat.restore",
			wantParams: discovery.Params{"ts": "1.2", "channel": "C1", "team": "T1"},
		},
		{
			name: "delete",
			run: func(g *discovery.Gateway) error {
				return g.Delete(context.Background(), "1.2", "C1", "T1")
			},
			method:     "discovery.chat.delete",
			wantParams: discovery.Params{"ts": "1.2", "channel": "C1", "team": "T1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := discoverytest.NewCaller().Queue(tt.method, discoverytest.Response{Body: discoverytest.OK("")})

			require.NoError(t, tt.run(newGateway(caller)))

			calls := caller.Calls(tt.method)
			require.Len(t, calls, 1)
			assert.Equal(t, tt.wantParams, calls[0].Params)
			assert.NotContains(t, calls[0].Params, "limit")
		})
	}
}
