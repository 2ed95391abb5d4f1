package core

import (
	"context"
	"strings"
	"time"
)

const (
	AppName      = "slackwatch"
	AppUserAgent = "slackwatch/0.1"
	AppVersion   = "0.1.0"
)

// DataCollectionWindow bounds one polling cycle. Latest is the "since"
// value in unix seconds. LastRun is the start time of the last successful
// cycle and becomes the next lower bound; Completed is when that cycle
// finished. Both are zero until the first cycle completes.
type DataCollectionWindow struct {
	Latest    int64
	LastRun   time.Time
	Completed time.Time
}

// Conversation is one entry of discovery.conversations.recent / .list.
type Conversation struct {
	ID          string `json:"id"`
	Team        string `json:"team"`
	Name        string `json:"name,omitempty"`
	IsExtShared bool   `json:"is_ext_shared"`
	IsPrivate   bool   `json:"is_private"`
	IsMpim      bool   `json:"is_mpim"`
	IsDM        bool   `json:"is_dm"`
	IsDeleted   bool   `json:"is_deleted"`
	IsArchived  bool   `json:"is_archived"`
	IsGeneral   bool   `json:"is_general"`
	IsIM        bool   `json:"is_im"`
}

// Types lists the conversation's type flags by their API names. Every
// conversation that is not private is also reported as is_public.
func (c Conversation) Types() []string {
	flags := []struct {
		name string
		set  bool
	}{
		{"is_ext_shared", c.IsExtShared},
		{"is_private", c.IsPrivate},
		{"is_mpim", c.IsMpim},
		{"is_dm", c.IsDM},
		{"is_deleted", c.IsDeleted},
		{"is_archived", c.IsArchived},
		{"is_general", c.IsGeneral},
		{"is_im", c.IsIM},
	}

	types := make([]string, 0, len(flags)+1)
	for _, f := range flags {
		if f.set {
			types = append(types, f.name)
		}
	}
	if !c.IsPrivate {
		types = append(types, "is_public")
	}
	return types
}

// IsGridScoped reports whether the conversation lives at enterprise level,
// in which case history requests must not carry a team.
func (c Conversation) IsGridScoped() bool {
	return IsEnterpriseID(c.Team)
}

// IsEnterpriseID reports whether id is an Enterprise Grid id (E...), as
// opposed to a workspace id (T...).
func IsEnterpriseID(id string) bool {
	return strings.HasPrefix(id, "E")
}

type Message struct {
	TS      string `json:"ts"`
	Text    string `json:"text"`
	Team    string `json:"team,omitempty"`
	User    string `json:"user,omitempty"`
	Type    string `json:"type,omitempty"`
	Subtype string `json:"subtype,omitempty"`
}

// MessageKey is the dedup identity of a message: channel plus timestamp.
func MessageKey(channelID, ts string) string {
	return channelID + "-" + ts
}

type Team struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Domain string `json:"domain,omitempty"`
}

// Moderator is the handle carried on every event for acting on a message.
type Moderator interface {
	Tombstone(ctx context.Context, ts, channel, team, replacement string) error
	Restore(ctx context.Context, ts, channel, team string) error
	Delete(ctx context.Context, ts, channel, team string) error
}

// MessageEvent is what listeners receive for every newly seen message.
type MessageEvent struct {
	Message   Message
	ChannelID string
	Moderator Moderator
}

type MessageHandler func(ctx context.Context, ev MessageEvent)
