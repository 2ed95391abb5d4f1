package discovery

import "github.com/sandevgo/slackwatch/internal/core"

const (
	methodConversationsRecent  = "discovery.conversations.recent"
	methodConversationsList    = "discovery.conversations.list"
	methodConversationsHistory = "discovery.conversations.history"
	methodEnterpriseInfo       = "discovery.enterprise.info"
	methodChatTombstone        = "discovery.chat.tombstone"
	methodChatRestore          = "discovery.chat.restore"
	methodChatDelete           = "discovery.chat.delete"
)

type channelsResponse struct {
	Channels []core.Conversation `json:"channels"`
	Offset   token               `json:"offset"`
}

type messagesResponse struct {
	Messages []core.Message `json:"messages"`
	Offset   token          `json:"offset"`
}

type enterpriseResponse struct {
	Enterprise struct {
		Teams []core.Team `json:"teams"`
	} `json:"enterprise"`
	ResponseMetadata struct {
		NextCursor token `json:"next_cursor"`
	} `json:"response_metadata"`
}

func channelsPage(r channelsResponse) Page[core.Conversation] {
	return Page[core.Conversation]{Items: r.Channels, Next: string(r.Offset)}
}

// For conversations.recent the "since" bound and the continuation share
// the latest parameter.
var recentConversations = Endpoint[core.Conversation]{
	Method:      methodConversationsRecent,
	CursorParam: "latest",
	Decode:      decodeWith(channelsPage),
}

var allConversations = Endpoint[core.Conversation]{
	Method:      methodConversationsList,
	CursorParam: "offset",
	Decode:      decodeWith(channelsPage),
}

var enterpriseTeams = Endpoint[core.Team]{
	Method:      methodEnterpriseInfo,
	CursorParam: "cursor",
	Decode: decodeWith(func(r enterpriseResponse) Page[core.Team] {
		return Page[core.Team]{Items: r.Enterprise.Teams, Next: string(r.ResponseMetadata.NextCursor)}
	}),
}

// History pages run newest first; the offset moves the upper bound down.
var conversationHistory = Endpoint[core.Message]{
	Method:      methodConversationsHistory,
	CursorParam: "latest",
	Decode: decodeWith(func(r messagesResponse) Page[core.Message] {
		return Page[core.Message]{Items: r.Messages, Next: string(r.Offset)}
	}),
}
