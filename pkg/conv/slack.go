package conv

import (
	"regexp"
	"strings"
)

var (
	slackLink    = regexp.MustCompile(`<((?:https?|mailto):[^|>]+)\|([^>]+)>`)
	slackBareURL = regexp.MustCompile(`<((?:https?|mailto):[^|>]+)>`)
	slackUser    = regexp.MustCompile(`<@([A-Z0-9]+)(?:\|[^>]+)?>`)
	slackChannel = regexp.MustCompile(`<#[A-Z0-9]+\|([^>]+)>`)
	slackSpecial = regexp.MustCompile(`<!([a-z]+)(?:\|[^>]+)?>`)

	slackBold   = regexp.MustCompile(`\*([^*\n]+)\*`)
	slackItalic = regexp.MustCompile(`(^|[\s(])_([^_\n]+)_`)
	slackStrike = regexp.MustCompile(`~([^~\n]+)~`)

	slackEntities = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&amp;", "&")
)

// SlackToMarkdown rewrites Slack mrkdwn into CommonMark.
// https://api.slack.com/reference/surfaces/formatting
func SlackToMarkdown(text string) string {
	out := slackLink.ReplaceAllString(text, "[$2]($1)")
	out = slackBareURL.ReplaceAllString(out, "$1")
	out = slackUser.ReplaceAllString(out, "@$1")
	out = slackChannel.ReplaceAllString(out, "#$1")
	out = slackSpecial.ReplaceAllString(out, "@$1")

	// bold first: it emits ** which the italic pass must not see as _
	out = slackBold.ReplaceAllString(out, "**$1**")
	out = slackItalic.ReplaceAllString(out, "$1*$2*")
	out = slackStrike.ReplaceAllString(out, "~~$1~~")

	return slackEntities.Replace(out)
}
