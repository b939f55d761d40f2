package classifier

import (
	"regexp"
	"strings"

	"github.com/mtauhidul/ats-backend-demo-sub000/dto"
)

// Rule names the heuristic that decided a classification, recorded for
// manual-review audits.
type Rule string

const (
	RuleInReplyTo     Rule = "in_reply_to_header"
	RuleReferences    Rule = "references_header"
	RuleSubjectPrefix Rule = "subject_prefix"
	RuleQuotedReply   Rule = "quoted_reply_marker"
	RuleNone          Rule = "none"
)

// Decision is the reply-vs-submission outcome plus the first heuristic that
// fired.
type Decision struct {
	IsReply bool
	Rule    Rule
}

var subjectPrefixPattern = regexp.MustCompile(`(?i)^\s*(re|fwd?|aw|wg)\s*(\[\d+\])?\s*:`)

// quotedReplyPattern matches the attribution line mail clients insert above
// quoted text, e.g. "On Mon, Jan 2 at 3:04 PM John Doe wrote:".
var quotedReplyPattern = regexp.MustCompile(`(?im)^\s*>?\s*on .{4,80} wrote:`)

// ClassifyMessage decides whether an inbound message replies to existing
// correspondence or opens a new submission. Pure function over the message;
// heuristics are checked in fixed order and the first hit wins.
func ClassifyMessage(msg dto.InboundMessage) Decision {
	if strings.TrimSpace(msg.InReplyTo) != "" {
		return Decision{IsReply: true, Rule: RuleInReplyTo}
	}

	for _, ref := range msg.References {
		if strings.TrimSpace(ref) != "" {
			return Decision{IsReply: true, Rule: RuleReferences}
		}
	}

	if subjectPrefixPattern.MatchString(msg.Subject) {
		return Decision{IsReply: true, Rule: RuleSubjectPrefix}
	}

	if quotedReplyPattern.MatchString(msg.BodyText) {
		return Decision{IsReply: true, Rule: RuleQuotedReply}
	}

	return Decision{IsReply: false, Rule: RuleNone}
}
