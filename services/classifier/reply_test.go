package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mtauhidul/ats-backend-demo-sub000/dto"
)

func TestClassifyMessage_InReplyTo(t *testing.T) {
	decision := ClassifyMessage(dto.InboundMessage{
		Subject:   "Application for Backend Engineer",
		InReplyTo: "abc123@example.com",
	})

	assert.True(t, decision.IsReply)
	assert.Equal(t, RuleInReplyTo, decision.Rule)
}

func TestClassifyMessage_References(t *testing.T) {
	decision := ClassifyMessage(dto.InboundMessage{
		Subject:    "Application for Backend Engineer",
		References: []string{"abc123@example.com", "def456@example.com"},
	})

	assert.True(t, decision.IsReply)
	assert.Equal(t, RuleReferences, decision.Rule)
}

func TestClassifyMessage_SubjectPrefix(t *testing.T) {
	tests := []struct {
		subject string
		isReply bool
	}{
		{"Re: Application for Backend Engineer", true},
		{"RE: Application for Backend Engineer", true},
		{"Fwd: interesting candidate", true},
		{"FW: interesting candidate", true},
		{"Aw: Bewerbung", true},
		{"re[2]: thread", true},
		{"Regarding the Backend Engineer role", false},
		{"Resume attached", false},
		{"Application for Backend Engineer", false},
	}

	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			decision := ClassifyMessage(dto.InboundMessage{Subject: tt.subject})
			assert.Equal(t, tt.isReply, decision.IsReply)
			if tt.isReply {
				assert.Equal(t, RuleSubjectPrefix, decision.Rule)
			}
		})
	}
}

func TestClassifyMessage_QuotedReplyMarker(t *testing.T) {
	body := "Thanks for getting back to me!\n\nOn Mon, Jan 2, 2026 at 3:04 PM Jane Recruiter wrote:\n> We received your application"

	decision := ClassifyMessage(dto.InboundMessage{
		Subject:  "Backend Engineer",
		BodyText: body,
	})

	assert.True(t, decision.IsReply)
	assert.Equal(t, RuleQuotedReply, decision.Rule)
}

func TestClassifyMessage_NewSubmission(t *testing.T) {
	decision := ClassifyMessage(dto.InboundMessage{
		Subject:  "Application for Backend Engineer",
		BodyText: "Hello, please find my resume attached.",
	})

	assert.False(t, decision.IsReply)
	assert.Equal(t, RuleNone, decision.Rule)
}

func TestClassifyMessage_FirstRuleWins(t *testing.T) {
	decision := ClassifyMessage(dto.InboundMessage{
		Subject:    "Re: Application",
		InReplyTo:  "abc123@example.com",
		References: []string{"abc123@example.com"},
	})

	assert.True(t, decision.IsReply)
	assert.Equal(t, RuleInReplyTo, decision.Rule)
}

func TestClassifyMessage_Deterministic(t *testing.T) {
	msg := dto.InboundMessage{
		Subject:  "Re: Backend Engineer",
		BodyText: "On Tue at 9:00 AM someone wrote:",
	}

	first := ClassifyMessage(msg)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ClassifyMessage(msg))
	}
}
