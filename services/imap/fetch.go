package imap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/customeros/mailsherpa/mailvalidate"
	goimap "github.com/emersion/go-imap"
	"github.com/jaytaylor/html2text"
	"github.com/jhillyerd/enmime"
	"github.com/opentracing/opentracing-go"

	"github.com/mtauhidul/ats-backend-demo-sub000/dto"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/models"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/tracing"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/utils"
)

// FetchMessages opens a session, searches the account folder with the given
// filter and returns fully parsed messages. Messages are fetched with
// BODY.PEEK so the seen flag is never touched; a message that fails to parse
// is skipped and logged, never aborting the batch.
func (s *MailboxClient) FetchMessages(ctx context.Context, account *models.MailboxAccount, filter dto.SearchFilter) ([]dto.InboundMessage, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "MailboxClient.FetchMessages")
	defer span.Finish()
	tracing.TagAccount(span, account.ID)
	span.SetTag("search.mode", string(filter.Mode))

	c, err := s.connect(ctx, account)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	defer s.disconnect(account.ID, c)

	folder := account.Folder
	if folder == "" {
		folder = "INBOX"
	}

	// Read-only select: nothing in this path may mutate mailbox state.
	_, err = c.Select(folder, true)
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, fmt.Errorf("failed to select folder %s: %w", folder, err)
	}

	criteria := buildSearchCriteria(filter)

	c.Timeout = fetchTimeout
	uids, err := c.UidSearch(criteria)
	c.Timeout = 0
	if err != nil {
		tracing.TraceErr(span, err)
		return nil, fmt.Errorf("uid search failed: %w", err)
	}

	span.SetTag("search.hits", len(uids))
	if len(uids) == 0 {
		return nil, nil
	}

	seqSet := new(goimap.SeqSet)
	seqSet.AddNum(uids...)

	// BODY.PEEK fetches the full message without setting the seen flag.
	section := &goimap.BodySectionName{Peek: true}
	items := []goimap.FetchItem{
		goimap.FetchEnvelope,
		goimap.FetchUid,
		goimap.FetchInternalDate,
		section.FetchItem(),
	}

	messages := make(chan *goimap.Message, 10)
	done := make(chan error, 1)

	c.Timeout = fetchTimeout
	go func() {
		done <- c.UidFetch(seqSet, items, messages)
	}()

	result := make([]dto.InboundMessage, 0, len(uids))
	for msg := range messages {
		parsed, err := s.parseMessage(msg, section)
		if err != nil {
			s.log.Warnf("[%s] skipping unparseable message uid=%d: %v", account.ID, msg.Uid, err)
			continue
		}
		result = append(result, *parsed)
	}

	if err := <-done; err != nil {
		tracing.TraceErr(span, err)
		return nil, fmt.Errorf("uid fetch failed: %w", err)
	}

	span.SetTag("fetched", len(result))
	return result, nil
}

// MarkSeen sets the seen flag on the given UIDs. This is the only write the
// client ever performs against the mailbox.
func (s *MailboxClient) MarkSeen(ctx context.Context, account *models.MailboxAccount, uids []uint32) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "MailboxClient.MarkSeen")
	defer span.Finish()
	tracing.TagAccount(span, account.ID)
	span.SetTag("uids", len(uids))

	if len(uids) == 0 {
		return nil
	}

	c, err := s.connect(ctx, account)
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}
	defer s.disconnect(account.ID, c)

	folder := account.Folder
	if folder == "" {
		folder = "INBOX"
	}

	_, err = c.Select(folder, false)
	if err != nil {
		tracing.TraceErr(span, err)
		return fmt.Errorf("failed to select folder %s: %w", folder, err)
	}

	seqSet := new(goimap.SeqSet)
	seqSet.AddNum(uids...)

	item := goimap.FormatFlagsOp(goimap.AddFlags, true)
	flags := []interface{}{goimap.SeenFlag}

	if err := c.UidStore(seqSet, item, flags, nil); err != nil {
		tracing.TraceErr(span, err)
		return fmt.Errorf("failed to mark messages seen: %w", err)
	}

	return nil
}

func buildSearchCriteria(filter dto.SearchFilter) *goimap.SearchCriteria {
	criteria := goimap.NewSearchCriteria()

	switch filter.Mode {
	case dto.SearchAll:
		// no restriction
	case dto.SearchSince:
		criteria.Since = filter.Since
		if !filter.Before.IsZero() {
			criteria.Before = filter.Before
		}
	case dto.SearchSenders:
		// IMAP OR is binary, so multiple senders fold into a left-leaning
		// OR tree.
		var node *goimap.SearchCriteria
		for _, sender := range filter.Senders {
			senderCriteria := goimap.NewSearchCriteria()
			senderCriteria.Header.Add("From", sender)
			if node == nil {
				node = senderCriteria
			} else {
				combined := goimap.NewSearchCriteria()
				combined.Or = append(combined.Or, [2]*goimap.SearchCriteria{node, senderCriteria})
				node = combined
			}
		}
		if node != nil {
			criteria = node
		}
		if !filter.Since.IsZero() {
			criteria.Since = filter.Since
		}
	default:
		criteria.WithoutFlags = []string{goimap.SeenFlag}
	}

	return criteria
}

// parseMessage converts a raw fetched message into an InboundMessage using
// enmime for MIME decoding.
func (s *MailboxClient) parseMessage(msg *goimap.Message, section *goimap.BodySectionName) (*dto.InboundMessage, error) {
	if msg == nil {
		return nil, fmt.Errorf("nil message")
	}

	body := msg.GetBody(section)
	if body == nil {
		return nil, fmt.Errorf("message uid=%d has no body section", msg.Uid)
	}

	envelope, err := enmime.ReadEnvelope(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse MIME envelope: %w", err)
	}

	inbound := &dto.InboundMessage{
		UID:      msg.Uid,
		BodyText: envelope.Text,
		BodyHTML: envelope.HTML,
	}

	// HTML-only messages still need a text body for classification and
	// title matching.
	if inbound.BodyText == "" && inbound.BodyHTML != "" {
		if text, err := html2text.FromString(inbound.BodyHTML, html2text.Options{TextOnly: true}); err == nil {
			inbound.BodyText = text
		}
	}

	if msg.Envelope != nil {
		inbound.MessageID = utils.NormalizeMessageID(msg.Envelope.MessageId)
		inbound.InReplyTo = utils.NormalizeMessageID(msg.Envelope.InReplyTo)
		inbound.Subject = msg.Envelope.Subject
		inbound.Timestamp = msg.Envelope.Date

		if len(msg.Envelope.From) > 0 {
			sender := msg.Envelope.From[0]
			inbound.FromName = sender.PersonalName
			inbound.FromAddress = strings.ToLower(sender.Address())
			syntaxValidation := mailvalidate.ValidateEmailSyntax(sender.Address())
			if syntaxValidation.IsValid {
				inbound.FromAddress = syntaxValidation.CleanEmail
			}
		}

		for _, addr := range msg.Envelope.To {
			inbound.ToAddresses = append(inbound.ToAddresses, strings.ToLower(addr.Address()))
		}
		inbound.ToAddresses = utils.UniqueEmails(inbound.ToAddresses)
	}

	if inbound.Timestamp.IsZero() && !msg.InternalDate.IsZero() {
		inbound.Timestamp = msg.InternalDate
	}
	if inbound.Timestamp.IsZero() {
		inbound.Timestamp = time.Now().UTC()
	}

	for _, ref := range strings.Fields(envelope.GetHeader("References")) {
		if id := utils.NormalizeMessageID(ref); id != "" {
			inbound.References = append(inbound.References, id)
		}
	}

	for _, att := range envelope.Attachments {
		inbound.Attachments = append(inbound.Attachments, dto.Attachment{
			Filename:    att.FileName,
			ContentType: att.ContentType,
			Content:     att.Content,
			Size:        len(att.Content),
		})
	}

	return inbound, nil
}
