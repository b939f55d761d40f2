package imap

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/emersion/go-imap/client"
	"github.com/opentracing/opentracing-go"

	"github.com/mtauhidul/ats-backend-demo-sub000/interfaces"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/logger"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/models"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/tracing"
)

const (
	dialTimeout   = 30 * time.Second
	loginTimeout  = 30 * time.Second
	fetchTimeout  = 60 * time.Second
	logoutTimeout = 5 * time.Second
)

// MailboxClient opens a fresh IMAP session for every fetch and tears it down
// on every exit path. No connection state survives between polls.
type MailboxClient struct {
	log logger.Logger
}

func NewMailboxClient(log logger.Logger) interfaces.MailboxClient {
	return &MailboxClient{
		log: log,
	}
}

// connect dials, verifies capabilities and logs in. The caller owns the
// returned client and must log it out.
func (s *MailboxClient) connect(ctx context.Context, account *models.MailboxAccount) (*client.Client, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "MailboxClient.connect")
	defer span.Finish()
	tracing.TagAccount(span, account.ID)
	span.SetTag("server", account.ImapServer)
	span.SetTag("port", account.ImapPort)
	span.SetTag("tls", account.ImapTLS)

	serverAddr := fmt.Sprintf("%s:%d", account.ImapServer, account.ImapPort)

	dialer := &net.Dialer{
		Timeout:   dialTimeout,
		KeepAlive: 30 * time.Second,
	}

	var c *client.Client
	var err error

	if account.ImapTLS {
		tlsConfig := &tls.Config{
			ServerName: account.ImapServer,
		}
		c, err = client.DialWithDialerTLS(dialer, serverAddr, tlsConfig)
	} else {
		c, err = client.DialWithDialer(dialer, serverAddr)
	}

	if err != nil {
		tracing.TraceErr(span, err)
		return nil, fmt.Errorf("failed to connect to %s: %w", serverAddr, err)
	}

	c.Timeout = loginTimeout

	err = c.Login(account.ImapUsername, account.ImapPassword)
	if err != nil {
		c.Logout()
		tracing.TraceErr(span, err)
		return nil, fmt.Errorf("failed to login as %s: %w", account.ImapUsername, err)
	}

	// Reset timeout for normal operations
	c.Timeout = 0

	s.log.Debugf("connected and logged in to %s as %s", serverAddr, account.ImapUsername)

	return c, nil
}

// disconnect logs the client out with a bounded wait. Used as a deferred
// cleanup so a stuck logout can never hang a poll cycle.
func (s *MailboxClient) disconnect(accountID string, c *client.Client) {
	if c == nil {
		return
	}

	c.Timeout = logoutTimeout

	done := make(chan error, 1)
	go func() {
		done <- c.Logout()
		close(done)
	}()

	select {
	case err := <-done:
		if err != nil {
			s.log.Warnf("[%s] error during logout: %v", accountID, err)
		}
	case <-time.After(logoutTimeout):
		s.log.Warnf("[%s] logout timed out", accountID)
	}
}
