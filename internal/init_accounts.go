package internal

import (
	"context"
	"log"

	"github.com/mtauhidul/ats-backend-demo-sub000/internal/repository"
)

// InitMailboxAccounts verifies at startup that monitored accounts exist.
// Sessions are opened per poll cycle, so nothing connects here; this only
// surfaces an empty or misconfigured account table before the first tick.
func InitMailboxAccounts(r *repository.Repositories) error {
	log.Println("Checking mailbox accounts...")
	ctx := context.Background()

	accounts, err := r.MailboxAccountRepository.ListActive(ctx)
	if err != nil {
		return err
	}

	if len(accounts) == 0 {
		log.Println("No active mailbox accounts configured; ingestion will idle until one is added")
		return nil
	}

	for _, account := range accounts {
		log.Printf("Monitoring %s (%s folder %s)", account.EmailAddress, account.ImapServer, account.Folder)
	}

	log.Printf("Found %d active mailbox accounts", len(accounts))
	return nil
}
