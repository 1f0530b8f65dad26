package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"campustrace-backend-go/internal/db"
	"campustrace-backend-go/internal/models"
	"campustrace-backend-go/pkg/mailer"
)

// ResolvedNotifier e-mails the users who saved an item once it is resolved.
type ResolvedNotifier struct {
	saved  db.SavedItemRepository
	users  db.UserRepository
	mail   mailer.Sender
	appURL string
	log    *zap.Logger
}

// NewResolvedNotifier creates a ResolvedNotifier. appURL is used to link back to the item.
func NewResolvedNotifier(saved db.SavedItemRepository, users db.UserRepository, mail mailer.Sender, appURL string, log *zap.Logger) *ResolvedNotifier {
	return &ResolvedNotifier{saved: saved, users: users, mail: mail, appURL: appURL, log: log}
}

// Handle processes one queued item event. Events other than item.resolved are
// acknowledged and ignored. Per-recipient failures are logged, not returned.
func (n *ResolvedNotifier) Handle(ctx context.Context, body []byte) error {
	var event models.ItemEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("decoding item event: %w", err)
	}
	if event.Type != models.EventItemResolved {
		return nil
	}

	savers, err := n.saved.ListByItem(ctx, event.ItemID)
	if err != nil {
		return fmt.Errorf("listing savers of item '%s': %w", event.ItemID, err)
	}

	notified := make(map[string]bool, len(savers))
	for _, rec := range savers {
		if rec.UserID == event.UserID || notified[rec.UserID] {
			continue
		}
		notified[rec.UserID] = true

		user, err := n.users.GetByID(ctx, rec.UserID)
		if err != nil {
			if !errors.Is(err, db.ErrNotFound) {
				n.log.Warn("Failed to load saver", zap.String("userID", rec.UserID), zap.Error(err))
			}
			continue
		}
		if user.Email == "" {
			continue
		}
		if err := n.mail.Send(user.Email, resolvedSubject(event), n.resolvedBody(user, event)); err != nil {
			n.log.Error("Failed to send resolved notification",
				zap.String("userID", user.ID), zap.String("itemID", event.ItemID), zap.Error(err))
			continue
		}
		n.log.Info("Sent resolved notification", zap.String("userID", user.ID), zap.String("itemID", event.ItemID))
	}
	return nil
}

func resolvedSubject(event models.ItemEvent) string {
	return fmt.Sprintf("Resolved: %s", singleLine(event.Title))
}

// singleLine replaces control characters with spaces.
func singleLine(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
}

func (n *ResolvedNotifier) resolvedBody(user *models.User, event models.ItemEvent) string {
	return fmt.Sprintf("<p>Hi %s,</p>"+
		"<p>An item you saved on CampusTrace, <strong>%s</strong>, has been marked as resolved by its poster.</p>"+
		"<p><a href=\"%s/items/%s\">View the item</a></p>",
		html.EscapeString(user.Name), html.EscapeString(event.Title), n.appURL, event.ItemID)
}
