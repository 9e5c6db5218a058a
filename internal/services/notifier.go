package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/urbix/urbix-backend/internal/models"
	"github.com/urbix/urbix-backend/pkg/utils"
)

// Notification is one lifecycle message for a user: an email plus a
// websocket event. Delivery is best-effort and at-most-once; a lost
// notification is logged, never surfaced.
type Notification struct {
	RecipientID    uint
	RecipientEmail string

	Subject  string
	Text     string
	Title    string
	Subtitle string
	Badge    string
	Rows     []utils.EmailRow
	CTAText  string
	CTAURL   string

	Event     string
	EventData map[string]any
}

// Notifier dispatches notifications over email and the websocket hub.
type Notifier struct {
	mailer *utils.Mailer
	hub    *Hub
	log    *logrus.Logger
}

func NewNotifier(mailer *utils.Mailer, hub *Hub, log *logrus.Logger) *Notifier {
	return &Notifier{mailer: mailer, hub: hub, log: log}
}

// Notify fires the notification. Failures on any path are captured and
// logged; they never fail or roll back the state transition that triggered
// them.
func (n *Notifier) Notify(note Notification) {
	if n == nil {
		return
	}

	if n.mailer != nil && n.mailer.Configured() {
		html := utils.EmailHTML(note.Title, note.Subtitle, note.Badge, note.Rows,
			note.CTAText, note.CTAURL, "UrbiX - This is an automated update")
		if err := n.mailer.Send(note.RecipientEmail, note.Subject, note.Text, html); err != nil {
			n.log.WithError(err).WithField("recipient", note.RecipientEmail).
				Warn("failed to send notification email")
		}
	} else if n.mailer != nil {
		n.log.WithField("subject", note.Subject).Info("SMTP not configured, skipping email")
	}

	if n.hub != nil && note.Event != "" {
		n.hub.SendToUser(note.RecipientID, note.Event, note.EventData)
	}
}

// RideRows builds the shared ride context rows for notification emails.
func RideRows(ride *models.RidePost, seats int, status string) []utils.EmailRow {
	rows := []utils.EmailRow{
		{Label: "Route", Value: fmt.Sprintf("%s to %s", ride.Departure, ride.Destination)},
		{Label: "Departure", Value: ride.DepartureDatetime.Format(time.RFC3339)},
		{Label: "Seats available", Value: strconv.Itoa(ride.SeatsAvailable)},
	}
	if seats > 0 {
		rows = append(rows, utils.EmailRow{Label: "Seats requested", Value: strconv.Itoa(seats)})
	}
	if status != "" {
		rows = append(rows, utils.EmailRow{Label: "Status", Value: status})
	}
	return rows
}
