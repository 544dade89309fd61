package notification

import (
	n "github.com/0xAX/notificator"
	log "github.com/sirupsen/logrus"
)

// AppName Name shown by the desktop notification system
const AppName = "dembed"

// Notifier sends a short message to the user
type Notifier interface {
	Notify(msg string)
}

// Desktop pushes messages to the desktop notification system
type Desktop struct {
	note *n.Notificator
	icon string
}

// NewDesktop Create a desktop notifier using icon for every message
func NewDesktop(icon string) *Desktop {
	return &Desktop{
		note: n.New(n.Options{
			DefaultIcon: icon,
			AppName:     AppName,
		}),
		icon: icon,
	}
}

// Notify Push msg to the notification system. Failures are only logged.
func (d *Desktop) Notify(msg string) {
	log.Debugf("Sending message %s to notification system", msg)
	if err := d.note.Push(AppName, msg, d.icon, n.UR_NORMAL); err != nil {
		log.Warnf("Unable to send notification - %s", err.Error())
	}
}

// Discard drops every message
type Discard struct{}

// Notify does nothing
func (Discard) Notify(string) {}
