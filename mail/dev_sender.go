package mail

import (
	"context"
	"fmt"
	"strings"
)

// DevSender prints messages to stdout instead of delivering them. Useful for
// local development and as the default wiring when no provider is
// configured.
type DevSender struct{}

// NewDevSender creates a stdout dispatcher.
func NewDevSender() Sender {
	return DevSender{}
}

// Send prints the message envelope and variables.
func (DevSender) Send(_ context.Context, msg Message) error {
	fmt.Println("====== OUTBOUND MAIL =======")
	fmt.Printf("template: %s\n", msg.Template)
	fmt.Printf("subject: %s\n", msg.Template.Subject())
	fmt.Printf("to: %s\n", strings.Join(msg.Recipients, ", "))
	for k, v := range msg.Variables {
		fmt.Printf("%s: %v\n", k, v)
	}
	fmt.Println("============================")
	return nil
}
