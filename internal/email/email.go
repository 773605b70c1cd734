package email

import (
	"context"
	"fmt"

	"github.com/tripgrid/backoffice/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	fmt.Printf("send email to %s about %s for booking %s\n", event.CustomerEmail, event.Type, event.Ref)
	return nil
}
