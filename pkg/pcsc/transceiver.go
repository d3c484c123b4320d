package pcsc

import (
	"context"
	"fmt"

	"github.com/barnettlynn/opacity/pkg/opacity"
)

// Transceiver adapts a Connection to opacity.Transceiver. apduName is
// accepted for observability parity with the interface but is not sent to
// the card; PC/SC has no notion of named commands.
type Transceiver struct {
	conn *Connection
}

// NewTransceiver wraps an established Connection.
func NewTransceiver(conn *Connection) *Transceiver {
	return &Transceiver{conn: conn}
}

// Transceive sends apdu to the card and splits the response into body and
// status word. ctx cancellation is checked before the blocking PC/SC call;
// scard.Card.Transmit itself has no cancellation hook, so a cancellation
// that arrives mid-transmit is observed only on the next call.
func (t *Transceiver) Transceive(ctx context.Context, _ string, apdu []byte) (opacity.Response, error) {
	if err := ctx.Err(); err != nil {
		return opacity.Response{}, fmt.Errorf("opacity/pcsc: %w", err)
	}

	raw, err := t.conn.rawTransmit(apdu)
	if err != nil {
		return opacity.Response{}, fmt.Errorf("opacity/pcsc: transmit failed: %w", err)
	}
	if len(raw) < 2 {
		return opacity.Response{}, fmt.Errorf("opacity/pcsc: short response: %d bytes", len(raw))
	}

	sw := uint16(raw[len(raw)-2])<<8 | uint16(raw[len(raw)-1])
	return opacity.Response{Data: raw[:len(raw)-2], SW: sw}, nil
}

// Close releases the underlying PC/SC connection.
func (t *Transceiver) Close() error {
	return t.conn.Close()
}
