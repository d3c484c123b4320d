// Package pcsc adapts a PC/SC smart-card reader to the opacity.Transceiver
// contract, translating a GENERAL AUTHENTICATE byte exchange into a
// scard.Card Transmit call and back.
package pcsc

import (
	"fmt"

	"github.com/ebfe/scard"
)

// Connection wraps a PC/SC card connection to a single reader.
type Connection struct {
	ctx       *scard.Context
	card      *scard.Card
	Reader    string
	ReaderIdx int
}

// Connect establishes a shared-mode connection to the reader at readerIndex.
func Connect(readerIndex int) (*Connection, error) {
	ctx, err := scard.EstablishContext()
	if err != nil {
		return nil, fmt.Errorf("opacity/pcsc: EstablishContext failed: %w", err)
	}

	readers, err := ctx.ListReaders()
	if err != nil || len(readers) == 0 {
		_ = ctx.Release()
		return nil, fmt.Errorf("opacity/pcsc: no readers found: %v", err)
	}
	if readerIndex < 0 || readerIndex >= len(readers) {
		_ = ctx.Release()
		return nil, fmt.Errorf("opacity/pcsc: reader index out of range (0..%d)", len(readers)-1)
	}

	reader := readers[readerIndex]
	card, err := ctx.Connect(reader, scard.ShareShared, scard.ProtocolAny)
	if err != nil {
		_ = ctx.Release()
		return nil, fmt.Errorf("opacity/pcsc: connect to %q failed: %w", reader, err)
	}

	return &Connection{ctx: ctx, card: card, Reader: reader, ReaderIdx: readerIndex}, nil
}

// ListReaders enumerates PC/SC reader names without connecting to any of
// them, establishing and releasing its own context.
func ListReaders() ([]string, error) {
	ctx, err := scard.EstablishContext()
	if err != nil {
		return nil, fmt.Errorf("opacity/pcsc: EstablishContext failed: %w", err)
	}
	defer ctx.Release()

	readers, err := ctx.ListReaders()
	if err != nil {
		return nil, fmt.Errorf("opacity/pcsc: ListReaders failed: %w", err)
	}
	return readers, nil
}

// Close disconnects the card, leaving it in the reader, and releases the
// PC/SC context. Implements opacity.Transceiver's Close.
func (c *Connection) Close() error {
	if c == nil {
		return nil
	}
	var err error
	if c.card != nil {
		err = c.card.Disconnect(scard.LeaveCard)
	}
	if c.ctx != nil {
		if rerr := c.ctx.Release(); err == nil {
			err = rerr
		}
	}
	return err
}

// rawTransmit sends apdu to the card and returns the raw response,
// including the trailing SW1SW2.
func (c *Connection) rawTransmit(apdu []byte) ([]byte, error) {
	if c == nil || c.card == nil {
		return nil, fmt.Errorf("opacity/pcsc: connection not established")
	}
	return c.card.Transmit(apdu)
}
