package opacity

import "context"

// Response is the external transport's view of an R-APDU: the body with
// SW1SW2 stripped, plus the raw status word for diagnostics.
type Response struct {
	Data []byte
	SW   uint16
}

// Success reports whether SW indicates normal processing (0x9000).
func (r Response) Success() bool {
	return r.SW == 0x9000
}

// Transceiver is the card transport this core depends on but does not
// implement. A GENERAL AUTHENTICATE exchange is a single request/response;
// Transceive returning a non-nil error is always treated as a fatal
// TransportError by the orchestrator.
type Transceiver interface {
	Transceive(ctx context.Context, apduName string, apdu []byte) (Response, error)
	Close() error
}
