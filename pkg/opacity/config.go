package opacity

import "fmt"

// CVCVerifier is an optional hook for verifying the card's Card Verifiable
// Certificate/signature blob. It is never invoked unless configured; CVC
// verification is out of scope for this core per NIST 800-73-4.
type CVCVerifier func(cvc []byte, cardPub []byte) error

// HandshakeConfig configures a single OpenTunnel call. Build one with
// NewHandshakeConfig and the With* options below.
type HandshakeConfig struct {
	HostID    [idLen]byte
	CBH       byte
	Observer  Observer
	VerifyCVC CVCVerifier
}

// Option configures a HandshakeConfig.
type Option func(*HandshakeConfig)

// NewHandshakeConfig builds a config with CBH fixed at CBHNoBinding — this
// core supports no other mode — and applies opts in order.
func NewHandshakeConfig(hostID [idLen]byte, opts ...Option) HandshakeConfig {
	cfg := HandshakeConfig{
		HostID:   hostID,
		CBH:      CBHNoBinding,
		Observer: NoopObserver{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithObserver injects a structured event observer.
func WithObserver(obs Observer) Option {
	return func(c *HandshakeConfig) {
		if obs != nil {
			c.Observer = obs
		}
	}
}

// WithCVCVerifier installs an optional CVC verification hook, invoked after
// cryptogram verification succeeds and before keys are returned.
func WithCVCVerifier(v CVCVerifier) Option {
	return func(c *HandshakeConfig) {
		c.VerifyCVC = v
	}
}

// WithHostID overrides the host identifier set at construction.
func WithHostID(id [idLen]byte) Option {
	return func(c *HandshakeConfig) {
		c.HostID = id
	}
}

func (c HandshakeConfig) validate() error {
	if c.CBH != CBHNoBinding {
		return fmt.Errorf("opacity: persistent-binding host control byte is not supported, got 0x%02x", c.CBH)
	}
	return nil
}
