// Package display renders handshake results to the terminal using
// go-pretty tables. It is the only place in this module allowed to call
// fmt.Println directly; every formatting decision (colors, redaction)
// lives here rather than in the core package.
package display

import (
	"errors"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/barnettlynn/opacity/pkg/opacity"
)

var (
	colorHeader  = text.Colors{text.FgCyan, text.Bold}
	colorLabel   = text.Colors{text.FgYellow}
	colorValue   = text.Colors{text.FgWhite}
	colorSuccess = text.Colors{text.FgGreen}
	colorError   = text.Colors{text.FgRed}
	colorWarn    = text.Colors{text.FgYellow}
)

func getTableStyle() table.Style {
	style := table.StyleRounded
	style.Color.Header = colorHeader
	style.Color.Row = text.Colors{text.FgWhite}
	style.Options.SeparateRows = false
	return style
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(getTableStyle())
	return t
}

// PrintSessionKeys renders the four derived session keys. Unless reveal is
// true, each value is shown as **** — this function is the only place the
// redaction decision is made, so a caller cannot accidentally leak keys to
// a log file by routing them through some other formatter.
func PrintSessionKeys(keys opacity.SessionKeys, reveal bool) {
	fmt.Println()
	t := newTable()
	t.SetTitle("SESSION KEYS")
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Colors: colorLabel, WidthMin: 10},
		{Number: 2, Colors: colorValue, WidthMin: 34},
	})

	row := func(label string, key [16]byte) {
		if reveal {
			t.AppendRow(table.Row{label, opacity.HexEncode(key[:])})
		} else {
			t.AppendRow(table.Row{label, "****"})
		}
	}
	row("CFRM", keys.CFRM)
	row("MAC", keys.MAC)
	row("ENC", keys.ENC)
	row("RMAC", keys.RMAC)
	t.Render()

	if !reveal {
		PrintWarning("pass --reveal-keys to print key material in full")
	}
}

// PrintHandshakeMetrics renders observability data recorded on success.
func PrintHandshakeMetrics(m opacity.HandshakeMetrics) {
	fmt.Println()
	t := newTable()
	t.SetTitle("HANDSHAKE METRICS")
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Colors: colorLabel, WidthMin: 20},
		{Number: 2, Colors: colorValue, WidthMin: 15},
	})
	t.AppendRow(table.Row{"Tunnel creation", fmt.Sprintf("%d ms", m.TunnelCreationMS)})
	t.Render()
}

// PrintCardSignature renders the non-secret fields of a parsed card
// response: identifiers and the public key, never the cryptogram or nonce
// in a way that implies they are safe to reuse.
func PrintCardSignature(sig *opacity.CardSignature) {
	fmt.Println()
	t := newTable()
	t.SetTitle("CARD SIGNATURE")
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Colors: colorLabel, WidthMin: 16},
		{Number: 2, Colors: colorValue, WidthMin: 50},
	})
	t.AppendRow(table.Row{"Card ID", opacity.HexEncode(sig.ID[:])})
	t.AppendRow(table.Row{"Issuer ID", opacity.HexEncode(sig.IssuerID[:])})
	t.AppendRow(table.Row{"GUID", opacity.HexEncode(sig.GUID[:])})
	t.AppendRow(table.Row{"Algorithm OID", opacity.HexEncode(sig.AlgOID[:])})
	t.AppendRow(table.Row{"Public key", opacity.HexEncode(sig.PublicKey[:])})
	t.AppendRow(table.Row{"CVC length", fmt.Sprintf("%d bytes", len(sig.CVC))})
	t.Render()
}

// PrintReaderList prints discovered PC/SC readers with their index, so the
// caller knows which index to pass to --reader.
func PrintReaderList(readers []string) {
	fmt.Println()
	t := newTable()
	t.SetTitle("AVAILABLE SMART CARD READERS")
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Colors: colorLabel, WidthMin: 8},
		{Number: 2, Colors: colorValue, WidthMin: 50},
	})
	if len(readers) == 0 {
		t.AppendRow(table.Row{"Status", colorWarn.Sprint("No readers found")})
	} else {
		for i, r := range readers {
			t.AppendRow(table.Row{fmt.Sprintf("[%d]", i), r})
		}
	}
	t.Render()
}

// PrintError renders err, routing it through AlertFor so the three
// reference alert strings ("Error communicating with card", "Unexpected
// response from card", "Cryptography error") are preserved for the error
// kinds they describe.
func PrintError(err error) {
	fmt.Println(colorError.Sprintf("✗ %s: %v", AlertFor(err), err))
}

// PrintSuccess prints a one-line success banner.
func PrintSuccess(msg string) {
	fmt.Println(colorSuccess.Sprintf("✓ %s", msg))
}

// PrintWarning prints a one-line warning.
func PrintWarning(msg string) {
	fmt.Println(colorWarn.Sprintf("⚠ %s", msg))
}

// AlertFor maps a typed core error to one of the three user-facing alert
// strings the reference application surfaces. Alert rendering belongs to
// the caller, never the core — this function is the boundary.
func AlertFor(err error) string {
	var (
		transportErr *opacity.TransportError
		parseErr     *opacity.ParseError
		policyErr    *opacity.PolicyError
		keyErr       *opacity.KeyValidationError
		ecdhErr      *opacity.EcdhError
		cryptoErr    *opacity.CryptoInitError
		authErr      *opacity.AuthenticationError
	)
	switch {
	case errors.As(err, &transportErr):
		return "Error communicating with card"
	case errors.As(err, &parseErr):
		return "Unexpected response from card"
	case errors.As(err, &keyErr), errors.As(err, &ecdhErr), errors.As(err, &cryptoErr), errors.As(err, &authErr), errors.As(err, &policyErr):
		return "Cryptography error"
	default:
		return "Handshake failed"
	}
}
