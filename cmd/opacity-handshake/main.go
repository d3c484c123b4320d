// Command opacity-handshake drives a single Opacity secure-tunnel
// handshake against a PIV card over a PC/SC reader.
package main

import "github.com/barnettlynn/opacity/cmd/opacity-handshake/internal/cli"

func main() {
	cli.Execute()
}
