package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/barnettlynn/opacity/internal/display"
	"github.com/barnettlynn/opacity/pkg/opacity"
)

var selfTestCmd = &cobra.Command{
	Use:   "self-test",
	Short: "Exercise the cryptographic core without a card present",
	Long: `Runs ECDH agreement, the KDF, and a CMAC round trip entirely in
process, using two locally generated keypairs standing in for the host and
the card. This checks that the cryptographic primitives are wired
correctly; it does not and cannot substitute for testing against a real
card, since no GENERAL AUTHENTICATE exchange or card signature is
involved.`,
	RunE: runSelfTest,
}

func init() {
	rootCmd.AddCommand(selfTestCmd)
}

func runSelfTest(cmd *cobra.Command, args []string) error {
	hostKP, err := opacity.GenerateEphemeralKeyPair()
	if err != nil {
		return fmt.Errorf("generate host keypair: %w", err)
	}
	defer hostKP.Zeroise()

	cardKP, err := opacity.GenerateEphemeralKeyPair()
	if err != nil {
		return fmt.Errorf("generate card keypair: %w", err)
	}
	defer cardKP.Zeroise()

	hostPub, err := opacity.CheckCardPublicKey(hostKP.PublicKeySEC1())
	if err != nil {
		return fmt.Errorf("validate host public key: %w", err)
	}
	cardPub, err := opacity.CheckCardPublicKey(cardKP.PublicKeySEC1())
	if err != nil {
		return fmt.Errorf("validate card public key: %w", err)
	}

	zFromHost, err := opacity.ECDH(hostKP, cardPub)
	if err != nil {
		return fmt.Errorf("host ECDH: %w", err)
	}
	zFromCard, err := opacity.ECDH(cardKP, hostPub)
	if err != nil {
		return fmt.Errorf("card ECDH: %w", err)
	}
	if opacity.HexEncode(zFromHost) != opacity.HexEncode(zFromCard) {
		return fmt.Errorf("ECDH self-test FAILED: host and card derived different shared secrets")
	}
	display.PrintSuccess("ECDH agreement: host and card derived matching shared secrets")

	var idh [8]byte
	copy(idh[:], []byte{0, 1, 2, 3, 4, 5, 6, 7})
	otherInfo, err := opacity.BuildOtherInfo(opacity.OtherInfoInputs{
		IDH:       idh,
		CBH:       opacity.CBHNoBinding,
		HostPubX:  hostKP.PublicKeyXY()[:32],
		CardSigID: []byte{0xA0, 0xA1, 0xA2, 0xA3, 0xA4, 0xA5, 0xA6, 0xA7},
		CardNonce: make([]byte, 16),
		CardCB:    opacity.CBHNoBinding,
	})
	if err != nil {
		return fmt.Errorf("BuildOtherInfo: %w", err)
	}

	block, err := opacity.KDF64(zFromHost, otherInfo)
	if err != nil {
		return fmt.Errorf("KDF64: %w", err)
	}
	keys, err := opacity.PartitionKeyBlock(block)
	if err != nil {
		return fmt.Errorf("PartitionKeyBlock: %w", err)
	}
	display.PrintSuccess("KDF: derived a 64-byte key block and partitioned it into four keys")

	message := opacity.BuildCryptogramMessage([]byte{0xA0, 0xA1, 0xA2, 0xA3, 0xA4, 0xA5, 0xA6, 0xA7}, idh, hostKP.PublicKeyXY())
	tag, err := opacity.CMACCompute(keys.CFRM[:], message)
	if err != nil {
		return fmt.Errorf("CMACCompute: %w", err)
	}
	ok, err := opacity.CMACVerify(keys.CFRM[:], message, tag)
	if err != nil {
		return fmt.Errorf("CMACVerify: %w", err)
	}
	if !ok {
		return fmt.Errorf("CMAC self-test FAILED: computed tag did not verify")
	}
	display.PrintSuccess("CMAC: computed tag verified against itself")

	keys.Zeroise()
	return nil
}
