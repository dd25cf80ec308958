package main

import (
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rigado/bthost/l2cap"
	"github.com/urfave/cli"
)

func hexArg(c *cli.Context) ([]byte, error) {
	if c.NArg() != 1 {
		return nil, errors.New("expected one hex argument")
	}
	b, err := hex.DecodeString(c.Args().First())
	return b, errors.Wrap(err, "invalid hex")
}

func cmdFCS(c *cli.Context) error {
	b, err := hexArg(c)
	if err != nil {
		return err
	}
	fcs := l2cap.ComputeFCS(b, l2cap.FrameCheckSequence(c.Uint("initial")))
	fmt.Printf("0x%04X\n", uint16(fcs))
	return nil
}

func cmdFrame(c *cli.Context) error {
	sdu, err := hexArg(c)
	if err != nil {
		return err
	}
	fcs := l2cap.NoFCS
	if c.Bool("fcs") {
		fcs = l2cap.FCS16
	}
	f := l2cap.NewFragmenter(uint16(c.Uint("handle")), c.Int("mtu"))
	pdu, err := f.BuildFrame(l2cap.ChannelID(c.Uint("cid")), sdu, fcs, !c.Bool("no-flush"))
	if err != nil {
		return errors.Wrap(err, "can't build frame")
	}
	for i, p := range pdu.Fragments() {
		fmt.Printf("%2d: % X\n", i, []byte(p))
	}
	return nil
}
