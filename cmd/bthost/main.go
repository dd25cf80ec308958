// Command bthost drives the BR/EDR host stack over a local controller and
// exposes a few L2CAP framing helpers.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rigado/bthost"
	"github.com/rigado/bthost/l2cap"
	"github.com/urfave/cli"
)

var (
	flgLogLevel = cli.StringFlag{Name: "log", Value: "info", Usage: "log level (trace, debug, info, warn, error)"}

	flgDevice   = cli.IntFlag{Name: "device, d", Value: -1, Usage: "hci device index, -1 for the first available"}
	flgUart     = cli.StringFlag{Name: "uart", Usage: "serial port of an H4 controller"}
	flgBaud     = cli.UintFlag{Name: "baud", Value: 1000000, Usage: "serial port baud rate"}
	flgTCP      = cli.StringFlag{Name: "tcp", Usage: "host:port of an H4 controller"}
	flgBonds    = cli.StringFlag{Name: "bonds", Value: "bonds.json", Usage: "bond store file"}
	flgPeer     = cli.StringFlag{Name: "peer, p", Usage: "address of the peer to connect to"}
	flgPSM      = cli.UintFlag{Name: "psm", Usage: "PSM of the channel to open on the peer"}
	flgListen   = cli.UintFlag{Name: "listen", Usage: "PSM to accept inbound channels on"}
	flgMode     = cli.StringFlag{Name: "mode", Value: "basic", Usage: "channel mode (basic, ertm)"}
	flgData     = cli.StringFlag{Name: "data", Usage: "hex SDU to send once the channel opens"}
	flgIOCap    = cli.StringFlag{Name: "iocap", Value: "display-yes-no", Usage: "io capability (display-only, display-yes-no, keyboard-only, none)"}
	flgAuth     = cli.BoolFlag{Name: "mitm", Usage: "require authenticated pairing"}
	flgDuration = cli.DurationFlag{Name: "duration", Usage: "exit after this long, 0 to run until interrupted"}
	flgRandCID  = cli.BoolFlag{Name: "random-cids", Usage: "allocate dynamic channel ids at random"}
	flgRTX      = cli.DurationFlag{Name: "rtx", Value: l2cap.DefaultRTX, Usage: "signaling response timeout"}
	flgERTX     = cli.DurationFlag{Name: "ertx", Value: l2cap.DefaultERTX, Usage: "signaling response timeout once the peer answered pending"}

	flgCID       = cli.UintFlag{Name: "cid", Value: 0x0040, Usage: "destination channel id"}
	flgHandle    = cli.UintFlag{Name: "handle", Value: 0x0001, Usage: "connection handle"}
	flgMaxData   = cli.IntFlag{Name: "mtu", Value: 27, Usage: "controller ACL data length"}
	flgFCS       = cli.BoolFlag{Name: "fcs", Usage: "append a frame check sequence"}
	flgNoFlush   = cli.BoolFlag{Name: "no-flush", Usage: "mark the PDU non-flushable"}
	flgInitial   = cli.UintFlag{Name: "initial", Usage: "initial FCS value"}
	flgCmdTimout = cli.DurationFlag{Name: "cmd-timeout", Value: 10 * time.Second, Usage: "controller command timeout"}
)

func main() {
	app := cli.NewApp()

	app.Name = "bthost"
	app.Usage = "A BR/EDR host stack"
	app.Version = "0.1.0"
	app.Action = cli.ShowAppHelp
	app.Flags = []cli.Flag{flgLogLevel}
	app.Before = func(c *cli.Context) error {
		return bthost.SetLogLevel(c.String("log"))
	}

	app.Commands = []cli.Command{
		{
			Name:      "fcs",
			Usage:     "Compute the L2CAP frame check sequence of hex data",
			ArgsUsage: "<hex>",
			Action:    cmdFCS,
			Flags:     []cli.Flag{flgInitial},
		},
		{
			Name:      "frame",
			Aliases:   []string{"f"},
			Usage:     "Fragment a hex SDU into ACL data packets",
			ArgsUsage: "<hex>",
			Action:    cmdFrame,
			Flags:     []cli.Flag{flgCID, flgHandle, flgMaxData, flgFCS, flgNoFlush},
		},
		{
			Name:    "run",
			Aliases: []string{"r"},
			Usage:   "Bring up a controller, connect to a peer and open a channel",
			Action:  cmdRun,
			Flags: []cli.Flag{
				flgDevice, flgUart, flgBaud, flgTCP, flgCmdTimout, flgBonds,
				flgPeer, flgPSM, flgListen, flgMode, flgData, flgIOCap, flgAuth, flgDuration,
				flgRandCID, flgRTX, flgERTX,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
