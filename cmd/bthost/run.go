package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/rigado/bthost"
	"github.com/rigado/bthost/bredr"
	"github.com/rigado/bthost/dispatch"
	"github.com/rigado/bthost/l2cap"
	"github.com/rigado/bthost/linux/hci/controller"
	"github.com/rigado/bthost/peer"
	"github.com/rigado/bthost/sm"
	"github.com/urfave/cli"
)

type host struct {
	loop  *dispatch.Loop
	hci   *controller.HCI
	l2    *l2cap.ChannelManager
	cache *peer.Cache
	mgr   *bredr.ConnectionManager

	bthost.Logger
}

// onLoop runs fn on the dispatcher and waits for it.
func (h *host) onLoop(fn func() error) error {
	done := make(chan error, 1)
	h.loop.Post(func() { done <- fn() })
	select {
	case err := <-done:
		return err
	case <-h.loop.Done():
		return errors.New("dispatcher closed")
	}
}

func transportOption(c *cli.Context) controller.Option {
	switch {
	case c.String("uart") != "":
		return controller.OptTransportH4Uart(c.String("uart"), c.Uint("baud"))
	case c.String("tcp") != "":
		return controller.OptTransportH4Socket(c.String("tcp"), c.Duration("cmd-timeout"))
	default:
		return controller.OptTransportHCISocket(c.Int("device"))
	}
}

func l2capOptions(c *cli.Context) []l2cap.Option {
	return []l2cap.Option{
		l2cap.OptRandomChannelIDs(c.Bool("random-cids")),
		l2cap.OptSignalingTimeouts(c.Duration("rtx"), c.Duration("ertx")),
	}
}

func channelParams(c *cli.Context) (l2cap.ChannelParameters, error) {
	var mode l2cap.ChannelMode
	switch c.String("mode") {
	case "basic":
		mode = l2cap.ModeBasic
	case "ertm":
		mode = l2cap.ModeEnhancedRetransmission
	default:
		return l2cap.ChannelParameters{}, errors.Errorf("unknown channel mode %q", c.String("mode"))
	}
	return l2cap.ChannelParameters{Mode: &mode}, nil
}

func cmdRun(c *cli.Context) error {
	ioCap, err := parseIOCap(c.String("iocap"))
	if err != nil {
		return err
	}
	params, err := channelParams(c)
	if err != nil {
		return err
	}
	reqs := sm.BrEdrSecurityRequirements{Authentication: c.Bool("mitm")}
	var sdu []byte
	if s := c.String("data"); s != "" {
		if sdu, err = hex.DecodeString(s); err != nil {
			return errors.Wrap(err, "invalid data")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if d := c.Duration("duration"); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	ctx, fatal := context.WithCancel(ctx)
	defer fatal()

	h := &host{
		loop:   dispatch.NewLoop(),
		Logger: bthost.GetLogger().ChildLogger(map[string]interface{}{"component": "bthost"}),
	}
	go h.loop.Run(context.Background())
	defer h.loop.Close()

	h.hci, err = controller.New(h.loop,
		transportOption(c),
		controller.OptCommandTimeout(c.Duration("cmd-timeout")),
		controller.OptErrorHandler(func(err error) {
			h.Errorf("controller: %v", err)
			fatal()
		}),
	)
	if err != nil {
		return errors.Wrap(err, "can't create controller")
	}
	if err := h.hci.Init(ctx); err != nil {
		return errors.Wrap(err, "can't init controller")
	}
	defer h.hci.Close()

	err = h.onLoop(func() error {
		var err error
		if h.l2, err = l2cap.NewChannelManager(h.loop, h.hci, l2capOptions(c)...); err != nil {
			return err
		}
		h.cache = peer.NewCache(nil)
		h.mgr, err = bredr.NewConnectionManager(h.loop, h.hci, h.l2, h.cache, h.hci.Addr(),
			bredr.OptBondStore(peer.NewFileStore(c.String("bonds"))),
			bredr.OptPairingDelegate(newConsoleDelegate(h.loop, ioCap)),
		)
		return err
	})
	if err != nil {
		return errors.Wrap(err, "can't start host")
	}
	fmt.Printf("local address %v\n", h.hci.Addr())

	if psm := l2cap.PSM(c.Uint("listen")); psm != 0 {
		if err := h.onLoop(func() error { return h.listen(psm, params, reqs) }); err != nil {
			return err
		}
	}

	if s := c.String("peer"); s != "" {
		addr, err := bthost.ParseAddr(s)
		if err != nil {
			return err
		}
		psm := l2cap.PSM(c.Uint("psm"))
		h.loop.Post(func() { h.connect(addr, psm, params, reqs, sdu) })
	}

	select {
	case <-ctx.Done():
	case <-h.hci.Done():
	}
	h.loop.Post(func() {
		h.mgr.Close()
		h.loop.Close()
	})
	<-h.loop.Done()
	return errors.Wrap(h.hci.Err(), "controller")
}

func (h *host) listen(psm l2cap.PSM, params l2cap.ChannelParameters, reqs sm.BrEdrSecurityRequirements) error {
	ok := h.mgr.RegisterService([]l2cap.PSM{psm}, params, reqs, func(id bthost.PeerID, ch *l2cap.Channel) {
		fmt.Printf("inbound %v from %v\n", ch, id)
		h.activate(ch, nil)
	})
	if !ok {
		return errors.Errorf("psm 0x%04X already registered", uint16(psm))
	}
	h.mgr.SetConnectable(true, func(err error) {
		if err != nil {
			h.Errorf("can't become connectable: %v", err)
		}
	})
	return nil
}

func (h *host) connect(addr bthost.Addr, psm l2cap.PSM, params l2cap.ChannelParameters, reqs sm.BrEdrSecurityRequirements, sdu []byte) {
	p := h.cache.FindByAddr(addr)
	if p == nil {
		p = h.cache.NewPeer(addr)
	}
	h.mgr.Connect(p.ID(), func(conn *bredr.Connection, err error) {
		if err != nil {
			h.Errorf("connect %v: %v", addr, err)
			return
		}
		fmt.Printf("connected %v\n", conn)
		if psm == 0 {
			return
		}
		h.mgr.OpenL2capChannel(p.ID(), psm, reqs, params, func(ch *l2cap.Channel) {
			if ch == nil {
				h.Errorf("can't open psm 0x%04X on %v", uint16(psm), addr)
				return
			}
			fmt.Printf("opened %v\n", ch)
			h.activate(ch, sdu)
		})
	})
}

func (h *host) activate(ch *l2cap.Channel, sdu []byte) {
	ok := ch.Activate(func(b []byte) {
		fmt.Printf("%v rx: % X\n", ch, b)
	}, func() {
		fmt.Printf("%v closed\n", ch)
	})
	if !ok {
		h.Errorf("can't activate %v", ch)
		return
	}
	if len(sdu) > 0 && !ch.Send(sdu) {
		h.Errorf("can't send on %v", ch)
	}
}
