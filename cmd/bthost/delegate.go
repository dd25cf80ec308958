package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rigado/bthost"
	"github.com/rigado/bthost/dispatch"
	"github.com/rigado/bthost/sm"
)

var ioCaps = map[string]sm.IOCapability{
	"display-only":   sm.IOCapabilityDisplayOnly,
	"display-yes-no": sm.IOCapabilityDisplayYesNo,
	"keyboard-only":  sm.IOCapabilityKeyboardOnly,
	"none":           sm.IOCapabilityNoInputNoOutput,
}

func parseIOCap(s string) (sm.IOCapability, error) {
	c, ok := ioCaps[s]
	if !ok {
		return 0, errors.Errorf("unknown io capability %q", s)
	}
	return c, nil
}

// consoleDelegate asks the user on stdin. Prompts are answered on a
// separate goroutine and the answers posted back to the dispatcher.
type consoleDelegate struct {
	d     dispatch.Dispatcher
	ioCap sm.IOCapability

	mu sync.Mutex
	in *bufio.Reader
}

func newConsoleDelegate(d dispatch.Dispatcher, ioCap sm.IOCapability) *consoleDelegate {
	return &consoleDelegate{d: d, ioCap: ioCap, in: bufio.NewReader(os.Stdin)}
}

func (c *consoleDelegate) IOCapability() sm.IOCapability { return c.ioCap }

func (c *consoleDelegate) CompletePairing(id bthost.PeerID, err error) {
	if err != nil {
		fmt.Printf("pairing with %v failed: %v\n", id, err)
		return
	}
	fmt.Printf("paired with %v\n", id)
}

func (c *consoleDelegate) ConfirmPairing(id bthost.PeerID, confirm func(bool)) {
	c.ask(fmt.Sprintf("pair with %v? [y/n] ", id), func(line string) {
		confirm(yes(line))
	})
}

func (c *consoleDelegate) DisplayPasskey(id bthost.PeerID, passkey uint32, method sm.DisplayMethod, confirm func(bool)) {
	if method == sm.DisplayPeerEntry {
		fmt.Printf("enter %06d on %v\n", passkey, id)
		confirm(true)
		return
	}
	c.ask(fmt.Sprintf("does %v show %06d? [y/n] ", id, passkey), func(line string) {
		confirm(yes(line))
	})
}

func (c *consoleDelegate) RequestPasskey(id bthost.PeerID, respond func(passkey int64)) {
	c.ask(fmt.Sprintf("passkey shown by %v: ", id), func(line string) {
		v, err := strconv.ParseUint(line, 10, 32)
		if err != nil || v > 999999 {
			respond(-1)
			return
		}
		respond(int64(v))
	})
}

func (c *consoleDelegate) ask(prompt string, answer func(string)) {
	go func() {
		c.mu.Lock()
		fmt.Print(prompt)
		line, err := c.in.ReadString('\n')
		c.mu.Unlock()
		if err != nil {
			line = ""
		}
		line = strings.TrimSpace(line)
		c.d.Post(func() { answer(line) })
	}()
}

func yes(s string) bool {
	s = strings.ToLower(s)
	return s == "y" || s == "yes"
}
