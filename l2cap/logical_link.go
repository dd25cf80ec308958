package l2cap

import (
	"encoding/binary"
	"fmt"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"github.com/rigado/bthost"
	"github.com/rigado/bthost/dispatch"
	"github.com/rigado/bthost/linux/hci"
	"github.com/rigado/bthost/sm"
)

// SecurityUpgradeCallback asks the owner of a link to raise its security to
// at least level. cb receives nil on success.
type SecurityUpgradeCallback func(handle uint16, level sm.SecurityLevel, cb func(error))

// ServiceInfo is what a registered PSM offers inbound channels.
type ServiceInfo struct {
	Params   ChannelParameters
	Callback ChannelCallback
}

// localFeatures are advertised in Information Response.
const localFeatures = FeatureEnhancedRetransmission | FeatureFCSOption | FeatureFixedChannels

// localFixedChannels are the BR/EDR fixed channels openFixedChannel serves.
const localFixedChannels = FixedChannelsSupported(1<<SignalingChannelID | 1<<ConnectionlessChannelID | 1<<SMPChannelID)

type pendingOpen struct {
	psm    PSM
	params ChannelParameters
	cb     ChannelCallback
}

// linkConfig carries the channel manager's settings into a link.
type linkConfig struct {
	randomIDs          bool
	rtx, ertx          time.Duration
	connParamResponder func(handle uint16, p ConnectionParameters) bool
}

// engineParams are the mode specific inputs of a channel engine.
type engineParams struct {
	rxWindow  int
	rto       time.Duration
	monitor   time.Duration
	txCredits uint16
	rxCredits uint16
	rxMPS     int
}

// LogicalLink owns the channels of one ACL-U or LE-U link and runs its
// signaling channel. It is created and removed by a ChannelManager.
type LogicalLink struct {
	d        dispatch.Dispatcher
	acl      hci.ACLDataChannel
	handle   uint16
	linkType hci.LinkType
	role     uint8

	fragmenter *Fragmenter
	recombiner *Recombiner
	sig        *signalingChannel

	channels      map[ChannelID]*channelState
	dynamic       map[ChannelID]*dynamicChannel
	leOpens       map[ChannelID]ChannelCallback
	disconnecting map[ChannelID]bool
	services      func(PSM) (ServiceInfo, bool)

	pendingOpens   []pendingOpen
	infoDone       bool
	remoteFeatures ExtendedFeatures
	remoteFixed    FixedChannelsSupported

	security        sm.SecurityProperties
	linkError       func()
	securityUpgrade SecurityUpgradeCallback
	connParamUpdate func(ConnectionParameters)
	cfg             linkConfig

	rand   *rand.Rand
	closed bool

	bthost.Logger
}

func newLogicalLink(d dispatch.Dispatcher, acl hci.ACLDataChannel, handle uint16, lt hci.LinkType, role uint8,
	services func(PSM) (ServiceInfo, bool), cfg linkConfig) *LogicalLink {
	log := bthost.GetLogger().ChildLogger(map[string]interface{}{
		"handle": fmt.Sprintf("0x%04x", handle),
		"link":   lt.String(),
	})
	l := &LogicalLink{
		d:             d,
		acl:           acl,
		handle:        handle,
		linkType:      lt,
		role:          role,
		fragmenter:    NewFragmenter(handle, acl.BufferInfo(lt).MaxDataLength),
		recombiner:    NewRecombiner(handle),
		channels:      make(map[ChannelID]*channelState),
		dynamic:       make(map[ChannelID]*dynamicChannel),
		leOpens:       make(map[ChannelID]ChannelCallback),
		disconnecting: make(map[ChannelID]bool),
		services:      services,
		cfg:           cfg,
		rand:          rand.New(rand.NewSource(int64(handle) ^ rand.Int63())),
		Logger:        log,
	}

	if lt == hci.LinkTypeLE {
		l.sig = newSignalingChannel(d, LESignalingChannelID, MinLEMTU, l.sendSignaling, l.Logger)
		l.infoDone = true
		l.serveLESignaling()
	} else {
		l.sig = newSignalingChannel(d, SignalingChannelID, DefaultMTU, l.sendSignaling, l.Logger)
		l.serveBrEdrSignaling()
	}
	if cfg.rtx > 0 {
		l.sig.rtx = cfg.rtx
	}
	if cfg.ertx > 0 {
		l.sig.ertx = cfg.ertx
	}
	return l
}

func (l *LogicalLink) String() string {
	return fmt.Sprintf("%v(0x%04x)", l.linkType, l.handle)
}

func (l *LogicalLink) Handle() uint16                  { return l.handle }
func (l *LogicalLink) LinkType() hci.LinkType          { return l.linkType }
func (l *LogicalLink) Role() uint8                     { return l.role }
func (l *LogicalLink) Security() sm.SecurityProperties { return l.security }

// RemoteFeatures returns the peer's extended features, valid once the
// information exchange has finished.
func (l *LogicalLink) RemoteFeatures() (ExtendedFeatures, bool) {
	return l.remoteFeatures, l.infoDone
}

func (l *LogicalLink) serveBrEdrSignaling() {
	l.sig.serveRequest(SignalConnectionRequest, l.handleConnectionRequest)
	l.sig.serveRequest(SignalConfigurationRequest, l.handleConfigurationRequest)
	l.sig.serveRequest(SignalDisconnectRequest, l.handleDisconnectRequest)
	l.sig.serveRequest(SignalInformationRequest, l.handleInformationRequest)
}

// start begins the information exchange of a BR/EDR link [Vol 3, Part A, 4.10].
// Dynamic channel opens wait until it finishes.
func (l *LogicalLink) start() {
	if l.linkType == hci.LinkTypeLE {
		return
	}
	ok := l.sig.sendRequest(&InformationRequest{InfoType: InfoExtendedFeatures}, func(status responseStatus, payload []byte) bool {
		var rsp InformationResponse
		if status != responseSuccess || rsp.Unmarshal(payload) != nil ||
			rsp.InfoType != InfoExtendedFeatures || rsp.Result != InfoSuccess || len(rsp.Data) < 4 {
			l.Debugf("extended features request: %v", status)
			l.finishInfoExchange()
			return false
		}
		l.remoteFeatures = ExtendedFeatures(binary.LittleEndian.Uint32(rsp.Data))
		if l.remoteFeatures&FeatureFixedChannels == 0 {
			l.finishInfoExchange()
			return false
		}
		l.requestFixedChannels()
		return false
	})
	if !ok {
		l.finishInfoExchange()
	}
}

func (l *LogicalLink) requestFixedChannels() {
	ok := l.sig.sendRequest(&InformationRequest{InfoType: InfoFixedChannels}, func(status responseStatus, payload []byte) bool {
		var rsp InformationResponse
		if status == responseSuccess && rsp.Unmarshal(payload) == nil &&
			rsp.InfoType == InfoFixedChannels && rsp.Result == InfoSuccess && len(rsp.Data) >= 8 {
			l.remoteFixed = FixedChannelsSupported(binary.LittleEndian.Uint64(rsp.Data))
		}
		l.finishInfoExchange()
		return false
	})
	if !ok {
		l.finishInfoExchange()
	}
}

func (l *LogicalLink) finishInfoExchange() {
	if l.infoDone || l.closed {
		return
	}
	l.infoDone = true
	l.Debugf("remote features 0x%08x fixed channels 0x%016x", uint32(l.remoteFeatures), uint64(l.remoteFixed))

	opens := l.pendingOpens
	l.pendingOpens = nil
	for _, o := range opens {
		l.openOutbound(o.psm, o.params, o.cb)
	}
}

func (l *LogicalLink) handleInformationRequest(id CommandID, payload []byte) {
	var req InformationRequest
	if err := req.Unmarshal(payload); err != nil {
		l.sig.sendReject(id, RejectNotUnderstood, nil)
		return
	}

	rsp := &InformationResponse{InfoType: req.InfoType, Result: InfoSuccess}
	switch req.InfoType {
	case InfoExtendedFeatures:
		rsp.Data = make([]byte, 4)
		binary.LittleEndian.PutUint32(rsp.Data, uint32(localFeatures))
	case InfoFixedChannels:
		rsp.Data = make([]byte, 8)
		binary.LittleEndian.PutUint64(rsp.Data, uint64(localFixedChannels))
	default:
		rsp.Result = InfoNotSupported
	}
	l.sig.sendResponse(id, rsp)
}

// receive handles one inbound ACL packet.
func (l *LogicalLink) receive(p hci.ACLPacket) {
	if l.closed {
		return
	}
	pdu, ok, err := l.recombiner.ConsumeFragment(p)
	if err != nil {
		l.Warnf("recombine: %v", err)
	}
	if !ok {
		return
	}

	cid := pdu.ChannelID()
	if cid == l.sig.cid {
		l.sig.handleFrame(pdu.Payload())
		return
	}

	st, ok := l.channels[cid]
	if !ok {
		l.Debugf("dropping %d byte frame for unknown cid %v", pdu.Length(), cid)
		return
	}

	payload := pdu.Payload()
	if st.ch.info.FCS == FCS16 {
		if len(payload) < FCSSize {
			l.Warnf("cid %v: frame shorter than fcs", cid)
			return
		}
		frame := pdu.Bytes()
		n := len(frame) - FCSSize
		want := FrameCheckSequence(binary.LittleEndian.Uint16(frame[n:]))
		if got := ComputeFCS(frame[:n], 0); got != want {
			l.Debugf("cid %v: fcs mismatch 0x%04x != 0x%04x", cid, uint16(got), uint16(want))
			return
		}
		payload = payload[:len(payload)-FCSSize]
	}
	st.engine.receive(payload)
}

func (l *LogicalLink) sendSignaling(b []byte) {
	l.sendFrame(l.sig.cid, b, NoFCS, false, hci.PriorityHigh)
}

func (l *LogicalLink) sendFrame(cid ChannelID, payload []byte, fcs FCSOption, flushable bool, pri hci.Priority) bool {
	if l.closed {
		return false
	}
	pdu, err := l.fragmenter.BuildFrame(cid, payload, fcs, flushable)
	if err != nil {
		l.Errorf("build frame for cid %v: %v", cid, err)
		return false
	}
	return l.acl.SendPackets(l.handle, pdu.Fragments(), pri)
}

// newChannel registers an open channel and its engine.
func (l *LogicalLink) newChannel(id, remoteID ChannelID, info ChannelInfo, ep engineParams) *Channel {
	ch := &Channel{link: l, id: id, remoteID: remoteID, info: info}
	st := &channelState{ch: ch}
	log := l.ChildLogger(map[string]interface{}{"lcid": id.String(), "rcid": remoteID.String()})

	flushable := l.linkType != hci.LinkTypeLE && info.FlushTimeout != InfiniteFlushTimeout
	sendPDU := func(b []byte) bool {
		return l.sendFrame(remoteID, b, info.FCS, flushable, hci.PriorityLow)
	}
	onError := func() {
		l.d.Post(func() { l.channelError(id, ch) })
	}

	switch info.Mode {
	case ModeEnhancedRetransmission:
		st.engine = newERTMEngine(l.d, info, ep.rxWindow, ep.rto, ep.monitor, st.deliver, sendPDU, onError, log)
	case ModeLECreditBasedFlowCtrl:
		sendCredits := func(n uint16) {
			l.sig.sendIndication(&LEFlowControlCredit{CID: uint16(id), Credits: n})
		}
		st.engine = newCreditEngine(info, ep.rxMPS, ep.txCredits, ep.rxCredits, st.deliver, sendPDU, sendCredits, onError, log)
	default:
		st.engine = newBasicEngine(info, st.deliver, sendPDU, log)
	}

	l.channels[id] = st
	l.Infof("channel %v -> %v open, %v mtu rx %d tx %d", id, remoteID, info.Mode, info.MaxRxSDUSize, info.MaxTxSDUSize)
	return ch
}

// openFixedChannel returns the channel for a fixed cid, or nil when the cid
// is not available on this link or already open.
func (l *LogicalLink) openFixedChannel(cid ChannelID) *Channel {
	if l.closed {
		return nil
	}
	switch {
	case l.linkType == hci.LinkTypeLE && (cid == ATTChannelID || cid == LESMPChannelID):
	case l.linkType != hci.LinkTypeLE && (cid == ConnectionlessChannelID || cid == SMPChannelID):
	default:
		l.Warnf("fixed channel %v not supported on %v", cid, l.linkType)
		return nil
	}
	if _, ok := l.channels[cid]; ok {
		return nil
	}
	info := BasicModeInfo(MaxBasicFramePayloadSize, MaxBasicFramePayloadSize, 0)
	return l.newChannel(cid, cid, info, engineParams{})
}

func (l *LogicalLink) isFixed(cid ChannelID) bool {
	return cid < FirstDynamicChannelID
}

// allocChannelID returns a free dynamic channel id, or InvalidChannelID.
func (l *LogicalLink) allocChannelID() ChannelID {
	last := LastACLDynamicChannelID
	if l.linkType == hci.LinkTypeLE {
		last = LastLEDynamicChannelID
	}
	if l.cfg.randomIDs {
		n := int(last-FirstDynamicChannelID) + 1
		for i := 0; i < 16; i++ {
			cid := FirstDynamicChannelID + ChannelID(l.rand.Intn(n))
			if !l.channelIDInUse(cid) {
				return cid
			}
		}
	}
	for cid := FirstDynamicChannelID; ; cid++ {
		if !l.channelIDInUse(cid) {
			return cid
		}
		if cid == last {
			return InvalidChannelID
		}
	}
}

func (l *LogicalLink) channelIDInUse(cid ChannelID) bool {
	if _, ok := l.channels[cid]; ok {
		return true
	}
	if _, ok := l.dynamic[cid]; ok {
		return true
	}
	if _, ok := l.leOpens[cid]; ok {
		return true
	}
	return l.disconnecting[cid]
}

func (l *LogicalLink) remoteIDInUse(rid ChannelID) bool {
	for _, st := range l.channels {
		if st.ch.remoteID == rid && !l.isFixed(st.ch.id) {
			return true
		}
	}
	for _, dc := range l.dynamic {
		if dc.remoteID == rid {
			return true
		}
	}
	return false
}

func (l *LogicalLink) channelByRemoteID(rid ChannelID) *channelState {
	for _, st := range l.channels {
		if st.ch.remoteID == rid && !l.isFixed(st.ch.id) {
			return st
		}
	}
	return nil
}

// closeChannel removes an open channel. notify runs the user's close callback.
func (l *LogicalLink) closeChannel(id ChannelID, notify bool) {
	st, ok := l.channels[id]
	if !ok {
		return
	}
	delete(l.channels, id)
	st.engine.close()
	st.buffered = nil
	closed := st.closed
	st.rx, st.closed = nil, nil
	l.Infof("channel %v closed", id)
	if notify && closed != nil {
		closed()
	}
}

// deactivateChannel runs on behalf of Channel.Deactivate.
func (l *LogicalLink) deactivateChannel(id ChannelID, ch *Channel) {
	st, ok := l.channels[id]
	if !ok || st.ch != ch {
		return
	}
	l.closeChannel(id, false)
	if !l.isFixed(id) {
		l.sendDisconnect(id, ch.remoteID)
	}
}

// channelError closes a channel whose engine hit an unrecoverable error.
func (l *LogicalLink) channelError(id ChannelID, ch *Channel) {
	st, ok := l.channels[id]
	if !ok || st.ch != ch {
		return
	}
	l.Warnf("channel %v failed", id)
	l.closeChannel(id, true)
	if !l.isFixed(id) {
		l.sendDisconnect(id, ch.remoteID)
	}
}

// sendDisconnect asks the peer to close a channel. The local id stays
// reserved until the peer answers or the request times out.
func (l *LogicalLink) sendDisconnect(id, remoteID ChannelID) {
	l.disconnecting[id] = true
	ok := l.sig.sendRequest(&DisconnectRequest{DestinationCID: uint16(remoteID), SourceCID: uint16(id)}, func(status responseStatus, payload []byte) bool {
		if status != responseSuccess {
			l.Debugf("disconnect %v: %v", id, status)
		}
		delete(l.disconnecting, id)
		return false
	})
	if !ok {
		delete(l.disconnecting, id)
	}
}

func (l *LogicalLink) handleDisconnectRequest(id CommandID, payload []byte) {
	var req DisconnectRequest
	if err := req.Unmarshal(payload); err != nil {
		l.sig.sendReject(id, RejectNotUnderstood, nil)
		return
	}
	lid, rid := ChannelID(req.DestinationCID), ChannelID(req.SourceCID)
	rsp := &DisconnectResponse{DestinationCID: req.DestinationCID, SourceCID: req.SourceCID}

	if st, ok := l.channels[lid]; ok && !l.isFixed(lid) && st.ch.remoteID == rid {
		l.sig.sendResponse(id, rsp)
		l.closeChannel(lid, true)
		return
	}
	if dc, ok := l.dynamic[lid]; ok && dc.remoteID == rid {
		l.sig.sendResponse(id, rsp)
		l.failDynamic(dc, false)
		return
	}
	if l.disconnecting[lid] {
		// both sides closing at once
		l.sig.sendResponse(id, rsp)
		return
	}
	l.sig.rejectInvalidCID(id, lid, rid)
}

// AssignSecurity records the link's current security properties.
func (l *LogicalLink) AssignSecurity(p sm.SecurityProperties) {
	l.Debugf("security %v", p)
	l.security = p
}

func (l *LogicalLink) upgradeSecurity(level sm.SecurityLevel, cb func(error)) {
	done := func(err error) { l.d.Post(func() { cb(err) }) }
	if l.closed {
		done(errors.Wrap(bthost.ErrLinkDisconnected, "upgrade security"))
		return
	}
	if l.security.Level >= level {
		done(nil)
		return
	}
	if l.securityUpgrade == nil {
		done(errors.Wrap(bthost.ErrNotSupported, "no security upgrade handler"))
		return
	}
	l.securityUpgrade(l.handle, level, done)
}

func (l *LogicalLink) requestAclPriority(pri hci.AclPriority, cb func(error)) {
	if l.closed {
		l.d.Post(func() { cb(errors.Wrap(bthost.ErrLinkDisconnected, "acl priority")) })
		return
	}
	l.acl.RequestAclPriority(l.handle, pri, cb)
}

func (l *LogicalLink) signalLinkError() {
	l.Warnf("link error signaled")
	if l.linkError != nil {
		l.linkError()
	}
}

// close tears down every channel and fails every pending open.
func (l *LogicalLink) close() {
	if l.closed {
		return
	}
	l.sig.close()

	var closed []func()
	for id, st := range l.channels {
		st.engine.close()
		if st.closed != nil {
			closed = append(closed, st.closed)
		}
		st.rx, st.closed, st.buffered = nil, nil, nil
		delete(l.channels, id)
	}

	var failed []ChannelCallback
	for id, dc := range l.dynamic {
		if dc.outbound && dc.cb != nil {
			failed = append(failed, dc.cb)
		}
		delete(l.dynamic, id)
	}
	for id, cb := range l.leOpens {
		failed = append(failed, cb)
		delete(l.leOpens, id)
	}
	for _, o := range l.pendingOpens {
		failed = append(failed, o.cb)
	}
	l.pendingOpens = nil
	l.closed = true

	for _, fn := range closed {
		fn()
	}
	for _, cb := range failed {
		cb(nil)
	}
}
