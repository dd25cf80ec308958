package l2cap

import (
	"time"
)

const (
	// maxConfigAttempts bounds configuration requests answered with
	// unacceptable parameters.
	maxConfigAttempts = 3

	// defaultERTMMPS is the largest I-frame payload requested for
	// enhanced retransmission channels.
	defaultERTMMPS = 1010
)

// dynamicChannel is a BR/EDR channel being connected and configured
// [Vol 3, Part A, 6.1]. Both configuration directions proceed independently;
// the channel opens when both have succeeded.
type dynamicChannel struct {
	psm      PSM
	localID  ChannelID
	remoteID ChannelID
	params   ChannelParameters
	mode     ChannelMode
	outbound bool
	cb       ChannelCallback

	localOpts        ConfigOptions
	localConfigDone  bool
	localAttempts    int
	responseRFC      *RFCOption
	remoteOpts       ConfigOptions
	remoteConfigDone bool
	remoteAccum      ConfigOptions

	failed bool
}

// openOutbound connects psm, or queues the open until the information
// exchange is over.
func (l *LogicalLink) openOutbound(psm PSM, params ChannelParameters, cb ChannelCallback) {
	if l.closed {
		l.d.Post(func() { cb(nil) })
		return
	}
	if !l.infoDone {
		l.Debugf("queueing open of psm %v until link setup completes", psm)
		l.pendingOpens = append(l.pendingOpens, pendingOpen{psm: psm, params: params, cb: cb})
		return
	}

	lid := l.allocChannelID()
	if lid == InvalidChannelID {
		l.Warnf("no channel id for psm %v", psm)
		l.d.Post(func() { cb(nil) })
		return
	}

	dc := &dynamicChannel{
		psm:      psm,
		localID:  lid,
		params:   params,
		mode:     l.negotiableMode(params),
		outbound: true,
		cb:       cb,
	}
	l.dynamic[lid] = dc

	ok := l.sig.sendRequest(&ConnectionRequest{PSM: uint16(psm), SourceCID: uint16(lid)}, func(status responseStatus, payload []byte) bool {
		if l.dynamic[lid] != dc {
			return false
		}
		var rsp ConnectionResponse
		if status != responseSuccess || rsp.Unmarshal(payload) != nil {
			l.Debugf("connection request psm %v: %v", psm, status)
			l.failDynamic(dc, false)
			return false
		}
		switch rsp.Result {
		case ConnectionPending:
			l.Debugf("connection request psm %v pending, status %d", psm, rsp.Status)
			return true
		case ConnectionSuccess:
		default:
			l.Infof("connection request psm %v refused, result %d", psm, rsp.Result)
			l.failDynamic(dc, false)
			return false
		}

		rid := ChannelID(rsp.DestinationCID)
		if ChannelID(rsp.SourceCID) != lid || rid < FirstDynamicChannelID || l.remoteIDInUse(rid) {
			l.Warnf("connection response with bad cids %v/%v", ChannelID(rsp.SourceCID), rid)
			l.failDynamic(dc, false)
			return false
		}
		dc.remoteID = rid
		l.sendConfigRequest(dc)
		return false
	})
	if !ok {
		l.failDynamic(dc, false)
	}
}

// negotiableMode downgrades to basic mode when the peer lacks ERTM.
func (l *LogicalLink) negotiableMode(params ChannelParameters) ChannelMode {
	m := params.mode()
	if m == ModeEnhancedRetransmission && l.remoteFeatures&FeatureEnhancedRetransmission == 0 {
		l.Debugf("peer lacks ertm, using basic mode")
		return ModeBasic
	}
	if m != ModeEnhancedRetransmission {
		return ModeBasic
	}
	return m
}

func (l *LogicalLink) handleConnectionRequest(id CommandID, payload []byte) {
	var req ConnectionRequest
	if err := req.Unmarshal(payload); err != nil {
		l.sig.sendReject(id, RejectNotUnderstood, nil)
		return
	}
	psm, rid := PSM(req.PSM), ChannelID(req.SourceCID)
	rsp := &ConnectionResponse{SourceCID: req.SourceCID}

	svc, ok := l.services(psm)
	switch {
	case !ok:
		l.Infof("rejecting connection to unregistered psm %v", psm)
		rsp.Result = ConnectionPSMNotSupported
	case rid < FirstDynamicChannelID:
		rsp.Result = ConnectionInvalidSourceCID
	case l.remoteIDInUse(rid):
		rsp.Result = ConnectionSourceCIDAlreadyAllocated
	}
	if rsp.Result != ConnectionSuccess {
		l.sig.sendResponse(id, rsp)
		return
	}

	lid := l.allocChannelID()
	if lid == InvalidChannelID {
		rsp.Result = ConnectionNoResources
		l.sig.sendResponse(id, rsp)
		return
	}

	dc := &dynamicChannel{
		psm:      psm,
		localID:  lid,
		remoteID: rid,
		params:   svc.Params,
		mode:     l.negotiableMode(svc.Params),
		cb:       svc.Callback,
	}
	l.dynamic[lid] = dc

	rsp.DestinationCID = uint16(lid)
	rsp.Result = ConnectionSuccess
	rsp.Status = ConnectionStatusNoInfo
	l.sig.sendResponse(id, rsp)
	l.sendConfigRequest(dc)
}

func (l *LogicalLink) sendConfigRequest(dc *dynamicChannel) {
	if dc.localOpts.MTU == nil {
		dc.localOpts.MTU = uint16Ptr(dc.params.maxRxSDUSize())
	}
	if ft := dc.params.flushTimeout(); ft != InfiniteFlushTimeout {
		ms := ft / time.Millisecond
		if ms < 1 {
			ms = 1
		}
		dc.localOpts.FlushTimeout = uint16Ptr(uint16(ms))
	}
	dc.localOpts.RFC = nil
	if dc.mode == ModeEnhancedRetransmission {
		mps := *dc.localOpts.MTU
		if mps > defaultERTMMPS {
			mps = defaultERTMMPS
		}
		dc.localOpts.RFC = &RFCOption{
			Mode:         ModeEnhancedRetransmission,
			TxWindowSize: DefaultTxWindow,
			MaxTransmit:  DefaultMaxTransmit,
			MaxPDUSize:   mps,
		}
	}
	dc.localAttempts++

	lid := dc.localID
	req := &ConfigurationRequest{DestinationCID: uint16(dc.remoteID), Options: dc.localOpts.Encode()}
	ok := l.sig.sendRequest(req, func(status responseStatus, payload []byte) bool {
		if l.dynamic[lid] != dc {
			return false
		}
		var rsp ConfigurationResponse
		if status != responseSuccess || rsp.Unmarshal(payload) != nil || ChannelID(rsp.SourceCID) != lid {
			l.Debugf("configuration request %v: %v", lid, status)
			l.failDynamic(dc, true)
			return false
		}
		opts, err := DecodeConfigOptions(rsp.Options)
		if err != nil {
			l.Warnf("configuration response options: %v", err)
			l.failDynamic(dc, true)
			return false
		}

		switch rsp.Result {
		case ConfigurationSuccess:
			if rsp.Flags&configContinuation != 0 {
				return true
			}
			if opts.RFC != nil && opts.RFC.Mode == ModeEnhancedRetransmission {
				dc.responseRFC = opts.RFC
			}
			dc.localConfigDone = true
			l.tryCompleteDynamic(dc)
		case ConfigurationPending:
			return true
		case ConfigurationUnacceptableParameters:
			if dc.localAttempts >= maxConfigAttempts || !l.adjustLocalConfig(dc, opts) {
				l.Infof("configuration of %v unacceptable to peer: %v", lid, opts)
				l.failDynamic(dc, true)
				return false
			}
			l.sendConfigRequest(dc)
		default:
			l.Infof("configuration of %v refused, result %d", lid, rsp.Result)
			l.failDynamic(dc, true)
		}
		return false
	})
	if !ok {
		l.failDynamic(dc, true)
	}
}

// adjustLocalConfig applies the values a peer proposed in an unacceptable
// parameters response. It reports whether another request is worthwhile.
func (l *LogicalLink) adjustLocalConfig(dc *dynamicChannel, proposed ConfigOptions) bool {
	if proposed.MTU != nil {
		if *proposed.MTU < MinACLMTU {
			return false
		}
		dc.localOpts.MTU = uint16Ptr(*proposed.MTU)
	}
	if proposed.RFC != nil && proposed.RFC.Mode != dc.mode {
		if proposed.RFC.Mode != ModeBasic {
			return false
		}
		dc.mode = ModeBasic
	}
	return true
}

func (l *LogicalLink) handleConfigurationRequest(id CommandID, payload []byte) {
	var req ConfigurationRequest
	if err := req.Unmarshal(payload); err != nil {
		l.sig.sendReject(id, RejectNotUnderstood, nil)
		return
	}
	lid := ChannelID(req.DestinationCID)

	dc, ok := l.dynamic[lid]
	if !ok {
		if st, open := l.channels[lid]; open && !l.isFixed(lid) {
			// reconfiguration of an open channel is not supported
			l.sig.sendResponse(id, &ConfigurationResponse{SourceCID: uint16(st.ch.remoteID), Result: ConfigurationRejected})
			return
		}
		l.sig.rejectInvalidCID(id, lid, InvalidChannelID)
		return
	}

	opts, err := DecodeConfigOptions(req.Options)
	if err != nil {
		l.Warnf("configuration request options: %v", err)
		l.sig.sendReject(id, RejectNotUnderstood, nil)
		return
	}
	dc.remoteAccum.merge(opts)

	rsp := &ConfigurationResponse{SourceCID: uint16(dc.remoteID)}
	if req.Flags&configContinuation != 0 {
		rsp.Flags = configContinuation
		l.sig.sendResponse(id, rsp)
		return
	}
	opts, dc.remoteAccum = dc.remoteAccum, ConfigOptions{}

	if len(opts.Unknown) > 0 {
		rsp.Result = ConfigurationUnknownOptions
		for _, t := range opts.Unknown {
			rsp.Options = append(rsp.Options, t, 0)
		}
		l.sig.sendResponse(id, rsp)
		return
	}

	var fix ConfigOptions
	if opts.MTU != nil && *opts.MTU < MinACLMTU {
		fix.MTU = uint16Ptr(MinACLMTU)
	}
	peerMode := ModeBasic
	if opts.RFC != nil {
		peerMode = opts.RFC.Mode
	}
	if peerMode != dc.mode {
		fix.RFC = l.localRFC(dc)
	}
	if fix.MTU != nil || fix.RFC != nil {
		l.Debugf("configuration of %v unacceptable: %v", lid, opts)
		rsp.Result = ConfigurationUnacceptableParameters
		rsp.Options = fix.Encode()
		l.sig.sendResponse(id, rsp)
		return
	}

	var accepted ConfigOptions
	accepted.MTU = opts.MTU
	if dc.mode == ModeEnhancedRetransmission {
		rfc := *opts.RFC
		rfc.RetransmissionTimeout = uint16(DefaultRetransmissionTimeout / time.Millisecond)
		rfc.MonitorTimeout = uint16(DefaultMonitorTimeout / time.Millisecond)
		accepted.RFC = &rfc
	}
	rsp.Result = ConfigurationSuccess
	rsp.Options = accepted.Encode()
	l.sig.sendResponse(id, rsp)

	dc.remoteOpts = opts
	dc.remoteConfigDone = true
	l.tryCompleteDynamic(dc)
}

func (l *LogicalLink) localRFC(dc *dynamicChannel) *RFCOption {
	if dc.mode != ModeEnhancedRetransmission {
		return &RFCOption{Mode: ModeBasic}
	}
	if dc.localOpts.RFC != nil {
		rfc := *dc.localOpts.RFC
		return &rfc
	}
	return &RFCOption{
		Mode:         ModeEnhancedRetransmission,
		TxWindowSize: DefaultTxWindow,
		MaxTransmit:  DefaultMaxTransmit,
		MaxPDUSize:   defaultERTMMPS,
	}
}

func (l *LogicalLink) tryCompleteDynamic(dc *dynamicChannel) {
	if !dc.localConfigDone || !dc.remoteConfigDone || dc.failed {
		return
	}
	delete(l.dynamic, dc.localID)

	info := ChannelInfo{
		Mode:         dc.mode,
		MaxRxSDUSize: *dc.localOpts.MTU,
		MaxTxSDUSize: DefaultMTU,
		PSM:          dc.psm,
		FlushTimeout: dc.params.flushTimeout(),
	}
	if dc.remoteOpts.MTU != nil {
		info.MaxTxSDUSize = *dc.remoteOpts.MTU
	}

	var ep engineParams
	if dc.mode == ModeEnhancedRetransmission {
		rfc := dc.remoteOpts.RFC
		info.NFramesInTxWindow = rfc.TxWindowSize
		info.MaxTransmissions = rfc.MaxTransmit
		info.MaxTxPDUPayloadSize = rfc.MaxPDUSize
		info.FCS = FCS16
		if dc.localOpts.FCS != nil && *dc.localOpts.FCS == fcsTypeNone &&
			dc.remoteOpts.FCS != nil && *dc.remoteOpts.FCS == fcsTypeNone {
			info.FCS = NoFCS
		}

		ep.rxWindow = DefaultTxWindow
		if r := dc.responseRFC; r != nil {
			ep.rto = time.Duration(r.RetransmissionTimeout) * time.Millisecond
			ep.monitor = time.Duration(r.MonitorTimeout) * time.Millisecond
		}
	}

	ch := l.newChannel(dc.localID, dc.remoteID, info, ep)
	if dc.cb != nil {
		dc.cb(ch)
	}
}

// failDynamic abandons a channel under negotiation. An outbound requester
// receives nil.
func (l *LogicalLink) failDynamic(dc *dynamicChannel, disconnect bool) {
	if dc.failed {
		return
	}
	dc.failed = true
	delete(l.dynamic, dc.localID)

	if disconnect && dc.remoteID != InvalidChannelID {
		l.sendDisconnect(dc.localID, dc.remoteID)
	}
	if dc.outbound && dc.cb != nil {
		dc.cb(nil)
	}
}
