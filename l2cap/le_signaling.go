package l2cap

import (
	"github.com/rigado/bthost/linux/hci"
)

func (l *LogicalLink) serveLESignaling() {
	l.sig.serveRequest(SignalConnectionParameterUpdateRequest, l.handleConnParamUpdateRequest)
	l.sig.serveRequest(SignalLECreditBasedConnectionRequest, l.handleLECreditConnectionRequest)
	l.sig.serveRequest(SignalLEFlowControlCredit, l.handleLEFlowControlCredit)
	l.sig.serveRequest(SignalDisconnectRequest, l.handleDisconnectRequest)
}

// handleConnParamUpdateRequest answers a peripheral's request for new
// connection parameters [Vol 3, Part A, 4.20]. Only the central may accept.
func (l *LogicalLink) handleConnParamUpdateRequest(id CommandID, payload []byte) {
	if l.role != hci.RoleMaster {
		l.sig.sendReject(id, RejectNotUnderstood, nil)
		return
	}
	var req ConnectionParameterUpdateRequest
	if err := req.Unmarshal(payload); err != nil {
		l.sig.sendReject(id, RejectNotUnderstood, nil)
		return
	}
	p := ConnectionParameters{
		IntervalMin:       req.IntervalMin,
		IntervalMax:       req.IntervalMax,
		SlaveLatency:      req.SlaveLatency,
		TimeoutMultiplier: req.TimeoutMultiplier,
	}

	accept := p.Valid()
	if accept && l.cfg.connParamResponder != nil {
		accept = l.cfg.connParamResponder(l.handle, p)
	}

	rsp := &ConnectionParameterUpdateResponse{Result: ConnParamsAccepted}
	if !accept {
		l.Infof("rejecting connection parameters %+v", p)
		rsp.Result = ConnParamsRejected
	}
	l.sig.sendResponse(id, rsp)

	if accept && l.connParamUpdate != nil {
		l.connParamUpdate(p)
	}
}

// requestConnParamUpdate asks the central for new parameters. cb reports
// whether they were accepted.
func (l *LogicalLink) requestConnParamUpdate(p ConnectionParameters, cb func(accepted bool)) {
	if l.closed || l.linkType != hci.LinkTypeLE || l.role == hci.RoleMaster {
		l.d.Post(func() { cb(false) })
		return
	}
	req := &ConnectionParameterUpdateRequest{
		IntervalMin:       p.IntervalMin,
		IntervalMax:       p.IntervalMax,
		SlaveLatency:      p.SlaveLatency,
		TimeoutMultiplier: p.TimeoutMultiplier,
	}
	ok := l.sig.sendRequest(req, func(status responseStatus, payload []byte) bool {
		var rsp ConnectionParameterUpdateResponse
		if status != responseSuccess || rsp.Unmarshal(payload) != nil {
			l.Debugf("connection parameter update: %v", status)
			cb(false)
			return false
		}
		cb(rsp.Result == ConnParamsAccepted)
		return false
	})
	if !ok {
		l.d.Post(func() { cb(false) })
	}
}

func leCreditMPS(mtu uint16) uint16 {
	if mtu < DefaultLEMPS {
		return mtu
	}
	return DefaultLEMPS
}

// openLECreditChannel connects an LE credit based channel [Vol 3, Part A, 4.22].
func (l *LogicalLink) openLECreditChannel(psm PSM, params ChannelParameters, cb ChannelCallback) {
	if l.closed || l.linkType != hci.LinkTypeLE {
		l.d.Post(func() { cb(nil) })
		return
	}
	lid := l.allocChannelID()
	if lid == InvalidChannelID {
		l.d.Post(func() { cb(nil) })
		return
	}

	mtu := params.maxRxSDUSize()
	if mtu < minLECreditMTU {
		mtu = minLECreditMTU
	}
	mps := leCreditMPS(mtu)
	l.leOpens[lid] = cb

	req := &LECreditBasedConnectionRequest{
		LEPSM:          uint16(psm),
		SourceCID:      uint16(lid),
		MTU:            mtu,
		MPS:            mps,
		InitialCredits: DefaultLEInitialCredits,
	}
	ok := l.sig.sendRequest(req, func(status responseStatus, payload []byte) bool {
		if _, pending := l.leOpens[lid]; !pending {
			return false
		}
		delete(l.leOpens, lid)

		var rsp LECreditBasedConnectionResponse
		if status != responseSuccess || rsp.Unmarshal(payload) != nil {
			l.Debugf("le credit connection psm %v: %v", psm, status)
			cb(nil)
			return false
		}
		rid := ChannelID(rsp.DestinationCID)
		switch {
		case rsp.Result != LECreditSuccess:
			l.Infof("le credit connection psm %v refused, result %d", psm, rsp.Result)
			cb(nil)
			return false
		case rid < FirstDynamicChannelID || rid > LastLEDynamicChannelID || l.remoteIDInUse(rid),
			rsp.MTU < minLECreditMTU, rsp.MPS < minLECreditMTU:
			l.Warnf("le credit connection response invalid: %+v", rsp)
			l.sendDisconnect(lid, rid)
			cb(nil)
			return false
		}

		info := ChannelInfo{
			Mode:                ModeLECreditBasedFlowCtrl,
			MaxRxSDUSize:        mtu,
			MaxTxSDUSize:        rsp.MTU,
			MaxTxPDUPayloadSize: rsp.MPS,
			PSM:                 psm,
			FlushTimeout:        InfiniteFlushTimeout,
		}
		ep := engineParams{txCredits: rsp.InitialCredits, rxCredits: DefaultLEInitialCredits, rxMPS: int(mps)}
		cb(l.newChannel(lid, rid, info, ep))
		return false
	})
	if !ok {
		delete(l.leOpens, lid)
		l.d.Post(func() { cb(nil) })
	}
}

func (l *LogicalLink) handleLECreditConnectionRequest(id CommandID, payload []byte) {
	var req LECreditBasedConnectionRequest
	if err := req.Unmarshal(payload); err != nil {
		l.sig.sendReject(id, RejectNotUnderstood, nil)
		return
	}
	psm, rid := PSM(req.LEPSM), ChannelID(req.SourceCID)
	rsp := &LECreditBasedConnectionResponse{}

	svc, ok := l.services(psm)
	switch {
	case !ok:
		rsp.Result = LECreditPSMNotSupported
	case rid < FirstDynamicChannelID || rid > LastLEDynamicChannelID:
		rsp.Result = LECreditInvalidSourceCID
	case l.remoteIDInUse(rid):
		rsp.Result = LECreditSourceCIDAlreadyAllocated
	case req.MTU < minLECreditMTU || req.MPS < minLECreditMTU:
		rsp.Result = LECreditUnacceptableParameters
	}
	if rsp.Result != LECreditSuccess {
		l.Infof("rejecting le credit connection psm %v, result %d", psm, rsp.Result)
		l.sig.sendResponse(id, rsp)
		return
	}

	lid := l.allocChannelID()
	if lid == InvalidChannelID {
		rsp.Result = LECreditNoResources
		l.sig.sendResponse(id, rsp)
		return
	}

	mtu := svc.Params.maxRxSDUSize()
	if mtu < minLECreditMTU {
		mtu = minLECreditMTU
	}
	mps := leCreditMPS(mtu)
	rsp.DestinationCID = uint16(lid)
	rsp.MTU = mtu
	rsp.MPS = mps
	rsp.InitialCredits = DefaultLEInitialCredits
	rsp.Result = LECreditSuccess
	l.sig.sendResponse(id, rsp)

	info := ChannelInfo{
		Mode:                ModeLECreditBasedFlowCtrl,
		MaxRxSDUSize:        mtu,
		MaxTxSDUSize:        req.MTU,
		MaxTxPDUPayloadSize: req.MPS,
		PSM:                 psm,
		FlushTimeout:        InfiniteFlushTimeout,
	}
	ep := engineParams{txCredits: req.InitialCredits, rxCredits: DefaultLEInitialCredits, rxMPS: int(mps)}
	ch := l.newChannel(lid, rid, info, ep)
	if svc.Callback != nil {
		svc.Callback(ch)
	}
}

func (l *LogicalLink) handleLEFlowControlCredit(id CommandID, payload []byte) {
	var req LEFlowControlCredit
	if err := req.Unmarshal(payload); err != nil {
		l.sig.sendReject(id, RejectNotUnderstood, nil)
		return
	}
	st := l.channelByRemoteID(ChannelID(req.CID))
	if st == nil {
		l.Debugf("credits for unknown cid %v", ChannelID(req.CID))
		return
	}
	ce, ok := st.engine.(*creditEngine)
	if !ok {
		return
	}
	if err := ce.addCredits(req.Credits); err != nil {
		l.Warnf("cid %v: %v", st.ch.id, err)
		l.channelError(st.ch.id, st.ch)
	}
}
