package l2cap

// CommandID correlates a signaling request with its response. Zero is never
// used on the wire.
type CommandID uint8

const InvalidCommandID CommandID = 0x00

// CommandCode is the first octet of a signaling command.
type CommandCode uint8

// Connection Response results [Vol 3, Part A, 4.3].
const (
	ConnectionSuccess                   uint16 = 0x0000
	ConnectionPending                   uint16 = 0x0001
	ConnectionPSMNotSupported           uint16 = 0x0002
	ConnectionSecurityBlock             uint16 = 0x0003
	ConnectionNoResources               uint16 = 0x0004
	ConnectionInvalidSourceCID          uint16 = 0x0006
	ConnectionSourceCIDAlreadyAllocated uint16 = 0x0007
)

// Connection Response status when the result is pending.
const (
	ConnectionStatusNoInfo                uint16 = 0x0000
	ConnectionStatusAuthenticationPending uint16 = 0x0001
	ConnectionStatusAuthorizationPending  uint16 = 0x0002
)

// Configuration Response results [Vol 3, Part A, 4.5].
const (
	ConfigurationSuccess                uint16 = 0x0000
	ConfigurationUnacceptableParameters uint16 = 0x0001
	ConfigurationRejected               uint16 = 0x0002
	ConfigurationUnknownOptions         uint16 = 0x0003
	ConfigurationPending                uint16 = 0x0004
	ConfigurationFlowSpecRejected       uint16 = 0x0005
)

// Configuration Request and Response flags.
const configContinuation uint16 = 0x0001

// Command Reject reasons [Vol 3, Part A, 4.1].
const (
	RejectNotUnderstood        uint16 = 0x0000
	RejectSignalingMTUExceeded uint16 = 0x0001
	RejectInvalidCID           uint16 = 0x0002
)

// Information Request types and Information Response results [Vol 3, Part A, 4.10].
const (
	InfoConnectionlessMTU uint16 = 0x0001
	InfoExtendedFeatures  uint16 = 0x0002
	InfoFixedChannels     uint16 = 0x0003

	InfoSuccess      uint16 = 0x0000
	InfoNotSupported uint16 = 0x0001
)

// ExtendedFeatures is the feature mask of Information Response [Vol 3, Part A, 4.12].
type ExtendedFeatures uint32

const (
	FeatureFlowControl ExtendedFeatures = 1 << iota
	FeatureRetransmission
	FeatureBidirectionalQoS
	FeatureEnhancedRetransmission
	FeatureStreaming
	FeatureFCSOption
	FeatureExtendedFlowSpec
	FeatureFixedChannels
	FeatureExtendedWindowSize
	FeatureUnicastConnectionlessData
)

// FixedChannelsSupported is the fixed channel mask of Information Response;
// bit n is set when channel n is supported.
type FixedChannelsSupported uint64

func (f FixedChannelsSupported) Has(cid ChannelID) bool {
	return cid < 64 && f&(1<<uint(cid)) != 0
}

// LE Credit Based Connection Response results [Vol 3, Part A, 4.23].
const (
	LECreditSuccess                       uint16 = 0x0000
	LECreditPSMNotSupported               uint16 = 0x0002
	LECreditNoResources                   uint16 = 0x0004
	LECreditInsufficientAuthentication    uint16 = 0x0005
	LECreditInsufficientAuthorization     uint16 = 0x0006
	LECreditInsufficientEncryptionKeySize uint16 = 0x0007
	LECreditInsufficientEncryption        uint16 = 0x0008
	LECreditInvalidSourceCID              uint16 = 0x0009
	LECreditSourceCIDAlreadyAllocated     uint16 = 0x000A
	LECreditUnacceptableParameters        uint16 = 0x000B
)

// Connection Parameter Update Response results [Vol 3, Part A, 4.21].
const (
	ConnParamsAccepted uint16 = 0x0000
	ConnParamsRejected uint16 = 0x0001
)

func isResponse(code CommandCode) bool {
	switch code {
	case SignalCommandReject,
		SignalConnectionResponse,
		SignalConfigurationResponse,
		SignalDisconnectResponse,
		SignalEchoResponse,
		SignalInformationResponse,
		SignalConnectionParameterUpdateResponse,
		SignalLECreditBasedConnectionResponse:
		return true
	}
	return false
}
