package hci

// HCI Packet types
const (
	PktTypeCommand uint8 = 0x01
	PktTypeACLData uint8 = 0x02
	PktTypeSCOData uint8 = 0x03
	PktTypeEvent   uint8 = 0x04
	PktTypeVendor  uint8 = 0xFF
)

// Packet boundary flags of HCI ACL Data Packet [Vol 2, Part E, 5.4.2].
const (
	PbfHostToControllerStart = 0x00 // Start of a non-automatically-flushable from host to controller.
	PbfContinuing            = 0x01 // Continuing fragment.
	PbfFlushableStart        = 0x02 // Start of an automatically flushable PDU.
	pbfCompleteL2CAPPDU      = 0x03 // A automatically flushable complete PDU. (Not used in LE-U).
)

const (
	RoleMaster = 0x00
	RoleSlave  = 0x01
)

// LinkType identifies the logical transport of a connection handle.
type LinkType uint8

const (
	LinkTypeSCO  LinkType = 0x00
	LinkTypeACL  LinkType = 0x01
	LinkTypeESCO LinkType = 0x02
	// LinkTypeLE is host defined; the controller reports LE links through LE meta events.
	LinkTypeLE LinkType = 0x80
)

func (t LinkType) String() string {
	switch t {
	case LinkTypeSCO:
		return "SCO"
	case LinkTypeACL:
		return "ACL"
	case LinkTypeESCO:
		return "eSCO"
	case LinkTypeLE:
		return "LE"
	default:
		return "unknown"
	}
}

// LinkKeyType as reported by Link Key Notification [Vol 2, Part E, 7.7.24].
type LinkKeyType uint8

const (
	LinkKeyCombination                    LinkKeyType = 0x00
	LinkKeyDebugCombination               LinkKeyType = 0x03
	LinkKeyUnauthenticatedCombinationP192 LinkKeyType = 0x04
	LinkKeyAuthenticatedCombinationP192   LinkKeyType = 0x05
	LinkKeyChangedCombination             LinkKeyType = 0x06
	LinkKeyUnauthenticatedCombinationP256 LinkKeyType = 0x07
	LinkKeyAuthenticatedCombinationP256   LinkKeyType = 0x08
)

// Priority orders outbound ACL PDUs waiting for controller buffers.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityHigh
)

// AclPriority is a vendor hint for the controller scheduler.
type AclPriority int

const (
	AclPriorityNormal AclPriority = iota
	AclPrioritySource
	AclPrioritySink
)

func (p AclPriority) String() string {
	switch p {
	case AclPrioritySource:
		return "source"
	case AclPrioritySink:
		return "sink"
	default:
		return "normal"
	}
}

// Scan enable values for Write Scan Enable [Vol 4, Part E, 7.3.18].
const (
	ScanDisabled    = 0x00
	ScanInquiry     = 0x01
	ScanPage        = 0x02
	ScanInquiryPage = 0x03
)

// InvalidConnectionHandle is never assigned by a controller.
const InvalidConnectionHandle uint16 = 0xFFFF
