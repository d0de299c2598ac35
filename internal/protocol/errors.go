package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Player action layer.
	ErrBadRequest    = "E_BAD_REQUEST"
	ErrNoFunds       = "E_NO_FUNDS"
	ErrFieldOwned    = "E_FIELD_OWNED"
	ErrFieldUnowned  = "E_FIELD_UNOWNED"
	ErrFieldOccupied = "E_FIELD_OCCUPIED"
	ErrFieldEmpty    = "E_FIELD_EMPTY"
	ErrNotMature     = "E_NOT_MATURE"
	ErrNoItem        = "E_NO_ITEM"
	ErrUnknownField  = "E_UNKNOWN_FIELD"
	ErrUnknownCrop   = "E_UNKNOWN_CROP"
	ErrUnknownItem   = "E_UNKNOWN_ITEM"
	ErrInternal      = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrBadRequest:      {},
	ErrNoFunds:         {},
	ErrFieldOwned:      {},
	ErrFieldUnowned:    {},
	ErrFieldOccupied:   {},
	ErrFieldEmpty:      {},
	ErrNotMature:       {},
	ErrNoItem:          {},
	ErrUnknownField:    {},
	ErrUnknownCrop:     {},
	ErrUnknownItem:     {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
