package wallet

// ErrorKind identifies a kind of error. It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrInvalidScalar is returned for a private key scalar that is zero or
	// not below the curve order.
	ErrInvalidScalar = ErrorKind("ErrInvalidScalar")

	// ErrPointAtInfinity is returned when a public key would be the identity
	// element.
	ErrPointAtInfinity = ErrorKind("ErrPointAtInfinity")

	// ErrHexDecode is returned for malformed or wrong-length hex input.
	ErrHexDecode = ErrorKind("ErrHexDecode")

	// ErrInvalidPublicKey is returned for public key bytes that are not a
	// valid SEC encoding of a point on the curve.
	ErrInvalidPublicKey = ErrorKind("ErrInvalidPublicKey")

	// ErrInvalidWIF is returned when a WIF string decodes to the wrong
	// length, version or compression flag.
	ErrInvalidWIF = ErrorKind("ErrInvalidWIF")

	// ErrUnsupportedAddressVariant is returned for an unknown address
	// variant tag.
	ErrUnsupportedAddressVariant = ErrorKind("ErrUnsupportedAddressVariant")

	// ErrUnknownNetwork is returned for a network name with no parameters.
	ErrUnknownNetwork = ErrorKind("ErrUnknownNetwork")

	// ErrInvalidNetwork is returned for network parameters that cannot
	// encode every address variant, such as an over-long HRP.
	ErrInvalidNetwork = ErrorKind("ErrInvalidNetwork")

	// ErrInvalidDescriptor is returned for an output descriptor containing a
	// character outside the descriptor character set.
	ErrInvalidDescriptor = ErrorKind("ErrInvalidDescriptor")

	// ErrUnknownAddress is returned when an address string matches none of
	// the formats of the selected network.
	ErrUnknownAddress = ErrorKind("ErrUnknownAddress")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error related to key handling or address derivation. It
// has full support for errors.Is and errors.As, so the caller can ascertain the
// specific reason for the error by checking the underlying error.
type Error struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// makeError creates an Error given a set of arguments.
func makeError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
