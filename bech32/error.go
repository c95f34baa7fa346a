package bech32

// ErrorKind identifies a kind of error. It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrInvalidLength is returned when a string is longer than 90
	// characters or an encoding would produce one.
	ErrInvalidLength = ErrorKind("ErrInvalidLength")

	// ErrInvalidCharacter is returned when a string contains a character
	// outside US-ASCII 33..126, or a data character outside the charset.
	ErrInvalidCharacter = ErrorKind("ErrInvalidCharacter")

	// ErrMixedCase is returned when a string mixes upper and lower case.
	ErrMixedCase = ErrorKind("ErrMixedCase")

	// ErrInvalidSeparatorPosition is returned when the '1' separator is
	// missing or leaves fewer than six characters for the checksum.
	ErrInvalidSeparatorPosition = ErrorKind("ErrInvalidSeparatorPosition")

	// ErrHRPLengthOutOfRange is returned when the human-readable part is
	// empty or longer than 83 characters.
	ErrHRPLengthOutOfRange = ErrorKind("ErrHRPLengthOutOfRange")

	// ErrChecksumMismatch is returned when the checksum matches neither the
	// bech32 nor the bech32m constant, or when it matches the constant that
	// is not allowed for the decoded witness version.
	ErrChecksumMismatch = ErrorKind("ErrChecksumMismatch")

	// ErrInvalidWitnessVersion is returned for witness versions above 16.
	ErrInvalidWitnessVersion = ErrorKind("ErrInvalidWitnessVersion")

	// ErrInvalidProgramLength is returned when a witness program is outside
	// 2..40 bytes, or is not 20 or 32 bytes at version 0.
	ErrInvalidProgramLength = ErrorKind("ErrInvalidProgramLength")

	// ErrNonCanonicalPadding is returned when regrouping 5-bit values into
	// bytes leaves more than four padding bits or non-zero padding bits.
	ErrNonCanonicalPadding = ErrorKind("ErrNonCanonicalPadding")

	// ErrInvalidDataValue is returned when a value passed for encoding does
	// not fit in the source group size.
	ErrInvalidDataValue = ErrorKind("ErrInvalidDataValue")

	// ErrHRPMismatch is returned when a segwit address carries a different
	// human-readable part than the one expected by the caller.
	ErrHRPMismatch = ErrorKind("ErrHRPMismatch")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error related to bech32 encoding or decoding. It has
// full support for errors.Is and errors.As, so the caller can ascertain the
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
