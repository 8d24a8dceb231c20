package clifford

import "github.com/pkg/errors"

// Error kinds of the algebra. All are raised synchronously at the point of
// detection and carry context via github.com/pkg/errors wrapping, so callers
// may test them with errors.Is. None of them is transient.
var (
	// ErrDimensionMismatch signals that the qubit counts of two operands disagree.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrInvalidOperator signals a malformed Pauli operator,
	// such as a bad label, bit vector or phase.
	ErrInvalidOperator = errors.New("invalid operator")
	// ErrNonSymplecticMap signals a Clifford map whose bit matrix does not
	// preserve the commutation structure.
	ErrNonSymplecticMap = errors.New("non-symplectic map")
	// ErrDependentGenerators signals generator rows violating the tableau
	// invariants, such as non-commuting or linearly dependent stabilizers.
	ErrDependentGenerators = errors.New("dependent generators")
	// ErrIndexOutOfRange signals a qubit index beyond the register size.
	ErrIndexOutOfRange = errors.New("index out of range")
)
