package usecase

import (
	"errors"

	"github.com/bibbank/mt799-service/pkg/swiftmt"
)

var (
	// ErrNoFile is returned for an empty upload.
	ErrNoFile = errors.New("no file uploaded")
	// ErrNotFound is returned when there are no stored messages.
	ErrNotFound = errors.New("no messages found")
)

var rejectionErrors = []error{
	ErrNoFile,
	swiftmt.ErrStructural,
	swiftmt.ErrBlockMissing,
	swiftmt.ErrInsufficientLength,
	swiftmt.ErrUnterminatedSubfield,
}

// IsRejection reports whether err means the input was refused, as opposed to
// an internal fault.
func IsRejection(err error) bool {
	for _, target := range rejectionErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// RejectionMessage renders a client facing message for a rejection. It
// returns "" for errors that are not rejections.
func RejectionMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoFile):
		return "No file uploaded."
	case errors.Is(err, swiftmt.ErrStructural):
		return "Invalid SWIFT MT799 message format."
	case errors.Is(err, swiftmt.ErrBlockMissing):
		block, _ := swiftmt.FailedBlock(err)
		return block.String() + " is missing or invalid."
	case IsRejection(err):
		var be *swiftmt.BlockError
		if errors.As(err, &be) {
			return be.Error() + "."
		}
		return err.Error()
	default:
		return ""
	}
}

// RejectedBlock names the block a rejection failed on, or "" when the error
// is not tied to a block.
func RejectedBlock(err error) string {
	if block, ok := swiftmt.FailedBlock(err); ok {
		return block.String()
	}
	return ""
}

// rejectedBlock is RejectedBlock for logs and metrics, with "none" for no block.
func rejectedBlock(err error) string {
	if block := RejectedBlock(err); block != "" {
		return block
	}
	return "none"
}
