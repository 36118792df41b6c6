package outcome

import "github.com/gitauditor/scan-action/pkg/domain/shared"

// Exit code categories. Each fatal error class carries a distinct code
// so CI pipelines can tell a timed-out scan from a policy failure.
const (
	ExitOK            = 0
	ExitPolicyFailure = 1
	ExitValidation    = 2
	ExitAuth          = 3
	ExitNotFound      = 4
	ExitNetwork       = 5
	ExitTimeout       = 6
	ExitDataFormat    = 7
	ExitCanceled      = 8
	ExitScanFailed    = 9
)

// ExitCodeFor maps a fatal run error to its exit code category.
func ExitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case shared.IsValidation(err):
		return ExitValidation
	case shared.IsAuthentication(err):
		return ExitAuth
	case shared.IsNotFound(err):
		return ExitNotFound
	case shared.IsNetwork(err):
		return ExitNetwork
	case shared.IsTimeout(err):
		return ExitTimeout
	case shared.IsDataFormat(err):
		return ExitDataFormat
	case shared.IsCanceled(err):
		return ExitCanceled
	default:
		return ExitScanFailed
	}
}
