package shell

import "errors"

// Lookup errors.
var (
	ErrQueryingLookupFailed    = errors.New("querying lookup failed")
	ErrScanningLookupRowFailed = errors.New("scanning lookup row failed")
	ErrApplyingSchemaFailed    = errors.New("applying schema failed")
)
