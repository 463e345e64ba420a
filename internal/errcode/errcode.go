// Package errcode names the oops error codes ahkdoc reports and maps them to
// process exit statuses.
package errcode

import (
	"fmt"

	"github.com/samber/oops"
)

const (
	ConfigNotFound   = "CONFIG_NOT_FOUND"
	ConfigInvalid    = "CONFIG_INVALID"
	InputNotFound    = "INPUT_NOT_FOUND"
	InputInvalid     = "INPUT_INVALID"
	OutputDirMissing = "OUTPUT_DIR_MISSING"
	TagParseFailed   = "TAG_PARSE_FAILED"
	RenderFailed     = "RENDER_FAILED"
	WriteFailed      = "WRITE_FAILED"
	DownloadFailed   = "DOWNLOAD_FAILED"
	LockError        = "LOCK_ERROR"
	ManifestNotFound = "MANIFEST_NOT_FOUND"
	ManifestInvalid  = "MANIFEST_CORRUPTED"
	ManifestWrite    = "MANIFEST_WRITE_ERROR"
	InvalidArgs      = "INVALID_ARGS"
	ClassNotFound    = "CLASS_NOT_FOUND"
	PageReadFailed   = "PAGE_READ_ERROR"
)

// ExitGeneric is returned for errors without a dedicated status.
const ExitGeneric = 1

var exitCodes = map[string]int{
	ConfigNotFound:   2,
	ConfigInvalid:    2,
	InputNotFound:    3,
	OutputDirMissing: 4,
	InputInvalid:     5,
	TagParseFailed:   6,
	RenderFailed:     7,
}

// Of returns the oops code attached to err, or "" when there is none.
func Of(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}

	code := fmt.Sprint(oopsErr.Code())
	if code == "<nil>" {
		return ""
	}

	return code
}

// ExitCode maps err to a process exit status. A nil error maps to 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	if code, ok := exitCodes[Of(err)]; ok {
		return code
	}

	return ExitGeneric
}
