// AngelaMos | 2026
// validate.go

package resume

import (
	"bytes"
	"path"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/carterperez-dev/jobboard/internal/core"
)

const (
	pdfMIME = "application/pdf"

	// sniffLen is how much of the upload is inspected before it is stored.
	sniffLen = 3072
)

var (
	pdfMagic = []byte("%PDF")

	storedNamePattern   = regexp.MustCompile(`^[a-f0-9]{32}\.pdf$`)
	originalNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 _.\-]{0,250}\.[pP][dD][fF]$`)
)

// NewFileName returns a random, collision resistant stored name.
func NewFileName() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "") + ".pdf"
}

// IsStoredName reports whether name could have been produced by
// NewFileName. Anything else is rejected before touching storage.
func IsStoredName(name string) bool {
	return storedNamePattern.MatchString(name)
}

func ValidateOriginalName(name string) error {
	if strings.Contains(name, "..") || !originalNamePattern.MatchString(name) {
		return core.BadRequestError("Invalid file name")
	}
	return nil
}

// ValidateContent checks the leading bytes of an upload: the sniffed type
// must be PDF and the PDF signature must be present.
func ValidateContent(head []byte) error {
	if len(head) < len(pdfMagic) || !bytes.HasPrefix(head, pdfMagic) {
		return core.BadRequestError("Only PDF files are allowed")
	}
	if !mimetype.Detect(head).Is(pdfMIME) {
		return core.BadRequestError("Only PDF files are allowed")
	}
	return nil
}

// FileNameFromRef extracts the stored name from a reference like
// /v1/profiles/resumes/<name>.
func FileNameFromRef(ref string) string {
	return path.Base(ref)
}
