package validation

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// UploadInfo describes the sniffed content of an upload
type UploadInfo struct {
	MIME      string
	Extension string
	Supported bool
}

// UploadValidator sniffs uploaded bytes against the decodable image formats
type UploadValidator struct {
	allowedTypes []string
}

// NewUploadValidator creates an upload validator accepting every format the
// analyzer can decode
func NewUploadValidator() *UploadValidator {
	return &UploadValidator{
		allowedTypes: []string{
			"image/jpeg",
			"image/png",
			"image/gif",
			"image/bmp",
			"image/tiff",
			"image/webp",
		},
	}
}

// NewUploadValidatorWithTypes creates an upload validator with custom MIME types
func NewUploadValidatorWithTypes(types []string) *UploadValidator {
	return &UploadValidator{
		allowedTypes: types,
	}
}

// Inspect detects the content type of data. Unsupported content is reported,
// not rejected: the analyzer turns it into a decode failure.
func (v *UploadValidator) Inspect(data []byte) UploadInfo {
	if len(data) == 0 {
		return UploadInfo{}
	}

	mtype := mimetype.Detect(data)
	return UploadInfo{
		MIME:      mtype.String(),
		Extension: mtype.Extension(),
		Supported: v.isTypeAllowed(mtype),
	}
}

// StagingName keeps the client's filename when it has an extension and
// otherwise appends the sniffed one
func (v *UploadValidator) StagingName(filename string, info UploadInfo) string {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "." || name == string(filepath.Separator) {
		name = "upload"
	}
	if filepath.Ext(name) == "" && info.Extension != "" {
		name += info.Extension
	}
	return name
}

func (v *UploadValidator) isTypeAllowed(mtype *mimetype.MIME) bool {
	for _, allowed := range v.allowedTypes {
		if mtype.Is(allowed) {
			return true
		}
	}
	return false
}

// NormalizeText trims user-supplied text. Whitespace-only input becomes empty.
func NormalizeText(s string) string {
	return strings.TrimSpace(s)
}
