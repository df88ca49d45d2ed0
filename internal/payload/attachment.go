package payload

import (
	"fmt"
	"strings"

	"github.com/h2non/filetype"

	"github.com/gebeyahub/profile-engine/internal/models"
)

// Accepted MIME types per attachment slot. The real type is determined
// from the magic bytes, not from the filename.
var (
	imageMimeTypes = map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
	}

	documentMimeTypes = map[string]bool{
		"image/jpeg":      true,
		"image/png":       true,
		"image/gif":       true,
		"image/webp":      true,
		"application/pdf": true,
	}
)

// sniffAttachment determines the attachment's real MIME type from its
// leading bytes and checks it against the allowed set.
func sniffAttachment(att *models.Attachment, allowed map[string]bool) (string, error) {
	if len(att.Data) == 0 {
		return "", fmt.Errorf("payload: attachment %q is empty", att.Filename)
	}

	kind, err := filetype.Match(att.Data)
	if err != nil || kind == filetype.Unknown {
		return "", fmt.Errorf("payload: could not determine the type of %q", att.Filename)
	}

	contentType := kind.MIME.Value
	if !allowed[contentType] {
		return "", fmt.Errorf("payload: unsupported file type %s for %q, allowed: %s",
			contentType, att.Filename, strings.Join(allowedList(allowed), ", "))
	}

	return contentType, nil
}

func allowedList(allowed map[string]bool) []string {
	types := make([]string, 0, len(allowed))
	for t := range allowed {
		types = append(types, t)
	}
	return types
}
