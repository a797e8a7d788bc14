package model

import (
	"io"

	"vidtube/internal/apperr"
)

// MediaKind selects the folder, size limit and normalization for an upload.
type MediaKind string

const (
	MediaAvatar    MediaKind = "avatar"
	MediaCover     MediaKind = "cover"
	MediaThumbnail MediaKind = "thumbnail"
	MediaVideo     MediaKind = "video"
)

// Valid reports whether k is one of the known kinds.
func (k MediaKind) Valid() bool {
	switch k {
	case MediaAvatar, MediaCover, MediaThumbnail, MediaVideo:
		return true
	}
	return false
}

// IsImage reports whether the kind is normalized as an image.
func (k MediaKind) IsImage() bool { return k != MediaVideo }

// Folder is the object key prefix for the kind.
func (k MediaKind) Folder() string {
	switch k {
	case MediaAvatar:
		return "avatars"
	case MediaCover:
		return "covers"
	case MediaThumbnail:
		return "thumbnails"
	default:
		return "videos"
	}
}

// Dimensions returns the target size for image kinds.
func (k MediaKind) Dimensions() (width, height int) {
	switch k {
	case MediaAvatar:
		return AvatarWidth, AvatarHeight
	case MediaCover:
		return 1600, 400
	case MediaThumbnail:
		return 1280, 720
	default:
		return 0, 0
	}
}

// MaxSize is the upload limit in bytes for the kind.
func (k MediaKind) MaxSize() int64 {
	if k == MediaVideo {
		return MaxVideoSize
	}
	return MaxImageSizeBytes
}

const (
	MaxImageSizeBytes = 5 * 1024 * 1024 // 5MB
	AvatarWidth       = 200
	AvatarHeight      = 200
	ImageExt          = ".jpg"
	MediaCacheControl = "public, max-age=31536000" // 1 year
)

// Supported content types for upload validation
const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
	ContentTypeGIF  = "image/gif"
	ContentTypeWebP = "image/webp"
	ContentTypeMP4  = "video/mp4"
	ContentTypeWebM = "video/webm"
	ContentTypeMOV  = "video/quicktime"
)

var allowedImageTypes = map[string]struct{}{
	ContentTypeJPEG: {},
	ContentTypePNG:  {},
	ContentTypeGIF:  {},
	ContentTypeWebP: {},
}

var allowedVideoTypes = map[string]string{
	ContentTypeMP4:  ".mp4",
	ContentTypeWebM: ".webm",
	ContentTypeMOV:  ".mov",
}

// Error codes for HTTP responses
const (
	CodeFileTooLarge     = "FILE_TOO_LARGE"
	CodeInvalidMediaType = "INVALID_MEDIA_TYPE"
)

// Domain errors for media operations
var (
	ErrFileTooLarge     = apperr.NewCode(apperr.InvalidRequest, CodeFileTooLarge, "file too large")
	ErrInvalidMediaType = apperr.NewCode(apperr.InvalidRequest, CodeInvalidMediaType, "unsupported media type")
	ErrUploadFailed     = apperr.New(apperr.Upstream, "media upload failed")
)

// MediaFile is an incoming file part.
type MediaFile struct {
	Reader      io.Reader
	ContentType string
	Size        int64
}

// UploadResult represents the uploaded object location.
// Key is the object key inside the bucket, needed for later deletes.
type UploadResult struct {
	URL      string   `json:"url"`
	Key      string   `json:"key"`
	Duration *float64 `json:"duration,omitempty"`
}

// IsAllowedContentType reports if the content type is accepted for the kind.
func IsAllowedContentType(kind MediaKind, contentType string) bool {
	if kind == MediaVideo {
		_, ok := allowedVideoTypes[contentType]
		return ok
	}
	_, ok := allowedImageTypes[contentType]
	return ok
}

// VideoExt returns the file extension for a video content type.
func VideoExt(contentType string) string {
	if ext, ok := allowedVideoTypes[contentType]; ok {
		return ext
	}
	return ".bin"
}
