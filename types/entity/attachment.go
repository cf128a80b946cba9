package entity

// AttachmentRef points to a blob owned by exactly one record.
// Only the URL is persisted; Key is always re-derived from it.
type AttachmentRef struct {
	Key string `json:"key,omitempty"`
	Url string `json:"url,omitempty"`
}

// PendingUpload is a not-yet-stored image payload.
type PendingUpload struct {
	Content      []byte `json:"-"`
	ContentType  string `json:"content_type,omitempty"`
	OriginalName string `json:"original_name,omitempty"`
}

type ImageAction int32

const (
	ImageKeep ImageAction = iota
	ImageRemove
	ImageReplace
)

// ImageIntent describes what an update wants done with the record's image.
// Upload is set only when Action is ImageReplace.
type ImageIntent struct {
	Action ImageAction
	Upload *PendingUpload
}

func KeepImage() ImageIntent {
	return ImageIntent{Action: ImageKeep}
}

func RemoveImage() ImageIntent {
	return ImageIntent{Action: ImageRemove}
}

func ReplaceImage(upload *PendingUpload) ImageIntent {
	return ImageIntent{Action: ImageReplace, Upload: upload}
}
