package domain

import tele "gopkg.in/telebot.v4"

// AttachmentKind enumerates the media types the bot re-posts.
type AttachmentKind string

const (
	AttachmentAnimation AttachmentKind = "animation"
	AttachmentPhoto     AttachmentKind = "photo"
	AttachmentVideo     AttachmentKind = "video"
)

// Attachment is a tagged media reference decided once at message ingestion.
type Attachment struct {
	Kind   AttachmentKind
	FileID string
}

// AttachmentFromMessage classifies the message's media. Animation wins over
// photo, photo over video.
func AttachmentFromMessage(m *tele.Message) (Attachment, error) {
	switch {
	case m == nil:
		return Attachment{}, ErrUnsupportedAttachment
	case m.Animation != nil:
		return Attachment{Kind: AttachmentAnimation, FileID: m.Animation.FileID}, nil
	case m.Photo != nil:
		return Attachment{Kind: AttachmentPhoto, FileID: m.Photo.FileID}, nil
	case m.Video != nil:
		return Attachment{Kind: AttachmentVideo, FileID: m.Video.FileID}, nil
	default:
		return Attachment{}, ErrUnsupportedAttachment
	}
}

// Sendable converts the attachment into a telebot media object with caption.
func (a Attachment) Sendable(caption string) tele.Sendable {
	file := tele.File{FileID: a.FileID}
	switch a.Kind {
	case AttachmentAnimation:
		return &tele.Animation{File: file, Caption: caption}
	case AttachmentPhoto:
		return &tele.Photo{File: file, Caption: caption}
	case AttachmentVideo:
		return &tele.Video{File: file, Caption: caption}
	}
	return nil
}
