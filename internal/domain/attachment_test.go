package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

func TestAttachmentFromMessage(t *testing.T) {
	t.Run("animation", func(t *testing.T) {
		att, err := AttachmentFromMessage(&tele.Message{
			Animation: &tele.Animation{File: tele.File{FileID: "anim-1"}},
		})
		require.NoError(t, err)
		require.Equal(t, AttachmentAnimation, att.Kind)
		require.Equal(t, "anim-1", att.FileID)
	})

	t.Run("photo", func(t *testing.T) {
		att, err := AttachmentFromMessage(&tele.Message{
			Photo: &tele.Photo{File: tele.File{FileID: "photo-1"}},
		})
		require.NoError(t, err)
		require.Equal(t, AttachmentPhoto, att.Kind)
	})

	t.Run("video", func(t *testing.T) {
		att, err := AttachmentFromMessage(&tele.Message{
			Video: &tele.Video{File: tele.File{FileID: "video-1"}},
		})
		require.NoError(t, err)
		require.Equal(t, AttachmentVideo, att.Kind)
	})

	// Telegram sends a GIF as an animation with a thumbnail photo attached;
	// the animation must win.
	t.Run("animation wins over photo", func(t *testing.T) {
		att, err := AttachmentFromMessage(&tele.Message{
			Animation: &tele.Animation{File: tele.File{FileID: "anim-2"}},
			Photo:     &tele.Photo{File: tele.File{FileID: "photo-2"}},
		})
		require.NoError(t, err)
		require.Equal(t, AttachmentAnimation, att.Kind)
		require.Equal(t, "anim-2", att.FileID)
	})

	t.Run("text only", func(t *testing.T) {
		_, err := AttachmentFromMessage(&tele.Message{Text: "hello"})
		require.ErrorIs(t, err, ErrUnsupportedAttachment)
	})

	t.Run("document", func(t *testing.T) {
		_, err := AttachmentFromMessage(&tele.Message{
			Document: &tele.Document{File: tele.File{FileID: "doc-1"}},
		})
		require.ErrorIs(t, err, ErrUnsupportedAttachment)
	})

	t.Run("nil message", func(t *testing.T) {
		_, err := AttachmentFromMessage(nil)
		require.ErrorIs(t, err, ErrUnsupportedAttachment)
	})
}

func TestSendableCarriesCaption(t *testing.T) {
	photo := Attachment{Kind: AttachmentPhoto, FileID: "photo-1"}.Sendable("подпись")
	p, ok := photo.(*tele.Photo)
	require.True(t, ok)
	require.Equal(t, "подпись", p.Caption)
	require.Equal(t, "photo-1", p.FileID)

	video := Attachment{Kind: AttachmentVideo, FileID: "video-1"}.Sendable("")
	v, ok := video.(*tele.Video)
	require.True(t, ok)
	require.Empty(t, v.Caption)

	anim := Attachment{Kind: AttachmentAnimation, FileID: "anim-1"}.Sendable("x")
	a, ok := anim.(*tele.Animation)
	require.True(t, ok)
	require.Equal(t, "x", a.Caption)

	require.Nil(t, Attachment{Kind: "sticker"}.Sendable(""))
}
