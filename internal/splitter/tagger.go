package splitter

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"
)

// applyID3Title writes the chapter title and track number into the file's
// ID3 tag. ffmpeg already sets container-level metadata during extraction;
// this covers MP3 players that only read ID3 frames. Non-MP3 files are
// left to the container metadata.
func applyID3Title(path, title string, track int) error {
	if strings.ToLower(filepath.Ext(path)) != ".mp3" {
		return nil
	}
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()
	tag.SetTitle(title)
	tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, fmt.Sprintf("%d", track))
	return tag.Save()
}
