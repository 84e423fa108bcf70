package metadata

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
)

// catalogIDDescription is the TXXX frame description under which the
// matched catalog ID is stored.
const catalogIDDescription = "CATALOG_ID"

// AnnotateMP3 stamps the matched catalog ID into a user-defined text
// frame so later runs can recognize the file as already resolved.
// Non-MP3 files are skipped silently: only ID3 containers are writable
// here.
func AnnotateMP3(path, catalogID string) error {
	if strings.ToLower(filepath.Ext(path)) != ".mp3" {
		return nil
	}
	if MP3CatalogID(path) == catalogID {
		return nil
	}
	frames, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open id3 tag: %w", err)
	}
	defer frames.Close()

	frames.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
		Encoding:    id3v2.EncodingUTF8,
		Description: catalogIDDescription,
		Value:       catalogID,
	})
	if err := frames.Save(); err != nil {
		return fmt.Errorf("save id3 tag: %w", err)
	}
	return nil
}

// MP3CatalogID returns the catalog ID a previous run stored in the file,
// or the empty string when none is present or the tag is unreadable.
func MP3CatalogID(path string) string {
	if strings.ToLower(filepath.Ext(path)) != ".mp3" {
		return ""
	}
	frames, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return ""
	}
	defer frames.Close()

	for _, frame := range frames.GetFrames("TXXX") {
		if udtf, ok := frame.(id3v2.UserDefinedTextFrame); ok && udtf.Description == catalogIDDescription {
			return udtf.Value
		}
	}
	return ""
}
