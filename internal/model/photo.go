package model

// Photo is one row of the photos table.
//
// PhotoID doubles as the media filename stem: the uploaded GIF for photo
// "cv37rs3pp9olc6atsptg" lives at {MEDIA_DIR}/cv37rs3pp9olc6atsptg.gif.
// IDs are xid strings, which sort by creation time.
type Photo struct {
	PhotoID string `json:"photoId"`
	Name    string `json:"name"`
}
