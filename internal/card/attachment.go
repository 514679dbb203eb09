package card

import (
	"encoding/json"
	"path"
	"strings"
)

const spoilerPrefix = "SPOILER_"

// Attachment is a rendered card wrapped as a chat message attachment.
type Attachment struct {
	Name        string
	Description string
	Data        []byte
}

func NewAttachment(data []byte, name, description string) *Attachment {
	return &Attachment{Name: name, Description: description, Data: data}
}

func (a *Attachment) SetName(name string) *Attachment {
	a.Name = name
	return a
}

func (a *Attachment) SetDescription(description string) *Attachment {
	a.Description = description
	return a
}

func (a *Attachment) SetFile(data []byte) *Attachment {
	a.Data = data
	return a
}

// SetSpoiler adds or removes the spoiler marker. Removing strips every
// stacked marker.
func (a *Attachment) SetSpoiler(spoiler bool) *Attachment {
	if spoiler == a.Spoiler() {
		return a
	}

	dir, base := path.Split(a.Name)
	if spoiler {
		a.Name = dir + spoilerPrefix + base
		return a
	}

	for strings.HasPrefix(base, spoilerPrefix) {
		base = base[len(spoilerPrefix):]
	}
	a.Name = dir + base
	return a
}

// Spoiler reports whether the file name, without directories or a query
// string, carries the spoiler marker.
func (a *Attachment) Spoiler() bool {
	base := path.Base(a.Name)
	if i := strings.IndexByte(base, '?'); i >= 0 {
		base = base[:i]
	}
	return strings.HasPrefix(base, spoilerPrefix)
}

type attachmentJSON struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Attachment  []byte `json:"attachment"`
}

func (a *Attachment) MarshalJSON() ([]byte, error) {
	return json.Marshal(attachmentJSON{
		Name:        a.Name,
		Description: a.Description,
		Attachment:  a.Data,
	})
}

func (a *Attachment) UnmarshalJSON(b []byte) error {
	var v attachmentJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	a.Name = v.Name
	a.Description = v.Description
	a.Data = v.Attachment
	return nil
}
